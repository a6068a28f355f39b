package models

import (
	"encoding/json"
	"fmt"
)

// Union (de)serialization for Block and Inline. Encoding adds a "type"
// discriminator next to the variant's own fields; decoding probes the
// discriminator and dispatches to the concrete type. An unknown or missing
// type is a decode error, not a silent skip.

// UnmarshalBlock decodes a single block from its JSON object form.
func UnmarshalBlock(data []byte) (Block, error) {
	var probe struct {
		Type BlockType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to read block type: %w", err)
	}

	var block Block
	switch probe.Type {
	case BlockTypeHeading:
		block = &HeadingBlock{}
	case BlockTypeParagraph:
		block = &ParagraphBlock{}
	case BlockTypeMath:
		block = &MathBlock{}
	case BlockTypeFigure:
		block = &FigureBlock{}
	case BlockTypeTable:
		block = &TableBlock{}
	case BlockTypeCode:
		block = &CodeBlock{}
	case BlockTypeOrderedList:
		block = &OrderedListBlock{}
	case BlockTypeUnorderedList:
		block = &UnorderedListBlock{}
	case BlockTypeQuote:
		block = &QuoteBlock{}
	case BlockTypeDivider:
		block = &DividerBlock{}
	case "":
		return nil, fmt.Errorf("block is missing the type field")
	default:
		return nil, fmt.Errorf("unknown block type %q", probe.Type)
	}

	if err := json.Unmarshal(data, block); err != nil {
		return nil, fmt.Errorf("failed to decode %s block: %w", probe.Type, err)
	}
	return block, nil
}

// UnmarshalInline decodes a single inline node from its JSON object form.
func UnmarshalInline(data []byte) (Inline, error) {
	var probe struct {
		Type InlineType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to read inline type: %w", err)
	}

	var node Inline
	switch probe.Type {
	case InlineTypeText:
		node = &Text{}
	case InlineTypeLink:
		node = &Link{}
	case InlineTypeMath:
		node = &InlineMath{}
	case InlineTypeCitation:
		node = &Citation{}
	case InlineTypeFigureRef:
		node = &FigureRef{}
	case InlineTypeTableRef:
		node = &TableRef{}
	case InlineTypeEquationRef:
		node = &EquationRef{}
	case InlineTypeSectionRef:
		node = &SectionRef{}
	case InlineTypeFootnote:
		node = &Footnote{}
	case "":
		return nil, fmt.Errorf("inline node is missing the type field")
	default:
		return nil, fmt.Errorf("unknown inline type %q", probe.Type)
	}

	if err := json.Unmarshal(data, node); err != nil {
		return nil, fmt.Errorf("failed to decode %s inline: %w", probe.Type, err)
	}
	return node, nil
}

// UnmarshalJSON decodes a heterogeneous block array.
func (l *BlockList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(BlockList, 0, len(raws))
	for i, raw := range raws {
		block, err := UnmarshalBlock(raw)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, block)
	}
	*l = out
	return nil
}

// UnmarshalJSON decodes a heterogeneous inline array.
func (l *InlineList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(InlineList, 0, len(raws))
	for i, raw := range raws {
		node, err := UnmarshalInline(raw)
		if err != nil {
			return fmt.Errorf("inline %d: %w", i, err)
		}
		out = append(out, node)
	}
	*l = out
	return nil
}

func (b *HeadingBlock) MarshalJSON() ([]byte, error) {
	type alias HeadingBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeHeading, (*alias)(b)})
}

func (b *ParagraphBlock) MarshalJSON() ([]byte, error) {
	type alias ParagraphBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeParagraph, (*alias)(b)})
}

func (b *MathBlock) MarshalJSON() ([]byte, error) {
	type alias MathBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeMath, (*alias)(b)})
}

func (b *FigureBlock) MarshalJSON() ([]byte, error) {
	type alias FigureBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeFigure, (*alias)(b)})
}

func (b *TableBlock) MarshalJSON() ([]byte, error) {
	type alias TableBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeTable, (*alias)(b)})
}

func (b *CodeBlock) MarshalJSON() ([]byte, error) {
	type alias CodeBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeCode, (*alias)(b)})
}

func (b *OrderedListBlock) MarshalJSON() ([]byte, error) {
	type alias OrderedListBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeOrderedList, (*alias)(b)})
}

func (b *UnorderedListBlock) MarshalJSON() ([]byte, error) {
	type alias UnorderedListBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeUnorderedList, (*alias)(b)})
}

func (b *QuoteBlock) MarshalJSON() ([]byte, error) {
	type alias QuoteBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeQuote, (*alias)(b)})
}

func (b *DividerBlock) MarshalJSON() ([]byte, error) {
	type alias DividerBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		*alias
	}{BlockTypeDivider, (*alias)(b)})
}

func (n *Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type InlineType `json:"type"`
		*alias
	}{InlineTypeText, (*alias)(n)})
}

func (n *Link) MarshalJSON() ([]byte, error) {
	type alias Link
	return json.Marshal(struct {
		Type InlineType `json:"type"`
		*alias
	}{InlineTypeLink, (*alias)(n)})
}

func (n *InlineMath) MarshalJSON() ([]byte, error) {
	type alias InlineMath
	return json.Marshal(struct {
		Type InlineType `json:"type"`
		*alias
	}{InlineTypeMath, (*alias)(n)})
}

func (n *Citation) MarshalJSON() ([]byte, error) {
	type alias Citation
	return json.Marshal(struct {
		Type InlineType `json:"type"`
		*alias
	}{InlineTypeCitation, (*alias)(n)})
}

func (n *FigureRef) MarshalJSON() ([]byte, error) {
	type alias FigureRef
	return json.Marshal(struct {
		Type InlineType `json:"type"`
		*alias
	}{InlineTypeFigureRef, (*alias)(n)})
}

func (n *TableRef) MarshalJSON() ([]byte, error) {
	type alias TableRef
	return json.Marshal(struct {
		Type InlineType `json:"type"`
		*alias
	}{InlineTypeTableRef, (*alias)(n)})
}

func (n *EquationRef) MarshalJSON() ([]byte, error) {
	type alias EquationRef
	return json.Marshal(struct {
		Type InlineType `json:"type"`
		*alias
	}{InlineTypeEquationRef, (*alias)(n)})
}

func (n *SectionRef) MarshalJSON() ([]byte, error) {
	type alias SectionRef
	return json.Marshal(struct {
		Type InlineType `json:"type"`
		*alias
	}{InlineTypeSectionRef, (*alias)(n)})
}

func (n *Footnote) MarshalJSON() ([]byte, error) {
	type alias Footnote
	return json.Marshal(struct {
		Type InlineType `json:"type"`
		*alias
	}{InlineTypeFootnote, (*alias)(n)})
}
