package models

// BlockType identifies the concrete variant of a Block on the wire.
type BlockType string

const (
	BlockTypeHeading       BlockType = "heading"
	BlockTypeParagraph     BlockType = "paragraph"
	BlockTypeMath          BlockType = "math"
	BlockTypeFigure        BlockType = "figure"
	BlockTypeTable         BlockType = "table"
	BlockTypeCode          BlockType = "code"
	BlockTypeOrderedList   BlockType = "ordered_list"
	BlockTypeUnorderedList BlockType = "unordered_list"
	BlockTypeQuote         BlockType = "quote"
	BlockTypeDivider       BlockType = "divider"
)

// Block is a renderable unit inside a section: paragraph, figure, table and
// so on. Concrete variants are distinguished by a "type" field in JSON and
// sealed by the unexported marker method. Every variant carries a stable ID
// that notes and inline reference markers point at.
//
// Number fields on figure, table and math variants are derived by the
// numbering pass from document position; they are never authoritative input.
type Block interface {
	BlockType() BlockType
	BlockID() string
	CloneBlock() Block
	block()
}

// BlockList is an ordered list of blocks with union-aware JSON decoding.
type BlockList []Block

// HeadingBlock is a sub-heading inside a section body (sections themselves
// carry their titles; headings are for unnumbered intra-section structure).
type HeadingBlock struct {
	ID    string    `json:"id"`
	Level int       `json:"level"`
	Text  Bilingual `json:"text"`
}

func (b *HeadingBlock) BlockType() BlockType { return BlockTypeHeading }
func (b *HeadingBlock) BlockID() string      { return b.ID }
func (b *HeadingBlock) block()               {}

// ParagraphBlock is a run of prose.
type ParagraphBlock struct {
	ID   string    `json:"id"`
	Text Bilingual `json:"text"`
}

func (b *ParagraphBlock) BlockType() BlockType { return BlockTypeParagraph }
func (b *ParagraphBlock) BlockID() string      { return b.ID }
func (b *ParagraphBlock) block()               {}

// MathBlock is a display equation. A block receives a derived Number only
// when Label is non-empty; unlabeled equations render unnumbered.
type MathBlock struct {
	ID     string `json:"id"`
	Latex  string `json:"latex"`
	Label  string `json:"label,omitempty"`
	Number int    `json:"number,omitempty"`
}

func (b *MathBlock) BlockType() BlockType { return BlockTypeMath }
func (b *MathBlock) BlockID() string      { return b.ID }
func (b *MathBlock) block()               {}

// FigureBlock references an uploaded image by relative path.
type FigureBlock struct {
	ID      string    `json:"id"`
	Src     string    `json:"src"`
	Alt     string    `json:"alt,omitempty"`
	Caption Bilingual `json:"caption"`
	Number  int       `json:"number,omitempty"`
}

func (b *FigureBlock) BlockType() BlockType { return BlockTypeFigure }
func (b *FigureBlock) BlockID() string      { return b.ID }
func (b *FigureBlock) block()               {}

// TableBlock holds an optional header row plus body rows; every cell is a
// bilingual inline slot.
type TableBlock struct {
	ID      string        `json:"id"`
	Caption Bilingual     `json:"caption"`
	Header  []Bilingual   `json:"header,omitempty"`
	Rows    [][]Bilingual `json:"rows"`
	Number  int           `json:"number,omitempty"`
}

func (b *TableBlock) BlockType() BlockType { return BlockTypeTable }
func (b *TableBlock) BlockID() string      { return b.ID }
func (b *TableBlock) block()               {}

// CodeBlock is a verbatim listing; source is never bilingual.
type CodeBlock struct {
	ID       string `json:"id"`
	Language string `json:"language,omitempty"`
	Source   string `json:"source"`
}

func (b *CodeBlock) BlockType() BlockType { return BlockTypeCode }
func (b *CodeBlock) BlockID() string      { return b.ID }
func (b *CodeBlock) block()               {}

// OrderedListBlock is a numbered list; item numbering is presentational and
// not part of the numbering pass.
type OrderedListBlock struct {
	ID    string      `json:"id"`
	Items []Bilingual `json:"items"`
}

func (b *OrderedListBlock) BlockType() BlockType { return BlockTypeOrderedList }
func (b *OrderedListBlock) BlockID() string      { return b.ID }
func (b *OrderedListBlock) block()               {}

// UnorderedListBlock is a bulleted list.
type UnorderedListBlock struct {
	ID    string      `json:"id"`
	Items []Bilingual `json:"items"`
}

func (b *UnorderedListBlock) BlockType() BlockType { return BlockTypeUnorderedList }
func (b *UnorderedListBlock) BlockID() string      { return b.ID }
func (b *UnorderedListBlock) block()               {}

// QuoteBlock is a block quotation.
type QuoteBlock struct {
	ID   string    `json:"id"`
	Text Bilingual `json:"text"`
}

func (b *QuoteBlock) BlockType() BlockType { return BlockTypeQuote }
func (b *QuoteBlock) BlockID() string      { return b.ID }
func (b *QuoteBlock) block()               {}

// DividerBlock is a horizontal rule.
type DividerBlock struct {
	ID string `json:"id"`
}

func (b *DividerBlock) BlockType() BlockType { return BlockTypeDivider }
func (b *DividerBlock) BlockID() string      { return b.ID }
func (b *DividerBlock) block()               {}
