package models

// Deep-copy support. The numbering pass and the export pipeline operate on
// copies so callers' documents are never mutated.

// Clone returns a deep copy of the document.
func (c *PaperContent) Clone() *PaperContent {
	if c == nil {
		return nil
	}
	out := *c
	out.Metadata = *c.Metadata.Clone()
	if c.Keywords != nil {
		out.Keywords = append([]string(nil), c.Keywords...)
	}
	if c.Sections != nil {
		out.Sections = make([]*Section, len(c.Sections))
		for i, s := range c.Sections {
			out.Sections[i] = s.Clone()
		}
	}
	if c.References != nil {
		out.References = make([]*Reference, len(c.References))
		for i, r := range c.References {
			out.References[i] = r.Clone()
		}
	}
	if c.BlockNotes != nil {
		out.BlockNotes = make([]*BlockNote, len(c.BlockNotes))
		for i, n := range c.BlockNotes {
			out.BlockNotes[i] = n.Clone()
		}
	}
	if c.ChecklistNotes != nil {
		out.ChecklistNotes = make([]*ChecklistNote, len(c.ChecklistNotes))
		for i, n := range c.ChecklistNotes {
			out.ChecklistNotes[i] = n.Clone()
		}
	}
	if c.Attachments != nil {
		out.Attachments = make([]*Attachment, len(c.Attachments))
		for i, a := range c.Attachments {
			out.Attachments[i] = a.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the metadata.
func (m *ContentMetadata) Clone() *ContentMetadata {
	out := *m
	if m.Authors != nil {
		out.Authors = append([]string(nil), m.Authors...)
	}
	return &out
}

// Clone returns a deep copy of the section subtree.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	out := *s
	out.Title = s.Title.Clone()
	out.Content = s.Content.Clone()
	if s.Subsections != nil {
		out.Subsections = make([]*Section, len(s.Subsections))
		for i, sub := range s.Subsections {
			out.Subsections[i] = sub.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the block list.
func (l BlockList) Clone() BlockList {
	if l == nil {
		return nil
	}
	out := make(BlockList, len(l))
	for i, b := range l {
		out[i] = b.CloneBlock()
	}
	return out
}

// Clone returns a deep copy of the inline list.
func (l InlineList) Clone() InlineList {
	if l == nil {
		return nil
	}
	out := make(InlineList, len(l))
	for i, n := range l {
		out[i] = n.CloneInline()
	}
	return out
}

// Clone returns a deep copy of both language slots.
func (b Bilingual) Clone() Bilingual {
	return Bilingual{En: b.En.Clone(), Zh: b.Zh.Clone()}
}

func cloneBilingualRow(row []Bilingual) []Bilingual {
	if row == nil {
		return nil
	}
	out := make([]Bilingual, len(row))
	for i, c := range row {
		out[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the reference.
func (r *Reference) Clone() *Reference {
	if r == nil {
		return nil
	}
	out := *r
	if r.Authors != nil {
		out.Authors = append([]string(nil), r.Authors...)
	}
	return &out
}

// Clone returns a copy of the note.
func (n *BlockNote) Clone() *BlockNote {
	if n == nil {
		return nil
	}
	out := *n
	return &out
}

// Clone returns a copy of the note.
func (n *ChecklistNote) Clone() *ChecklistNote {
	if n == nil {
		return nil
	}
	out := *n
	return &out
}

// Clone returns a copy of the attachment record.
func (a *Attachment) Clone() *Attachment {
	if a == nil {
		return nil
	}
	out := *a
	return &out
}

func (b *HeadingBlock) CloneBlock() Block {
	out := *b
	out.Text = b.Text.Clone()
	return &out
}

func (b *ParagraphBlock) CloneBlock() Block {
	out := *b
	out.Text = b.Text.Clone()
	return &out
}

func (b *MathBlock) CloneBlock() Block {
	out := *b
	return &out
}

func (b *FigureBlock) CloneBlock() Block {
	out := *b
	out.Caption = b.Caption.Clone()
	return &out
}

func (b *TableBlock) CloneBlock() Block {
	out := *b
	out.Caption = b.Caption.Clone()
	out.Header = cloneBilingualRow(b.Header)
	if b.Rows != nil {
		out.Rows = make([][]Bilingual, len(b.Rows))
		for i, row := range b.Rows {
			out.Rows[i] = cloneBilingualRow(row)
		}
	}
	return &out
}

func (b *CodeBlock) CloneBlock() Block {
	out := *b
	return &out
}

func (b *OrderedListBlock) CloneBlock() Block {
	out := *b
	out.Items = cloneBilingualRow(b.Items)
	return &out
}

func (b *UnorderedListBlock) CloneBlock() Block {
	out := *b
	out.Items = cloneBilingualRow(b.Items)
	return &out
}

func (b *QuoteBlock) CloneBlock() Block {
	out := *b
	out.Text = b.Text.Clone()
	return &out
}

func (b *DividerBlock) CloneBlock() Block {
	out := *b
	return &out
}

func (n *Text) CloneInline() Inline {
	out := *n
	return &out
}

func (n *Link) CloneInline() Inline {
	out := *n
	out.Children = n.Children.Clone()
	return &out
}

func (n *InlineMath) CloneInline() Inline {
	out := *n
	return &out
}

func (n *Citation) CloneInline() Inline {
	out := *n
	return &out
}

func (n *FigureRef) CloneInline() Inline {
	out := *n
	return &out
}

func (n *TableRef) CloneInline() Inline {
	out := *n
	return &out
}

func (n *EquationRef) CloneInline() Inline {
	out := *n
	return &out
}

func (n *SectionRef) CloneInline() Inline {
	out := *n
	return &out
}

func (n *Footnote) CloneInline() Inline {
	out := *n
	return &out
}
