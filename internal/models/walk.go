package models

import (
	"fmt"
	"strings"
)

// Tree traversal utilities. Document order is always: a section's own
// content first, then its subsections, depth first. Numbering, navigation
// and rendering all rely on this order being identical everywhere.

// WalkSections visits every section depth first, parents before children.
// Return false from fn to stop the walk early.
func (c *PaperContent) WalkSections(fn func(*Section) bool) {
	walkSections(c.Sections, fn)
}

func walkSections(sections []*Section, fn func(*Section) bool) bool {
	for _, s := range sections {
		if s == nil {
			continue
		}
		if !fn(s) {
			return false
		}
		if !walkSections(s.Subsections, fn) {
			return false
		}
	}
	return true
}

// WalkBlocks visits every block in document order. Return false from fn to
// stop the walk early.
func (c *PaperContent) WalkBlocks(fn func(Block) bool) {
	walkSectionBlocks(c.Sections, fn)
}

func walkSectionBlocks(sections []*Section, fn func(Block) bool) bool {
	for _, s := range sections {
		if s == nil {
			continue
		}
		for _, b := range s.Content {
			if !fn(b) {
				return false
			}
		}
		if !walkSectionBlocks(s.Subsections, fn) {
			return false
		}
	}
	return true
}

// FlattenBlocks returns all blocks in document order.
func (c *PaperContent) FlattenBlocks() []Block {
	var out []Block
	c.WalkBlocks(func(b Block) bool {
		out = append(out, b)
		return true
	})
	return out
}

// FindBlock locates a block anywhere in the tree by id.
func (c *PaperContent) FindBlock(id string) Block {
	var found Block
	c.WalkBlocks(func(b Block) bool {
		if b.BlockID() == id {
			found = b
			return false
		}
		return true
	})
	return found
}

// FindSection locates a section anywhere in the tree by id.
func (c *PaperContent) FindSection(id string) *Section {
	var found *Section
	c.WalkSections(func(s *Section) bool {
		if s.ID == id {
			found = s
			return false
		}
		return true
	})
	return found
}

// FindReference locates a bibliography entry by id.
func (c *PaperContent) FindReference(id string) *Reference {
	for _, r := range c.References {
		if r != nil && r.ID == id {
			return r
		}
	}
	return nil
}

// ValidateIDs checks that section and block ids are present and unique
// across the whole tree. Notes and cross-references address the tree by id,
// so a duplicate would make anchors ambiguous.
func (c *PaperContent) ValidateIDs() error {
	seen := make(map[string]int)
	c.WalkSections(func(s *Section) bool {
		if s.ID == "" {
			seen[""]++
			return true
		}
		seen[s.ID]++
		return true
	})
	c.WalkBlocks(func(b Block) bool {
		if b.BlockID() == "" {
			seen[""]++
			return true
		}
		seen[b.BlockID()]++
		return true
	})

	if seen[""] > 0 {
		return fmt.Errorf("%d tree nodes are missing an id", seen[""])
	}
	var dups []string
	for id, count := range seen {
		if count > 1 {
			dups = append(dups, id)
		}
	}
	if len(dups) > 0 {
		return fmt.Errorf("duplicate tree ids: %s", strings.Join(dups, ", "))
	}
	return nil
}

// WalkBilinguals visits every bilingual inline slot in document order:
// section titles, block texts, captions, table cells and list items. The
// pointer is live, so callers may fill slots in place (the translation
// service does).
func (c *PaperContent) WalkBilinguals(fn func(*Bilingual) bool) {
	walkSectionBilinguals(c.Sections, fn)
}

func walkSectionBilinguals(sections []*Section, fn func(*Bilingual) bool) bool {
	for _, s := range sections {
		if s == nil {
			continue
		}
		if !fn(&s.Title) {
			return false
		}
		for _, b := range s.Content {
			if !walkBlockBilinguals(b, fn) {
				return false
			}
		}
		if !walkSectionBilinguals(s.Subsections, fn) {
			return false
		}
	}
	return true
}

func walkBlockBilinguals(b Block, fn func(*Bilingual) bool) bool {
	switch v := b.(type) {
	case *HeadingBlock:
		return fn(&v.Text)
	case *ParagraphBlock:
		return fn(&v.Text)
	case *FigureBlock:
		return fn(&v.Caption)
	case *TableBlock:
		if !fn(&v.Caption) {
			return false
		}
		for i := range v.Header {
			if !fn(&v.Header[i]) {
				return false
			}
		}
		for i := range v.Rows {
			for j := range v.Rows[i] {
				if !fn(&v.Rows[i][j]) {
					return false
				}
			}
		}
		return true
	case *OrderedListBlock:
		for i := range v.Items {
			if !fn(&v.Items[i]) {
				return false
			}
		}
		return true
	case *UnorderedListBlock:
		for i := range v.Items {
			if !fn(&v.Items[i]) {
				return false
			}
		}
		return true
	case *QuoteBlock:
		return fn(&v.Text)
	}
	// math, code and divider blocks carry no bilingual slots
	return true
}

// PlainText flattens the list to its readable text, dropping style flags,
// reference markers and math. Used for search indexing and language
// detection.
func (l InlineList) PlainText() string {
	var sb strings.Builder
	for _, n := range l {
		switch v := n.(type) {
		case *Text:
			sb.WriteString(v.Content)
		case *Link:
			sb.WriteString(v.Children.PlainText())
		case *Footnote:
			sb.WriteString(v.Content)
		}
	}
	return sb.String()
}
