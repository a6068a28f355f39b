package numbering

import (
	"strconv"

	"github.com/ternarybob/neuink/internal/models"
)

// Kind identifies what a reference index entry points at.
type Kind string

const (
	KindSection  Kind = "section"
	KindFigure   Kind = "figure"
	KindTable    Kind = "table"
	KindEquation Kind = "equation"
	KindCitation Kind = "citation"
)

// Entry is one resolvable reference target.
type Entry struct {
	Kind  Kind
	Label string
}

// RefIndex maps a target id to its current number. Inline reference nodes
// store only the target id, so display text is always resolved against the
// latest numbering instead of going stale inside the document.
type RefIndex map[string]Entry

// BuildRefIndex collects every numbered target in content. The content
// should already have been through Apply, otherwise the labels reflect
// whatever stale numbers the document carries.
func BuildRefIndex(content *models.PaperContent) RefIndex {
	idx := make(RefIndex)

	content.WalkSections(func(s *models.Section) bool {
		if s.ID != "" && s.Number != "" {
			idx[s.ID] = Entry{Kind: KindSection, Label: s.Number}
		}
		return true
	})

	content.WalkBlocks(func(b models.Block) bool {
		switch v := b.(type) {
		case *models.FigureBlock:
			if v.ID != "" && v.Number > 0 {
				idx[v.ID] = Entry{Kind: KindFigure, Label: strconv.Itoa(v.Number)}
			}
		case *models.TableBlock:
			if v.ID != "" && v.Number > 0 {
				idx[v.ID] = Entry{Kind: KindTable, Label: strconv.Itoa(v.Number)}
			}
		case *models.MathBlock:
			if v.ID != "" && v.Number > 0 {
				idx[v.ID] = Entry{Kind: KindEquation, Label: strconv.Itoa(v.Number)}
			}
		}
		return true
	})

	for _, r := range content.References {
		if r != nil && r.ID != "" && r.Number > 0 {
			idx[r.ID] = Entry{Kind: KindCitation, Label: strconv.Itoa(r.Number)}
		}
	}

	return idx
}

// DisplayText renders the reader-facing label for a reference inline.
// Dangling targets (the block was deleted after the reference was written)
// render as a visible placeholder rather than an error.
func (idx RefIndex) DisplayText(n models.Inline) string {
	lookup := func(id string) (Entry, bool) {
		e, ok := idx[id]
		return e, ok
	}

	switch v := n.(type) {
	case *models.Citation:
		if e, ok := lookup(v.TargetID); ok {
			return "[" + e.Label + "]"
		}
		return "[?]"
	case *models.FigureRef:
		if e, ok := lookup(v.TargetID); ok {
			return "Figure " + e.Label
		}
		return "Figure ?"
	case *models.TableRef:
		if e, ok := lookup(v.TargetID); ok {
			return "Table " + e.Label
		}
		return "Table ?"
	case *models.EquationRef:
		if e, ok := lookup(v.TargetID); ok {
			return "Eq. (" + e.Label + ")"
		}
		return "Eq. (?)"
	case *models.SectionRef:
		if e, ok := lookup(v.TargetID); ok {
			return "Section " + e.Label
		}
		return "Section ?"
	}
	return ""
}
