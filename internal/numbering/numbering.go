// Package numbering recomputes the derived numbers of a paper document:
// dotted section numbers, global figure/table/equation counters and
// bibliography positions. The pass is pure. It never mutates its input and
// running it twice yields identical output.
package numbering

import (
	"strconv"
	"strings"

	"github.com/ternarybob/neuink/internal/models"
)

// Apply returns a deep copy of content with every derived numbering field
// recomputed. Section numbers are positional (reordering arrays renumbers
// all descendants), figure and table counters run globally across section
// boundaries, and only labeled math blocks receive an equation number.
func Apply(content *models.PaperContent) *models.PaperContent {
	out := content.Clone()

	numberSections(out.Sections, "")

	var figures, tables, equations int
	out.WalkBlocks(func(b models.Block) bool {
		switch v := b.(type) {
		case *models.FigureBlock:
			figures++
			v.Number = figures
		case *models.TableBlock:
			tables++
			v.Number = tables
		case *models.MathBlock:
			if strings.TrimSpace(v.Label) != "" {
				equations++
				v.Number = equations
			} else {
				v.Number = 0
			}
		}
		return true
	})

	for i, ref := range out.References {
		if ref == nil {
			continue
		}
		ref.Number = i + 1
	}

	return out
}

func numberSections(sections []*models.Section, parent string) {
	for i, s := range sections {
		if s == nil {
			continue
		}
		if parent == "" {
			s.Number = strconv.Itoa(i + 1)
		} else {
			s.Number = parent + "." + strconv.Itoa(i+1)
		}
		numberSections(s.Subsections, s.Number)
	}
}
