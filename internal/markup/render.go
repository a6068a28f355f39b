package markup

import (
	"strings"

	"github.com/ternarybob/neuink/internal/models"
	"github.com/ternarybob/neuink/internal/numbering"
)

// Render converts inline nodes back to editing syntax. Figure, table,
// equation and section references get a display part when idx resolves the
// target ("[fig:blk_1|Figure 3]"), so the editor shows current numbers
// without persisting them. Citations always render bare because their
// display form contains brackets. A nil idx renders every reference bare.
func Render(nodes models.InlineList, idx numbering.RefIndex) string {
	var sb strings.Builder
	for _, n := range nodes {
		renderNode(&sb, n, idx)
	}
	return sb.String()
}

func renderNode(sb *strings.Builder, n models.Inline, idx numbering.RefIndex) {
	switch v := n.(type) {
	case *models.Text:
		if v.Bold {
			sb.WriteString("**")
			sb.WriteString(v.Content)
			sb.WriteString("**")
			return
		}
		sb.WriteString(v.Content)
	case *models.Link:
		sb.WriteString("[")
		sb.WriteString(Render(v.Children, idx))
		sb.WriteString("](")
		sb.WriteString(v.Href)
		sb.WriteString(")")
	case *models.InlineMath:
		sb.WriteString("[$")
		sb.WriteString(v.Latex)
		sb.WriteString("$]")
	case *models.Citation:
		sb.WriteString("[cite:")
		sb.WriteString(v.TargetID)
		sb.WriteString("]")
	case *models.FigureRef:
		renderRef(sb, "fig", v.TargetID, n, idx)
	case *models.TableRef:
		renderRef(sb, "tbl", v.TargetID, n, idx)
	case *models.EquationRef:
		renderRef(sb, "eq", v.TargetID, n, idx)
	case *models.SectionRef:
		renderRef(sb, "sec", v.TargetID, n, idx)
	case *models.Footnote:
		sb.WriteString("[^")
		sb.WriteString(v.Content)
		sb.WriteString("]")
	}
}

func renderRef(sb *strings.Builder, tag, targetID string, n models.Inline, idx numbering.RefIndex) {
	sb.WriteString("[")
	sb.WriteString(tag)
	sb.WriteString(":")
	sb.WriteString(targetID)
	if idx != nil {
		if _, ok := idx[targetID]; ok {
			sb.WriteString("|")
			sb.WriteString(idx.DisplayText(n))
		}
	}
	sb.WriteString("]")
}
