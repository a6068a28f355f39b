package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/neuink/internal/models"
	"github.com/ternarybob/neuink/internal/numbering"
)

// formatSearchResults formats search hits as markdown
func formatSearchResults(query string, results []*models.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Search Results for \"%s\" (%d results)\n\n", query, len(results)))

	if len(results) == 0 {
		sb.WriteString("No results found.\n")
		return sb.String()
	}

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. **%s** (%s)\n", i+1, r.Title, r.PaperID))
		sb.WriteString(fmt.Sprintf("   Score: %.2f\n", r.Score))
		if r.Fragment != "" {
			sb.WriteString(fmt.Sprintf("   > %s\n", r.Fragment))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatPaper formats a catalog entry as markdown. Content may be nil when
// the document could not be loaded; the catalog fields still render.
func formatPaper(paper *models.Paper, content *models.PaperContent) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", paper.Title))
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", paper.ID))
	if len(paper.Authors) > 0 {
		sb.WriteString(fmt.Sprintf("**Authors:** %s\n", strings.Join(paper.Authors, ", ")))
	}
	if paper.Venue != "" {
		sb.WriteString(fmt.Sprintf("**Venue:** %s\n", paper.Venue))
	}
	if paper.Year > 0 {
		sb.WriteString(fmt.Sprintf("**Year:** %d\n", paper.Year))
	}
	if paper.DOI != "" {
		sb.WriteString(fmt.Sprintf("**DOI:** %s\n", paper.DOI))
	}
	if paper.ArxivID != "" {
		sb.WriteString(fmt.Sprintf("**arXiv:** %s\n", paper.ArxivID))
	}
	if len(paper.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("**Tags:** %s\n", strings.Join(paper.Tags, ", ")))
	}
	sb.WriteString(fmt.Sprintf("**Reading:** %s (%d%%)\n", paper.ReadingStatus, paper.Progress))
	sb.WriteString(fmt.Sprintf("**Parse status:** %s\n", paper.ParseStatus))
	if paper.Rating > 0 {
		sb.WriteString(fmt.Sprintf("**Rating:** %d/5\n", paper.Rating))
	}
	if paper.HasChineseContent {
		sb.WriteString("**Translation:** zh content present\n")
	}
	sb.WriteString(fmt.Sprintf("**Updated:** %s\n", paper.UpdatedAt.Format(time.RFC3339)))

	if content != nil {
		if abstract := preferText(content.Abstract, "en"); abstract != "" {
			sb.WriteString("\n## Abstract\n\n")
			sb.WriteString(abstract)
			sb.WriteString("\n")
		}
		if len(content.Keywords) > 0 {
			sb.WriteString(fmt.Sprintf("\n**Keywords:** %s\n", strings.Join(content.Keywords, ", ")))
		}

		sections := 0
		content.WalkSections(func(*models.Section) bool {
			sections++
			return true
		})
		notes := len(content.BlockNotes) + len(content.ChecklistNotes)
		sb.WriteString(fmt.Sprintf("\n**Structure:** %d sections, %d references, %d notes, %d attachments\n",
			sections, len(content.References), notes, len(content.Attachments)))
	}

	return sb.String()
}

// formatPaperContent renders the full structured document as markdown in the
// requested language, falling back to en wherever zh is missing.
func formatPaperContent(content *models.PaperContent, lang string) string {
	idx := numbering.BuildRefIndex(content)

	var sb strings.Builder
	title := preferText(content.Metadata.Title, lang)
	if title == "" {
		title = content.PaperID
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	if len(content.Metadata.Authors) > 0 {
		sb.WriteString(fmt.Sprintf("**Authors:** %s\n", strings.Join(content.Metadata.Authors, ", ")))
	}
	if content.Metadata.Venue != "" || content.Metadata.Year > 0 {
		sb.WriteString(fmt.Sprintf("**Published:** %s %d\n", content.Metadata.Venue, content.Metadata.Year))
	}
	sb.WriteString("\n")

	if abstract := preferText(content.Abstract, lang); abstract != "" {
		sb.WriteString("## Abstract\n\n")
		sb.WriteString(abstract)
		sb.WriteString("\n\n")
	}
	if len(content.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("**Keywords:** %s\n\n", strings.Join(content.Keywords, ", ")))
	}

	for _, section := range content.Sections {
		writeSection(&sb, section, lang, idx, 0)
	}

	if len(content.References) > 0 {
		sb.WriteString("## References\n\n")
		for _, ref := range content.References {
			writeReference(&sb, ref)
		}
	}

	return sb.String()
}

// formatRecentPapers formats the recent papers list as markdown
func formatRecentPapers(papers []*models.Paper, limit int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Recent Papers (%d of %d)\n\n", len(papers), limit))

	if len(papers) == 0 {
		sb.WriteString("No papers found.\n")
		return sb.String()
	}

	for i, p := range papers {
		sb.WriteString(fmt.Sprintf("%d. **%s** (%s)\n", i+1, p.Title, p.ID))
		details := []string{fmt.Sprintf("%s %d%%", p.ReadingStatus, p.Progress)}
		if p.Year > 0 {
			details = append(details, fmt.Sprintf("%d", p.Year))
		}
		if len(p.Tags) > 0 {
			details = append(details, strings.Join(p.Tags, ", "))
		}
		sb.WriteString(fmt.Sprintf("   %s\n", strings.Join(details, " | ")))
		sb.WriteString(fmt.Sprintf("   Updated: %s\n\n", p.UpdatedAt.Format(time.RFC3339)))
	}

	return sb.String()
}

// preferText picks the requested side of a plain bilingual slot, falling
// back to en.
func preferText(t models.BilingualText, lang string) string {
	if lang == "zh" && t.Zh != "" {
		return t.Zh
	}
	return t.En
}

// preferInline picks the requested side of a rich bilingual slot and renders
// it for reading.
func preferInline(b models.Bilingual, lang string, idx numbering.RefIndex) string {
	if lang == "zh" && len(b.Zh) > 0 {
		return inlineText(b.Zh, idx)
	}
	return inlineText(b.En, idx)
}

// inlineText renders inline nodes as reading markdown: style flags become
// markdown emphasis and reference markers resolve to their display labels.
func inlineText(nodes models.InlineList, idx numbering.RefIndex) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch v := n.(type) {
		case *models.Text:
			text := v.Content
			if v.Code {
				text = "`" + text + "`"
			}
			if v.Bold {
				text = "**" + text + "**"
			}
			if v.Italic {
				text = "*" + text + "*"
			}
			if v.Strikethrough {
				text = "~~" + text + "~~"
			}
			sb.WriteString(text)
		case *models.Link:
			sb.WriteString(fmt.Sprintf("[%s](%s)", inlineText(v.Children, idx), v.Href))
		case *models.InlineMath:
			sb.WriteString("$" + v.Latex + "$")
		case *models.Citation, *models.FigureRef, *models.TableRef, *models.EquationRef, *models.SectionRef:
			sb.WriteString(idx.DisplayText(n))
		case *models.Footnote:
			sb.WriteString(fmt.Sprintf(" (%s)", v.Content))
		}
	}
	return sb.String()
}

func writeSection(sb *strings.Builder, s *models.Section, lang string, idx numbering.RefIndex, depth int) {
	level := depth + 2
	if level > 6 {
		level = 6
	}
	title := preferInline(s.Title, lang, idx)
	if s.Number != "" {
		title = s.Number + " " + title
	}
	sb.WriteString(strings.Repeat("#", level) + " " + title + "\n\n")

	for _, block := range s.Content {
		writeBlock(sb, block, lang, idx)
	}
	for _, sub := range s.Subsections {
		writeSection(sb, sub, lang, idx, depth+1)
	}
}

func writeBlock(sb *strings.Builder, b models.Block, lang string, idx numbering.RefIndex) {
	switch v := b.(type) {
	case *models.HeadingBlock:
		level := v.Level + 2
		if level > 6 {
			level = 6
		}
		sb.WriteString(strings.Repeat("#", level) + " " + preferInline(v.Text, lang, idx) + "\n\n")
	case *models.ParagraphBlock:
		sb.WriteString(preferInline(v.Text, lang, idx))
		sb.WriteString("\n\n")
	case *models.MathBlock:
		sb.WriteString("$$\n" + v.Latex + "\n$$\n")
		if v.Number > 0 {
			sb.WriteString(fmt.Sprintf("Eq. (%d)\n", v.Number))
		}
		sb.WriteString("\n")
	case *models.FigureBlock:
		sb.WriteString(fmt.Sprintf("![%s](%s)\n", v.Alt, v.Src))
		caption := preferInline(v.Caption, lang, idx)
		if v.Number > 0 {
			sb.WriteString(fmt.Sprintf("*Figure %d: %s*\n", v.Number, caption))
		} else if caption != "" {
			sb.WriteString("*" + caption + "*\n")
		}
		sb.WriteString("\n")
	case *models.TableBlock:
		caption := preferInline(v.Caption, lang, idx)
		if v.Number > 0 {
			sb.WriteString(fmt.Sprintf("*Table %d: %s*\n\n", v.Number, caption))
		} else if caption != "" {
			sb.WriteString("*" + caption + "*\n\n")
		}
		if len(v.Header) > 0 {
			writeTableRow(sb, v.Header, lang, idx)
			sb.WriteString("|" + strings.Repeat(" --- |", len(v.Header)) + "\n")
		}
		for _, row := range v.Rows {
			writeTableRow(sb, row, lang, idx)
		}
		sb.WriteString("\n")
	case *models.CodeBlock:
		sb.WriteString("```" + v.Language + "\n" + v.Source + "\n```\n\n")
	case *models.OrderedListBlock:
		for i, item := range v.Items {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, preferInline(item, lang, idx)))
		}
		sb.WriteString("\n")
	case *models.UnorderedListBlock:
		for _, item := range v.Items {
			sb.WriteString("- " + preferInline(item, lang, idx) + "\n")
		}
		sb.WriteString("\n")
	case *models.QuoteBlock:
		sb.WriteString("> " + preferInline(v.Text, lang, idx) + "\n\n")
	case *models.DividerBlock:
		sb.WriteString("---\n\n")
	}
}

func writeTableRow(sb *strings.Builder, cells []models.Bilingual, lang string, idx numbering.RefIndex) {
	sb.WriteString("|")
	for _, cell := range cells {
		sb.WriteString(" " + preferInline(cell, lang, idx) + " |")
	}
	sb.WriteString("\n")
}

func writeReference(sb *strings.Builder, r *models.Reference) {
	if r == nil {
		return
	}
	var parts []string
	if len(r.Authors) > 0 {
		parts = append(parts, strings.Join(r.Authors, ", "))
	}
	parts = append(parts, r.Title)
	if r.Venue != "" {
		parts = append(parts, r.Venue)
	}
	if r.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", r.Year))
	}
	line := strings.Join(parts, ". ")
	if r.Number > 0 {
		sb.WriteString(fmt.Sprintf("[%d] %s", r.Number, line))
	} else {
		sb.WriteString(line)
	}
	if r.DOI != "" {
		sb.WriteString(" doi:" + r.DOI)
	}
	if r.URL != "" {
		sb.WriteString(" " + r.URL)
	}
	sb.WriteString("\n\n")
}
