package exporter

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/ternarybob/neuink/internal/models"
	"github.com/ternarybob/neuink/internal/numbering"
)

// pdfRenderer walks the document tree and draws it with fpdf. The built-in
// fonts only cover latin text, so every bilingual slot prefers its English
// side and falls back to Chinese when that is all there is.
type pdfRenderer struct {
	svc   *Service
	paper *models.Paper
	doc   *models.PaperContent
	idx   numbering.RefIndex
	pdf   *fpdf.Fpdf
}

func newPDFRenderer(svc *Service, paper *models.Paper, doc *models.PaperContent) *pdfRenderer {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	return &pdfRenderer{
		svc:   svc,
		paper: paper,
		doc:   doc,
		idx:   numbering.BuildRefIndex(doc),
		pdf:   pdf,
	}
}

func (r *pdfRenderer) render(ctx context.Context) ([]byte, error) {
	r.pdf.SetTitle(r.title(), true)
	if len(r.paper.Authors) > 0 {
		r.pdf.SetAuthor(strings.Join(r.paper.Authors, ", "), true)
	}
	r.pdf.AddPage()

	r.renderHeader()
	r.renderAbstract()
	for _, section := range r.doc.Sections {
		r.renderSection(ctx, section, 1)
	}
	r.renderReferences()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *pdfRenderer) renderHeader() {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.MultiCell(0, 8, r.title(), "", "C", false)
	r.pdf.Ln(2)

	if len(r.paper.Authors) > 0 {
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.MultiCell(0, 5, strings.Join(r.paper.Authors, ", "), "", "C", false)
	}
	if line := r.venueLine(); line != "" {
		r.pdf.SetFont("Arial", "I", 10)
		r.pdf.MultiCell(0, 5, line, "", "C", false)
	}
	r.pdf.Ln(4)
}

func (r *pdfRenderer) title() string {
	if r.doc.Metadata.Title.En != "" {
		return r.doc.Metadata.Title.En
	}
	if r.doc.Metadata.Title.Zh != "" {
		return r.doc.Metadata.Title.Zh
	}
	return r.paper.Title
}

func (r *pdfRenderer) venueLine() string {
	var parts []string
	if r.doc.Metadata.Venue != "" {
		parts = append(parts, r.doc.Metadata.Venue)
	}
	if r.doc.Metadata.Year > 0 {
		parts = append(parts, strconv.Itoa(r.doc.Metadata.Year))
	}
	if r.doc.Metadata.DOI != "" {
		parts = append(parts, "doi:"+r.doc.Metadata.DOI)
	}
	return strings.Join(parts, ", ")
}

func (r *pdfRenderer) renderAbstract() {
	abstract := r.doc.Abstract.En
	if abstract == "" {
		abstract = r.doc.Abstract.Zh
	}
	if abstract != "" {
		r.pdf.SetFont("Arial", "B", 11)
		r.pdf.CellFormat(0, 6, "Abstract", "", 1, "L", false, 0, "")
		r.pdf.SetFont("Arial", "", 9)
		r.pdf.MultiCell(0, 5, abstract, "", "L", false)
		r.pdf.Ln(2)
	}
	if len(r.doc.Keywords) > 0 {
		r.pdf.SetFont("Arial", "I", 9)
		r.pdf.MultiCell(0, 5, "Keywords: "+strings.Join(r.doc.Keywords, ", "), "", "L", false)
		r.pdf.Ln(2)
	}
}

func (r *pdfRenderer) renderSection(ctx context.Context, section *models.Section, depth int) {
	// 12pt for top-level headings, stepping down to 10pt for deep nesting
	size := 13.0 - float64(depth)
	if size < 10 {
		size = 10
	}
	heading := r.text(section.Title)
	if section.Number != "" {
		heading = section.Number + "  " + heading
	}
	r.pdf.Ln(3)
	r.pdf.SetFont("Arial", "B", size)
	r.pdf.MultiCell(0, 6, heading, "", "L", false)
	r.pdf.Ln(1)

	for _, block := range section.Content {
		r.renderBlock(ctx, block)
	}
	for _, sub := range section.Subsections {
		r.renderSection(ctx, sub, depth+1)
	}
}

func (r *pdfRenderer) renderBlock(ctx context.Context, block models.Block) {
	switch b := block.(type) {
	case *models.HeadingBlock:
		r.pdf.Ln(2)
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.MultiCell(0, 5, r.text(b.Text), "", "L", false)
	case *models.ParagraphBlock:
		r.pdf.SetFont("Arial", "", 9)
		r.pdf.MultiCell(0, 5, r.text(b.Text), "", "L", false)
		r.pdf.Ln(1)
	case *models.MathBlock:
		r.renderMath(b)
	case *models.FigureBlock:
		r.renderFigure(ctx, b)
	case *models.TableBlock:
		r.renderTable(b)
	case *models.CodeBlock:
		r.renderCode(b)
	case *models.OrderedListBlock:
		r.renderList(b.Items, true)
	case *models.UnorderedListBlock:
		r.renderList(b.Items, false)
	case *models.QuoteBlock:
		r.pdf.SetX(25)
		r.pdf.SetFont("Arial", "I", 9)
		r.pdf.MultiCell(170, 5, r.text(b.Text), "", "L", false)
		r.pdf.Ln(1)
	case *models.DividerBlock:
		r.pdf.Ln(2)
		r.pdf.Line(15, r.pdf.GetY(), 195, r.pdf.GetY())
		r.pdf.Ln(2)
	}
}

func (r *pdfRenderer) renderMath(b *models.MathBlock) {
	r.pdf.Ln(1)
	r.pdf.SetFont("Courier", "I", 9)
	label := b.Latex
	if b.Number > 0 {
		label = fmt.Sprintf("%s    (%d)", b.Latex, b.Number)
	}
	r.pdf.MultiCell(0, 5, label, "", "C", false)
	r.pdf.Ln(1)
}

// renderFigure embeds the stored image when it can be resolved. A missing or
// unreadable file degrades to the caption line alone.
func (r *pdfRenderer) renderFigure(ctx context.Context, b *models.FigureBlock) {
	r.pdf.Ln(2)
	if imgPath := r.imagePath(ctx, b.Src); imgPath != "" {
		r.pdf.ImageOptions(imgPath, 30, r.pdf.GetY(), 150, 0, true, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		if r.pdf.Err() {
			r.pdf.ClearError()
		}
	}
	line := fmt.Sprintf("Figure %d", b.Number)
	if caption := r.text(b.Caption); caption != "" {
		line += ": " + caption
	}
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.MultiCell(0, 4, line, "", "C", false)
	r.pdf.Ln(2)
}

func (r *pdfRenderer) imagePath(ctx context.Context, src string) string {
	if r.svc.uploads == nil || src == "" {
		return ""
	}
	switch strings.ToLower(path.Ext(src)) {
	case ".png", ".jpg", ".jpeg", ".gif":
	default:
		return ""
	}
	p, err := r.svc.uploads.GetImagePath(ctx, r.paper.ID, path.Base(src))
	if err != nil {
		return ""
	}
	return p
}

func (r *pdfRenderer) renderTable(b *models.TableBlock) {
	rows := make([][]string, 0, len(b.Rows)+1)
	if len(b.Header) > 0 {
		rows = append(rows, r.cells(b.Header))
	}
	for _, row := range b.Rows {
		rows = append(rows, r.cells(row))
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	width := 180.0 / float64(cols)

	r.pdf.Ln(2)
	for i, row := range rows {
		if i == 0 && len(b.Header) > 0 {
			r.pdf.SetFont("Arial", "B", 8)
			r.pdf.SetFillColor(230, 230, 230)
		} else {
			r.pdf.SetFont("Arial", "", 8)
			r.pdf.SetFillColor(255, 255, 255)
		}
		for c := 0; c < cols; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			r.pdf.CellFormat(width, 5, cell, "1", 0, "L", true, 0, "")
		}
		r.pdf.Ln(-1)
	}

	line := fmt.Sprintf("Table %d", b.Number)
	if caption := r.text(b.Caption); caption != "" {
		line += ": " + caption
	}
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.MultiCell(0, 4, line, "", "C", false)
	r.pdf.Ln(2)
}

func (r *pdfRenderer) cells(row []models.Bilingual) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = r.text(cell)
	}
	return out
}

func (r *pdfRenderer) renderCode(b *models.CodeBlock) {
	r.pdf.Ln(2)
	r.pdf.SetFont("Courier", "", 8)
	r.pdf.SetFillColor(245, 245, 245)
	for _, line := range strings.Split(b.Source, "\n") {
		r.pdf.MultiCell(0, 4, line, "", "L", true)
	}
	r.pdf.SetFillColor(255, 255, 255)
	r.pdf.Ln(2)
}

func (r *pdfRenderer) renderList(items []models.Bilingual, ordered bool) {
	r.pdf.SetFont("Arial", "", 9)
	for i, item := range items {
		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", i+1)
		}
		r.pdf.SetX(20)
		r.pdf.MultiCell(175, 5, marker+r.text(item), "", "L", false)
	}
	r.pdf.Ln(1)
}

func (r *pdfRenderer) renderReferences() {
	if len(r.doc.References) == 0 {
		return
	}
	r.pdf.Ln(4)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.CellFormat(0, 6, "References", "", 1, "L", false, 0, "")
	r.pdf.Ln(1)
	r.pdf.SetFont("Arial", "", 8)
	for _, ref := range r.doc.References {
		r.pdf.MultiCell(0, 4, fmt.Sprintf("[%d] %s", ref.Number, referenceLine(ref)), "", "L", false)
		r.pdf.Ln(1)
	}
}

// text flattens one bilingual slot to a display string, resolving reference
// markers against the current numbering.
func (r *pdfRenderer) text(b models.Bilingual) string {
	spans := b.En
	if len(spans) == 0 {
		spans = b.Zh
	}
	return displayText(spans, r.idx)
}

func displayText(spans models.InlineList, idx numbering.RefIndex) string {
	var sb strings.Builder
	for _, n := range spans {
		switch v := n.(type) {
		case *models.Text:
			sb.WriteString(v.Content)
		case *models.Link:
			sb.WriteString(displayText(v.Children, idx))
		case *models.InlineMath:
			sb.WriteString(v.Latex)
		case *models.Footnote:
			sb.WriteString(" (")
			sb.WriteString(v.Content)
			sb.WriteString(")")
		default:
			sb.WriteString(idx.DisplayText(n))
		}
	}
	return sb.String()
}

// referenceLine formats one bibliography entry.
func referenceLine(ref *models.Reference) string {
	var parts []string
	if len(ref.Authors) > 0 {
		parts = append(parts, strings.Join(ref.Authors, ", "))
	}
	if ref.Title != "" {
		parts = append(parts, ref.Title)
	}
	if ref.Venue != "" {
		parts = append(parts, ref.Venue)
	}
	if ref.Year > 0 {
		parts = append(parts, strconv.Itoa(ref.Year))
	}
	if ref.DOI != "" {
		parts = append(parts, "doi:"+ref.DOI)
	}
	return strings.Join(parts, ". ")
}
