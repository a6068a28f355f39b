package importer

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/neuink/internal/models"
)

// parsedMarkdown is the structured result of one markdown parse.
type parsedMarkdown struct {
	title      string
	abstract   models.BilingualText
	keywords   []string
	sections   []*models.Section
	references []*models.Reference
	warnings   []string
}

// parseMarkdown builds a section tree from markdown source. The first level
// 1 heading names the paper, level 2 headings open sections, level 3
// headings open subsections and deeper headings stay inline blocks.
// Paragraphs before the first heading form the abstract.
func parseMarkdown(data []byte) *parsedMarkdown {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
	)
	doc := md.Parser().Parse(text.NewReader(data))

	b := &markdownBuilder{source: data, parsed: &parsedMarkdown{}}
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		b.handleNode(node)
	}
	b.finish()
	return b.parsed
}

type markdownBuilder struct {
	source  []byte
	parsed  *parsedMarkdown
	section *models.Section
	sub     *models.Section

	abstractEn  []string
	abstractZh  []string
	skippedHTML bool
}

func (b *markdownBuilder) handleNode(node ast.Node) {
	switch node.Kind() {
	case ast.KindHeading:
		b.handleHeading(node.(*ast.Heading))
	case ast.KindParagraph:
		b.handleParagraph(node.(*ast.Paragraph))
	case ast.KindList:
		b.appendBlock(b.listBlock(node.(*ast.List)))
	case ast.KindFencedCodeBlock:
		n := node.(*ast.FencedCodeBlock)
		b.appendBlock(&models.CodeBlock{
			ID:       newBlockID(),
			Language: string(n.Language(b.source)),
			Source:   b.linesText(n.Lines()),
		})
	case ast.KindCodeBlock:
		n := node.(*ast.CodeBlock)
		b.appendBlock(&models.CodeBlock{ID: newBlockID(), Source: b.linesText(n.Lines())})
	case ast.KindBlockquote:
		b.appendBlock(b.quoteBlock(node))
	case ast.KindThematicBreak:
		b.appendBlock(&models.DividerBlock{ID: newBlockID()})
	case extast.KindTable:
		b.appendBlock(b.tableBlock(node.(*extast.Table)))
	case ast.KindHTMLBlock:
		b.skippedHTML = true
	}
}

func (b *markdownBuilder) handleHeading(n *ast.Heading) {
	spans := b.inlines(n)
	plain := strings.TrimSpace(spans.PlainText())

	// The first top-level heading names the paper; any later one opens a
	// section like a level 2 heading does.
	if n.Level == 1 && b.parsed.title == "" && len(b.parsed.sections) == 0 {
		b.parsed.title = plain
		return
	}

	switch {
	case n.Level <= 2:
		b.startSection(spans)
	case n.Level == 3:
		if b.section == nil {
			b.startSection(spans)
			return
		}
		sub := &models.Section{ID: newSectionID(), Title: bilingualSpans(spans)}
		b.section.Subsections = append(b.section.Subsections, sub)
		b.sub = sub
	default:
		level := n.Level - 3
		if level < 1 {
			level = 1
		}
		b.appendBlock(&models.HeadingBlock{ID: newBlockID(), Level: level, Text: bilingualSpans(spans)})
	}
}

func (b *markdownBuilder) handleParagraph(n *ast.Paragraph) {
	if img := b.soleImage(n); img != nil {
		b.appendBlock(b.figureBlock(img))
		return
	}

	spans := b.inlines(n)
	plain := strings.TrimSpace(spans.PlainText())
	if plain == "" {
		return
	}

	// Display math survives markdown as a bare $$ ... $$ paragraph.
	if latex, ok := displayMath(plain); ok {
		b.appendBlock(&models.MathBlock{ID: newBlockID(), Latex: latex})
		return
	}

	if b.inPreamble() {
		b.collectPreamble(plain)
		return
	}

	b.appendBlock(&models.ParagraphBlock{ID: newBlockID(), Text: bilingualSpans(spans)})
}

func (b *markdownBuilder) inPreamble() bool {
	return b.section == nil && len(b.parsed.sections) == 0
}

// collectPreamble routes leading paragraphs into the abstract, peeling off
// a keyword line when one is present.
func (b *markdownBuilder) collectPreamble(plain string) {
	if kws := parseKeywordLine(plain); kws != nil {
		b.parsed.keywords = append(b.parsed.keywords, kws...)
		return
	}
	if models.ContainsHan(plain) {
		b.abstractZh = append(b.abstractZh, plain)
		return
	}
	b.abstractEn = append(b.abstractEn, plain)
}

func (b *markdownBuilder) startSection(spans models.InlineList) {
	section := &models.Section{ID: newSectionID(), Title: bilingualSpans(spans)}
	b.parsed.sections = append(b.parsed.sections, section)
	b.section = section
	b.sub = nil
}

// ensureSection returns the section blocks currently append to, creating an
// untitled one when body content arrives before any heading.
func (b *markdownBuilder) ensureSection() *models.Section {
	if b.sub != nil {
		return b.sub
	}
	if b.section == nil {
		b.startSection(nil)
		b.parsed.warnings = append(b.parsed.warnings, "content before the first heading was placed in an untitled section")
	}
	return b.section
}

func (b *markdownBuilder) appendBlock(block models.Block) {
	if block == nil {
		return
	}
	section := b.ensureSection()
	section.Content = append(section.Content, block)
}

func (b *markdownBuilder) listBlock(n *ast.List) models.Block {
	items := b.listItems(n)
	if len(items) == 0 {
		return nil
	}
	if n.IsOrdered() {
		return &models.OrderedListBlock{ID: newBlockID(), Items: items}
	}
	return &models.UnorderedListBlock{ID: newBlockID(), Items: items}
}

// listItems flattens list items into bilingual slots; nested lists become
// additional items of the same block, after their parent item.
func (b *markdownBuilder) listItems(list *ast.List) []models.Bilingual {
	var items []models.Bilingual
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var spans models.InlineList
		var nested []models.Bilingual
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			switch child.Kind() {
			case ast.KindTextBlock, ast.KindParagraph:
				spans = append(spans, b.inlines(child)...)
			case ast.KindList:
				nested = append(nested, b.listItems(child.(*ast.List))...)
			}
		}
		if len(spans) > 0 {
			items = append(items, bilingualSpans(spans))
		}
		items = append(items, nested...)
	}
	return items
}

func (b *markdownBuilder) quoteBlock(n ast.Node) models.Block {
	var spans models.InlineList
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if len(spans) > 0 {
			spans = append(spans, &models.Text{Content: "\n"})
		}
		spans = append(spans, b.inlines(child)...)
	}
	if len(spans) == 0 {
		return nil
	}
	return &models.QuoteBlock{ID: newBlockID(), Text: bilingualSpans(spans)}
}

func (b *markdownBuilder) tableBlock(n *extast.Table) models.Block {
	table := &models.TableBlock{ID: newBlockID()}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *extast.TableHeader:
			table.Header = b.tableCells(child)
		case *extast.TableRow:
			table.Rows = append(table.Rows, b.tableCells(child))
		}
	}
	if len(table.Header) == 0 && len(table.Rows) == 0 {
		return nil
	}
	return table
}

func (b *markdownBuilder) tableCells(row ast.Node) []models.Bilingual {
	var cells []models.Bilingual
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); !ok {
			continue
		}
		cells = append(cells, bilingualSpans(b.inlines(cell)))
	}
	return cells
}

// soleImage returns the image when a paragraph holds nothing but one image.
func (b *markdownBuilder) soleImage(n *ast.Paragraph) *ast.Image {
	var img *ast.Image
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Image:
			if img != nil {
				return nil
			}
			img = c
		case *ast.Text:
			if strings.TrimSpace(string(c.Segment.Value(b.source))) != "" {
				return nil
			}
		default:
			return nil
		}
	}
	return img
}

func (b *markdownBuilder) figureBlock(img *ast.Image) models.Block {
	alt := string(img.Text(b.source))
	caption := strings.TrimSpace(string(img.Title))
	if caption == "" {
		caption = alt
	}
	fig := &models.FigureBlock{
		ID:  newBlockID(),
		Src: string(img.Destination),
		Alt: alt,
	}
	if caption != "" {
		fig.Caption = bilingualString(caption)
	}
	return fig
}

// inlines converts a node's inline children into the document inline model.
func (b *markdownBuilder) inlines(parent ast.Node) models.InlineList {
	var out models.InlineList
	b.collectInlines(parent, inlineStyle{}, &out)
	return out
}

type inlineStyle struct {
	bold   bool
	italic bool
	strike bool
}

func (b *markdownBuilder) collectInlines(parent ast.Node, style inlineStyle, out *models.InlineList) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			content := string(n.Segment.Value(b.source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				content += " "
			}
			if content == "" {
				continue
			}
			*out = append(*out, &models.Text{Content: content, Bold: style.bold, Italic: style.italic, Strikethrough: style.strike})
		case *ast.String:
			if len(n.Value) > 0 {
				*out = append(*out, &models.Text{Content: string(n.Value), Bold: style.bold, Italic: style.italic, Strikethrough: style.strike})
			}
		case *ast.Emphasis:
			sub := style
			if n.Level == 2 {
				sub.bold = true
			} else {
				sub.italic = true
			}
			b.collectInlines(n, sub, out)
		case *extast.Strikethrough:
			sub := style
			sub.strike = true
			b.collectInlines(n, sub, out)
		case *ast.CodeSpan:
			// Code spans keep their text in child segments
			var sb strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if textNode, ok := c.(*ast.Text); ok {
					sb.Write(textNode.Segment.Value(b.source))
				}
			}
			if sb.Len() > 0 {
				*out = append(*out, &models.Text{Content: sb.String(), Code: true})
			}
		case *ast.Link:
			var children models.InlineList
			b.collectInlines(n, style, &children)
			*out = append(*out, &models.Link{Children: children, Href: string(n.Destination)})
		case *ast.AutoLink:
			url := string(n.URL(b.source))
			*out = append(*out, &models.Link{Children: models.InlineList{&models.Text{Content: url}}, Href: url})
		case *ast.Image:
			// Images inside running text degrade to their alt text
			if alt := string(n.Text(b.source)); alt != "" {
				*out = append(*out, &models.Text{Content: alt, Bold: style.bold, Italic: style.italic})
			}
		case *ast.RawHTML:
			b.skippedHTML = true
		default:
			b.collectInlines(child, style, out)
		}
	}
}

func (b *markdownBuilder) linesText(lines *text.Segments) string {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		sb.Write(lines.At(i).Value(b.source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// finish folds the collected preamble into the abstract and recognizes a
// trailing references section.
func (b *markdownBuilder) finish() {
	b.parsed.abstract = models.BilingualText{
		En: strings.Join(b.abstractEn, "\n\n"),
		Zh: strings.Join(b.abstractZh, "\n\n"),
	}
	b.extractReferences()
	if b.skippedHTML {
		b.parsed.warnings = append(b.parsed.warnings, "raw HTML in the source was skipped")
	}
}

// extractReferences converts a final references section holding a single
// list into bibliography entries.
func (b *markdownBuilder) extractReferences() {
	if len(b.parsed.sections) == 0 {
		return
	}
	last := b.parsed.sections[len(b.parsed.sections)-1]

	title := strings.ToLower(strings.TrimSpace(last.Title.En.PlainText()))
	zhTitle := strings.TrimSpace(last.Title.Zh.PlainText())
	if title != "references" && zhTitle != "参考文献" {
		return
	}
	if len(last.Subsections) > 0 || len(last.Content) != 1 {
		return
	}

	var items []models.Bilingual
	switch list := last.Content[0].(type) {
	case *models.OrderedListBlock:
		items = list.Items
	case *models.UnorderedListBlock:
		items = list.Items
	default:
		return
	}

	for _, item := range items {
		entry := strings.TrimSpace(item.En.PlainText())
		if entry == "" {
			entry = strings.TrimSpace(item.Zh.PlainText())
		}
		if entry == "" {
			continue
		}
		b.parsed.references = append(b.parsed.references, &models.Reference{
			ID:    newReferenceID(),
			Title: entry,
		})
	}
	b.parsed.sections = b.parsed.sections[:len(b.parsed.sections)-1]
}

// bilingualSpans routes inline content into the language slot it belongs to.
func bilingualSpans(spans models.InlineList) models.Bilingual {
	if len(spans) == 0 {
		return models.Bilingual{}
	}
	if models.ContainsHan(spans.PlainText()) {
		return models.Bilingual{Zh: spans}
	}
	return models.Bilingual{En: spans}
}

// displayMath reports whether a paragraph is a $$ delimited equation.
func displayMath(plain string) (string, bool) {
	if len(plain) < 5 || !strings.HasPrefix(plain, "$$") || !strings.HasSuffix(plain, "$$") {
		return "", false
	}
	latex := strings.TrimSpace(plain[2 : len(plain)-2])
	if latex == "" {
		return "", false
	}
	return latex, true
}

// parseKeywordLine recognizes the conventional keyword line of a paper
// abstract in either language. A non-nil result means the line was one.
func parseKeywordLine(plain string) []string {
	var rest string
	switch {
	case strings.HasPrefix(strings.ToLower(plain), "keywords:"):
		rest = plain[len("keywords:"):]
	case strings.HasPrefix(plain, "关键词："):
		rest = strings.TrimPrefix(plain, "关键词：")
	case strings.HasPrefix(plain, "关键词:"):
		rest = strings.TrimPrefix(plain, "关键词:")
	default:
		return nil
	}

	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || r == ';' || r == '，' || r == '；'
	})
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			keywords = append(keywords, f)
		}
	}
	return keywords
}
