// -----------------------------------------------------------------------
// Import Service - Builds papers from uploaded JSON, Markdown, PDF and
// HTML files
// -----------------------------------------------------------------------

package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// Service implements ImportService interface
type Service struct {
	papers  interfaces.PaperService
	content interfaces.ContentService
	pdf     interfaces.PDFExtractor
	uploads interfaces.UploadService
	events  interfaces.EventService
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.ImportService = (*Service)(nil)

// NewService creates a new import service
func NewService(
	papers interfaces.PaperService,
	content interfaces.ContentService,
	pdf interfaces.PDFExtractor,
	uploads interfaces.UploadService,
	events interfaces.EventService,
	logger arbor.ILogger,
) interfaces.ImportService {
	return &Service{
		papers:  papers,
		content: content,
		pdf:     pdf,
		uploads: uploads,
		events:  events,
		logger:  logger,
	}
}

// Import builds a paper from an uploaded file, picking the parser from the
// filename extension. Every format funnels through the regular save
// pipeline, so numbering, language detection and indexing behave exactly
// as a manual save would.
func (s *Service) Import(ctx context.Context, filename string, data []byte) (*models.ImportResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", interfaces.ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(filename))

	var (
		result *models.ImportResult
		err    error
	)
	switch ext {
	case ".json":
		result, err = s.importJSON(ctx, filename, data)
	case ".md", ".markdown":
		result, err = s.importMarkdown(ctx, filename, data)
	case ".pdf":
		result, err = s.importPDF(ctx, filename, data)
	case ".html", ".htm":
		result, err = s.importHTML(ctx, filename, data)
	default:
		return nil, fmt.Errorf("%w: unsupported import format %q", interfaces.ErrValidation, ext)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, interfaces.EventImportCompleted, map[string]interface{}{
		"paper_id":     result.PaperID,
		"format":       result.Format,
		"parse_status": result.ParseStatus,
	})

	s.logger.Info().
		Str("paper_id", result.PaperID).
		Str("format", result.Format).
		Str("parse_status", result.ParseStatus).
		Int("warnings", len(result.Warnings)).
		Msg("Import completed")

	return result, nil
}

// importJSON restores a previously exported content document.
func (s *Service) importJSON(ctx context.Context, filename string, data []byte) (*models.ImportResult, error) {
	var doc models.PaperContent
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid document JSON: %w", interfaces.ErrValidation, err)
	}

	title := strings.TrimSpace(doc.Metadata.Title.En)
	if title == "" {
		title = strings.TrimSpace(doc.Metadata.Title.Zh)
	}
	title, fromFilename := titleOrFilename(title, filename)

	var warnings []string
	if fromFilename {
		warnings = append(warnings, "the document carries no title; the filename was used")
	}
	if filled := ensureIDs(&doc); filled > 0 {
		warnings = append(warnings, fmt.Sprintf("assigned generated ids to %d document elements", filled))
	}
	if doc.Metadata.Title.En == "" && doc.Metadata.Title.Zh == "" {
		doc.Metadata.Title = metadataForTitle(title).Title
	}

	paper, err := s.papers.CreatePaper(ctx, &models.CreatePaperRequest{
		Title:   title,
		Authors: doc.Metadata.Authors,
		Venue:   doc.Metadata.Venue,
		Year:    doc.Metadata.Year,
		DOI:     doc.Metadata.DOI,
		ArxivID: doc.Metadata.ArxivID,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.content.SaveContent(ctx, paper.ID, &doc); err != nil {
		s.rollback(ctx, paper.ID)
		return nil, err
	}

	return &models.ImportResult{
		PaperID:     paper.ID,
		Title:       title,
		Format:      "json",
		ParseStatus: models.ParseStatusParsed,
		Warnings:    warnings,
	}, nil
}

// importMarkdown parses markdown into a section tree.
func (s *Service) importMarkdown(ctx context.Context, filename string, data []byte) (*models.ImportResult, error) {
	parsed := parseMarkdown(data)
	return s.createStructured(ctx, filename, "markdown", parsed)
}

// importHTML strips page chrome, converts the body to markdown and reuses
// the markdown parser.
func (s *Service) importHTML(ctx context.Context, filename string, data []byte) (*models.ImportResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable HTML: %w", interfaces.ErrValidation, err)
	}

	pageTitle := strings.TrimSpace(doc.Find("title").First().Text())

	// Remove script/style and navigation elements before conversion
	doc.Find("script, style, noscript").Remove()
	doc.Find("nav, header, footer, aside").Remove()

	var fragment string
	if body := doc.Find("body"); body.Length() > 0 {
		fragment, err = body.Html()
	} else {
		fragment, err = doc.Html()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML body: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: HTML conversion failed: %w", interfaces.ErrValidation, err)
	}

	parsed := parseMarkdown([]byte(markdown))
	if parsed.title == "" {
		parsed.title = pageTitle
	}
	return s.createStructured(ctx, filename, "html", parsed)
}

// importPDF extracts page text into one section per page. An unreadable
// file is a payload error, but a readable PDF whose text cannot be
// extracted still produces a paper, marked failed, so the upload is not
// lost.
func (s *Service) importPDF(ctx context.Context, filename string, data []byte) (*models.ImportResult, error) {
	// The extractor works from a path, so stage the upload in a temp file.
	tmp, err := os.CreateTemp("", "import_*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to stage PDF: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage PDF: %w", err)
	}

	meta, err := s.pdf.GetMetadata(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable PDF: %w", interfaces.ErrValidation, err)
	}

	title, fromFilename := titleOrFilename(meta.Title, filename)
	var warnings []string
	if fromFilename {
		warnings = append(warnings, "the PDF carries no title; the filename was used")
	}
	var authors []string
	if meta.Author != "" {
		authors = []string{meta.Author}
	}

	paper, err := s.papers.CreatePaper(ctx, &models.CreatePaperRequest{
		Title:   title,
		Authors: authors,
	})
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{
		PaperID:     paper.ID,
		Title:       title,
		Format:      "pdf",
		ParseStatus: models.ParseStatusParsed,
		Warnings:    warnings,
	}

	pages, err := s.pdf.ExtractPages(ctx, path)
	if err != nil {
		return s.failParse(ctx, result, fmt.Sprintf("text extraction failed: %v", err))
	}

	doc := models.NewPaperContent(paper.ID, metadataForTitle(title))
	for _, page := range pages {
		section := &models.Section{
			ID:    newSectionID(),
			Title: bilingualString(fmt.Sprintf("Page %d", page.PageNumber)),
		}
		for _, para := range splitParagraphs(page.Text) {
			section.Content = append(section.Content, &models.ParagraphBlock{
				ID:   newBlockID(),
				Text: bilingualString(para),
			})
		}
		if len(section.Content) == 0 {
			continue
		}
		doc.Sections = append(doc.Sections, section)
	}

	if len(doc.Sections) == 0 {
		return s.failParse(ctx, result, "no extractable text; the PDF may be scanned images")
	}

	if s.uploads != nil {
		att, err := s.uploads.SaveAttachment(ctx, paper.ID, filepath.Base(filename), data)
		if err != nil {
			s.logger.Warn().Err(err).Str("paper_id", paper.ID).Msg("Failed to store original PDF")
			result.Warnings = append(result.Warnings, "the original PDF could not be stored as an attachment")
		} else {
			doc.Attachments = append(doc.Attachments, att)
		}
	}

	if _, err := s.content.SaveContent(ctx, paper.ID, doc); err != nil {
		s.rollback(ctx, paper.ID)
		return nil, err
	}

	return result, nil
}

// createStructured creates the paper and saves the parsed document for the
// markdown and HTML paths.
func (s *Service) createStructured(ctx context.Context, filename, format string, parsed *parsedMarkdown) (*models.ImportResult, error) {
	title, fromFilename := titleOrFilename(parsed.title, filename)
	warnings := parsed.warnings
	if fromFilename {
		warnings = append(warnings, "no title heading found; the filename was used")
	}

	paper, err := s.papers.CreatePaper(ctx, &models.CreatePaperRequest{Title: title})
	if err != nil {
		return nil, err
	}

	doc := models.NewPaperContent(paper.ID, metadataForTitle(title))
	doc.Abstract = parsed.abstract
	doc.Keywords = parsed.keywords
	doc.Sections = parsed.sections
	doc.References = parsed.references

	if _, err := s.content.SaveContent(ctx, paper.ID, doc); err != nil {
		s.rollback(ctx, paper.ID)
		return nil, err
	}

	return &models.ImportResult{
		PaperID:     paper.ID,
		Title:       title,
		Format:      format,
		ParseStatus: models.ParseStatusParsed,
		Warnings:    warnings,
	}, nil
}

// failParse marks the catalog row failed and reports the reason as a
// warning instead of an error; the paper still exists with empty content.
func (s *Service) failParse(ctx context.Context, result *models.ImportResult, reason string) (*models.ImportResult, error) {
	if err := s.papers.SetParseStatus(ctx, result.PaperID, models.ParseStatusFailed); err != nil {
		s.logger.Warn().Err(err).Str("paper_id", result.PaperID).Msg("Failed to record parse failure")
	}
	result.ParseStatus = models.ParseStatusFailed
	result.Warnings = append(result.Warnings, reason)
	s.logger.Warn().Str("paper_id", result.PaperID).Str("reason", reason).Msg("Import parse failed")
	return result, nil
}

// rollback removes the catalog row created for an import that could not be
// saved.
func (s *Service) rollback(ctx context.Context, paperID string) {
	if err := s.papers.DeletePaper(ctx, paperID); err != nil {
		s.logger.Warn().Err(err).Str("paper_id", paperID).Msg("Failed to roll back imported paper")
	}
}

func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish import event")
	}
}

// titleOrFilename falls back to the uploaded filename when no usable title
// was found. The second return reports whether the fallback was used.
func titleOrFilename(title, filename string) (string, bool) {
	title = strings.TrimSpace(title)
	if title != "" {
		return title, false
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		return "Untitled paper", true
	}
	return base, true
}

// metadataForTitle routes the title into the language slot it belongs to.
func metadataForTitle(title string) models.ContentMetadata {
	meta := models.ContentMetadata{}
	if models.ContainsHan(title) {
		meta.Title.Zh = title
	} else {
		meta.Title.En = title
	}
	return meta
}

// bilingualString wraps plain extracted text in the right language slot.
func bilingualString(s string) models.Bilingual {
	spans := models.InlineList{&models.Text{Content: s}}
	if models.ContainsHan(s) {
		return models.Bilingual{Zh: spans}
	}
	return models.Bilingual{En: spans}
}

// splitParagraphs breaks extracted page text on blank lines and collapses
// the line breaks inside each paragraph.
func splitParagraphs(text string) []string {
	var paras []string
	for _, chunk := range strings.Split(text, "\n\n") {
		para := strings.Join(strings.Fields(chunk), " ")
		if para == "" {
			continue
		}
		paras = append(paras, para)
	}
	return paras
}

// ensureIDs fills any ids the uploaded document left empty, so the save
// pipeline's uniqueness check has stable anchors to work with. Returns the
// number of ids assigned.
func ensureIDs(doc *models.PaperContent) int {
	filled := 0
	var fill func(sections []*models.Section)
	fill = func(sections []*models.Section) {
		for _, section := range sections {
			if section.ID == "" {
				section.ID = newSectionID()
				filled++
			}
			for _, block := range section.Content {
				if block.BlockID() != "" {
					continue
				}
				assignBlockID(block, newBlockID())
				filled++
			}
			fill(section.Subsections)
		}
	}
	fill(doc.Sections)

	for _, ref := range doc.References {
		if ref.ID == "" {
			ref.ID = newReferenceID()
			filled++
		}
	}
	return filled
}

// assignBlockID sets the id on a concrete block variant.
func assignBlockID(block models.Block, id string) {
	switch b := block.(type) {
	case *models.HeadingBlock:
		b.ID = id
	case *models.ParagraphBlock:
		b.ID = id
	case *models.MathBlock:
		b.ID = id
	case *models.FigureBlock:
		b.ID = id
	case *models.TableBlock:
		b.ID = id
	case *models.CodeBlock:
		b.ID = id
	case *models.OrderedListBlock:
		b.ID = id
	case *models.UnorderedListBlock:
		b.ID = id
	case *models.QuoteBlock:
		b.ID = id
	case *models.DividerBlock:
		b.ID = id
	}
}

func newSectionID() string   { return fmt.Sprintf("sec_%s", uuid.New().String()) }
func newBlockID() string     { return fmt.Sprintf("blk_%s", uuid.New().String()) }
func newReferenceID() string { return fmt.Sprintf("ref_%s", uuid.New().String()) }
