// -----------------------------------------------------------------------
// PDF Extractor - Text and metadata extraction from PDF documents
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/interfaces"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Extractor pulls text and document properties out of PDF files on disk.
// Text extraction runs on ledongthuc/pdf, which decodes content streams
// into readable text; page counts go through pdfcpu, which tolerates the
// malformed cross-reference tables publisher PDFs often carry.
type Extractor struct {
	logger arbor.ILogger
}

// Compile-time check that Extractor implements the PDFExtractor interface
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor
func NewExtractor(logger arbor.ILogger) *Extractor {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &Extractor{logger: logger}
}

// ExtractText extracts all text from the PDF, pages joined by form feeds.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	pages, err := e.ExtractPages(ctx, path)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, page.Text)
	}

	return strings.Join(parts, "\f"), nil
}

// ExtractPages extracts text content page by page. Pages whose content
// streams cannot be decoded are skipped rather than failing the document.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]interfaces.PDFPageContent, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]interfaces.PDFPageContent, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn().
				Err(err).
				Int("page", i).
				Msg("Skipping PDF page with undecodable content")
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, interfaces.PDFPageContent{
			PageNumber: i,
			Text:       text,
		})
	}

	e.logger.Debug().
		Str("path", path).
		Int("pages", len(pages)).
		Msg("Extracted PDF text")

	return pages, nil
}

// GetMetadata retrieves document properties without extracting text content.
func (e *Extractor) GetMetadata(ctx context.Context, path string) (*interfaces.PDFMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	metadata := &interfaces.PDFMetadata{
		PageCount: pdfCtx.PageCount,
		FileSize:  info.Size(),
	}

	// Document info entries are best-effort. Encrypted or stripped PDFs
	// simply leave title and author empty.
	if f, reader, err := pdflib.Open(path); err == nil {
		docInfo := reader.Trailer().Key("Info")
		metadata.Title = strings.TrimSpace(docInfo.Key("Title").Text())
		metadata.Author = strings.TrimSpace(docInfo.Key("Author").Text())
		f.Close()
	}

	e.logger.Debug().
		Int("page_count", metadata.PageCount).
		Int64("file_size", metadata.FileSize).
		Msg("Extracted PDF metadata")

	return metadata, nil
}

// Validate checks that the file at path is a structurally sound PDF.
// Upload handling calls this before accepting an attachment.
func (e *Extractor) Validate(path string) error {
	if err := api.ValidateFile(path, nil); err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	return nil
}
