// -----------------------------------------------------------------------
// Export Service - Serializes papers to JSON, XLSX and PDF
// -----------------------------------------------------------------------

package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/xuri/excelize/v2"

	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// Service implements ExportService interface
type Service struct {
	papers  interfaces.PaperService
	content interfaces.ContentService
	uploads interfaces.UploadService
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.ExportService = (*Service)(nil)

// NewService creates a new export service
func NewService(
	papers interfaces.PaperService,
	content interfaces.ContentService,
	uploads interfaces.UploadService,
	logger arbor.ILogger,
) interfaces.ExportService {
	return &Service{
		papers:  papers,
		content: content,
		uploads: uploads,
		logger:  logger,
	}
}

// libraryExport is the envelope for whole library exports. The backup job
// writes it to disk unchanged.
type libraryExport struct {
	ExportedAt time.Time      `json:"exported_at"`
	Count      int            `json:"count"`
	Papers     []*paperExport `json:"papers"`
}

// paperExport pairs a catalog row with its content document.
type paperExport struct {
	Paper   *models.Paper        `json:"paper"`
	Content *models.PaperContent `json:"content"`
}

// ExportPaperJSON returns the paper's content document. The document embeds
// the metadata mirror, so it is self-contained and re-importable.
func (s *Service) ExportPaperJSON(ctx context.Context, paperID string) ([]byte, error) {
	doc, err := s.content.GetContent(ctx, paperID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// ExportLibraryJSON returns every catalog row paired with its document
func (s *Service) ExportLibraryJSON(ctx context.Context) ([]byte, error) {
	papers, err := s.papers.ListPapers(ctx, nil)
	if err != nil {
		return nil, err
	}

	export := &libraryExport{
		ExportedAt: time.Now(),
		Papers:     make([]*paperExport, 0, len(papers)),
	}
	for _, paper := range papers {
		doc, err := s.content.GetContent(ctx, paper.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("paper_id", paper.ID).Msg("Skipping paper without a readable document")
			continue
		}
		export.Papers = append(export.Papers, &paperExport{Paper: paper, Content: doc})
	}
	export.Count = len(export.Papers)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal library: %w", err)
	}

	s.logger.Info().Int("papers", export.Count).Msg("Library exported")
	return data, nil
}

// xlsxHeader is the spreadsheet column layout, one row per paper.
var xlsxHeader = []interface{}{
	"Title", "Authors", "Venue", "Year", "DOI", "ArXiv", "Tags",
	"Reading Status", "Progress", "Rating", "Translated", "Added",
}

// ExportLibraryXLSX returns the catalog as a spreadsheet
func (s *Service) ExportLibraryXLSX(ctx context.Context) ([]byte, error) {
	papers, err := s.papers.ListPapers(ctx, nil)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Papers"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &xlsxHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", "L1", bold)
	}
	_ = f.SetColWidth(sheet, "A", "A", 48)
	_ = f.SetColWidth(sheet, "B", "B", 32)

	for i, paper := range papers {
		row := []interface{}{
			paper.Title,
			strings.Join(paper.Authors, ", "),
			paper.Venue,
			yearCell(paper.Year),
			paper.DOI,
			paper.ArxivID,
			strings.Join(paper.Tags, ", "),
			paper.ReadingStatus,
			paper.Progress,
			paper.Rating,
			paper.HasChineseContent,
			paper.CreatedAt.Format("2006-01-02"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info().Int("papers", len(papers)).Msg("Catalog exported to spreadsheet")
	return buf.Bytes(), nil
}

// yearCell keeps unset years blank instead of rendering a zero.
func yearCell(year int) interface{} {
	if year == 0 {
		return ""
	}
	return year
}

// ExportPaperPDF renders the numbered document tree to PDF
func (s *Service) ExportPaperPDF(ctx context.Context, paperID string) ([]byte, error) {
	paper, err := s.papers.GetPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	doc, err := s.content.GetContent(ctx, paperID)
	if err != nil {
		return nil, err
	}

	r := newPDFRenderer(s, paper, doc)
	data, err := r.render(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to render PDF")
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	s.logger.Debug().Str("paper_id", paperID).Int("pdf_size", len(data)).Msg("PDF rendered")
	return data, nil
}
