package interfaces

import (
	"context"

	"github.com/ternarybob/neuink/internal/models"
)

// ImportService builds papers from uploaded files. The format is picked
// from the filename extension (json, md, pdf, html).
type ImportService interface {
	Import(ctx context.Context, filename string, data []byte) (*models.ImportResult, error)
}

// ExportService serializes papers for download
type ExportService interface {
	// ExportPaperJSON returns one paper with its full document
	ExportPaperJSON(ctx context.Context, paperID string) ([]byte, error)

	// ExportLibraryJSON returns every paper with its document
	ExportLibraryJSON(ctx context.Context) ([]byte, error)

	// ExportLibraryXLSX returns the catalog as a spreadsheet, one row per paper
	ExportLibraryXLSX(ctx context.Context) ([]byte, error)

	// ExportPaperPDF renders one paper's numbered tree to PDF
	ExportPaperPDF(ctx context.Context, paperID string) ([]byte, error)
}
