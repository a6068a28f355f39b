// -----------------------------------------------------------------------
// PDF Extractor Interface - Extract text content from PDF documents
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
)

// PDFPageContent represents extracted content from a single PDF page
type PDFPageContent struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// PDFMetadata contains metadata about a PDF document
type PDFMetadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	PageCount int    `json:"page_count"`
	FileSize  int64  `json:"file_size"`
}

// PDFExtractor defines the interface for extracting content from PDF files.
// This abstracts the extraction implementation so a different backend can
// be used interchangeably.
type PDFExtractor interface {
	// ExtractText extracts all text content from the PDF at path.
	// Returns the full text concatenated from all pages.
	ExtractText(ctx context.Context, path string) (string, error)

	// ExtractPages extracts text content page by page
	ExtractPages(ctx context.Context, path string) ([]PDFPageContent, error)

	// GetMetadata retrieves document properties without extracting text
	GetMetadata(ctx context.Context, path string) (*PDFMetadata, error)

	// Validate checks that the file at path is a structurally sound PDF
	Validate(path string) error
}
