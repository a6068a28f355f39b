package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
)

// writeTestPDF renders a document with one line of text per page and
// returns its path.
func writeTestPDF(t *testing.T, pages int) string {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(60, 10, fmt.Sprintf("Results for trial %d", i+1))
	}

	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("Failed to write test PDF: %v", err)
	}
	return path
}

func TestGetMetadata(t *testing.T) {
	extractor := NewExtractor(arbor.NewLogger())
	path := writeTestPDF(t, 3)

	metadata, err := extractor.GetMetadata(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to get metadata: %v", err)
	}

	if metadata.PageCount != 3 {
		t.Errorf("Expected 3 pages, got %d", metadata.PageCount)
	}
	if metadata.FileSize <= 0 {
		t.Errorf("Expected positive file size, got %d", metadata.FileSize)
	}
}

func TestExtractPages(t *testing.T) {
	extractor := NewExtractor(arbor.NewLogger())
	path := writeTestPDF(t, 2)

	pages, err := extractor.ExtractPages(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to extract pages: %v", err)
	}

	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}
	for i, page := range pages {
		if page.PageNumber != i+1 {
			t.Errorf("Expected page number %d, got %d", i+1, page.PageNumber)
		}
		want := fmt.Sprintf("trial %d", i+1)
		if !strings.Contains(page.Text, want) {
			t.Errorf("Expected page %d text to contain %q, got %q", i+1, want, page.Text)
		}
	}
}

func TestExtractText(t *testing.T) {
	extractor := NewExtractor(arbor.NewLogger())
	path := writeTestPDF(t, 2)

	text, err := extractor.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to extract text: %v", err)
	}

	if !strings.Contains(text, "Results for trial 1") {
		t.Errorf("Expected extracted text to contain page content, got %q", text)
	}
	if !strings.Contains(text, "\f") {
		t.Error("Expected form feed between pages")
	}
}

func TestValidate(t *testing.T) {
	extractor := NewExtractor(arbor.NewLogger())

	if err := extractor.Validate(writeTestPDF(t, 1)); err != nil {
		t.Errorf("Expected valid PDF to pass validation: %v", err)
	}

	garbage := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(garbage, []byte("not a pdf"), 0644); err != nil {
		t.Fatalf("Failed to write garbage file: %v", err)
	}
	if err := extractor.Validate(garbage); err == nil {
		t.Error("Expected validation error for garbage file")
	}

	if err := extractor.Validate(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Expected validation error for missing file")
	}
}
