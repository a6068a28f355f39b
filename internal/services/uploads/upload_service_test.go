package uploads

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
	pdfsvc "github.com/ternarybob/neuink/internal/services/pdf"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := common.NewDefaultConfig()
	base := t.TempDir()
	cfg.Storage.Filesystem.Images = filepath.Join(base, "images")
	cfg.Storage.Filesystem.Attachments = filepath.Join(base, "attachments")

	svc, err := NewService(cfg, pdfsvc.NewExtractor(arbor.NewLogger()), arbor.NewLogger())
	if err != nil {
		t.Fatalf("Failed to create upload service: %v", err)
	}
	return svc
}

// makeTestPDF renders a small document so attachment tests run against a
// structurally valid PDF.
func makeTestPDF(t *testing.T, pages int) []byte {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, "Attachment test page")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("Failed to render test PDF: %v", err)
	}
	return buf.Bytes()
}

func TestImageLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	paperID := "paper_upload_test"
	data := []byte("fake png bytes")

	// Step 1: Save an image
	uploaded, err := svc.SaveImage(ctx, paperID, "figure 1.png", data)
	if err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}
	if uploaded.Filename != "figure-1.png" {
		t.Errorf("Expected sanitized filename figure-1.png, got %s", uploaded.Filename)
	}
	if uploaded.Size != int64(len(data)) {
		t.Errorf("Expected size %d, got %d", len(data), uploaded.Size)
	}
	wantURL := "/api/uploads/images/" + paperID + "/figure-1.png"
	if uploaded.URL != wantURL {
		t.Errorf("Expected URL %s, got %s", wantURL, uploaded.URL)
	}

	// Step 2: Resolve its path and verify the bytes landed on disk
	path, err := svc.GetImagePath(ctx, paperID, "figure-1.png")
	if err != nil {
		t.Fatalf("Failed to resolve image path: %v", err)
	}
	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read stored image: %v", err)
	}
	if !bytes.Equal(stored, data) {
		t.Error("Stored image bytes do not match upload")
	}

	// Step 3: Saving the same name again must not overwrite
	second, err := svc.SaveImage(ctx, paperID, "figure 1.png", []byte("other bytes"))
	if err != nil {
		t.Fatalf("Failed to save second image: %v", err)
	}
	if second.Filename != "figure-1_1.png" {
		t.Errorf("Expected suffixed filename figure-1_1.png, got %s", second.Filename)
	}

	// Step 4: List images for the paper
	names, err := svc.ListImages(ctx, paperID)
	if err != nil {
		t.Fatalf("Failed to list images: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Expected 2 images, got %d", len(names))
	}

	// Step 5: Delete the first image
	if err := svc.DeleteImage(ctx, paperID, "figure-1.png"); err != nil {
		t.Fatalf("Failed to delete image: %v", err)
	}
	if _, err := svc.GetImagePath(ctx, paperID, "figure-1.png"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestSaveImageValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Disallowed extension
	if _, err := svc.SaveImage(ctx, "paper_1", "payload.exe", []byte("x")); err == nil {
		t.Error("Expected error for disallowed image type")
	}

	// Empty upload
	if _, err := svc.SaveImage(ctx, "paper_1", "empty.png", nil); err == nil {
		t.Error("Expected error for empty upload")
	}

	// Oversize upload
	svc.config.Uploads.MaxImageSize = 4
	if _, err := svc.SaveImage(ctx, "paper_1", "big.png", []byte("12345")); err == nil {
		t.Error("Expected error for oversize upload")
	}

	// Paper id that would escape the image root
	if _, err := svc.SaveImage(ctx, "../paper_1", "ok.png", []byte("x")); err == nil {
		t.Error("Expected error for traversal paper id")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "figure.png", "figure.png"},
		{"spaces become hyphens", "my figure (1).png", "my-figure-1.png"},
		{"path components stripped", "../../etc/passwd", "passwd"},
		{"chinese preserved", "图1.png", "图1.png"},
		{"leading dots stripped", "..hidden.png", "hidden.png"},
		{"only junk", "<<>>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAttachmentLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	paperID := "paper_att_test"
	data := makeTestPDF(t, 2)

	// Step 1: Save a valid PDF attachment
	att, err := svc.SaveAttachment(ctx, paperID, "paper copy.pdf", data)
	if err != nil {
		t.Fatalf("Failed to save attachment: %v", err)
	}
	if !strings.HasPrefix(att.ID, "att_") {
		t.Errorf("Expected att_ id prefix, got %s", att.ID)
	}
	if att.Filename != "paper-copy.pdf" {
		t.Errorf("Expected sanitized filename paper-copy.pdf, got %s", att.Filename)
	}
	if att.PageCount != 2 {
		t.Errorf("Expected 2 pages, got %d", att.PageCount)
	}
	if att.ContentType != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", att.ContentType)
	}

	// Step 2: Resolve the stored path
	if _, err := svc.GetAttachmentPath(ctx, paperID, "paper-copy.pdf"); err != nil {
		t.Fatalf("Failed to resolve attachment path: %v", err)
	}

	// Step 3: Garbage bytes must be rejected and leave nothing behind
	if _, err := svc.SaveAttachment(ctx, paperID, "broken.pdf", []byte("not a pdf")); err == nil {
		t.Fatal("Expected error for invalid PDF")
	}
	entries, err := os.ReadDir(filepath.Join(svc.config.Storage.Filesystem.Attachments, paperID))
	if err != nil {
		t.Fatalf("Failed to read attachment directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the valid attachment on disk, found %d entries", len(entries))
	}

	// Step 4: Non-PDF extensions are rejected before validation
	if _, err := svc.SaveAttachment(ctx, paperID, "notes.txt", data); err == nil {
		t.Error("Expected error for non-PDF attachment")
	}
}

func TestDeletePaperFiles(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	paperID := "paper_cleanup"

	if _, err := svc.SaveImage(ctx, paperID, "fig.png", []byte("img")); err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}
	if _, err := svc.SaveAttachment(ctx, paperID, "doc.pdf", makeTestPDF(t, 1)); err != nil {
		t.Fatalf("Failed to save attachment: %v", err)
	}

	if err := svc.DeletePaperFiles(ctx, paperID); err != nil {
		t.Fatalf("Failed to delete paper files: %v", err)
	}

	names, err := svc.ListImages(ctx, paperID)
	if err != nil {
		t.Fatalf("Failed to list images: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected no images after cleanup, got %d", len(names))
	}
	if _, err := svc.GetAttachmentPath(ctx, paperID, "doc.pdf"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after cleanup, got %v", err)
	}
}
