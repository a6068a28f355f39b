// -----------------------------------------------------------------------
// Upload Service
// Stores paper images and PDF attachments on the local filesystem
// -----------------------------------------------------------------------

package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// Service stores uploaded files on disk. Images live under
// {images}/{paperID}/, attachments under {attachments}/{paperID}/.
// Filenames are sanitized before they touch the filesystem.
type Service struct {
	config *common.Config
	pdf    interfaces.PDFExtractor
	logger arbor.ILogger
}

// Ensure Service implements UploadService interface
var _ interfaces.UploadService = (*Service)(nil)

// NewService creates the upload service and ensures the base directories exist
func NewService(config *common.Config, extractor interfaces.PDFExtractor, logger arbor.ILogger) (*Service, error) {
	if logger == nil {
		logger = arbor.NewLogger()
	}

	if err := os.MkdirAll(config.Storage.Filesystem.Images, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.MkdirAll(config.Storage.Filesystem.Attachments, 0755); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory: %w", err)
	}

	return &Service{
		config: config,
		pdf:    extractor,
		logger: logger,
	}, nil
}

// SaveImage stores an uploaded image for a paper and returns its serving URL.
// Name collisions are resolved by appending a numeric suffix, never by
// overwriting an existing file.
func (s *Service) SaveImage(ctx context.Context, paperID, filename string, data []byte) (*models.UploadedFile, error) {
	if err := validatePaperID(paperID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if int64(len(data)) > s.config.Uploads.MaxImageSize {
		return nil, fmt.Errorf("image exceeds maximum size of %d bytes", s.config.Uploads.MaxImageSize)
	}

	name := sanitizeFilename(filename)
	if name == "" {
		return nil, fmt.Errorf("invalid filename %q", filename)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !s.isAllowedImageType(ext) {
		return nil, fmt.Errorf("image type %q is not allowed", ext)
	}

	dir := filepath.Join(s.config.Storage.Filesystem.Images, paperID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create paper image directory: %w", err)
	}

	path, name := uniquePath(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	s.logger.Debug().
		Str("paper_id", paperID).
		Str("filename", name).
		Int("size", len(data)).
		Msg("Image stored")

	return &models.UploadedFile{
		Filename: name,
		Size:     int64(len(data)),
		URL:      "/api/uploads/images/" + paperID + "/" + name,
	}, nil
}

// GetImagePath returns the absolute path of a stored image
func (s *Service) GetImagePath(ctx context.Context, paperID, filename string) (string, error) {
	return s.resolvePath(s.config.Storage.Filesystem.Images, paperID, filename)
}

// ListImages returns the filenames stored for a paper, sorted by name
func (s *Service) ListImages(ctx context.Context, paperID string) ([]string, error) {
	if err := validatePaperID(paperID); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.config.Storage.Filesystem.Images, paperID))
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// DeleteImage removes a stored image
func (s *Service) DeleteImage(ctx context.Context, paperID, filename string) error {
	path, err := s.resolvePath(s.config.Storage.Filesystem.Images, paperID, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	s.logger.Debug().
		Str("paper_id", paperID).
		Str("filename", filepath.Base(path)).
		Msg("Image deleted")
	return nil
}

// SaveAttachment stores a PDF attachment for a paper. The upload is written
// to a temporary file first so pdfcpu can validate it before it is moved
// into place; invalid files never land under the attachment directory.
func (s *Service) SaveAttachment(ctx context.Context, paperID, filename string, data []byte) (*models.Attachment, error) {
	if err := validatePaperID(paperID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if int64(len(data)) > s.config.Uploads.MaxAttachmentSize {
		return nil, fmt.Errorf("attachment exceeds maximum size of %d bytes", s.config.Uploads.MaxAttachmentSize)
	}

	name := sanitizeFilename(filename)
	if name == "" {
		return nil, fmt.Errorf("invalid filename %q", filename)
	}
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return nil, fmt.Errorf("attachments must be PDF files")
	}

	dir := filepath.Join(s.config.Storage.Filesystem.Attachments, paperID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create paper attachment directory: %w", err)
	}

	// Stage in the same directory so the final rename stays on one filesystem
	tmp, err := os.CreateTemp(dir, "upload_*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write staging file: %w", err)
	}
	tmp.Close()

	if err := s.pdf.Validate(tmpPath); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	metadata, err := s.pdf.GetMetadata(ctx, tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to read PDF metadata: %w", err)
	}

	path, name := uniquePath(dir, name)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	s.logger.Debug().
		Str("paper_id", paperID).
		Str("filename", name).
		Int("pages", metadata.PageCount).
		Msg("Attachment stored")

	return &models.Attachment{
		ID:          fmt.Sprintf("att_%s", uuid.New().String()),
		Filename:    name,
		ContentType: "application/pdf",
		Size:        int64(len(data)),
		PageCount:   metadata.PageCount,
		UploadedAt:  time.Now(),
	}, nil
}

// GetAttachmentPath returns the absolute path of a stored attachment
func (s *Service) GetAttachmentPath(ctx context.Context, paperID, filename string) (string, error) {
	return s.resolvePath(s.config.Storage.Filesystem.Attachments, paperID, filename)
}

// DeletePaperFiles removes every image and attachment stored for a paper
func (s *Service) DeletePaperFiles(ctx context.Context, paperID string) error {
	if err := validatePaperID(paperID); err != nil {
		return err
	}

	imageDir := filepath.Join(s.config.Storage.Filesystem.Images, paperID)
	if err := os.RemoveAll(imageDir); err != nil {
		return fmt.Errorf("failed to remove image directory: %w", err)
	}

	attachmentDir := filepath.Join(s.config.Storage.Filesystem.Attachments, paperID)
	if err := os.RemoveAll(attachmentDir); err != nil {
		return fmt.Errorf("failed to remove attachment directory: %w", err)
	}

	s.logger.Debug().
		Str("paper_id", paperID).
		Msg("Removed stored files for paper")
	return nil
}

// resolvePath joins a sanitized paper id and filename under base and checks
// that the file exists
func (s *Service) resolvePath(base, paperID, filename string) (string, error) {
	if err := validatePaperID(paperID); err != nil {
		return "", err
	}

	// Strip any path components to prevent directory traversal
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid filename")
	}

	path := filepath.Join(base, paperID, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file %s: %w", filename, interfaces.ErrNotFound)
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	return path, nil
}

func (s *Service) isAllowedImageType(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, allowed := range s.config.Uploads.AllowedImageTypes {
		if strings.EqualFold(ext, strings.TrimPrefix(allowed, ".")) {
			return true
		}
	}
	return false
}

// validatePaperID rejects ids that could escape the per-paper directory
func validatePaperID(paperID string) error {
	if paperID == "" || paperID != filepath.Base(paperID) || paperID == "." || paperID == ".." {
		return fmt.Errorf("invalid paper id %q", paperID)
	}
	return nil
}

// sanitizeFilename strips path components and keeps a conservative character
// set. Letters cover the full unicode range so Chinese filenames survive.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(strings.TrimSpace(filename))
	filename = strings.ReplaceAll(filename, " ", "-")

	var result strings.Builder
	for _, r := range filename {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			result.WriteRune(r)
		}
	}

	// Leading dots would hide the file or walk up the tree
	name := strings.TrimLeft(result.String(), ".")
	if name == "" {
		return ""
	}
	return name
}

// uniquePath returns a path under dir that does not collide with an existing
// file, appending a numeric suffix to the stem when needed
func uniquePath(dir, filename string) (string, string) {
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, filename
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		path = filepath.Join(dir, candidate)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, candidate
		}
	}
}
