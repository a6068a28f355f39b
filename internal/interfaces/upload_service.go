package interfaces

import (
	"context"

	"github.com/ternarybob/neuink/internal/models"
)

// UploadService stores uploaded files on disk under the data directory.
// Images live in a per-paper directory, attachments in another.
type UploadService interface {
	// Image operations
	SaveImage(ctx context.Context, paperID, filename string, data []byte) (*models.UploadedFile, error)
	GetImagePath(ctx context.Context, paperID, filename string) (string, error)
	ListImages(ctx context.Context, paperID string) ([]string, error)
	DeleteImage(ctx context.Context, paperID, filename string) error

	// Attachment operations (PDF only, validated before storing)
	SaveAttachment(ctx context.Context, paperID, filename string, data []byte) (*models.Attachment, error)
	GetAttachmentPath(ctx context.Context, paperID, filename string) (string, error)

	// DeletePaperFiles removes every file stored for a paper
	DeletePaperFiles(ctx context.Context, paperID string) error
}
