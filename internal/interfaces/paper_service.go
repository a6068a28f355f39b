package interfaces

import (
	"context"

	"github.com/ternarybob/neuink/internal/models"
)

// PaperService manages the paper catalog
type PaperService interface {
	// CreatePaper creates a catalog row plus an empty content document
	CreatePaper(ctx context.Context, req *models.CreatePaperRequest) (*models.Paper, error)

	// GetPaper retrieves a single paper by id
	GetPaper(ctx context.Context, id string) (*models.Paper, error)

	// UpdatePaper applies a partial metadata update
	UpdatePaper(ctx context.Context, id string, req *models.UpdatePaperRequest) (*models.Paper, error)

	// DeletePaper removes the paper and everything hanging off it:
	// content document, checklist memberships, uploaded files, search index entry
	DeletePaper(ctx context.Context, id string) error

	// ListPapers returns catalog rows matching the filter options
	ListPapers(ctx context.Context, opts *models.PaperListOptions) ([]*models.Paper, error)

	// UpdateProgress updates reading progress and status
	UpdateProgress(ctx context.Context, id string, req *models.UpdateProgressRequest) (*models.Paper, error)

	// SetParseStatus records the outcome of an import parse
	SetParseStatus(ctx context.Context, id, status string) error

	// GetStats returns library-wide aggregate counts
	GetStats(ctx context.Context) (*models.PaperStats, error)
}
