package interfaces

import (
	"context"

	"github.com/ternarybob/neuink/internal/models"
)

// ChecklistService manages the two-level checklist tree and paper membership
type ChecklistService interface {
	// GetTree returns all checklists as an ordered two-level tree with
	// per-node paper counts
	GetTree(ctx context.Context) ([]*models.ChecklistTreeNode, error)

	// CreateChecklist creates a node. Parent must be a top-level node.
	CreateChecklist(ctx context.Context, req *models.CreateChecklistRequest) (*models.Checklist, error)

	// UpdateChecklist renames or reorders a node, maintaining FullPath
	UpdateChecklist(ctx context.Context, id string, req *models.UpdateChecklistRequest) (*models.Checklist, error)

	// DeleteChecklist removes a node, its children and all membership rows
	DeleteChecklist(ctx context.Context, id string) error

	// Membership
	AddPaper(ctx context.Context, checklistID, paperID string) error
	RemovePaper(ctx context.Context, checklistID, paperID string) error
	GetPaperChecklists(ctx context.Context, paperID string) ([]*models.Checklist, error)

	// Seed loads the initial tree from a YAML file when storage is empty
	Seed(ctx context.Context, path string) error
}
