package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/neuink/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// PaperStorage - interface for paper catalog persistence
type PaperStorage interface {
	// Catalog operations
	SavePaper(ctx context.Context, paper *models.Paper) error
	GetPaper(ctx context.Context, id string) (*models.Paper, error)
	ListPapers(ctx context.Context, opts *models.PaperListOptions) ([]*models.Paper, error)
	DeletePaper(ctx context.Context, id string) error
	CountPapers(ctx context.Context) (int, error)

	// Aggregate operations
	GetStats(ctx context.Context) (*models.PaperStats, error)
}

// ContentStorage - interface for paper document persistence. One document
// per paper, saved wholesale (last-write-wins, no merge).
type ContentStorage interface {
	SaveContent(ctx context.Context, content *models.PaperContent) error
	GetContent(ctx context.Context, paperID string) (*models.PaperContent, error)
	DeleteContent(ctx context.Context, paperID string) error
	HasContent(ctx context.Context, paperID string) (bool, error)
	ListPaperIDs(ctx context.Context) ([]string, error)
}

// ChecklistStorage - interface for checklist nodes and paper membership
type ChecklistStorage interface {
	// Node operations
	SaveChecklist(ctx context.Context, checklist *models.Checklist) error
	GetChecklist(ctx context.Context, id string) (*models.Checklist, error)
	GetChecklistByPath(ctx context.Context, fullPath string) (*models.Checklist, error)
	ListChecklists(ctx context.Context) ([]*models.Checklist, error)
	ListChildren(ctx context.Context, parentID string) ([]*models.Checklist, error)
	DeleteChecklist(ctx context.Context, id string) error
	CountChecklists(ctx context.Context) (int, error)

	// Membership operations
	AddPaper(ctx context.Context, checklistID, paperID string) error
	RemovePaper(ctx context.Context, checklistID, paperID string) error
	ListPaperIDs(ctx context.Context, checklistID string) ([]string, error)
	ListChecklistIDs(ctx context.Context, paperID string) ([]string, error)
	CountPapers(ctx context.Context, checklistID string) (int, error)
	RemovePaperEverywhere(ctx context.Context, paperID string) error
}

// SettingsStorage - interface for application settings persistence.
// Settings are a flat key/value space with replace semantics.
type SettingsStorage interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, setting *models.Setting) error
	GetAll(ctx context.Context) ([]*models.Setting, error)
	Delete(ctx context.Context, key string) error
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	PaperStorage() PaperStorage
	ContentStorage() ContentStorage
	ChecklistStorage() ChecklistStorage
	SettingsStorage() SettingsStorage

	// DB returns the underlying database connection
	DB() interface{}

	// RunGC runs storage maintenance (value log compaction)
	RunGC() error

	// Close closes the database connection
	Close() error
}
