package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/neuink/internal/models"
)

// ErrValidation marks errors caused by an invalid payload. Handlers map it
// to a 400 response.
var ErrValidation = errors.New("validation failed")

// ContentService manages paper content documents and the notes stored
// inside them. Saves are whole-document replace.
type ContentService interface {
	// GetContent retrieves the full document for a paper
	GetContent(ctx context.Context, paperID string) (*models.PaperContent, error)

	// SaveContent validates the document, recomputes derived numbering,
	// refreshes the catalog row's language flag and persists wholesale
	SaveContent(ctx context.Context, paperID string, content *models.PaperContent) (*models.PaperContent, error)

	// Block note operations
	ListBlockNotes(ctx context.Context, paperID string) ([]*models.BlockNote, error)
	CreateBlockNote(ctx context.Context, paperID string, req *models.CreateBlockNoteRequest) (*models.BlockNote, error)
	UpdateBlockNote(ctx context.Context, paperID, noteID string, req *models.UpdateNoteRequest) (*models.BlockNote, error)
	DeleteBlockNote(ctx context.Context, paperID, noteID string) error

	// Checklist note operations (one note per paper+checklist pair)
	GetChecklistNote(ctx context.Context, paperID, checklistID string) (*models.ChecklistNote, error)
	SaveChecklistNote(ctx context.Context, paperID, checklistID string, req *models.SaveChecklistNoteRequest) (*models.ChecklistNote, error)
}
