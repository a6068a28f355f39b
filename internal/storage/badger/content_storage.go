package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ContentStorage implements the ContentStorage interface for Badger.
// Documents are keyed by paper id and written wholesale.
type ContentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewContentStorage creates a new ContentStorage instance
func NewContentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ContentStorage {
	return &ContentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ContentStorage) SaveContent(ctx context.Context, content *models.PaperContent) error {
	if content.PaperID == "" {
		return fmt.Errorf("paper ID is required")
	}

	now := time.Now()
	if content.CreatedAt.IsZero() {
		content.CreatedAt = now
	}
	content.UpdatedAt = now

	if err := s.db.Store().Upsert(content.PaperID, content); err != nil {
		return fmt.Errorf("failed to save content: %w", err)
	}
	return nil
}

func (s *ContentStorage) GetContent(ctx context.Context, paperID string) (*models.PaperContent, error) {
	var content models.PaperContent
	if err := s.db.Store().Get(paperID, &content); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("content for paper %s: %w", paperID, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return &content, nil
}

func (s *ContentStorage) DeleteContent(ctx context.Context, paperID string) error {
	if err := s.db.Store().Delete(paperID, &models.PaperContent{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return nil
}

func (s *ContentStorage) HasContent(ctx context.Context, paperID string) (bool, error) {
	var content models.PaperContent
	err := s.db.Store().Get(paperID, &content)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check content: %w", err)
	}
	return true, nil
}

func (s *ContentStorage) ListPaperIDs(ctx context.Context) ([]string, error) {
	var contents []models.PaperContent
	if err := s.db.Store().Find(&contents, nil); err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}

	ids := make([]string, len(contents))
	for i := range contents {
		ids[i] = contents[i].PaperID
	}
	return ids, nil
}
