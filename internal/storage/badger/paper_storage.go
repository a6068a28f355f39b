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

// PaperStorage implements the PaperStorage interface for Badger
type PaperStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPaperStorage creates a new PaperStorage instance
func NewPaperStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PaperStorage {
	return &PaperStorage{
		db:     db,
		logger: logger,
	}
}

func (s *PaperStorage) SavePaper(ctx context.Context, paper *models.Paper) error {
	if paper.ID == "" {
		return fmt.Errorf("paper ID is required")
	}

	now := time.Now()
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = now
	}
	paper.UpdatedAt = now

	if err := s.db.Store().Upsert(paper.ID, paper); err != nil {
		return fmt.Errorf("failed to save paper: %w", err)
	}
	return nil
}

func (s *PaperStorage) GetPaper(ctx context.Context, id string) (*models.Paper, error) {
	var paper models.Paper
	if err := s.db.Store().Get(id, &paper); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("paper %s: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}
	return &paper, nil
}

func (s *PaperStorage) ListPapers(ctx context.Context, opts *models.PaperListOptions) ([]*models.Paper, error) {
	query := badgerhold.Where("ID").Ne("") // Select all

	if opts != nil {
		if opts.ReadingStatus != "" {
			query = query.And("ReadingStatus").Eq(opts.ReadingStatus)
		}
		if opts.ParseStatus != "" {
			query = query.And("ParseStatus").Eq(opts.ParseStatus)
		}
		if opts.Tag != "" {
			query = query.And("Tags").Contains(opts.Tag)
		}
	}

	query = query.SortBy("UpdatedAt").Reverse()

	if opts != nil {
		if opts.Offset > 0 {
			query = query.Skip(opts.Offset)
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
	}

	var papers []models.Paper
	if err := s.db.Store().Find(&papers, query); err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}

	result := make([]*models.Paper, len(papers))
	for i := range papers {
		result[i] = &papers[i]
	}
	return result, nil
}

func (s *PaperStorage) DeletePaper(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Paper{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("paper %s: %w", id, interfaces.ErrNotFound)
		}
		return fmt.Errorf("failed to delete paper: %w", err)
	}
	return nil
}

func (s *PaperStorage) CountPapers(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Paper{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count papers: %w", err)
	}
	return int(count), nil
}

// GetStats aggregates library counts in a single pass over the catalog
func (s *PaperStorage) GetStats(ctx context.Context) (*models.PaperStats, error) {
	var papers []models.Paper
	if err := s.db.Store().Find(&papers, nil); err != nil {
		return nil, fmt.Errorf("failed to load papers for stats: %w", err)
	}

	stats := &models.PaperStats{
		Total:           len(papers),
		ByReadingStatus: make(map[string]int),
		ByParseStatus:   make(map[string]int),
		ByYear:          make(map[int]int),
	}
	for i := range papers {
		p := &papers[i]
		stats.ByReadingStatus[p.ReadingStatus]++
		stats.ByParseStatus[p.ParseStatus]++
		if p.Year > 0 {
			stats.ByYear[p.Year]++
		}
		if p.HasChineseContent {
			stats.Translated++
		}
		if p.Rating > 0 {
			stats.Rated++
		}
	}
	return stats, nil
}
