package search

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// ErrSearchDisabled is returned when search functionality is unavailable
var ErrSearchDisabled = fmt.Errorf("search service is disabled in configuration")

// DisabledSearchService is a no-op implementation used when search is off.
// Index and Remove succeed silently so save and delete paths do not need to
// care whether search is configured; queries fail with ErrSearchDisabled.
type DisabledSearchService struct {
	logger arbor.ILogger
}

// NewDisabledSearchService creates a no-op search service
func NewDisabledSearchService(logger arbor.ILogger) interfaces.SearchService {
	return &DisabledSearchService{
		logger: logger,
	}
}

func (s *DisabledSearchService) Index(ctx context.Context, paper *models.Paper, content *models.PaperContent) error {
	return nil
}

func (s *DisabledSearchService) Remove(ctx context.Context, paperID string) error {
	return nil
}

// Search returns ErrSearchDisabled
func (s *DisabledSearchService) Search(ctx context.Context, query string, limit int) ([]*models.SearchResult, error) {
	s.logger.Warn().
		Str("query", query).
		Msg("Search attempted but service is disabled")
	return nil, ErrSearchDisabled
}

// Rebuild returns ErrSearchDisabled
func (s *DisabledSearchService) Rebuild(ctx context.Context) error {
	return ErrSearchDisabled
}

func (s *DisabledSearchService) Enabled() bool {
	return false
}

func (s *DisabledSearchService) Close() error {
	return nil
}
