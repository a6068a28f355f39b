package interfaces

import (
	"context"

	"github.com/ternarybob/neuink/internal/models"
)

// SearchService provides full-text search over the paper library.
// This interface abstracts the index implementation so a different
// backend can be swapped in without affecting handlers or services.
type SearchService interface {
	// Index adds or replaces a paper in the index. Content may be nil
	// when only catalog metadata is known.
	Index(ctx context.Context, paper *models.Paper, content *models.PaperContent) error

	// Remove deletes a paper from the index
	Remove(ctx context.Context, paperID string) error

	// Search runs a query and returns scored results, best first
	Search(ctx context.Context, query string, limit int) ([]*models.SearchResult, error)

	// Rebuild drops the index and reindexes every stored paper
	Rebuild(ctx context.Context) error

	// Enabled reports whether search is configured on
	Enabled() bool

	// Close releases the index
	Close() error
}
