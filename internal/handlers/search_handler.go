// -----------------------------------------------------------------------
// Search Handler - Full-text query endpoint
// -----------------------------------------------------------------------

package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
)

// SearchHandler serves full-text search over the paper library
type SearchHandler struct {
	search interfaces.SearchService
	logger arbor.ILogger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search interfaces.SearchService, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		search: search,
		logger: logger,
	}
}

// SearchPapersHandler handles GET /api/papers/search?q=...&limit=...
func (h *SearchHandler) SearchPapersHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}
	limit := GetIntParam(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}

	results, err := h.search.Search(ctx, query, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("query", query).Msg("Search failed")
		WriteServiceError(w, err, "Search failed")
		return
	}

	WriteData(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}
