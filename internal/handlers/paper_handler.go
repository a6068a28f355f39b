// -----------------------------------------------------------------------
// Paper Handler - Catalog CRUD, progress and stats endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// PaperHandler serves the paper catalog endpoints
type PaperHandler struct {
	papers interfaces.PaperService
	logger arbor.ILogger
}

// NewPaperHandler creates a new paper handler
func NewPaperHandler(papers interfaces.PaperService, logger arbor.ILogger) *PaperHandler {
	return &PaperHandler{
		papers: papers,
		logger: logger,
	}
}

// ListPapersHandler handles GET /api/papers with paging and filters
func (h *PaperHandler) ListPapersHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	page, limit := GetPageParams(r)

	opts := &models.PaperListOptions{
		ReadingStatus: r.URL.Query().Get("status"),
		Tag:           r.URL.Query().Get("tag"),
		ChecklistID:   r.URL.Query().Get("checklist"),
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}

	papers, err := h.papers.ListPapers(ctx, opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list papers")
		WriteServiceError(w, err, "Failed to list papers")
		return
	}

	WriteData(w, http.StatusOK, map[string]interface{}{
		"papers": papers,
		"page":   page,
		"limit":  limit,
		"count":  len(papers),
	})
}

// CreatePaperHandler handles POST /api/papers
func (h *PaperHandler) CreatePaperHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()

	var req models.CreatePaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	paper, err := h.papers.CreatePaper(ctx, &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create paper")
		WriteServiceError(w, err, "Failed to create paper")
		return
	}

	WriteData(w, http.StatusCreated, paper)
}

// GetPaperHandler handles GET /api/papers/{id}
func (h *PaperHandler) GetPaperHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	paper, err := h.papers.GetPaper(ctx, paperID)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to get paper")
		WriteServiceError(w, err, "Failed to get paper")
		return
	}

	WriteData(w, http.StatusOK, paper)
}

// UpdatePaperHandler handles PUT /api/papers/{id}
func (h *PaperHandler) UpdatePaperHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	var req models.UpdatePaperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	paper, err := h.papers.UpdatePaper(ctx, paperID, &req)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to update paper")
		WriteServiceError(w, err, "Failed to update paper")
		return
	}

	WriteData(w, http.StatusOK, paper)
}

// DeletePaperHandler handles DELETE /api/papers/{id}
func (h *PaperHandler) DeletePaperHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	if err := h.papers.DeletePaper(ctx, paperID); err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to delete paper")
		WriteServiceError(w, err, "Failed to delete paper")
		return
	}

	WriteSuccess(w, "Paper deleted")
}

// UpdateProgressHandler handles PUT /api/papers/{id}/progress
func (h *PaperHandler) UpdateProgressHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	var req models.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	paper, err := h.papers.UpdateProgress(ctx, paperID, &req)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to update progress")
		WriteServiceError(w, err, "Failed to update progress")
		return
	}

	WriteData(w, http.StatusOK, paper)
}

// StatsHandler handles GET /api/papers/stats
func (h *PaperHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()

	stats, err := h.papers.GetStats(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get library stats")
		WriteServiceError(w, err, "Failed to get library stats")
		return
	}

	WriteData(w, http.StatusOK, stats)
}

// pathSegment returns the nth segment of the request path, empty when the
// path is shorter. Segment 0 is "api" for every route in this package.
func pathSegment(r *http.Request, n int) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if n >= len(parts) {
		return ""
	}
	return parts[n]
}
