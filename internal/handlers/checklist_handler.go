// -----------------------------------------------------------------------
// Checklist Handler - Folder tree and paper membership endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// ChecklistHandler serves the two-level checklist tree and membership routes
type ChecklistHandler struct {
	checklists interfaces.ChecklistService
	logger     arbor.ILogger
}

// NewChecklistHandler creates a new checklist handler
func NewChecklistHandler(checklists interfaces.ChecklistService, logger arbor.ILogger) *ChecklistHandler {
	return &ChecklistHandler{
		checklists: checklists,
		logger:     logger,
	}
}

// GetTreeHandler handles GET /api/checklists
func (h *ChecklistHandler) GetTreeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()

	tree, err := h.checklists.GetTree(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get checklist tree")
		WriteServiceError(w, err, "Failed to get checklist tree")
		return
	}

	WriteData(w, http.StatusOK, map[string]interface{}{
		"checklists": tree,
	})
}

// CreateChecklistHandler handles POST /api/checklists
func (h *ChecklistHandler) CreateChecklistHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()

	var req models.CreateChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	checklist, err := h.checklists.CreateChecklist(ctx, &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to create checklist")
		WriteServiceError(w, err, "Failed to create checklist")
		return
	}

	WriteData(w, http.StatusCreated, checklist)
}

// UpdateChecklistHandler handles PUT /api/checklists/{id}
func (h *ChecklistHandler) UpdateChecklistHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	ctx := r.Context()
	checklistID := pathSegment(r, 2)
	if checklistID == "" {
		WriteError(w, http.StatusBadRequest, "Checklist ID is required")
		return
	}

	var req models.UpdateChecklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	checklist, err := h.checklists.UpdateChecklist(ctx, checklistID, &req)
	if err != nil {
		h.logger.Error().Err(err).Str("checklist_id", checklistID).Msg("Failed to update checklist")
		WriteServiceError(w, err, "Failed to update checklist")
		return
	}

	WriteData(w, http.StatusOK, checklist)
}

// DeleteChecklistHandler handles DELETE /api/checklists/{id}
func (h *ChecklistHandler) DeleteChecklistHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	ctx := r.Context()
	checklistID := pathSegment(r, 2)
	if checklistID == "" {
		WriteError(w, http.StatusBadRequest, "Checklist ID is required")
		return
	}

	if err := h.checklists.DeleteChecklist(ctx, checklistID); err != nil {
		h.logger.Error().Err(err).Str("checklist_id", checklistID).Msg("Failed to delete checklist")
		WriteServiceError(w, err, "Failed to delete checklist")
		return
	}

	WriteSuccess(w, "Checklist deleted")
}

// AddPaperHandler handles POST /api/checklists/{id}/papers/{paperId}
func (h *ChecklistHandler) AddPaperHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	checklistID := pathSegment(r, 2)
	paperID := pathSegment(r, 4)
	if checklistID == "" || paperID == "" {
		WriteError(w, http.StatusBadRequest, "Checklist ID and paper ID are required")
		return
	}

	if err := h.checklists.AddPaper(ctx, checklistID, paperID); err != nil {
		h.logger.Error().Err(err).Str("checklist_id", checklistID).Str("paper_id", paperID).Msg("Failed to add paper to checklist")
		WriteServiceError(w, err, "Failed to add paper to checklist")
		return
	}

	WriteSuccess(w, "Paper added to checklist")
}

// RemovePaperHandler handles DELETE /api/checklists/{id}/papers/{paperId}
func (h *ChecklistHandler) RemovePaperHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	ctx := r.Context()
	checklistID := pathSegment(r, 2)
	paperID := pathSegment(r, 4)
	if checklistID == "" || paperID == "" {
		WriteError(w, http.StatusBadRequest, "Checklist ID and paper ID are required")
		return
	}

	if err := h.checklists.RemovePaper(ctx, checklistID, paperID); err != nil {
		h.logger.Error().Err(err).Str("checklist_id", checklistID).Str("paper_id", paperID).Msg("Failed to remove paper from checklist")
		WriteServiceError(w, err, "Failed to remove paper from checklist")
		return
	}

	WriteSuccess(w, "Paper removed from checklist")
}

// PaperChecklistsHandler handles GET /api/papers/{id}/checklists
func (h *ChecklistHandler) PaperChecklistsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	checklists, err := h.checklists.GetPaperChecklists(ctx, paperID)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to get paper checklists")
		WriteServiceError(w, err, "Failed to get paper checklists")
		return
	}

	WriteData(w, http.StatusOK, map[string]interface{}{
		"checklists": checklists,
	})
}
