// -----------------------------------------------------------------------
// Content Handler - Paper document and note endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// ContentHandler serves the paper content document and its notes
type ContentHandler struct {
	content interfaces.ContentService
	logger  arbor.ILogger
}

// NewContentHandler creates a new content handler
func NewContentHandler(content interfaces.ContentService, logger arbor.ILogger) *ContentHandler {
	return &ContentHandler{
		content: content,
		logger:  logger,
	}
}

// GetContentHandler handles GET /api/papers/{id}/content
func (h *ContentHandler) GetContentHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	content, err := h.content.GetContent(ctx, paperID)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to get content")
		WriteServiceError(w, err, "Failed to get content")
		return
	}

	WriteData(w, http.StatusOK, content)
}

// SaveContentHandler handles PUT /api/papers/{id}/content. The body is the
// full document; numbering and language flags are recomputed on save.
func (h *ContentHandler) SaveContentHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	var doc models.PaperContent
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid document body: "+err.Error())
		return
	}

	saved, err := h.content.SaveContent(ctx, paperID, &doc)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to save content")
		WriteServiceError(w, err, "Failed to save content")
		return
	}

	WriteData(w, http.StatusOK, saved)
}

// ListNotesHandler handles GET /api/papers/{id}/notes
func (h *ContentHandler) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	notes, err := h.content.ListBlockNotes(ctx, paperID)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to list notes")
		WriteServiceError(w, err, "Failed to list notes")
		return
	}

	WriteData(w, http.StatusOK, map[string]interface{}{
		"notes": notes,
		"count": len(notes),
	})
}

// CreateNoteHandler handles POST /api/papers/{id}/notes
func (h *ContentHandler) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	var req models.CreateBlockNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.content.CreateBlockNote(ctx, paperID, &req)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Failed to create note")
		WriteServiceError(w, err, "Failed to create note")
		return
	}

	WriteData(w, http.StatusCreated, note)
}

// UpdateNoteHandler handles PUT /api/papers/{id}/notes/{noteId}
func (h *ContentHandler) UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	noteID := pathSegment(r, 4)
	if paperID == "" || noteID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID and note ID are required")
		return
	}

	var req models.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.content.UpdateBlockNote(ctx, paperID, noteID, &req)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Str("note_id", noteID).Msg("Failed to update note")
		WriteServiceError(w, err, "Failed to update note")
		return
	}

	WriteData(w, http.StatusOK, note)
}

// DeleteNoteHandler handles DELETE /api/papers/{id}/notes/{noteId}
func (h *ContentHandler) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	noteID := pathSegment(r, 4)
	if paperID == "" || noteID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID and note ID are required")
		return
	}

	if err := h.content.DeleteBlockNote(ctx, paperID, noteID); err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Str("note_id", noteID).Msg("Failed to delete note")
		WriteServiceError(w, err, "Failed to delete note")
		return
	}

	WriteSuccess(w, "Note deleted")
}

// GetChecklistNoteHandler handles GET /api/papers/{id}/checklist-notes/{checklistId}
func (h *ContentHandler) GetChecklistNoteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	checklistID := pathSegment(r, 4)
	if paperID == "" || checklistID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID and checklist ID are required")
		return
	}

	note, err := h.content.GetChecklistNote(ctx, paperID, checklistID)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Str("checklist_id", checklistID).Msg("Failed to get checklist note")
		WriteServiceError(w, err, "Failed to get checklist note")
		return
	}

	WriteData(w, http.StatusOK, note)
}

// SaveChecklistNoteHandler handles PUT /api/papers/{id}/checklist-notes/{checklistId}.
// Saving empty content removes the note.
func (h *ContentHandler) SaveChecklistNoteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	checklistID := pathSegment(r, 4)
	if paperID == "" || checklistID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID and checklist ID are required")
		return
	}

	var req models.SaveChecklistNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.content.SaveChecklistNote(ctx, paperID, checklistID, &req)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Str("checklist_id", checklistID).Msg("Failed to save checklist note")
		WriteServiceError(w, err, "Failed to save checklist note")
		return
	}

	if note == nil {
		WriteSuccess(w, "Checklist note removed")
		return
	}
	WriteData(w, http.StatusOK, note)
}
