// -----------------------------------------------------------------------
// Translate Handler - Bilingual fill endpoint
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// TranslateHandler serves the translation endpoint
type TranslateHandler struct {
	translator interfaces.TranslationService
	logger     arbor.ILogger
}

// NewTranslateHandler creates a new translate handler
func NewTranslateHandler(translator interfaces.TranslationService, logger arbor.ILogger) *TranslateHandler {
	return &TranslateHandler{
		translator: translator,
		logger:     logger,
	}
}

// TranslatePaperHandler handles POST /api/papers/{id}/translate. An empty
// body runs a full-document fill with defaults.
func (h *TranslateHandler) TranslatePaperHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx := r.Context()
	paperID := pathSegment(r, 2)
	if paperID == "" {
		WriteError(w, http.StatusBadRequest, "Paper ID is required")
		return
	}

	var req models.TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.translator.TranslatePaper(ctx, paperID, &req)
	if err != nil {
		h.logger.Error().Err(err).Str("paper_id", paperID).Msg("Translation failed")
		WriteServiceError(w, err, "Translation failed")
		return
	}

	WriteData(w, http.StatusOK, report)
}
