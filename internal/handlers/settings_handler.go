// -----------------------------------------------------------------------
// Settings Handler - App settings key/value endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// SettingsHandler serves the flat settings key/value space
type SettingsHandler struct {
	settings interfaces.SettingsStorage
	logger   arbor.ILogger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings interfaces.SettingsStorage, logger arbor.ILogger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		logger:   logger,
	}
}

// GetSettingsHandler handles GET /api/settings
func (h *SettingsHandler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()

	all, err := h.settings.GetAll(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load settings")
		WriteServiceError(w, err, "Failed to load settings")
		return
	}

	values := make(map[string]string, len(all))
	for _, setting := range all {
		values[setting.Key] = setting.Value
	}

	WriteData(w, http.StatusOK, map[string]interface{}{
		"settings": values,
	})
}

// UpdateSettingsHandler handles PUT /api/settings. Named keys are replaced,
// unnamed keys keep their values.
func (h *SettingsHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	ctx := r.Context()

	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	for key, value := range req.Settings {
		setting := &models.Setting{
			Key:       key,
			Value:     value,
			UpdatedAt: now,
		}
		if err := h.settings.Set(ctx, setting); err != nil {
			h.logger.Error().Err(err).Str("key", key).Msg("Failed to save setting")
			WriteServiceError(w, err, "Failed to save settings")
			return
		}
	}

	h.logger.Info().Int("count", len(req.Settings)).Msg("Settings updated")
	WriteSuccess(w, "Settings updated")
}
