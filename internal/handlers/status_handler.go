// -----------------------------------------------------------------------
// Status Handler - Health, version and 404 endpoints
// -----------------------------------------------------------------------

package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
)

// StatusHandler reports application health composed from the live services
type StatusHandler struct {
	storage    interfaces.StorageManager
	search     interfaces.SearchService
	translator interfaces.TranslationService
	scheduler  interfaces.SchedulerService
	started    time.Time
	logger     arbor.ILogger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(
	storage interfaces.StorageManager,
	search interfaces.SearchService,
	translator interfaces.TranslationService,
	scheduler interfaces.SchedulerService,
	logger arbor.ILogger,
) *StatusHandler {
	return &StatusHandler{
		storage:    storage,
		search:     search,
		translator: translator,
		scheduler:  scheduler,
		started:    time.Now(),
		logger:     logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()

	paperCount, err := h.storage.PaperStorage().CountPapers(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count papers for status")
		WriteError(w, http.StatusInternalServerError, "Storage unavailable")
		return
	}

	WriteData(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"papers":  paperCount,
		"search": map[string]interface{}{
			"enabled": h.search.Enabled(),
		},
		"translation": map[string]interface{}{
			"available": h.translator.Available(),
			"provider":  h.translator.ProviderName(),
		},
		"scheduler": map[string]interface{}{
			"running": h.scheduler.IsRunning(),
		},
	})
}

// VersionHandler handles GET /api/version
func (h *StatusHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteData(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// NotFoundHandler answers unmatched /api/ paths with a JSON 404
func (h *StatusHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "The requested endpoint does not exist: "+r.URL.Path)
}
