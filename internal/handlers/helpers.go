package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/services/search"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteData writes a success envelope around the payload.
func WriteData(w http.ResponseWriter, statusCode int, data interface{}) error {
	return WriteJSON(w, statusCode, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// WriteSuccess writes a success envelope carrying only a message.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteData(w, http.StatusOK, map[string]string{
		"message": message,
	})
}

// WriteError writes an error envelope.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// WriteServiceError maps a service error onto the envelope. Validation
// failures become 400, missing records 404, disabled subsystems 503 and
// everything else the supplied fallback message with a 500.
func WriteServiceError(w http.ResponseWriter, err error, fallback string) error {
	switch {
	case errors.Is(err, interfaces.ErrValidation):
		return WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interfaces.ErrNotFound):
		return WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, search.ErrSearchDisabled):
		return WriteError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, interfaces.ErrTranslationUnavailable):
		return WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		return WriteError(w, http.StatusInternalServerError, fallback)
	}
}

// GetPageParams extracts list paging from the query string. Page is
// 1-indexed and defaults to 1; limit defaults to 50 with a cap of 200.
func GetPageParams(r *http.Request) (page, limit int) {
	page = 1
	limit = 50

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p >= 1 {
			page = p
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}

	return page, limit
}

// GetIntParam extracts a single integer query parameter with a default.
func GetIntParam(r *http.Request, name string, def int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}
