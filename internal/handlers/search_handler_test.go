package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/models"
	"github.com/ternarybob/neuink/internal/services/search"
)

// mockSearchService implements interfaces.SearchService for testing
type mockSearchService struct {
	searchFunc func(ctx context.Context, query string, limit int) ([]*models.SearchResult, error)
	enabled    bool
}

func (m *mockSearchService) Index(ctx context.Context, paper *models.Paper, content *models.PaperContent) error {
	return nil
}

func (m *mockSearchService) Remove(ctx context.Context, paperID string) error {
	return nil
}

func (m *mockSearchService) Search(ctx context.Context, query string, limit int) ([]*models.SearchResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockSearchService) Rebuild(ctx context.Context) error { return nil }
func (m *mockSearchService) Enabled() bool                     { return m.enabled }
func (m *mockSearchService) Close() error                      { return nil }

func executeSearch(handler *SearchHandler, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", url, nil)
	rec := httptest.NewRecorder()
	handler.SearchPapersHandler(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return response
}

func TestSearchPapersHandler_Success(t *testing.T) {
	hits := []*models.SearchResult{
		{PaperID: "paper_1", Title: "Attention Is All You Need", Score: 2.4, Fragment: "…attention…"},
		{PaperID: "paper_2", Title: "BERT", Score: 1.1},
	}
	mockService := &mockSearchService{
		enabled: true,
		searchFunc: func(ctx context.Context, query string, limit int) ([]*models.SearchResult, error) {
			return hits, nil
		},
	}

	handler := NewSearchHandler(mockService, arbor.NewLogger())
	rec := executeSearch(handler, "/api/papers/search?q=attention")

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	response := decodeEnvelope(t, rec)
	if response["success"] != true {
		t.Errorf("Expected success envelope, got %v", response["success"])
	}

	data := response["data"].(map[string]interface{})
	if data["query"] != "attention" {
		t.Errorf("Expected query 'attention', got %v", data["query"])
	}
	if int(data["count"].(float64)) != 2 {
		t.Errorf("Expected count 2, got %v", data["count"])
	}

	results := data["results"].([]interface{})
	first := results[0].(map[string]interface{})
	if first["paper_id"] != "paper_1" {
		t.Errorf("Expected paper_id 'paper_1', got %v", first["paper_id"])
	}
	if first["fragment"] == nil {
		t.Error("Expected fragment on first hit")
	}
}

func TestSearchPapersHandler_MissingQuery(t *testing.T) {
	mockService := &mockSearchService{enabled: true}
	handler := NewSearchHandler(mockService, arbor.NewLogger())

	rec := executeSearch(handler, "/api/papers/search")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	response := decodeEnvelope(t, rec)
	if response["success"] != false {
		t.Errorf("Expected error envelope, got %v", response["success"])
	}
}

func TestSearchPapersHandler_LimitHandling(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		expectedLimit int
	}{
		{"Default limit", "/api/papers/search?q=x", 20},
		{"Explicit limit", "/api/papers/search?q=x&limit=5", 5},
		{"Capped at 100", "/api/papers/search?q=x&limit=500", 100},
		{"Invalid limit falls back", "/api/papers/search?q=x&limit=abc", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedLimit int
			mockService := &mockSearchService{
				enabled: true,
				searchFunc: func(ctx context.Context, query string, limit int) ([]*models.SearchResult, error) {
					capturedLimit = limit
					return []*models.SearchResult{}, nil
				},
			}

			handler := NewSearchHandler(mockService, arbor.NewLogger())
			rec := executeSearch(handler, tt.url)

			if rec.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", rec.Code)
			}
			if capturedLimit != tt.expectedLimit {
				t.Errorf("Expected limit %d, got %d", tt.expectedLimit, capturedLimit)
			}
		})
	}
}

func TestSearchPapersHandler_Disabled(t *testing.T) {
	mockService := &mockSearchService{
		searchFunc: func(ctx context.Context, query string, limit int) ([]*models.SearchResult, error) {
			return nil, search.ErrSearchDisabled
		},
	}

	handler := NewSearchHandler(mockService, arbor.NewLogger())
	rec := executeSearch(handler, "/api/papers/search?q=test")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}

func TestSearchPapersHandler_ServiceError(t *testing.T) {
	mockService := &mockSearchService{
		enabled: true,
		searchFunc: func(ctx context.Context, query string, limit int) ([]*models.SearchResult, error) {
			return nil, errFailed
		},
	}

	handler := NewSearchHandler(mockService, arbor.NewLogger())
	rec := executeSearch(handler, "/api/papers/search?q=test")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
	response := decodeEnvelope(t, rec)
	if response["error"] != "Search failed" {
		t.Errorf("Expected fallback error message, got %v", response["error"])
	}
}

func TestSearchPapersHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSearchHandler(&mockSearchService{enabled: true}, arbor.NewLogger())
	req := httptest.NewRequest("POST", "/api/papers/search?q=test", nil)
	rec := httptest.NewRecorder()

	handler.SearchPapersHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}

// errFailed is a sentinel for the generic failure path
var errFailed = &searchTestError{msg: "index unavailable"}

type searchTestError struct {
	msg string
}

func (e *searchTestError) Error() string {
	return e.msg
}
