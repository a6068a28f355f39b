package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// mockContentService implements interfaces.ContentService for testing
type mockContentService struct {
	getFunc        func(ctx context.Context, paperID string) (*models.PaperContent, error)
	saveFunc       func(ctx context.Context, paperID string, content *models.PaperContent) (*models.PaperContent, error)
	createNoteFunc func(ctx context.Context, paperID string, req *models.CreateBlockNoteRequest) (*models.BlockNote, error)
	saveChkFunc    func(ctx context.Context, paperID, checklistID string, req *models.SaveChecklistNoteRequest) (*models.ChecklistNote, error)
}

func (m *mockContentService) GetContent(ctx context.Context, paperID string) (*models.PaperContent, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, paperID)
	}
	return models.NewPaperContent(paperID, models.ContentMetadata{}), nil
}

func (m *mockContentService) SaveContent(ctx context.Context, paperID string, content *models.PaperContent) (*models.PaperContent, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, paperID, content)
	}
	return content, nil
}

func (m *mockContentService) ListBlockNotes(ctx context.Context, paperID string) ([]*models.BlockNote, error) {
	return []*models.BlockNote{}, nil
}

func (m *mockContentService) CreateBlockNote(ctx context.Context, paperID string, req *models.CreateBlockNoteRequest) (*models.BlockNote, error) {
	if m.createNoteFunc != nil {
		return m.createNoteFunc(ctx, paperID, req)
	}
	return &models.BlockNote{ID: "note_test", BlockID: req.BlockID, Content: req.Content}, nil
}

func (m *mockContentService) UpdateBlockNote(ctx context.Context, paperID, noteID string, req *models.UpdateNoteRequest) (*models.BlockNote, error) {
	return &models.BlockNote{ID: noteID, Content: req.Content}, nil
}

func (m *mockContentService) DeleteBlockNote(ctx context.Context, paperID, noteID string) error {
	return nil
}

func (m *mockContentService) GetChecklistNote(ctx context.Context, paperID, checklistID string) (*models.ChecklistNote, error) {
	return &models.ChecklistNote{ChecklistID: checklistID}, nil
}

func (m *mockContentService) SaveChecklistNote(ctx context.Context, paperID, checklistID string, req *models.SaveChecklistNoteRequest) (*models.ChecklistNote, error) {
	if m.saveChkFunc != nil {
		return m.saveChkFunc(ctx, paperID, checklistID, req)
	}
	return &models.ChecklistNote{ChecklistID: checklistID, Content: req.Content}, nil
}

func TestSaveContentHandler_RoundTrip(t *testing.T) {
	var capturedID string
	mock := &mockContentService{
		saveFunc: func(ctx context.Context, paperID string, content *models.PaperContent) (*models.PaperContent, error) {
			capturedID = paperID
			return content, nil
		},
	}
	handler := NewContentHandler(mock, arbor.NewLogger())

	body := `{
		"paper_id": "paper_1",
		"metadata": {"title": {"en": "Attention Is All You Need"}},
		"sections": [
			{
				"id": "sec_1",
				"title": {"en": [{"type": "text", "content": "Introduction"}]},
				"content": [
					{"type": "paragraph", "id": "blk_1", "content": {"en": [{"type": "text", "content": "Hello."}]}}
				]
			}
		]
	}`
	req := httptest.NewRequest("PUT", "/api/papers/paper_1/content", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SaveContentHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paper_1", capturedID)

	response := decodeEnvelope(t, rec)
	data := response["data"].(map[string]interface{})
	sections := data["sections"].([]interface{})
	require.Len(t, sections, 1)
	blocks := sections[0].(map[string]interface{})["content"].([]interface{})
	require.Len(t, blocks, 1)
	assert.Equal(t, "paragraph", blocks[0].(map[string]interface{})["type"])
}

func TestSaveContentHandler_UnknownBlockType(t *testing.T) {
	handler := NewContentHandler(&mockContentService{}, arbor.NewLogger())

	body := `{
		"paper_id": "paper_1",
		"sections": [
			{"id": "sec_1", "content": [{"type": "hologram", "id": "blk_1"}]}
		]
	}`
	req := httptest.NewRequest("PUT", "/api/papers/paper_1/content", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.SaveContentHandler(rec, req)

	// Decoding fails before the service is reached
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	response := decodeEnvelope(t, rec)
	assert.Equal(t, false, response["success"])
}

func TestSaveContentHandler_ValidationError(t *testing.T) {
	mock := &mockContentService{
		saveFunc: func(ctx context.Context, paperID string, content *models.PaperContent) (*models.PaperContent, error) {
			return nil, fmt.Errorf("%w: duplicate block id blk_1", interfaces.ErrValidation)
		},
	}
	handler := NewContentHandler(mock, arbor.NewLogger())

	req := httptest.NewRequest("PUT", "/api/papers/paper_1/content", strings.NewReader(`{"paper_id":"paper_1"}`))
	rec := httptest.NewRecorder()
	handler.SaveContentHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	response := decodeEnvelope(t, rec)
	assert.Contains(t, response["error"], "duplicate block id")
}

func TestCreateNoteHandler(t *testing.T) {
	handler := NewContentHandler(&mockContentService{}, arbor.NewLogger())

	body := `{"block_id":"blk_1","content":"Key result."}`
	req := httptest.NewRequest("POST", "/api/papers/paper_1/notes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreateNoteHandler(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	response := decodeEnvelope(t, rec)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "blk_1", data["block_id"])
	assert.Equal(t, "Key result.", data["content"])
}

func TestCreateNoteHandler_MissingBlock(t *testing.T) {
	mock := &mockContentService{
		createNoteFunc: func(ctx context.Context, paperID string, req *models.CreateBlockNoteRequest) (*models.BlockNote, error) {
			return nil, fmt.Errorf("%w: block %s does not exist", interfaces.ErrValidation, req.BlockID)
		},
	}
	handler := NewContentHandler(mock, arbor.NewLogger())

	body := `{"block_id":"blk_gone","content":"orphan"}`
	req := httptest.NewRequest("POST", "/api/papers/paper_1/notes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreateNoteHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateNoteHandler_PathSegments(t *testing.T) {
	handler := NewContentHandler(&mockContentService{}, arbor.NewLogger())

	body := `{"content":"Revised."}`
	req := httptest.NewRequest("PUT", "/api/papers/paper_1/notes/note_9", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.UpdateNoteHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	response := decodeEnvelope(t, rec)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "note_9", data["id"])
	assert.Equal(t, "Revised.", data["content"])
}

func TestSaveChecklistNoteHandler_EmptyContentRemoves(t *testing.T) {
	mock := &mockContentService{
		saveChkFunc: func(ctx context.Context, paperID, checklistID string, req *models.SaveChecklistNoteRequest) (*models.ChecklistNote, error) {
			if req.Content == "" {
				return nil, nil
			}
			return &models.ChecklistNote{ChecklistID: checklistID, Content: req.Content}, nil
		},
	}
	handler := NewContentHandler(mock, arbor.NewLogger())

	req := httptest.NewRequest("PUT", "/api/papers/paper_1/checklist-notes/chk_1", strings.NewReader(`{"content":""}`))
	rec := httptest.NewRecorder()
	handler.SaveChecklistNoteHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	response := decodeEnvelope(t, rec)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Checklist note removed", data["message"])
}

func TestGetContentHandler_MissingID(t *testing.T) {
	handler := NewContentHandler(&mockContentService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/papers", nil)
	rec := httptest.NewRecorder()
	handler.GetContentHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
