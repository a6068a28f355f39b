package content

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
	"github.com/ternarybob/neuink/internal/numbering"
)

// Service implements ContentService interface
type Service struct {
	papers   interfaces.PaperStorage
	contents interfaces.ContentStorage
	search   interfaces.SearchService
	events   interfaces.EventService
	logger   arbor.ILogger
}

// NewService creates a new content service
func NewService(
	storage interfaces.StorageManager,
	search interfaces.SearchService,
	events interfaces.EventService,
	logger arbor.ILogger,
) interfaces.ContentService {
	return &Service{
		papers:   storage.PaperStorage(),
		contents: storage.ContentStorage(),
		search:   search,
		events:   events,
		logger:   logger,
	}
}

// GetContent retrieves the full document for a paper
func (s *Service) GetContent(ctx context.Context, paperID string) (*models.PaperContent, error) {
	return s.contents.GetContent(ctx, paperID)
}

// SaveContent runs the whole save pipeline: id validation, the numbering
// pass, the catalog mirror refresh, then the wholesale replace. The returned
// document carries the recomputed numbers.
func (s *Service) SaveContent(ctx context.Context, paperID string, content *models.PaperContent) (*models.PaperContent, error) {
	paper, err := s.papers.GetPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}

	// The path parameter wins over whatever the payload carries
	content.PaperID = paperID

	if err := content.ValidateIDs(); err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrValidation, err)
	}

	numbered := numbering.Apply(content)

	if err := s.contents.SaveContent(ctx, numbered); err != nil {
		return nil, fmt.Errorf("failed to save content: %w", err)
	}

	// The document is what the editor touches, so its metadata flows back
	// onto the catalog row, along with the derived language flag. A document
	// with only a Chinese title keeps the catalog row readable, and an empty
	// title never blanks it.
	if numbered.Metadata.Title.En != "" {
		paper.Title = numbered.Metadata.Title.En
	} else if numbered.Metadata.Title.Zh != "" {
		paper.Title = numbered.Metadata.Title.Zh
	}
	paper.Authors = numbered.Metadata.Authors
	paper.Venue = numbered.Metadata.Venue
	paper.Year = numbered.Metadata.Year
	paper.DOI = numbered.Metadata.DOI
	paper.ArxivID = numbered.Metadata.ArxivID
	paper.HasChineseContent = numbered.HasChineseContent()
	if err := s.papers.SavePaper(ctx, paper); err != nil {
		return nil, fmt.Errorf("failed to refresh catalog row: %w", err)
	}

	s.indexPaper(ctx, paper, numbered)
	s.publish(ctx, interfaces.EventContentSaved, map[string]interface{}{"paper_id": paperID})

	s.logger.Info().
		Str("paper_id", paperID).
		Int("sections", len(numbered.Sections)).
		Int("references", len(numbered.References)).
		Msg("Content saved")

	return numbered, nil
}

// ListBlockNotes returns all block notes of a paper
func (s *Service) ListBlockNotes(ctx context.Context, paperID string) ([]*models.BlockNote, error) {
	content, err := s.contents.GetContent(ctx, paperID)
	if err != nil {
		return nil, err
	}
	if content.BlockNotes == nil {
		return []*models.BlockNote{}, nil
	}
	return content.BlockNotes, nil
}

// CreateBlockNote attaches a note to an existing block
func (s *Service) CreateBlockNote(ctx context.Context, paperID string, req *models.CreateBlockNoteRequest) (*models.BlockNote, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrValidation, err)
	}

	content, err := s.contents.GetContent(ctx, paperID)
	if err != nil {
		return nil, err
	}

	// Notes may dangle after a block is deleted, but creating one against a
	// block that never existed is a payload mistake
	if content.FindBlock(req.BlockID) == nil {
		return nil, fmt.Errorf("%w: block %s does not exist", interfaces.ErrValidation, req.BlockID)
	}

	now := time.Now()
	note := &models.BlockNote{
		ID:        fmt.Sprintf("note_%s", uuid.New().String()),
		BlockID:   req.BlockID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	content.BlockNotes = append(content.BlockNotes, note)

	if err := s.contents.SaveContent(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	s.publish(ctx, interfaces.EventContentSaved, map[string]interface{}{"paper_id": paperID})

	s.logger.Debug().
		Str("paper_id", paperID).
		Str("note_id", note.ID).
		Str("block_id", note.BlockID).
		Msg("Block note created")

	return note, nil
}

// UpdateBlockNote replaces a note's content
func (s *Service) UpdateBlockNote(ctx context.Context, paperID, noteID string, req *models.UpdateNoteRequest) (*models.BlockNote, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrValidation, err)
	}

	content, err := s.contents.GetContent(ctx, paperID)
	if err != nil {
		return nil, err
	}

	note := findBlockNote(content, noteID)
	if note == nil {
		return nil, fmt.Errorf("note %s: %w", noteID, interfaces.ErrNotFound)
	}

	note.Content = req.Content
	note.UpdatedAt = time.Now()

	if err := s.contents.SaveContent(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	s.publish(ctx, interfaces.EventContentSaved, map[string]interface{}{"paper_id": paperID})
	return note, nil
}

// DeleteBlockNote removes a note from the document
func (s *Service) DeleteBlockNote(ctx context.Context, paperID, noteID string) error {
	content, err := s.contents.GetContent(ctx, paperID)
	if err != nil {
		return err
	}

	kept := content.BlockNotes[:0]
	found := false
	for _, note := range content.BlockNotes {
		if note.ID == noteID {
			found = true
			continue
		}
		kept = append(kept, note)
	}
	if !found {
		return fmt.Errorf("note %s: %w", noteID, interfaces.ErrNotFound)
	}
	content.BlockNotes = kept

	if err := s.contents.SaveContent(ctx, content); err != nil {
		return fmt.Errorf("failed to save content: %w", err)
	}

	s.publish(ctx, interfaces.EventContentSaved, map[string]interface{}{"paper_id": paperID})

	s.logger.Debug().
		Str("paper_id", paperID).
		Str("note_id", noteID).
		Msg("Block note deleted")
	return nil
}

// GetChecklistNote returns the note a paper carries for one checklist
func (s *Service) GetChecklistNote(ctx context.Context, paperID, checklistID string) (*models.ChecklistNote, error) {
	content, err := s.contents.GetContent(ctx, paperID)
	if err != nil {
		return nil, err
	}

	for _, note := range content.ChecklistNotes {
		if note.ChecklistID == checklistID {
			return note, nil
		}
	}
	return nil, fmt.Errorf("checklist note for %s: %w", checklistID, interfaces.ErrNotFound)
}

// SaveChecklistNote replaces the per-checklist note for a paper. Saving
// empty content deletes the note; the returned note is nil in that case.
func (s *Service) SaveChecklistNote(ctx context.Context, paperID, checklistID string, req *models.SaveChecklistNoteRequest) (*models.ChecklistNote, error) {
	content, err := s.contents.GetContent(ctx, paperID)
	if err != nil {
		return nil, err
	}

	if req.Content == "" {
		kept := content.ChecklistNotes[:0]
		for _, note := range content.ChecklistNotes {
			if note.ChecklistID != checklistID {
				kept = append(kept, note)
			}
		}
		content.ChecklistNotes = kept
		if err := s.contents.SaveContent(ctx, content); err != nil {
			return nil, fmt.Errorf("failed to save content: %w", err)
		}
		s.publish(ctx, interfaces.EventContentSaved, map[string]interface{}{"paper_id": paperID})
		return nil, nil
	}

	now := time.Now()
	var note *models.ChecklistNote
	for _, existing := range content.ChecklistNotes {
		if existing.ChecklistID == checklistID {
			note = existing
			break
		}
	}
	if note == nil {
		note = &models.ChecklistNote{
			ID:          fmt.Sprintf("note_%s", uuid.New().String()),
			ChecklistID: checklistID,
			CreatedAt:   now,
		}
		content.ChecklistNotes = append(content.ChecklistNotes, note)
	}
	note.Content = req.Content
	note.UpdatedAt = now

	if err := s.contents.SaveContent(ctx, content); err != nil {
		return nil, fmt.Errorf("failed to save content: %w", err)
	}

	s.publish(ctx, interfaces.EventContentSaved, map[string]interface{}{"paper_id": paperID})

	s.logger.Debug().
		Str("paper_id", paperID).
		Str("checklist_id", checklistID).
		Msg("Checklist note saved")

	return note, nil
}

func (s *Service) indexPaper(ctx context.Context, paper *models.Paper, content *models.PaperContent) {
	if s.search == nil {
		return
	}
	if err := s.search.Index(ctx, paper, content); err != nil {
		s.logger.Warn().Err(err).Str("paper_id", paper.ID).Msg("Failed to index paper")
	}
}

func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Str("event", string(eventType)).Msg("Failed to publish event")
	}
}

func findBlockNote(content *models.PaperContent, noteID string) *models.BlockNote {
	for _, note := range content.BlockNotes {
		if note.ID == noteID {
			return note
		}
	}
	return nil
}
