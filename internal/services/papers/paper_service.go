package papers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// Service implements PaperService interface
type Service struct {
	papers     interfaces.PaperStorage
	contents   interfaces.ContentStorage
	checklists interfaces.ChecklistStorage
	uploads    interfaces.UploadService
	search     interfaces.SearchService
	events     interfaces.EventService
	logger     arbor.ILogger
}

// NewService creates a new paper service
func NewService(
	storage interfaces.StorageManager,
	uploads interfaces.UploadService,
	search interfaces.SearchService,
	events interfaces.EventService,
	logger arbor.ILogger,
) interfaces.PaperService {
	return &Service{
		papers:     storage.PaperStorage(),
		contents:   storage.ContentStorage(),
		checklists: storage.ChecklistStorage(),
		uploads:    uploads,
		search:     search,
		events:     events,
		logger:     logger,
	}
}

// CreatePaper creates the catalog row together with its empty content
// skeleton so every paper always has a document to load.
func (s *Service) CreatePaper(ctx context.Context, req *models.CreatePaperRequest) (*models.Paper, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrValidation, err)
	}

	paper := &models.Paper{
		ID:            fmt.Sprintf("paper_%s", uuid.New().String()),
		Title:         req.Title,
		Authors:       req.Authors,
		Venue:         req.Venue,
		Year:          req.Year,
		DOI:           req.DOI,
		ArxivID:       req.ArxivID,
		Tags:          req.Tags,
		ReadingStatus: models.ReadingStatusUnread,
		ParseStatus:   models.ParseStatusParsed,
	}

	if err := s.papers.SavePaper(ctx, paper); err != nil {
		return nil, fmt.Errorf("failed to save paper: %w", err)
	}

	content := models.NewPaperContent(paper.ID, models.ContentMetadata{
		Title:   models.BilingualText{En: req.Title},
		Authors: req.Authors,
		Venue:   req.Venue,
		Year:    req.Year,
		DOI:     req.DOI,
		ArxivID: req.ArxivID,
	})
	if err := s.contents.SaveContent(ctx, content); err != nil {
		// Roll back the catalog row rather than leaving a paper without a document
		if delErr := s.papers.DeletePaper(ctx, paper.ID); delErr != nil {
			s.logger.Warn().Err(delErr).Str("paper_id", paper.ID).Msg("Failed to roll back paper after content save failure")
		}
		return nil, fmt.Errorf("failed to save content skeleton: %w", err)
	}

	s.indexPaper(ctx, paper, content)
	s.publish(ctx, interfaces.EventPaperCreated, paper)

	s.logger.Info().
		Str("paper_id", paper.ID).
		Str("title", paper.Title).
		Msg("Paper created")

	return paper, nil
}

// GetPaper retrieves a paper by ID
func (s *Service) GetPaper(ctx context.Context, id string) (*models.Paper, error) {
	return s.papers.GetPaper(ctx, id)
}

// UpdatePaper applies a partial metadata update. Bibliographic fields are
// mirrored into the content document so exports stay self-contained.
func (s *Service) UpdatePaper(ctx context.Context, id string, req *models.UpdatePaperRequest) (*models.Paper, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrValidation, err)
	}

	paper, err := s.papers.GetPaper(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		paper.Title = *req.Title
	}
	if req.Authors != nil {
		paper.Authors = *req.Authors
	}
	if req.Venue != nil {
		paper.Venue = *req.Venue
	}
	if req.Year != nil {
		paper.Year = *req.Year
	}
	if req.DOI != nil {
		paper.DOI = *req.DOI
	}
	if req.ArxivID != nil {
		paper.ArxivID = *req.ArxivID
	}
	if req.Tags != nil {
		paper.Tags = *req.Tags
	}
	if req.Rating != nil {
		paper.Rating = *req.Rating
	}

	if err := s.papers.SavePaper(ctx, paper); err != nil {
		return nil, fmt.Errorf("failed to update paper: %w", err)
	}

	content := s.syncContentMetadata(ctx, paper)
	s.indexPaper(ctx, paper, content)
	s.publish(ctx, interfaces.EventPaperUpdated, paper)

	s.logger.Info().
		Str("paper_id", paper.ID).
		Msg("Paper updated")

	return paper, nil
}

// UpdateProgress updates reading progress and status. Any progress update
// counts as opening the paper.
func (s *Service) UpdateProgress(ctx context.Context, id string, req *models.UpdateProgressRequest) (*models.Paper, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrValidation, err)
	}

	paper, err := s.papers.GetPaper(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Progress != nil {
		paper.Progress = *req.Progress
	}
	if req.ReadingStatus != "" {
		paper.ReadingStatus = req.ReadingStatus
	}
	now := time.Now()
	paper.LastOpenedAt = &now

	if err := s.papers.SavePaper(ctx, paper); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	s.publish(ctx, interfaces.EventPaperUpdated, paper)
	return paper, nil
}

// SetParseStatus records the outcome of an import parse on the catalog row
func (s *Service) SetParseStatus(ctx context.Context, id, status string) error {
	paper, err := s.papers.GetPaper(ctx, id)
	if err != nil {
		return err
	}

	paper.ParseStatus = status

	if err := s.papers.SavePaper(ctx, paper); err != nil {
		return fmt.Errorf("failed to update parse status: %w", err)
	}

	s.publish(ctx, interfaces.EventPaperUpdated, paper)
	return nil
}

// DeletePaper removes a paper and everything hanging off it. Auxiliary
// cleanup is best-effort; only the catalog row delete is fatal.
func (s *Service) DeletePaper(ctx context.Context, id string) error {
	if _, err := s.papers.GetPaper(ctx, id); err != nil {
		return err
	}

	if err := s.contents.DeleteContent(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("paper_id", id).Msg("Failed to delete content document")
	}

	if err := s.checklists.RemovePaperEverywhere(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("paper_id", id).Msg("Failed to remove checklist memberships")
	}

	if s.uploads != nil {
		if err := s.uploads.DeletePaperFiles(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("paper_id", id).Msg("Failed to delete uploaded files")
		}
	}

	if s.search != nil {
		if err := s.search.Remove(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("paper_id", id).Msg("Failed to remove search index entry")
		}
	}

	if err := s.papers.DeletePaper(ctx, id); err != nil {
		return fmt.Errorf("failed to delete paper: %w", err)
	}

	s.publish(ctx, interfaces.EventPaperDeleted, map[string]interface{}{"paper_id": id})

	s.logger.Info().Str("paper_id", id).Msg("Paper deleted")
	return nil
}

// ListPapers returns catalog rows matching the filter options. Filtering by
// checklist resolves membership first, then applies the remaining filters.
func (s *Service) ListPapers(ctx context.Context, opts *models.PaperListOptions) ([]*models.Paper, error) {
	if opts == nil {
		opts = &models.PaperListOptions{}
	}

	if opts.ChecklistID == "" {
		return s.papers.ListPapers(ctx, opts)
	}

	ids, err := s.checklists.ListPaperIDs(ctx, opts.ChecklistID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve checklist members: %w", err)
	}

	papers := make([]*models.Paper, 0, len(ids))
	for _, id := range ids {
		paper, err := s.papers.GetPaper(ctx, id)
		if err != nil {
			// Stale membership rows are skipped, not fatal
			s.logger.Warn().Str("paper_id", id).Msg("Checklist member has no catalog row")
			continue
		}
		if matchesFilters(paper, opts) {
			papers = append(papers, paper)
		}
	}

	sort.Slice(papers, func(i, j int) bool {
		return papers[i].UpdatedAt.After(papers[j].UpdatedAt)
	})

	return paginate(papers, opts.Offset, opts.Limit), nil
}

// GetStats retrieves library statistics
func (s *Service) GetStats(ctx context.Context) (*models.PaperStats, error) {
	return s.papers.GetStats(ctx)
}

// syncContentMetadata mirrors catalog metadata into the content document.
// The Chinese title is owned by the document and left untouched.
func (s *Service) syncContentMetadata(ctx context.Context, paper *models.Paper) *models.PaperContent {
	content, err := s.contents.GetContent(ctx, paper.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("paper_id", paper.ID).Msg("Failed to load content for metadata sync")
		return nil
	}

	content.Metadata.Title.En = paper.Title
	content.Metadata.Authors = paper.Authors
	content.Metadata.Venue = paper.Venue
	content.Metadata.Year = paper.Year
	content.Metadata.DOI = paper.DOI
	content.Metadata.ArxivID = paper.ArxivID

	if err := s.contents.SaveContent(ctx, content); err != nil {
		s.logger.Warn().Err(err).Str("paper_id", paper.ID).Msg("Failed to sync content metadata")
		return nil
	}
	return content
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

func matchesFilters(paper *models.Paper, opts *models.PaperListOptions) bool {
	if opts.ReadingStatus != "" && paper.ReadingStatus != opts.ReadingStatus {
		return false
	}
	if opts.ParseStatus != "" && paper.ParseStatus != opts.ParseStatus {
		return false
	}
	if opts.Tag != "" {
		found := false
		for _, tag := range paper.Tags {
			if tag == opts.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func paginate(papers []*models.Paper, offset, limit int) []*models.Paper {
	if offset > 0 {
		if offset >= len(papers) {
			return []*models.Paper{}
		}
		papers = papers[offset:]
	}
	if limit > 0 && limit < len(papers) {
		papers = papers[:limit]
	}
	return papers
}
