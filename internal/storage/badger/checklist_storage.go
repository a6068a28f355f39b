package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ChecklistStorage implements the ChecklistStorage interface for Badger.
// Nodes are keyed by id, membership rows by "checklistID:paperID" so that
// re-adding a paper is an idempotent upsert.
type ChecklistStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChecklistStorage creates a new ChecklistStorage instance
func NewChecklistStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChecklistStorage {
	return &ChecklistStorage{
		db:     db,
		logger: logger,
	}
}

func membershipKey(checklistID, paperID string) string {
	return checklistID + ":" + paperID
}

func (s *ChecklistStorage) SaveChecklist(ctx context.Context, checklist *models.Checklist) error {
	if checklist.ID == "" {
		return fmt.Errorf("checklist ID is required")
	}

	now := time.Now()
	if checklist.CreatedAt.IsZero() {
		checklist.CreatedAt = now
	}
	checklist.UpdatedAt = now

	if err := s.db.Store().Upsert(checklist.ID, checklist); err != nil {
		return fmt.Errorf("failed to save checklist: %w", err)
	}
	return nil
}

func (s *ChecklistStorage) GetChecklist(ctx context.Context, id string) (*models.Checklist, error) {
	var checklist models.Checklist
	if err := s.db.Store().Get(id, &checklist); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("checklist %s: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}
	return &checklist, nil
}

func (s *ChecklistStorage) GetChecklistByPath(ctx context.Context, fullPath string) (*models.Checklist, error) {
	var checklists []models.Checklist
	if err := s.db.Store().Find(&checklists, badgerhold.Where("FullPath").Eq(fullPath)); err != nil {
		return nil, fmt.Errorf("failed to find checklist by path: %w", err)
	}
	if len(checklists) == 0 {
		return nil, fmt.Errorf("checklist %q: %w", fullPath, interfaces.ErrNotFound)
	}
	return &checklists[0], nil
}

func (s *ChecklistStorage) ListChecklists(ctx context.Context) ([]*models.Checklist, error) {
	var checklists []models.Checklist
	if err := s.db.Store().Find(&checklists, badgerhold.Where("ID").Ne("").SortBy("Level", "SortOrder", "Name")); err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}

	result := make([]*models.Checklist, len(checklists))
	for i := range checklists {
		result[i] = &checklists[i]
	}
	return result, nil
}

func (s *ChecklistStorage) ListChildren(ctx context.Context, parentID string) ([]*models.Checklist, error) {
	var checklists []models.Checklist
	if err := s.db.Store().Find(&checklists, badgerhold.Where("ParentID").Eq(parentID).SortBy("SortOrder", "Name")); err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}

	result := make([]*models.Checklist, len(checklists))
	for i := range checklists {
		result[i] = &checklists[i]
	}
	return result, nil
}

// DeleteChecklist removes a node and its membership rows. Child nodes are
// the caller's responsibility.
func (s *ChecklistStorage) DeleteChecklist(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Checklist{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("checklist %s: %w", id, interfaces.ErrNotFound)
		}
		return fmt.Errorf("failed to delete checklist: %w", err)
	}

	if err := s.db.Store().DeleteMatching(&models.PaperChecklistRecord{}, badgerhold.Where("ChecklistID").Eq(id)); err != nil {
		return fmt.Errorf("failed to delete membership rows: %w", err)
	}
	return nil
}

func (s *ChecklistStorage) CountChecklists(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Checklist{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count checklists: %w", err)
	}
	return int(count), nil
}

func (s *ChecklistStorage) AddPaper(ctx context.Context, checklistID, paperID string) error {
	record := &models.PaperChecklistRecord{
		ID:          membershipKey(checklistID, paperID),
		PaperID:     paperID,
		ChecklistID: checklistID,
		AddedAt:     time.Now(),
	}
	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to add paper to checklist: %w", err)
	}
	return nil
}

func (s *ChecklistStorage) RemovePaper(ctx context.Context, checklistID, paperID string) error {
	err := s.db.Store().Delete(membershipKey(checklistID, paperID), &models.PaperChecklistRecord{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to remove paper from checklist: %w", err)
	}
	return nil
}

func (s *ChecklistStorage) ListPaperIDs(ctx context.Context, checklistID string) ([]string, error) {
	var records []models.PaperChecklistRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("ChecklistID").Eq(checklistID).SortBy("AddedAt")); err != nil {
		return nil, fmt.Errorf("failed to list checklist papers: %w", err)
	}

	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].PaperID
	}
	return ids, nil
}

func (s *ChecklistStorage) ListChecklistIDs(ctx context.Context, paperID string) ([]string, error) {
	var records []models.PaperChecklistRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("PaperID").Eq(paperID)); err != nil {
		return nil, fmt.Errorf("failed to list paper checklists: %w", err)
	}

	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].ChecklistID
	}
	return ids, nil
}

func (s *ChecklistStorage) CountPapers(ctx context.Context, checklistID string) (int, error) {
	count, err := s.db.Store().Count(&models.PaperChecklistRecord{}, badgerhold.Where("ChecklistID").Eq(checklistID))
	if err != nil {
		return 0, fmt.Errorf("failed to count checklist papers: %w", err)
	}
	return int(count), nil
}

func (s *ChecklistStorage) RemovePaperEverywhere(ctx context.Context, paperID string) error {
	if err := s.db.Store().DeleteMatching(&models.PaperChecklistRecord{}, badgerhold.Where("PaperID").Eq(paperID)); err != nil {
		return fmt.Errorf("failed to remove paper memberships: %w", err)
	}
	return nil
}
