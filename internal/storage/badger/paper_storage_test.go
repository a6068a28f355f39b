package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()
	db, err := NewBadgerDB(arbor.NewLogger(), &common.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPaperLifecycle(t *testing.T) {
	db := newTestDB(t)
	storage := NewPaperStorage(db, arbor.NewLogger())
	ctx := context.Background()

	// 1. Save a paper
	paper := &models.Paper{
		ID:            "paper_1",
		Title:         "Attention Is All You Need",
		Authors:       []string{"Vaswani", "Shazeer"},
		Year:          2017,
		Tags:          []string{"transformers", "nlp"},
		ReadingStatus: models.ReadingStatusUnread,
		ParseStatus:   models.ParseStatusParsed,
	}
	if err := storage.SavePaper(ctx, paper); err != nil {
		t.Fatalf("Failed to save paper: %v", err)
	}
	if paper.CreatedAt.IsZero() || paper.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set on save")
	}

	// 2. Get it back
	got, err := storage.GetPaper(ctx, "paper_1")
	if err != nil {
		t.Fatalf("Failed to get paper: %v", err)
	}
	if got.Title != paper.Title {
		t.Errorf("Expected title %q, got %q", paper.Title, got.Title)
	}
	if len(got.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(got.Tags))
	}

	// 3. Update and re-save
	got.ReadingStatus = models.ReadingStatusReading
	if err := storage.SavePaper(ctx, got); err != nil {
		t.Fatalf("Failed to update paper: %v", err)
	}
	updated, err := storage.GetPaper(ctx, "paper_1")
	if err != nil {
		t.Fatalf("Failed to get updated paper: %v", err)
	}
	if updated.ReadingStatus != models.ReadingStatusReading {
		t.Errorf("Expected reading status %q, got %q", models.ReadingStatusReading, updated.ReadingStatus)
	}

	// 4. Delete
	if err := storage.DeletePaper(ctx, "paper_1"); err != nil {
		t.Fatalf("Failed to delete paper: %v", err)
	}
	if _, err := storage.GetPaper(ctx, "paper_1"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestPaperListFilters(t *testing.T) {
	db := newTestDB(t)
	storage := NewPaperStorage(db, arbor.NewLogger())
	ctx := context.Background()

	papers := []*models.Paper{
		{ID: "paper_a", Title: "A", ReadingStatus: models.ReadingStatusUnread, ParseStatus: models.ParseStatusParsed, Tags: []string{"ml"}},
		{ID: "paper_b", Title: "B", ReadingStatus: models.ReadingStatusReading, ParseStatus: models.ParseStatusParsed, Tags: []string{"ml", "vision"}},
		{ID: "paper_c", Title: "C", ReadingStatus: models.ReadingStatusRead, ParseStatus: models.ParseStatusFailed, Tags: []string{"nlp"}},
	}
	for _, p := range papers {
		if err := storage.SavePaper(ctx, p); err != nil {
			t.Fatalf("Failed to save %s: %v", p.ID, err)
		}
	}

	// Filter by reading status
	unread, err := storage.ListPapers(ctx, &models.PaperListOptions{ReadingStatus: models.ReadingStatusUnread})
	if err != nil {
		t.Fatalf("Failed to list unread: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != "paper_a" {
		t.Errorf("Expected only paper_a unread, got %d results", len(unread))
	}

	// Filter by tag
	ml, err := storage.ListPapers(ctx, &models.PaperListOptions{Tag: "ml"})
	if err != nil {
		t.Fatalf("Failed to list by tag: %v", err)
	}
	if len(ml) != 2 {
		t.Errorf("Expected 2 ml papers, got %d", len(ml))
	}

	// Filter by parse status
	failed, err := storage.ListPapers(ctx, &models.PaperListOptions{ParseStatus: models.ParseStatusFailed})
	if err != nil {
		t.Fatalf("Failed to list failed: %v", err)
	}
	if len(failed) != 1 || failed[0].ID != "paper_c" {
		t.Errorf("Expected only paper_c failed, got %d results", len(failed))
	}

	// Pagination
	page, err := storage.ListPapers(ctx, &models.PaperListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("Failed to list page: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("Expected 2 papers with limit=2, got %d", len(page))
	}

	count, err := storage.CountPapers(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 papers, got %d", count)
	}
}

func TestPaperStats(t *testing.T) {
	db := newTestDB(t)
	storage := NewPaperStorage(db, arbor.NewLogger())
	ctx := context.Background()

	papers := []*models.Paper{
		{ID: "paper_1", ReadingStatus: models.ReadingStatusUnread, ParseStatus: models.ParseStatusParsed, Year: 2023, Rating: 5, HasChineseContent: true},
		{ID: "paper_2", ReadingStatus: models.ReadingStatusUnread, ParseStatus: models.ParseStatusParsed, Year: 2023},
		{ID: "paper_3", ReadingStatus: models.ReadingStatusRead, ParseStatus: models.ParseStatusFailed, Year: 2024, Rating: 3},
	}
	for _, p := range papers {
		if err := storage.SavePaper(ctx, p); err != nil {
			t.Fatalf("Failed to save %s: %v", p.ID, err)
		}
	}

	stats, err := storage.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Expected total 3, got %d", stats.Total)
	}
	if stats.ByReadingStatus[models.ReadingStatusUnread] != 2 {
		t.Errorf("Expected 2 unread, got %d", stats.ByReadingStatus[models.ReadingStatusUnread])
	}
	if stats.ByYear[2023] != 2 {
		t.Errorf("Expected 2 papers from 2023, got %d", stats.ByYear[2023])
	}
	if stats.Translated != 1 {
		t.Errorf("Expected 1 translated paper, got %d", stats.Translated)
	}
	if stats.Rated != 2 {
		t.Errorf("Expected 2 rated papers, got %d", stats.Rated)
	}
}
