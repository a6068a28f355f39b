package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

func TestChecklistTreeOrder(t *testing.T) {
	db := newTestDB(t)
	storage := NewChecklistStorage(db, arbor.NewLogger())
	ctx := context.Background()

	nodes := []*models.Checklist{
		{ID: "chk_b", Name: "Methods", Level: 1, FullPath: "Methods", SortOrder: 2},
		{ID: "chk_a", Name: "Reading", Level: 1, FullPath: "Reading", SortOrder: 1},
		{ID: "chk_a1", Name: "To Read", Level: 2, ParentID: "chk_a", FullPath: "Reading/To Read", SortOrder: 1},
	}
	for _, n := range nodes {
		if err := storage.SaveChecklist(ctx, n); err != nil {
			t.Fatalf("Failed to save %s: %v", n.ID, err)
		}
	}

	all, err := storage.ListChecklists(ctx)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 checklists, got %d", len(all))
	}
	// Level first, then sort order
	if all[0].ID != "chk_a" || all[1].ID != "chk_b" || all[2].ID != "chk_a1" {
		t.Errorf("Unexpected order: %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	children, err := storage.ListChildren(ctx, "chk_a")
	if err != nil {
		t.Fatalf("Failed to list children: %v", err)
	}
	if len(children) != 1 || children[0].ID != "chk_a1" {
		t.Errorf("Expected chk_a1 as only child, got %d results", len(children))
	}

	byPath, err := storage.GetChecklistByPath(ctx, "Reading/To Read")
	if err != nil {
		t.Fatalf("Failed to get by path: %v", err)
	}
	if byPath.ID != "chk_a1" {
		t.Errorf("Expected chk_a1 by path, got %s", byPath.ID)
	}
}

func TestChecklistMembership(t *testing.T) {
	db := newTestDB(t)
	storage := NewChecklistStorage(db, arbor.NewLogger())
	ctx := context.Background()

	if err := storage.SaveChecklist(ctx, &models.Checklist{ID: "chk_1", Name: "Survey", FullPath: "Survey"}); err != nil {
		t.Fatalf("Failed to save checklist: %v", err)
	}

	// 1. Add two papers, one of them twice (idempotent)
	for _, paperID := range []string{"paper_a", "paper_b", "paper_a"} {
		if err := storage.AddPaper(ctx, "chk_1", paperID); err != nil {
			t.Fatalf("Failed to add %s: %v", paperID, err)
		}
	}

	ids, err := storage.ListPaperIDs(ctx, "chk_1")
	if err != nil {
		t.Fatalf("Failed to list papers: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 papers after duplicate add, got %d", len(ids))
	}

	count, err := storage.CountPapers(ctx, "chk_1")
	if err != nil {
		t.Fatalf("Failed to count papers: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}

	// 2. Reverse lookup
	lists, err := storage.ListChecklistIDs(ctx, "paper_a")
	if err != nil {
		t.Fatalf("Failed to list checklists for paper: %v", err)
	}
	if len(lists) != 1 || lists[0] != "chk_1" {
		t.Errorf("Expected paper_a in chk_1, got %v", lists)
	}

	// 3. Remove one, removing again is a no-op
	if err := storage.RemovePaper(ctx, "chk_1", "paper_a"); err != nil {
		t.Fatalf("Failed to remove paper: %v", err)
	}
	if err := storage.RemovePaper(ctx, "chk_1", "paper_a"); err != nil {
		t.Errorf("Expected second remove to be a no-op, got %v", err)
	}
	ids, _ = storage.ListPaperIDs(ctx, "chk_1")
	if len(ids) != 1 || ids[0] != "paper_b" {
		t.Errorf("Expected only paper_b left, got %v", ids)
	}

	// 4. Deleting the node cascades to membership rows
	if err := storage.DeleteChecklist(ctx, "chk_1"); err != nil {
		t.Fatalf("Failed to delete checklist: %v", err)
	}
	if _, err := storage.GetChecklist(ctx, "chk_1"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	lists, err = storage.ListChecklistIDs(ctx, "paper_b")
	if err != nil {
		t.Fatalf("Failed to list after cascade: %v", err)
	}
	if len(lists) != 0 {
		t.Errorf("Expected membership rows deleted with node, got %v", lists)
	}
}

func TestRemovePaperEverywhere(t *testing.T) {
	db := newTestDB(t)
	storage := NewChecklistStorage(db, arbor.NewLogger())
	ctx := context.Background()

	for _, id := range []string{"chk_x", "chk_y"} {
		if err := storage.SaveChecklist(ctx, &models.Checklist{ID: id, Name: id, FullPath: id}); err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
		if err := storage.AddPaper(ctx, id, "paper_gone"); err != nil {
			t.Fatalf("Failed to add paper to %s: %v", id, err)
		}
	}

	if err := storage.RemovePaperEverywhere(ctx, "paper_gone"); err != nil {
		t.Fatalf("Failed to remove paper everywhere: %v", err)
	}

	lists, err := storage.ListChecklistIDs(ctx, "paper_gone")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(lists) != 0 {
		t.Errorf("Expected no memberships left, got %v", lists)
	}
}
