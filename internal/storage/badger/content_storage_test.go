package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
)

// The value encoder must round-trip interface-typed block and inline lists,
// which is the whole reason the store runs on JSON instead of gob.
func TestContentRoundTripPreservesBlockTypes(t *testing.T) {
	db := newTestDB(t)
	storage := NewContentStorage(db, arbor.NewLogger())
	ctx := context.Background()

	content := models.NewPaperContent("paper_1", models.ContentMetadata{
		Title: models.BilingualText{En: "Stored Unions"},
	})
	content.Sections = []*models.Section{
		{
			ID: "sec_1",
			Content: models.BlockList{
				&models.ParagraphBlock{ID: "blk_p", Text: models.Bilingual{En: models.InlineList{
					&models.Text{Content: "see "},
					&models.FigureRef{TargetID: "blk_f"},
				}}},
				&models.FigureBlock{ID: "blk_f", Src: "images/x.png"},
				&models.MathBlock{ID: "blk_m", Latex: "x^2", Label: "sq"},
			},
		},
	}

	if err := storage.SaveContent(ctx, content); err != nil {
		t.Fatalf("Failed to save content: %v", err)
	}

	got, err := storage.GetContent(ctx, "paper_1")
	if err != nil {
		t.Fatalf("Failed to get content: %v", err)
	}

	blocks := got.FlattenBlocks()
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}
	para, ok := blocks[0].(*models.ParagraphBlock)
	if !ok {
		t.Fatalf("Expected first block to decode as paragraph, got %T", blocks[0])
	}
	if _, ok := para.Text.En[1].(*models.FigureRef); !ok {
		t.Errorf("Expected inline figure reference to survive storage, got %T", para.Text.En[1])
	}
	if _, ok := blocks[2].(*models.MathBlock); !ok {
		t.Errorf("Expected math block to survive storage, got %T", blocks[2])
	}
}

func TestContentLifecycle(t *testing.T) {
	db := newTestDB(t)
	storage := NewContentStorage(db, arbor.NewLogger())
	ctx := context.Background()

	// Missing content
	if _, err := storage.GetContent(ctx, "paper_none"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing content, got %v", err)
	}
	has, err := storage.HasContent(ctx, "paper_none")
	if err != nil {
		t.Fatalf("HasContent failed: %v", err)
	}
	if has {
		t.Error("Expected HasContent false for missing paper")
	}

	// Save two documents
	for _, id := range []string{"paper_1", "paper_2"} {
		c := models.NewPaperContent(id, models.ContentMetadata{})
		if err := storage.SaveContent(ctx, c); err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
	}

	ids, err := storage.ListPaperIDs(ctx)
	if err != nil {
		t.Fatalf("Failed to list ids: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 content documents, got %d", len(ids))
	}

	// Delete is idempotent
	if err := storage.DeleteContent(ctx, "paper_1"); err != nil {
		t.Fatalf("Failed to delete content: %v", err)
	}
	if err := storage.DeleteContent(ctx, "paper_1"); err != nil {
		t.Errorf("Expected second delete to be a no-op, got %v", err)
	}
}
