package content

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
	"github.com/ternarybob/neuink/internal/storage/badger"
)

func newTestService(t *testing.T) (interfaces.ContentService, interfaces.StorageManager) {
	t.Helper()

	logger := arbor.NewLogger()
	storage, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create storage manager: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	return NewService(storage, nil, nil, logger), storage
}

// seedPaper creates a catalog row plus its empty document, the state every
// paper is in right after creation.
func seedPaper(t *testing.T, storage interfaces.StorageManager, id, title string) {
	t.Helper()
	ctx := context.Background()

	err := storage.PaperStorage().SavePaper(ctx, &models.Paper{
		ID:            id,
		Title:         title,
		ReadingStatus: models.ReadingStatusUnread,
		ParseStatus:   models.ParseStatusParsed,
	})
	if err != nil {
		t.Fatalf("Failed to seed paper: %v", err)
	}
	err = storage.ContentStorage().SaveContent(ctx, models.NewPaperContent(id, models.ContentMetadata{
		Title: models.BilingualText{En: title},
	}))
	if err != nil {
		t.Fatalf("Failed to seed content: %v", err)
	}
}

func buildDocument(paperID string) *models.PaperContent {
	return &models.PaperContent{
		PaperID: paperID,
		Metadata: models.ContentMetadata{
			Title: models.BilingualText{En: "Deep Residual Learning"},
			Year:  2016,
		},
		Sections: []*models.Section{
			{
				ID:    "sec_intro",
				Title: models.Bilingual{En: models.InlineList{&models.Text{Content: "Introduction"}}},
				Content: models.BlockList{
					&models.ParagraphBlock{
						ID:   "blk_p1",
						Text: models.Bilingual{En: models.InlineList{&models.Text{Content: "Deeper networks are harder to train."}}},
					},
					&models.FigureBlock{
						ID:      "blk_f1",
						Src:     "/api/uploads/images/paper_x/fig1.png",
						Caption: models.Bilingual{En: models.InlineList{&models.Text{Content: "Training error"}}},
					},
				},
			},
			{
				ID:    "sec_method",
				Title: models.Bilingual{En: models.InlineList{&models.Text{Content: "Method"}}},
				Subsections: []*models.Section{
					{
						ID:    "sec_identity",
						Title: models.Bilingual{En: models.InlineList{&models.Text{Content: "Identity Mapping"}}},
						Content: models.BlockList{
							&models.FigureBlock{ID: "blk_f2", Src: "x.png"},
						},
					},
				},
			},
		},
		References: []*models.Reference{
			{ID: "ref_1", Title: "Batch Normalization"},
		},
	}
}

func TestSaveContentPipeline(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedPaper(t, storage, "paper_resnet", "placeholder")

	// Step 1: Save a document and check the numbering pass ran
	saved, err := svc.SaveContent(ctx, "paper_resnet", buildDocument("paper_resnet"))
	if err != nil {
		t.Fatalf("Failed to save content: %v", err)
	}
	if saved.Sections[0].Number != "1" || saved.Sections[1].Number != "2" {
		t.Errorf("Expected section numbers 1/2, got %s/%s", saved.Sections[0].Number, saved.Sections[1].Number)
	}
	if got := saved.Sections[1].Subsections[0].Number; got != "2.1" {
		t.Errorf("Expected subsection number 2.1, got %s", got)
	}
	figure := saved.FindBlock("blk_f2").(*models.FigureBlock)
	if figure.Number != 2 {
		t.Errorf("Expected second figure numbered 2, got %d", figure.Number)
	}
	if saved.References[0].Number != 1 {
		t.Errorf("Expected reference numbered 1, got %d", saved.References[0].Number)
	}

	// Step 2: The catalog row mirrors the document metadata
	paper, err := storage.PaperStorage().GetPaper(ctx, "paper_resnet")
	if err != nil {
		t.Fatalf("Failed to load paper: %v", err)
	}
	if paper.Title != "Deep Residual Learning" {
		t.Errorf("Expected catalog title synced from document, got %s", paper.Title)
	}
	if paper.HasChineseContent {
		t.Error("Expected no Chinese content flag for an English document")
	}

	// Step 3: Adding zh content flips the catalog flag
	doc := buildDocument("paper_resnet")
	doc.Sections[0].Title.Zh = models.InlineList{&models.Text{Content: "引言"}}
	if _, err := svc.SaveContent(ctx, "paper_resnet", doc); err != nil {
		t.Fatalf("Failed to save translated content: %v", err)
	}
	paper, _ = storage.PaperStorage().GetPaper(ctx, "paper_resnet")
	if !paper.HasChineseContent {
		t.Error("Expected Chinese content flag after adding zh title")
	}

	// Step 4: Removing the zh content flips it back
	if _, err := svc.SaveContent(ctx, "paper_resnet", buildDocument("paper_resnet")); err != nil {
		t.Fatalf("Failed to save reverted content: %v", err)
	}
	paper, _ = storage.PaperStorage().GetPaper(ctx, "paper_resnet")
	if paper.HasChineseContent {
		t.Error("Expected Chinese content flag cleared after removing zh content")
	}
}

func TestSaveContentRejectsDuplicateIDs(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedPaper(t, storage, "paper_dup", "Dup")

	doc := buildDocument("paper_dup")
	doc.Sections[0].Content = append(doc.Sections[0].Content, &models.ParagraphBlock{ID: "blk_p1"})

	_, err := svc.SaveContent(ctx, "paper_dup", doc)
	if !errors.Is(err, interfaces.ErrValidation) {
		t.Errorf("Expected ErrValidation for duplicate ids, got %v", err)
	}
}

func TestSaveContentUnknownPaper(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SaveContent(context.Background(), "paper_ghost", buildDocument("paper_ghost"))
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBlockNoteLifecycle(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedPaper(t, storage, "paper_notes", "Notes")
	if _, err := svc.SaveContent(ctx, "paper_notes", buildDocument("paper_notes")); err != nil {
		t.Fatalf("Failed to save content: %v", err)
	}

	// Step 1: Create a note on an existing block
	note, err := svc.CreateBlockNote(ctx, "paper_notes", &models.CreateBlockNoteRequest{
		BlockID: "blk_p1",
		Content: "Key claim, check the ablation.",
	})
	if err != nil {
		t.Fatalf("Failed to create note: %v", err)
	}
	if note.ID == "" || note.BlockID != "blk_p1" {
		t.Errorf("Unexpected note identity: %+v", note)
	}

	// Step 2: A note on a block that never existed is rejected
	if _, err := svc.CreateBlockNote(ctx, "paper_notes", &models.CreateBlockNoteRequest{
		BlockID: "blk_ghost",
		Content: "nope",
	}); !errors.Is(err, interfaces.ErrValidation) {
		t.Errorf("Expected ErrValidation for unknown block, got %v", err)
	}

	// Step 3: Update the note content
	updated, err := svc.UpdateBlockNote(ctx, "paper_notes", note.ID, &models.UpdateNoteRequest{
		Content: "Checked: ablation holds.",
	})
	if err != nil {
		t.Fatalf("Failed to update note: %v", err)
	}
	if updated.Content != "Checked: ablation holds." {
		t.Errorf("Expected updated content, got %s", updated.Content)
	}

	// Step 4: The note persists inside the document
	notes, err := svc.ListBlockNotes(ctx, "paper_notes")
	if err != nil {
		t.Fatalf("Failed to list notes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("Expected 1 note, got %d", len(notes))
	}

	// Step 5: Delete it
	if err := svc.DeleteBlockNote(ctx, "paper_notes", note.ID); err != nil {
		t.Fatalf("Failed to delete note: %v", err)
	}
	if err := svc.DeleteBlockNote(ctx, "paper_notes", note.ID); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestChecklistNoteReplaceSemantics(t *testing.T) {
	svc, storage := newTestService(t)
	ctx := context.Background()
	seedPaper(t, storage, "paper_chknotes", "Checklist notes")

	// Missing note reads as not found
	if _, err := svc.GetChecklistNote(ctx, "paper_chknotes", "chk_1"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound before save, got %v", err)
	}

	// First save creates
	note, err := svc.SaveChecklistNote(ctx, "paper_chknotes", "chk_1", &models.SaveChecklistNoteRequest{
		Content: "Summary for the reading group.",
	})
	if err != nil {
		t.Fatalf("Failed to save checklist note: %v", err)
	}

	// Second save replaces in place
	replaced, err := svc.SaveChecklistNote(ctx, "paper_chknotes", "chk_1", &models.SaveChecklistNoteRequest{
		Content: "Revised summary.",
	})
	if err != nil {
		t.Fatalf("Failed to replace checklist note: %v", err)
	}
	if replaced.ID != note.ID {
		t.Errorf("Expected the same note id on replace, got %s and %s", note.ID, replaced.ID)
	}

	got, err := svc.GetChecklistNote(ctx, "paper_chknotes", "chk_1")
	if err != nil {
		t.Fatalf("Failed to get checklist note: %v", err)
	}
	if got.Content != "Revised summary." {
		t.Errorf("Expected replaced content, got %s", got.Content)
	}

	// Saving empty content deletes
	deleted, err := svc.SaveChecklistNote(ctx, "paper_chknotes", "chk_1", &models.SaveChecklistNoteRequest{})
	if err != nil {
		t.Fatalf("Failed to delete via empty save: %v", err)
	}
	if deleted != nil {
		t.Errorf("Expected nil note on delete, got %+v", deleted)
	}
	if _, err := svc.GetChecklistNote(ctx, "paper_chknotes", "chk_1"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
