package search

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/models"
)

func newTestSearchService(t *testing.T) *BleveSearchService {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Search.Enabled = true
	cfg.Search.IndexPath = filepath.Join(t.TempDir(), "index.bleve")
	cfg.Search.TitleBoost = 2.0

	svc, err := NewBleveSearchService(cfg, nil, nil, arbor.NewLogger())
	if err != nil {
		t.Fatalf("Failed to create search service: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc.(*BleveSearchService)
}

func contentWithText(paperID, abstract, body string) *models.PaperContent {
	c := models.NewPaperContent(paperID, models.ContentMetadata{})
	c.Abstract = models.BilingualText{En: abstract}
	c.Sections = []*models.Section{
		{
			ID: "sec_1",
			Content: models.BlockList{
				&models.ParagraphBlock{ID: "blk_1", Text: models.Bilingual{
					En: models.InlineList{&models.Text{Content: body}},
				}},
			},
		},
	}
	return c
}

func TestSearchFindsBodyText(t *testing.T) {
	svc := newTestSearchService(t)
	ctx := context.Background()

	paper := &models.Paper{ID: "paper_1", Title: "Neural Machine Translation"}
	content := contentWithText("paper_1", "We study translation.", "The encoder uses multi-head attention layers.")
	if err := svc.Index(ctx, paper, content); err != nil {
		t.Fatalf("Failed to index: %v", err)
	}

	results, err := svc.Search(ctx, "attention", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].PaperID != "paper_1" {
		t.Errorf("Expected paper_1, got %s", results[0].PaperID)
	}
	if results[0].Title != "Neural Machine Translation" {
		t.Errorf("Expected stored title in result, got %q", results[0].Title)
	}
}

func TestSearchTitleBoostOrdersResults(t *testing.T) {
	svc := newTestSearchService(t)
	ctx := context.Background()

	// One paper with the term in the title, one with it only in the body
	titleHit := &models.Paper{ID: "paper_title", Title: "Diffusion Models for Images"}
	bodyHit := &models.Paper{ID: "paper_body", Title: "A Survey of Generative Methods"}

	if err := svc.Index(ctx, titleHit, contentWithText("paper_title", "", "Generative results discussed.")); err != nil {
		t.Fatalf("Failed to index title hit: %v", err)
	}
	if err := svc.Index(ctx, bodyHit, contentWithText("paper_body", "", "We compare diffusion against adversarial training.")); err != nil {
		t.Fatalf("Failed to index body hit: %v", err)
	}

	results, err := svc.Search(ctx, "diffusion", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].PaperID != "paper_title" {
		t.Errorf("Expected title match ranked first, got %s", results[0].PaperID)
	}
}

func TestSearchAfterRemove(t *testing.T) {
	svc := newTestSearchService(t)
	ctx := context.Background()

	paper := &models.Paper{ID: "paper_x", Title: "Quantum Error Correction"}
	if err := svc.Index(ctx, paper, nil); err != nil {
		t.Fatalf("Failed to index: %v", err)
	}
	if err := svc.Remove(ctx, "paper_x"); err != nil {
		t.Fatalf("Failed to remove: %v", err)
	}

	results, err := svc.Search(ctx, "quantum", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results after remove, got %d", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := newTestSearchService(t)
	results, err := svc.Search(context.Background(), "   ", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result for blank query, got %d", len(results))
	}
}

func TestDisabledSearchService(t *testing.T) {
	svc := NewDisabledSearchService(arbor.NewLogger())
	ctx := context.Background()

	if svc.Enabled() {
		t.Error("Expected Enabled() false")
	}
	// Index and Remove are silent no-ops so callers need no special casing
	if err := svc.Index(ctx, &models.Paper{ID: "paper_1"}, nil); err != nil {
		t.Errorf("Expected Index no-op, got %v", err)
	}
	if err := svc.Remove(ctx, "paper_1"); err != nil {
		t.Errorf("Expected Remove no-op, got %v", err)
	}
	if _, err := svc.Search(ctx, "anything", 5); !errors.Is(err, ErrSearchDisabled) {
		t.Errorf("Expected ErrSearchDisabled, got %v", err)
	}
}
