package translator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
	contentsvc "github.com/ternarybob/neuink/internal/services/content"
	paperssvc "github.com/ternarybob/neuink/internal/services/papers"
	"github.com/ternarybob/neuink/internal/storage/badger"
)

// stubProvider echoes every segment back with a Chinese prefix, which keeps
// markup markers intact and makes outputs easy to assert on.
type stubProvider struct {
	batches [][]string
	fail    bool
}

func (p *stubProvider) Name() string { return "stub" }
func (p *stubProvider) Close() error { return nil }

func (p *stubProvider) Translate(ctx context.Context, texts []string) ([]string, error) {
	if p.fail {
		return nil, errors.New("provider down")
	}
	p.batches = append(p.batches, texts)
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = "中文 " + t
	}
	return out, nil
}

type testEnv struct {
	papers  interfaces.PaperService
	content interfaces.ContentService
	stub    *stubProvider
	svc     interfaces.TranslationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := arbor.NewLogger()
	storage, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create storage manager: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	papers := paperssvc.NewService(storage, nil, nil, nil, logger)
	content := contentsvc.NewService(storage, nil, nil, logger)
	stub := &stubProvider{}
	cfg := &common.TranslationConfig{RateLimit: "1ms"}

	return &testEnv{
		papers:  papers,
		content: content,
		stub:    stub,
		svc:     NewService(content, stub, cfg, logger),
	}
}

func text(s string) models.InlineList {
	return models.InlineList{&models.Text{Content: s}}
}

// seedEnglishPaper stores a paper with english-only content: title,
// abstract, one section whose first paragraph carries markup and whose
// second already has a chinese side.
func seedEnglishPaper(t *testing.T, env *testEnv) string {
	t.Helper()
	ctx := context.Background()

	paper, err := env.papers.CreatePaper(ctx, &models.CreatePaperRequest{Title: "Residual Learning"})
	if err != nil {
		t.Fatalf("Failed to create paper: %v", err)
	}

	doc := &models.PaperContent{
		PaperID:  paper.ID,
		Metadata: models.ContentMetadata{Title: models.BilingualText{En: "Residual Learning"}},
		Abstract: models.BilingualText{En: "Deeper networks are harder to train."},
		Sections: []*models.Section{
			{
				ID:    "sec_intro",
				Title: models.Bilingual{En: text("Introduction")},
				Content: models.BlockList{
					&models.ParagraphBlock{
						ID: "blk_p1",
						Text: models.Bilingual{En: models.InlineList{
							&models.Text{Content: "We propose "},
							&models.Text{Content: "residual learning", Bold: true},
							&models.Text{Content: " building on "},
							&models.Citation{TargetID: "ref_vgg"},
						}},
					},
					&models.ParagraphBlock{
						ID:   "blk_p2",
						Text: models.Bilingual{En: text("Shortcut connections help."), Zh: text("捷径连接有帮助。")},
					},
				},
			},
		},
		References: []*models.Reference{
			{ID: "ref_vgg", Title: "Very deep convolutional networks"},
		},
	}
	if _, err := env.content.SaveContent(ctx, paper.ID, doc); err != nil {
		t.Fatalf("Failed to save content: %v", err)
	}
	return paper.ID
}

func TestTranslatePaperFillsEmptySlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Step 1: Translate the whole document
	paperID := seedEnglishPaper(t, env)
	report, err := env.svc.TranslatePaper(ctx, paperID, &models.TranslateRequest{Scope: "all"})
	if err != nil {
		t.Fatalf("Failed to translate: %v", err)
	}

	// Step 2: Title, abstract, section title and the untranslated paragraph
	// are filled; the pre-translated paragraph is skipped
	if report.Translated != 4 {
		t.Errorf("Expected 4 translated slots, got %d", report.Translated)
	}
	if report.Skipped != 1 {
		t.Errorf("Expected 1 skipped slot, got %d", report.Skipped)
	}
	if report.Failed != 0 {
		t.Errorf("Expected no failures, got %d", report.Failed)
	}
	if report.Provider != "stub" {
		t.Errorf("Expected stub provider in report, got %q", report.Provider)
	}

	// Step 3: The saved document carries the translations
	doc, err := env.content.GetContent(ctx, paperID)
	if err != nil {
		t.Fatalf("Failed to reload content: %v", err)
	}
	if doc.Metadata.Title.Zh != "中文 Residual Learning" {
		t.Errorf("Expected translated title, got %q", doc.Metadata.Title.Zh)
	}
	if doc.Abstract.Zh == "" {
		t.Error("Expected translated abstract")
	}
	if got := doc.Sections[0].Title.Zh.PlainText(); got != "中文 Introduction" {
		t.Errorf("Expected translated section title, got %q", got)
	}
	if got := doc.Sections[0].Content[1].(*models.ParagraphBlock).Text.Zh.PlainText(); got != "捷径连接有帮助。" {
		t.Errorf("Expected pre-translated paragraph untouched, got %q", got)
	}

	// Step 4: The catalog language flag flipped
	paper, err := env.papers.GetPaper(ctx, paperID)
	if err != nil {
		t.Fatalf("Failed to load paper: %v", err)
	}
	if !paper.HasChineseContent {
		t.Error("Expected the chinese-content flag to be set")
	}
}

func TestTranslatePaperPreservesMarkup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Step 1: Translate a paragraph carrying bold text and a citation
	paperID := seedEnglishPaper(t, env)
	if _, err := env.svc.TranslatePaper(ctx, paperID, &models.TranslateRequest{Scope: "all"}); err != nil {
		t.Fatalf("Failed to translate: %v", err)
	}

	// Step 2: The zh side parsed back into structured inline nodes
	doc, err := env.content.GetContent(ctx, paperID)
	if err != nil {
		t.Fatalf("Failed to reload content: %v", err)
	}
	zh := doc.Sections[0].Content[0].(*models.ParagraphBlock).Text.Zh

	var sawBold, sawCitation bool
	for _, n := range zh {
		switch v := n.(type) {
		case *models.Text:
			if v.Bold && v.Content == "residual learning" {
				sawBold = true
			}
		case *models.Citation:
			if v.TargetID == "ref_vgg" {
				sawCitation = true
			}
		}
	}
	if !sawBold {
		t.Error("Expected the bold run to survive translation")
	}
	if !sawCitation {
		t.Error("Expected the citation marker to survive translation")
	}
}

func TestTranslatePaperAbstractScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Step 1: Translate the abstract only
	paperID := seedEnglishPaper(t, env)
	report, err := env.svc.TranslatePaper(ctx, paperID, &models.TranslateRequest{Scope: "abstract"})
	if err != nil {
		t.Fatalf("Failed to translate: %v", err)
	}
	if report.Translated != 1 {
		t.Errorf("Expected exactly the abstract translated, got %d slots", report.Translated)
	}

	// Step 2: Everything else stays english-only
	doc, err := env.content.GetContent(ctx, paperID)
	if err != nil {
		t.Fatalf("Failed to reload content: %v", err)
	}
	if doc.Abstract.Zh == "" {
		t.Error("Expected translated abstract")
	}
	if doc.Metadata.Title.Zh != "" {
		t.Errorf("Expected untranslated title, got %q", doc.Metadata.Title.Zh)
	}
	if len(doc.Sections[0].Title.Zh) != 0 {
		t.Error("Expected untranslated section title")
	}
}

func TestTranslatePaperOverwrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	paperID := seedEnglishPaper(t, env)

	// Step 1: Without overwrite the filled paragraph is skipped
	report, err := env.svc.TranslatePaper(ctx, paperID, &models.TranslateRequest{Scope: "all"})
	if err != nil {
		t.Fatalf("Failed to translate: %v", err)
	}
	if report.Skipped != 1 {
		t.Errorf("Expected 1 skipped slot, got %d", report.Skipped)
	}

	// Step 2: With overwrite every slot is retranslated
	report, err = env.svc.TranslatePaper(ctx, paperID, &models.TranslateRequest{Scope: "all", Overwrite: true})
	if err != nil {
		t.Fatalf("Failed to retranslate: %v", err)
	}
	if report.Skipped != 0 {
		t.Errorf("Expected no skipped slots with overwrite, got %d", report.Skipped)
	}
	if report.Translated != 5 {
		t.Errorf("Expected all 5 slots translated, got %d", report.Translated)
	}

	doc, err := env.content.GetContent(ctx, paperID)
	if err != nil {
		t.Fatalf("Failed to reload content: %v", err)
	}
	got := doc.Sections[0].Content[1].(*models.ParagraphBlock).Text.Zh.PlainText()
	if got != "中文 Shortcut connections help." {
		t.Errorf("Expected overwritten translation, got %q", got)
	}
}

func TestTranslatePaperBatching(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Step 1: A document with more slots than one batch holds
	paper, err := env.papers.CreatePaper(ctx, &models.CreatePaperRequest{Title: "Long Paper"})
	if err != nil {
		t.Fatalf("Failed to create paper: %v", err)
	}
	section := &models.Section{ID: "sec_1", Title: models.Bilingual{En: text("Body")}}
	for i := 0; i < 10; i++ {
		section.Content = append(section.Content, &models.ParagraphBlock{
			ID:   fmt.Sprintf("blk_p%d", i),
			Text: models.Bilingual{En: text(fmt.Sprintf("Paragraph %d.", i))},
		})
	}
	doc := &models.PaperContent{
		PaperID:  paper.ID,
		Metadata: models.ContentMetadata{Title: models.BilingualText{En: "Long Paper"}},
		Sections: []*models.Section{section},
	}
	if _, err := env.content.SaveContent(ctx, paper.ID, doc); err != nil {
		t.Fatalf("Failed to save content: %v", err)
	}

	// Step 2: 12 slots split across two provider calls
	report, err := env.svc.TranslatePaper(ctx, paper.ID, &models.TranslateRequest{Scope: "all"})
	if err != nil {
		t.Fatalf("Failed to translate: %v", err)
	}
	if report.Translated != 12 {
		t.Errorf("Expected 12 translated slots, got %d", report.Translated)
	}
	if len(env.stub.batches) != 2 {
		t.Fatalf("Expected 2 provider calls, got %d", len(env.stub.batches))
	}
	if len(env.stub.batches[0]) != 8 || len(env.stub.batches[1]) != 4 {
		t.Errorf("Expected batches of 8 and 4, got %d and %d",
			len(env.stub.batches[0]), len(env.stub.batches[1]))
	}
}

func TestTranslatePaperProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Step 1: Every provider call fails
	paperID := seedEnglishPaper(t, env)
	env.stub.fail = true

	report, err := env.svc.TranslatePaper(ctx, paperID, &models.TranslateRequest{Scope: "all"})
	if err != nil {
		t.Fatalf("Expected a report despite provider failure, got error: %v", err)
	}
	if report.Translated != 0 || report.Failed != 4 {
		t.Errorf("Expected 0 translated and 4 failed, got %d and %d", report.Translated, report.Failed)
	}

	// Step 2: Nothing was written
	doc, err := env.content.GetContent(ctx, paperID)
	if err != nil {
		t.Fatalf("Failed to reload content: %v", err)
	}
	if doc.Metadata.Title.Zh != "" {
		t.Error("Expected no partial writes after a failed run")
	}
}

func TestTranslatePaperUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	paperID := seedEnglishPaper(t, env)

	logger := arbor.NewLogger()
	svc := NewService(env.content, nil, nil, logger)

	if svc.Available() {
		t.Error("Expected service without provider to report unavailable")
	}
	if svc.ProviderName() != "" {
		t.Errorf("Expected empty provider name, got %q", svc.ProviderName())
	}
	if _, err := svc.TranslatePaper(ctx, paperID, nil); !errors.Is(err, interfaces.ErrTranslationUnavailable) {
		t.Errorf("Expected ErrTranslationUnavailable, got %v", err)
	}
}

func TestTranslatePaperInvalidScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	paperID := seedEnglishPaper(t, env)

	_, err := env.svc.TranslatePaper(ctx, paperID, &models.TranslateRequest{Scope: "body"})
	if !errors.Is(err, interfaces.ErrValidation) {
		t.Errorf("Expected ErrValidation for unknown scope, got %v", err)
	}
}

func TestTranslatePaperUnknownPaper(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.TranslatePaper(context.Background(), "paper_missing", nil)
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
