// -----------------------------------------------------------------------
// Translation Service - Fills empty zh content slots through an LLM
// -----------------------------------------------------------------------

package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/markup"
	"github.com/ternarybob/neuink/internal/models"
)

// translateBatchSize bounds how many slots travel in one provider call.
// Small batches keep prompts short and limit the damage of a failed call.
const translateBatchSize = 8

// Service implements TranslationService interface
type Service struct {
	content  interfaces.ContentService
	provider interfaces.TranslationProvider
	limiter  *rate.Limiter
	logger   arbor.ILogger
}

// Compile-time assertion
var _ interfaces.TranslationService = (*Service)(nil)

// NewService creates a new translation service. A nil provider is allowed;
// the service then reports unavailable and every translate call fails fast.
func NewService(
	content interfaces.ContentService,
	provider interfaces.TranslationProvider,
	cfg *common.TranslationConfig,
	logger arbor.ILogger,
) interfaces.TranslationService {
	interval := time.Second
	if cfg != nil && cfg.RateLimit != "" {
		if parsed, err := time.ParseDuration(cfg.RateLimit); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	return &Service{
		content:  content,
		provider: provider,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		logger:   logger,
	}
}

// slot is one translatable content position: the text sent to the provider
// plus a writer that stores the translation back into the live document.
type slot struct {
	text  string
	apply func(zh string)
}

// TranslatePaper translates the slots selected by the request scope and
// saves the document when anything changed
func (s *Service) TranslatePaper(ctx context.Context, paperID string, req *models.TranslateRequest) (*models.TranslationReport, error) {
	if s.provider == nil {
		return nil, interfaces.ErrTranslationUnavailable
	}
	if req == nil {
		req = &models.TranslateRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrValidation, err)
	}
	scope := req.Scope
	if scope == "" {
		scope = "all"
	}

	doc, err := s.content.GetContent(ctx, paperID)
	if err != nil {
		return nil, err
	}

	jobs, skipped := collectSlots(doc, scope, req.Overwrite)
	report := &models.TranslationReport{
		PaperID:  paperID,
		Provider: s.provider.Name(),
		Scope:    scope,
		Skipped:  skipped,
	}

	for start := 0; start < len(jobs); start += translateBatchSize {
		end := start + translateBatchSize
		if end > len(jobs) {
			end = len(jobs)
		}
		chunk := jobs[start:end]

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		texts := make([]string, len(chunk))
		for i, job := range chunk {
			texts[i] = job.text
		}

		translated, err := s.provider.Translate(ctx, texts)
		if err != nil {
			report.Failed += len(chunk)
			s.logger.Warn().
				Err(err).
				Str("paper_id", paperID).
				Int("segments", len(chunk)).
				Msg("Translation batch failed")
			continue
		}

		for i, job := range chunk {
			zh := strings.TrimSpace(translated[i])
			if zh == "" {
				report.Failed++
				continue
			}
			job.apply(zh)
			report.Translated++
		}
	}

	if report.Translated > 0 {
		if _, err := s.content.SaveContent(ctx, paperID, doc); err != nil {
			return nil, fmt.Errorf("failed to save translated content: %w", err)
		}
	}

	s.logger.Info().
		Str("paper_id", paperID).
		Str("provider", report.Provider).
		Str("scope", scope).
		Int("translated", report.Translated).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("Translation run completed")

	return report, nil
}

// collectSlots walks the document and gathers every slot the scope selects.
// Slots whose zh side is already filled are skipped (and counted) unless
// overwrite is set; slots with nothing on the en side are never candidates.
func collectSlots(doc *models.PaperContent, scope string, overwrite bool) ([]slot, int) {
	var jobs []slot
	skipped := 0

	addText := func(b *models.BilingualText) {
		if b.En == "" {
			return
		}
		if b.Zh != "" && !overwrite {
			skipped++
			return
		}
		jobs = append(jobs, slot{text: b.En, apply: func(zh string) { b.Zh = zh }})
	}
	addInline := func(b *models.Bilingual) {
		if len(b.En) == 0 {
			return
		}
		if len(b.Zh) > 0 && !overwrite {
			skipped++
			return
		}
		// Markers ride through the provider as editing syntax and parse
		// back into inline nodes on the zh side.
		rendered := markup.Render(b.En, nil)
		if strings.TrimSpace(rendered) == "" {
			return
		}
		jobs = append(jobs, slot{text: rendered, apply: func(zh string) { b.Zh = markup.Parse(zh) }})
	}

	switch scope {
	case "abstract":
		addText(&doc.Abstract)
	case "metadata":
		addText(&doc.Metadata.Title)
		addText(&doc.Abstract)
	default:
		addText(&doc.Metadata.Title)
		addText(&doc.Abstract)
		doc.WalkBilinguals(func(b *models.Bilingual) bool {
			addInline(b)
			return true
		})
	}

	return jobs, skipped
}

// Available reports whether a provider is configured
func (s *Service) Available() bool {
	return s.provider != nil
}

// ProviderName returns the active provider name, or "" when unavailable
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Close releases the provider
func (s *Service) Close() error {
	if s.provider == nil {
		return nil
	}
	return s.provider.Close()
}
