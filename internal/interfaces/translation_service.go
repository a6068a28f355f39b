package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/neuink/internal/models"
)

// ErrTranslationUnavailable marks translation calls made with no provider
// configured. Handlers map it to a 503 response.
var ErrTranslationUnavailable = errors.New("translation provider not configured")

// TranslationProvider is a single LLM backend capable of translating
// English academic text to Chinese. Implementations wrap cloud APIs.
type TranslationProvider interface {
	// Name returns the provider identifier ("claude", "gemini")
	Name() string

	// Translate translates each input text to Chinese, preserving order.
	// The output slice always has the same length as the input.
	Translate(ctx context.Context, texts []string) ([]string, error)

	// Close releases provider resources
	Close() error
}

// TranslationService fills empty zh slots of a paper document
type TranslationService interface {
	// TranslatePaper loads the document, translates the slots selected by
	// the request scope and saves the result. Slots that already have zh
	// content are skipped unless the request says to overwrite.
	TranslatePaper(ctx context.Context, paperID string, req *models.TranslateRequest) (*models.TranslationReport, error)

	// Available reports whether a provider is configured
	Available() bool

	// ProviderName returns the active provider name, or "" when unavailable
	ProviderName() string

	// Close releases the provider
	Close() error
}
