// -----------------------------------------------------------------------
// Translation Providers - Claude and Gemini backends behind one interface
// -----------------------------------------------------------------------

package translator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
)

// segmentSeparator splits batched texts inside one prompt. The model is
// instructed to echo it between translations so the response splits back
// into the same number of segments.
const segmentSeparator = "<<<SEGMENT>>>"

const translateSystemPrompt = `You are a professional translator of academic papers from English to Simplified Chinese.
The user message contains one or more text segments separated by a line reading <<<SEGMENT>>>.
Translate every segment and reply with only the translations, in order, separated by the same <<<SEGMENT>>> line.
Keep technical terms accurate and use established Chinese terminology.
Copy markers such as **...**, [$...$], [cite:...], [fig:...], [tbl:...], [eq:...], [sec:...], [^...] and [label](url) through unchanged, translating the surrounding text, the label inside [label](url) and the content inside [^...].
Do not add explanations, numbering or commentary.`

const maxRetries = 3

// NewProviderFromConfig builds the configured provider. A missing API key
// is not an error; it returns (nil, nil) and translation stays disabled.
func NewProviderFromConfig(cfg *common.TranslationConfig, logger arbor.ILogger) (interfaces.TranslationProvider, error) {
	if cfg == nil {
		return nil, nil
	}

	switch cfg.Provider {
	case common.TranslationProviderClaude, "":
		apiKey, err := common.ResolveAPIKey("anthropic_api_key", cfg.Claude.APIKey)
		if err != nil {
			logger.Info().Msg("Translation disabled: no Anthropic API key configured")
			return nil, nil
		}
		return newClaudeProvider(&cfg.Claude, apiKey, logger)
	case common.TranslationProviderGemini:
		apiKey, err := common.ResolveAPIKey("gemini_api_key", cfg.Gemini.APIKey)
		if err != nil {
			logger.Info().Msg("Translation disabled: no Gemini API key configured")
			return nil, nil
		}
		return newGeminiProvider(&cfg.Gemini, apiKey, logger)
	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Provider)
	}
}

func joinSegments(texts []string) string {
	return strings.Join(texts, "\n"+segmentSeparator+"\n")
}

// splitSegments recovers the per-segment translations from a response.
// A count mismatch means the model broke protocol; the whole batch fails
// rather than misassigning translations.
func splitSegments(response string, want int) ([]string, error) {
	parts := strings.Split(response, segmentSeparator)
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d translated segments, got %d", want, len(parts))
	}
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = strings.TrimSpace(part)
	}
	return out, nil
}

// isRateLimitError matches 429 status codes and RESOURCE_EXHAUSTED errors.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota")
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// extractRetryDelay parses the API-suggested retry delay from an error.
// Returns 0 if no delay is found in the message.
func extractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}
	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}
	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// retryBackoff picks the wait before the next attempt. Rate limit errors
// honor the provider-suggested delay when one is present.
func retryBackoff(attempt int, err error) time.Duration {
	if isRateLimitError(err) {
		if delay := extractRetryDelay(err); delay > 0 {
			return delay + 5*time.Second
		}
		return 30 * time.Second
	}
	return time.Duration(attempt+1) * 2 * time.Second
}
