package translator

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/neuink/internal/common"
)

// geminiProvider translates through the Google Gemini API. The client is
// created on first use because genai.NewClient needs a context.
type geminiProvider struct {
	apiKey      string
	model       string
	temperature float32
	timeout     time.Duration
	client      *genai.Client
	logger      arbor.ILogger
}

func newGeminiProvider(cfg *common.GeminiConfig, apiKey string, logger arbor.ILogger) (*geminiProvider, error) {
	model := cfg.Model
	if model == "" {
		model = "gemini-3-flash-preview"
	}
	timeout := 2 * time.Minute
	if cfg.Timeout != "" {
		parsed, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration '%s': %w", cfg.Timeout, err)
		}
		timeout = parsed
	}

	return &geminiProvider{
		apiKey:      apiKey,
		model:       model,
		temperature: cfg.Temperature,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	if p.client != nil {
		return p.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	p.client = client
	return client, nil
}

func (p *geminiProvider) Translate(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(joinSegments(texts), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(translateSystemPrompt, genai.RoleUser),
	}
	if p.temperature > 0 {
		config.Temperature = genai.Ptr(p.temperature)
	}

	var resp *genai.GenerateContentResponse
	var apiErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, apiErr = client.Models.GenerateContent(ctx, p.model, contents, config)
		if apiErr == nil {
			break
		}
		if attempt == maxRetries {
			break
		}

		backoff := retryBackoff(attempt, apiErr)
		p.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Gemini API call")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return nil, fmt.Errorf("Gemini API call failed after %d retries: %w", maxRetries, apiErr)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}
	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	return splitSegments(responseText, len(texts))
}

func (p *geminiProvider) Close() error {
	p.client = nil
	return nil
}
