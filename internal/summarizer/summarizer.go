package summarizer

import (
	"context"
	"fmt"

	"docsummarizer/internal/prompt"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	DefaultTemperature     = 0.3
	DefaultMaxOutputTokens = 500
)

// Params are the generation settings for one completion.
type Params struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int64
}

// Client produces markdown text for a prompt. Upstream failures are returned
// as-is; callers decide how to present them.
type Client interface {
	Complete(ctx context.Context, spec prompt.Spec, params Params) (string, error)
}

func Providers() []string {
	return []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini}
}

func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderGemini:
		return "gemini-1.5-flash"
	default:
		return ""
	}
}

// New builds the client for provider. Gemini clients hold a connection and
// implement io.Closer.
func New(ctx context.Context, provider string, apiKey string) (Client, error) {
	var (
		client Client
		err    error
	)

	switch provider {
	case ProviderOpenAI:
		client, err = NewOpenAISummarizer(apiKey)
	case ProviderAnthropic:
		client, err = NewAnthropicSummarizer(apiKey)
	case ProviderGemini:
		client, err = NewGeminiSummarizer(ctx, apiKey)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}

	if err != nil {
		return nil, fmt.Errorf("create %s summarizer: %w", provider, err)
	}

	return client, nil
}
