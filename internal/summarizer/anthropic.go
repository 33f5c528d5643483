package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"docsummarizer/internal/prompt"
)

type AnthropicSummarizer struct {
	client *anthropic.Client
}

func NewAnthropicSummarizer(apiKey string, opts ...option.RequestOption) (*AnthropicSummarizer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("API key is empty")
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &AnthropicSummarizer{
		client: anthropic.NewClient(opts...),
	}, nil
}

func (s *AnthropicSummarizer) Complete(
	ctx context.Context,
	spec prompt.Spec,
	params Params,
) (string, error) {
	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.F(anthropic.Model(params.Model)),
		MaxTokens:   anthropic.Int(params.MaxOutputTokens),
		Temperature: anthropic.Float(params.Temperature),
		System: anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(spec.System()),
		}),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(spec.User())),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		b.WriteString(block.Text)
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "", fmt.Errorf("output text is missing (stop reason = %s)", resp.StopReason)
	}

	return summary, nil
}
