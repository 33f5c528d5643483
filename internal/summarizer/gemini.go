package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"docsummarizer/internal/prompt"
)

type GeminiSummarizer struct {
	client *genai.Client
}

func NewGeminiSummarizer(ctx context.Context, apiKey string) (*GeminiSummarizer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("API key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &GeminiSummarizer{client: client}, nil
}

func (s *GeminiSummarizer) Close() error {
	if s.client != nil {
		return s.client.Close()
	}

	return nil
}

func (s *GeminiSummarizer) Complete(
	ctx context.Context,
	spec prompt.Spec,
	params Params,
) (string, error) {
	model := s.client.GenerativeModel(params.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(spec.System())},
	}
	model.SetTemperature(float32(params.Temperature))
	model.SetMaxOutputTokens(int32(params.MaxOutputTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(spec.User()))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("output text is missing (no candidates)")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		return "", fmt.Errorf("output text is missing (finish reason = %s)", resp.Candidates[0].FinishReason)
	}

	return summary, nil
}
