package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"docsummarizer/internal/prompt"
)

// OpenAISummarizer calls OpenAI's Responses API.
type OpenAISummarizer struct {
	client openai.Client
}

// NewOpenAISummarizer builds a new summarizer instance. Extra options are
// appended after the API key, so tests can point it at a local server.
func NewOpenAISummarizer(apiKey string, opts ...option.RequestOption) (*OpenAISummarizer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("API key is empty")
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAISummarizer{
		client: openai.NewClient(opts...),
	}, nil
}

func (s *OpenAISummarizer) Complete(
	ctx context.Context,
	spec prompt.Spec,
	params Params,
) (string, error) {
	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           params.Model,
		Temperature:     openai.Float(params.Temperature),
		MaxOutputTokens: openai.Int(params.MaxOutputTokens),
		Instructions:    openai.String(spec.System()),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(spec.User()),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	summary := strings.TrimSpace(resp.OutputText())

	// A summary cut at the output cap is still returned.
	if resp.Status == "incomplete" && summary == "" {
		return "", fmt.Errorf(
			"response is incomplete (reason = %s, maxOutputTokens = %d)",
			resp.IncompleteDetails.Reason,
			params.MaxOutputTokens,
		)
	}

	if summary == "" {
		return "", fmt.Errorf("output text is missing (status = %s)", resp.Status)
	}

	return summary, nil
}
