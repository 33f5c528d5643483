package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"docsummarizer/internal/domain"
	"docsummarizer/internal/extract"
	"docsummarizer/internal/metrics"
	"docsummarizer/internal/prompt"
	"docsummarizer/internal/summarizer"
)

const unknownErrorMessage = "Error: unknown failure"

type Result struct {
	Document domain.Document
	Summary  string
}

// Pipeline runs one request: extract, build the prompt, summarize.
type Pipeline struct {
	reader   extract.Reader
	client   summarizer.Client
	provider string
	params   summarizer.Params
	log      *slog.Logger
}

func New(
	reader extract.Reader,
	client summarizer.Client,
	provider string,
	params summarizer.Params,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		reader:   reader,
		client:   client,
		provider: provider,
		params:   params,
		log:      log,
	}
}

// Run returns either a summary or an error carrying a domain.ErrorKind.
func (p *Pipeline) Run(ctx context.Context, src domain.Source) (Result, error) {
	start := time.Now()

	doc, err := p.reader.Extract(ctx, src)
	metrics.ExtractionDuration.WithLabelValues(string(src.Kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		kind, ok := domain.KindOf(err)
		if !ok {
			kind = domain.ErrorKindFetch
			err = domain.NewError(kind, "extract", err)
		}
		metrics.ExtractionsTotal.WithLabelValues(string(src.Kind), string(kind)).Inc()

		p.log.ErrorContext(ctx, "Failed to extract source",
			"error", err,
			"kind", kind,
			"sourceKind", src.Kind,
			"location", src.Location())

		return Result{}, err
	}
	metrics.ExtractionsTotal.WithLabelValues(string(src.Kind), metrics.ResultOK).Inc()

	spec := prompt.Build(doc)

	summary, err := p.client.Complete(ctx, spec, p.params)
	if err != nil {
		metrics.SummariesTotal.WithLabelValues(p.provider, metrics.ResultError).Inc()
		err = domain.NewError(domain.ErrorKindUpstream, "summarize", err)

		p.log.ErrorContext(ctx, "Failed to summarize document",
			"error", err,
			"kind", domain.ErrorKindUpstream,
			"provider", p.provider,
			"model", p.params.Model,
			"title", doc.Title,
			"textLen", len(doc.Text))

		return Result{}, err
	}
	metrics.SummariesTotal.WithLabelValues(p.provider, metrics.ResultOK).Inc()

	p.log.InfoContext(ctx, "Document is summarized",
		"sourceKind", src.Kind,
		"provider", p.provider,
		"model", p.params.Model,
		"title", doc.Title,
		"textLen", len(doc.Text),
		"summaryLen", len(summary),
		"durationSeconds", time.Since(start).Seconds())

	return Result{Document: doc, Summary: summary}, nil
}

// DisplayMessage renders any failure as the single line shown to users.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	message := strings.TrimSpace(err.Error())
	if message == "" {
		return unknownErrorMessage
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Error: request timed out (" + message + ")"
	}

	return "Error: " + message
}
