// Package app wires configuration into a ready pipeline for the binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"docsummarizer/internal/config"
	"docsummarizer/internal/extract"
	"docsummarizer/internal/extract/ocr"
	"docsummarizer/internal/pipeline"
	"docsummarizer/internal/summarizer"
)

func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewPipeline builds the readers, the summarizer client and the pipeline.
// The returned close func releases the client and is never nil.
func NewPipeline(ctx context.Context, cfg config.Config, log *slog.Logger) (*pipeline.Pipeline, func(), error) {
	extractor := extract.New(extract.Options{
		HTTPClient: &http.Client{Timeout: cfg.FetchTimeout},
		UserAgent:  cfg.FetchUserAgent,
		Recognizer: ocr.NewTesseract(cfg.OCRLanguages, log),
	}, log)

	client, err := summarizer.New(ctx, cfg.Provider, cfg.APIKey())
	if err != nil {
		return nil, func() {}, fmt.Errorf("create summarizer: %w", err)
	}

	closeClient := func() {
		closer, ok := client.(io.Closer)
		if !ok {
			return
		}

		if err := closer.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close summarizer",
				"error", err,
				"provider", cfg.Provider)
		}
	}

	log.InfoContext(ctx, "Summarizer is initialized",
		"provider", cfg.Provider,
		"model", cfg.Model)

	return pipeline.New(extractor, client, cfg.Provider, cfg.SummarizerParams(), log), closeClient, nil
}
