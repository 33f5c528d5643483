// Package ocr binds the image reader to the tesseract engine.
package ocr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/otiai10/gosseract/v2"
)

type Tesseract struct {
	languages []string
	log       *slog.Logger
}

func NewTesseract(languages []string, log *slog.Logger) *Tesseract {
	return &Tesseract{languages: languages, log: log}
}

// Recognize returns the recognized text verbatim.
func (t *Tesseract) Recognize(ctx context.Context, pngImage []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer func() {
		if err := client.Close(); err != nil {
			t.log.ErrorContext(ctx, "Failed to close tesseract client",
				"error", err)
		}
	}()

	if len(t.languages) > 0 {
		if err := client.SetLanguage(t.languages...); err != nil {
			return "", fmt.Errorf("set language: %w", err)
		}
	}

	if err := client.SetImageFromBytes(pngImage); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("get text: %w", err)
	}

	return text, nil
}
