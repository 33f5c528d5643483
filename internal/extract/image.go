package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"docsummarizer/internal/domain"
)

// Recognizer runs optical character recognition over a PNG-encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, pngImage []byte) (string, error)
}

type ImageReader struct {
	recognizer Recognizer
}

func NewImageReader(recognizer Recognizer) *ImageReader {
	return &ImageReader{recognizer: recognizer}
}

func (r *ImageReader) Extract(ctx context.Context, src domain.Source) (domain.Document, error) {
	content, err := os.ReadFile(src.Path)
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindFetch, "read image file", err)
	}

	normalized, err := normalizeImage(content)
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindParse, "decode image", err)
	}

	if r.recognizer == nil {
		return domain.Document{}, domain.NewError(
			domain.ErrorKindRecognition,
			"recognize text",
			errors.New("recognizer is not configured"),
		)
	}

	text, err := r.recognizer.Recognize(ctx, normalized)
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindRecognition, "recognize text", err)
	}

	return domain.Document{Title: ImageTitle, Text: text}, nil
}

// normalizeImage decodes any registered format and re-encodes it as PNG.
func normalizeImage(content []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s image as PNG: %w", format, err)
	}

	return buf.Bytes(), nil
}
