//go:build tesseract

package ocr_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"docsummarizer/internal/extract/ocr"
)

const textScale = 6

func requireTesseract(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract is not installed")
	}
}

func newTesseract() *ocr.Tesseract {
	return ocr.NewTesseract([]string{"eng"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// renderText draws text in black on white and scales it up for OCR.
func renderText(t *testing.T, text string) []byte {
	t.Helper()

	face := basicfont.Face7x13
	small := image.NewRGBA(image.Rect(0, 0, 7*len(text)+20, 33))
	draw.Draw(small, small.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(10, 22),
	}
	d.DrawString(text)

	large := image.NewRGBA(image.Rect(0, 0, small.Bounds().Dx()*textScale, small.Bounds().Dy()*textScale))
	draw.NearestNeighbor.Scale(large, large.Bounds(), small, small.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, large); err != nil {
		t.Fatalf("encode image: %v", err)
	}

	return buf.Bytes()
}

func TestTesseractRecognizesRenderedText(t *testing.T) {
	requireTesseract(t)

	text, err := newTesseract().Recognize(context.Background(), renderText(t, "HELLO WORLD"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(strings.ToUpper(text), "HELLO") {
		t.Fatalf("expected recognized text to contain HELLO, got %q", text)
	}
}

func TestTesseractRejectsInvalidImage(t *testing.T) {
	requireTesseract(t)

	if _, err := newTesseract().Recognize(context.Background(), []byte("not an image")); err == nil {
		t.Fatalf("expected error for invalid image")
	}
}

func TestTesseractHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTesseract().Recognize(ctx, renderText(t, "HELLO"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
