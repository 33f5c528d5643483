package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"docsummarizer/internal/domain"
)

type PDFReader struct {
	log *slog.Logger
}

func NewPDFReader(log *slog.Logger) *PDFReader {
	return &PDFReader{log: log}
}

func (r *PDFReader) Extract(ctx context.Context, src domain.Source) (domain.Document, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindFetch, "open PDF", err)
	}
	defer func() {
		if err = f.Close(); err != nil {
			r.log.ErrorContext(ctx, "Failed to close PDF",
				"error", err,
				"path", src.Path)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindFetch, "stat PDF", err)
	}

	text, err := readPDFText(f, info.Size())
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindParse, "read PDF", err)
	}

	return domain.Document{Title: PDFTitle, Text: text}, nil
}

func readPDFText(f *os.File, size int64) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed PDF: %v", p)
		}
	}()

	reader, err := pdf.NewReader(f, size)
	if err != nil {
		return "", fmt.Errorf("create reader: %w", err)
	}

	return concatPages(ledongthucPages{reader: reader})
}

type pageSource interface {
	NumPage() int
	PageText(num int) (string, error)
}

// concatPages joins page texts in page order with no separator.
func concatPages(pages pageSource) (string, error) {
	var b strings.Builder

	for num := 1; num <= pages.NumPage(); num++ {
		text, err := pages.PageText(num)
		if err != nil {
			return "", fmt.Errorf("extract text from page %d: %w", num, err)
		}

		b.WriteString(text)
	}

	return b.String(), nil
}

type ledongthucPages struct {
	reader *pdf.Reader
}

func (p ledongthucPages) NumPage() int {
	return p.reader.NumPage()
}

func (p ledongthucPages) PageText(num int) (string, error) {
	page := p.reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}

	return page.GetPlainText(nil)
}
