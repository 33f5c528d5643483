package extract

import (
	"context"
	"errors"
	"os"
	"unicode/utf8"

	"docsummarizer/internal/domain"
)

type TextReader struct{}

func NewTextReader() *TextReader {
	return &TextReader{}
}

func (r *TextReader) Extract(_ context.Context, src domain.Source) (domain.Document, error) {
	content, err := os.ReadFile(src.Path)
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindFetch, "read text file", err)
	}

	if !utf8.Valid(content) {
		return domain.Document{}, domain.NewError(
			domain.ErrorKindParse,
			"decode text file",
			errors.New("content is not valid UTF-8"),
		)
	}

	return domain.Document{Title: TextTitle, Text: string(content)}, nil
}
