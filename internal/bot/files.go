package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"

	"docsummarizer/internal/domain"
	"docsummarizer/internal/upload"
)

// See https://core.telegram.org/bots/api#getfile.
const telegramDownloadLimit = 20 << 20

type documentType struct {
	kind     domain.SourceKind
	mimeType string
	ext      string
}

//nolint:gochecknoglobals // Immutable lookup table.
var documentTypes = []documentType{
	{domain.SourceKindPDF, "application/pdf", ".pdf"},
	{domain.SourceKindText, "text/plain", ".txt"},
	{domain.SourceKindImage, "image/png", ".png"},
	{domain.SourceKindImage, "image/jpeg", ".jpg"},
}

// documentKind maps an uploaded document to a source kind, trusting the MIME
// type first and the file name second.
func documentKind(mimeType string, filename string) (domain.SourceKind, string, bool) {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err == nil {
		for _, t := range documentTypes {
			if mediaType != t.mimeType {
				continue
			}

			if ext, extErr := upload.Extension(t.kind, filename); extErr == nil {
				return t.kind, ext, true
			}

			return t.kind, t.ext, true
		}
	}

	for _, t := range documentTypes {
		if ext, extErr := upload.Extension(t.kind, filename); extErr == nil {
			return t.kind, ext, true
		}
	}

	return "", "", false
}

type fileFetcher struct {
	client   *http.Client
	dir      string
	maxBytes int64
}

// fetch downloads fileURL into the upload directory. The URL carries the bot
// token and must not be logged.
func (f *fileFetcher) fetch(ctx context.Context, fileURL string, ext string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", errors.New("create request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}

		return "", fmt.Errorf("request file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("request file: status %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}

	path, err := upload.Save(f.dir, ext, body)
	if err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	if f.maxBytes > 0 {
		if err = enforceMaxBytes(path, f.maxBytes); err != nil {
			return "", errors.Join(err, os.Remove(path))
		}
	}

	return path, nil
}

func enforceMaxBytes(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	if info.Size() > maxBytes {
		return fmt.Errorf("file exceeds %d bytes", maxBytes)
	}

	return nil
}
