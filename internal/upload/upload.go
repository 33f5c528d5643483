// Package upload stores user-supplied files where the readers can open them.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"docsummarizer/internal/domain"
)

//nolint:gochecknoglobals // Immutable lookup table.
var acceptedExtensions = map[domain.SourceKind][]string{
	domain.SourceKindPDF:   {".pdf"},
	domain.SourceKindText:  {".txt"},
	domain.SourceKindImage: {".png", ".jpg", ".jpeg"},
}

// Extension returns the lower-cased extension of filename if kind accepts it.
func Extension(kind domain.SourceKind, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	accepted, ok := acceptedExtensions[kind]
	if !ok {
		return "", fmt.Errorf("source kind %q does not accept files", kind)
	}

	if !slices.Contains(accepted, ext) {
		return "", fmt.Errorf("file %q is not accepted for %s (expected %s)",
			filepath.Base(filename), kind, strings.Join(accepted, ", "))
	}

	return ext, nil
}

// Save copies src to dir under a random name with the given extension.
func Save(dir string, ext string, src io.Reader) (path string, err error) {
	path = filepath.Join(dir, uuid.NewString()+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err = io.Copy(f, src); err != nil {
		return "", errors.Join(
			fmt.Errorf("copy upload: %w", err),
			f.Close(),
			os.Remove(path),
		)
	}

	if err = f.Close(); err != nil {
		return "", errors.Join(fmt.Errorf("close file: %w", err), os.Remove(path))
	}

	return path, nil
}

func Remove(ctx context.Context, log *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.ErrorContext(ctx, "Failed to remove saved upload",
			"error", err,
			"path", path)
	}
}
