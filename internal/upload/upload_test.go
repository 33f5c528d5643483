package upload_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsummarizer/internal/domain"
	"docsummarizer/internal/upload"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		kind     domain.SourceKind
		filename string
		want     string
		wantErr  bool
	}{
		{domain.SourceKindPDF, "report.PDF", ".pdf", false},
		{domain.SourceKindText, "notes.txt", ".txt", false},
		{domain.SourceKindImage, "scan.jpeg", ".jpeg", false},
		{domain.SourceKindImage, "scan.gif", "", true},
		{domain.SourceKindText, "noext", "", true},
		{domain.SourceKindWebPage, "page.html", "", true},
	}

	for _, test := range tests {
		got, err := upload.Extension(test.kind, test.filename)
		if (err != nil) != test.wantErr {
			t.Fatalf("Extension(%s, %q) error = %v, wantErr %t", test.kind, test.filename, err, test.wantErr)
		}

		if got != test.want {
			t.Errorf("Extension(%s, %q) = %q, want %q", test.kind, test.filename, got, test.want)
		}
	}
}

func TestSaveUsesRandomNames(t *testing.T) {
	dir := t.TempDir()

	first, err := upload.Save(dir, ".txt", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := upload.Save(dir, ".txt", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct paths")
	}

	if filepath.Dir(first) != dir || filepath.Ext(first) != ".txt" {
		t.Fatalf("unexpected path: %s", first)
	}

	content, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}

	if string(content) != "two" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestSaveMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	if _, err := upload.Save(dir, ".txt", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestRemove(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	path, err := upload.Save(t.TempDir(), ".pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upload.Remove(context.Background(), log, path)
	upload.Remove(context.Background(), log, path)

	if _, err = os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file to be removed, stat err = %v", err)
	}
}
