package pipeline_test

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
	"docsummarizer/internal/extract"
	"docsummarizer/internal/pipeline"
	"docsummarizer/internal/prompt"
	"docsummarizer/internal/summarizer"
)

type stubClient struct {
	summary string
	err     error
	calls   int
	spec    prompt.Spec
	params  summarizer.Params
}

func (c *stubClient) Complete(_ context.Context, spec prompt.Spec, params summarizer.Params) (string, error) {
	c.calls++
	c.spec = spec
	c.params = params

	return c.summary, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testParams() summarizer.Params {
	return summarizer.Params{Model: "gpt-4", Temperature: 0.3, MaxOutputTokens: 500}
}

func newPipeline(client summarizer.Client) *pipeline.Pipeline {
	return pipeline.New(
		extract.New(extract.Options{}, discardLogger()),
		client,
		summarizer.ProviderOpenAI,
		testParams(),
		discardLogger(),
	)
}

func writeSample(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o600); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	return path
}

func TestRunTextFileEndToEnd(t *testing.T) {
	client := &stubClient{summary: "**hello** summary"}
	p := newPipeline(client)

	res, err := p.Run(context.Background(), domain.Source{Kind: domain.SourceKindText, Path: writeSample(t)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Document{Title: "Text File", Text: "hello world"}
	if res.Document != want {
		t.Fatalf("unexpected document: %+v", res.Document)
	}

	if res.Summary != "**hello** summary" {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}

	if !strings.Contains(client.spec.User(), "Text File") || !strings.Contains(client.spec.User(), "hello world") {
		t.Fatalf("user message must contain title and text: %q", client.spec.User())
	}

	if client.params != testParams() {
		t.Fatalf("unexpected params passed to client: %+v", client.params)
	}
}

func TestRunSummarizerFailure(t *testing.T) {
	client := &stubClient{summary: "ignored", err: errors.New("429 insufficient_quota")}
	p := newPipeline(client)

	res, err := p.Run(context.Background(), domain.Source{Kind: domain.SourceKindText, Path: writeSample(t)})
	if err == nil {
		t.Fatalf("expected error")
	}

	if res.Summary != "" {
		t.Fatalf("expected no markdown output, got %q", res.Summary)
	}

	if kind, _ := domain.KindOf(err); kind != domain.ErrorKindUpstream {
		t.Fatalf("expected upstream kind, got %v", err)
	}

	if !errors.Is(err, client.err) {
		t.Fatalf("expected upstream error to be passed through, got %v", err)
	}

	message := pipeline.DisplayMessage(err)
	if message == "" || !strings.Contains(message, "insufficient_quota") {
		t.Fatalf("unexpected display message: %q", message)
	}
}

func TestRunExtractionFailureSkipsSummarizer(t *testing.T) {
	client := &stubClient{summary: "unused"}
	p := newPipeline(client)

	missing := filepath.Join(t.TempDir(), "missing.txt")

	_, err := p.Run(context.Background(), domain.Source{Kind: domain.SourceKindText, Path: missing})
	if kind, _ := domain.KindOf(err); kind != domain.ErrorKindFetch {
		t.Fatalf("expected fetch kind, got %v", err)
	}

	if client.calls != 0 {
		t.Fatalf("summarizer must not be called after extraction failure")
	}
}

type plainFailingReader struct{}

func (plainFailingReader) Extract(context.Context, domain.Source) (domain.Document, error) {
	return domain.Document{}, errors.New("boom")
}

func TestRunTagsUntypedExtractionErrors(t *testing.T) {
	p := pipeline.New(plainFailingReader{}, &stubClient{}, summarizer.ProviderOpenAI, testParams(), discardLogger())

	_, err := p.Run(context.Background(), domain.Source{Kind: domain.SourceKindWebPage, URL: "https://example.com"})
	if _, ok := domain.KindOf(err); !ok {
		t.Fatalf("expected a kind on every pipeline error, got %v", err)
	}
}

func TestDisplayMessage(t *testing.T) {
	if got := pipeline.DisplayMessage(nil); got != "" {
		t.Fatalf("expected empty message for nil error, got %q", got)
	}

	err := domain.NewError(domain.ErrorKindParse, "decode image", errors.New("image: unknown format"))
	if got := pipeline.DisplayMessage(err); got != "Error: decode image: image: unknown format" {
		t.Fatalf("unexpected message: %q", got)
	}

	if got := pipeline.DisplayMessage(errors.New("  ")); got == "" {
		t.Fatalf("expected non-empty message for blank error")
	}

	timeout := domain.NewError(domain.ErrorKindFetch, "do request", context.DeadlineExceeded)
	if got := pipeline.DisplayMessage(timeout); !strings.HasPrefix(got, "Error: request timed out") {
		t.Fatalf("unexpected timeout message: %q", got)
	}
}
