package prompt_test

import (
	"strings"
	"testing"

	"docsummarizer/internal/domain"
	"docsummarizer/internal/prompt"
)

func TestBuildOrderAndRoles(t *testing.T) {
	spec := prompt.Build(domain.Document{Title: "Text File", Text: "hello world"})

	if len(spec.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(spec.Messages))
	}

	if spec.Messages[0].Role != prompt.RoleSystem || spec.Messages[1].Role != prompt.RoleUser {
		t.Fatalf("unexpected roles: %q, %q", spec.Messages[0].Role, spec.Messages[1].Role)
	}

	want := "You are analyzing a document titled **Text File**. Please summarize the following content:\n\nhello world"
	if spec.User() != want {
		t.Fatalf("unexpected user message:\ngot  %q\nwant %q", spec.User(), want)
	}
}

func TestBuildKeepsTitleAndTextVerbatim(t *testing.T) {
	docs := []domain.Document{
		{Title: "No title found", Text: ""},
		{Title: "PDF Document", Text: "  leading and trailing  \n\n"},
		{Title: "Ünïcode **title**", Text: strings.Repeat("long text ", 10000)},
	}

	for _, doc := range docs {
		spec := prompt.Build(doc)

		if !strings.Contains(spec.User(), doc.Title) {
			t.Errorf("user message must contain title %q", doc.Title)
		}

		if !strings.HasSuffix(spec.User(), doc.Text) {
			t.Errorf("user message must end with the full text (title %q)", doc.Title)
		}
	}
}

func TestBuildSystemMessageIsConstant(t *testing.T) {
	first := prompt.Build(domain.Document{Title: "A", Text: "one"})
	second := prompt.Build(domain.Document{Title: "B", Text: "two"})

	if first.System() == "" {
		t.Fatalf("expected system message")
	}

	if first.System() != second.System() {
		t.Fatalf("system message must not depend on the document")
	}

	if !strings.Contains(first.System(), "markdown") {
		t.Fatalf("system message must ask for markdown: %q", first.System())
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	doc := domain.Document{Title: "Image Document", Text: "line\nline"}

	if prompt.Build(doc).User() != prompt.Build(doc).User() {
		t.Fatalf("expected identical prompts for identical documents")
	}
}
