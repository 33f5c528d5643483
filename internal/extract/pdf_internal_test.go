package extract

import (
	"errors"
	"testing"
)

type fakePages struct {
	texts []string
	err   error
	errAt int
}

func (p fakePages) NumPage() int {
	return len(p.texts)
}

func (p fakePages) PageText(num int) (string, error) {
	if p.err != nil && num == p.errAt {
		return "", p.err
	}

	return p.texts[num-1], nil
}

func TestConcatPagesKeepsOrderWithoutSeparator(t *testing.T) {
	pages := fakePages{texts: []string{"Page one\n", "Page two", "", " page four "}}

	got, err := concatPages(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Page one\nPage two page four "
	if got != want {
		t.Fatalf("unexpected text:\ngot  %q\nwant %q", got, want)
	}
}

func TestConcatPagesNoPages(t *testing.T) {
	got, err := concatPages(fakePages{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestConcatPagesPropagatesPageError(t *testing.T) {
	pageErr := errors.New("bad font")
	pages := fakePages{texts: []string{"a", "b"}, err: pageErr, errAt: 2}

	if _, err := concatPages(pages); !errors.Is(err, pageErr) {
		t.Fatalf("expected page error, got %v", err)
	}
}
