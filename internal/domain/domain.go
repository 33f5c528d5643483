package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Document is the normalized result of extracting any source.
type Document struct {
	Title string
	Text  string
}

type SourceKind string

const (
	SourceKindWebPage SourceKind = "webpage"
	SourceKindPDF     SourceKind = "pdf"
	SourceKindText    SourceKind = "text"
	SourceKindImage   SourceKind = "image"
)

// SourceKinds lists every supported kind in presentation order.
func SourceKinds() []SourceKind {
	return []SourceKind{SourceKindWebPage, SourceKindPDF, SourceKindText, SourceKindImage}
}

func ParseSourceKind(raw string) (SourceKind, error) {
	kind := SourceKind(strings.ToLower(strings.TrimSpace(raw)))

	switch kind {
	case SourceKindWebPage, SourceKindPDF, SourceKindText, SourceKindImage:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown source kind %q", raw)
	}
}

// Source is one user-supplied input. URL is used by webpages, Path by files.
type Source struct {
	Kind SourceKind
	URL  string
	Path string
}

func (s Source) Location() string {
	if s.Kind == SourceKindWebPage {
		return s.URL
	}

	return s.Path
}

type ErrorKind string

const (
	ErrorKindFetch       ErrorKind = "fetch"
	ErrorKindParse       ErrorKind = "parse"
	ErrorKindRecognition ErrorKind = "recognition"
	ErrorKindUpstream    ErrorKind = "upstream"
)

// Error tags a failure with the stage that produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return "", false
}
