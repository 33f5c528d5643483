package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"docsummarizer/internal/domain"
)

const (
	WebPageFallbackTitle = "No title found"
	PDFTitle             = "PDF Document"
	TextTitle            = "Text File"
	ImageTitle           = "Image Document"

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
	DefaultFetchTimeout = 30 * time.Second
)

// Reader turns one source into a Document.
type Reader interface {
	Extract(ctx context.Context, src domain.Source) (domain.Document, error)
}

type Options struct {
	// HTTPClient is used by the webpage reader. A client with
	// DefaultFetchTimeout is created when nil.
	HTTPClient *http.Client
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// Recognizer runs OCR for the image reader.
	Recognizer Recognizer
}

// Extractor dispatches a source to the reader registered for its kind.
type Extractor struct {
	readers map[domain.SourceKind]Reader
	log     *slog.Logger
}

func New(opts Options, log *slog.Logger) *Extractor {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Extractor{
		readers: map[domain.SourceKind]Reader{
			domain.SourceKindWebPage: NewWebPageReader(client, userAgent, log),
			domain.SourceKindPDF:     NewPDFReader(log),
			domain.SourceKindText:    NewTextReader(),
			domain.SourceKindImage:   NewImageReader(opts.Recognizer),
		},
		log: log,
	}
}

func (e *Extractor) Extract(ctx context.Context, src domain.Source) (domain.Document, error) {
	reader, ok := e.readers[src.Kind]
	if !ok {
		return domain.Document{}, domain.NewError(
			domain.ErrorKindParse,
			"select reader",
			fmt.Errorf("unsupported source kind %q", src.Kind),
		)
	}

	doc, err := reader.Extract(ctx, src)
	if err != nil {
		return domain.Document{}, err
	}

	e.log.DebugContext(ctx, "Source is extracted",
		"kind", src.Kind,
		"location", src.Location(),
		"title", doc.Title,
		"textLen", len(doc.Text))

	return doc, nil
}
