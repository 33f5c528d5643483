package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"docsummarizer/internal/domain"
)

const strippedSelector = "script, style, img, input"

type WebPageReader struct {
	client    *http.Client
	userAgent string
	log       *slog.Logger
}

func NewWebPageReader(client *http.Client, userAgent string, log *slog.Logger) *WebPageReader {
	return &WebPageReader{
		client:    client,
		userAgent: userAgent,
		log:       log,
	}
}

func (r *WebPageReader) Extract(ctx context.Context, src domain.Source) (domain.Document, error) {
	pageURL := strings.TrimSpace(src.URL)
	if pageURL == "" {
		return domain.Document{}, domain.NewError(domain.ErrorKindFetch, "fetch page", errors.New("URL is empty"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindFetch, "create request", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindFetch, "do request", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			r.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", pageURL)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.Document{}, domain.NewError(
			domain.ErrorKindFetch,
			"do request",
			fmt.Errorf("unexpected status: %d", resp.StatusCode),
		)
	}

	if contentType := resp.Header.Get("Content-Type"); contentType != "" && !isHTMLContentType(contentType) {
		return domain.Document{}, domain.NewError(
			domain.ErrorKindParse,
			"check content type",
			fmt.Errorf("response is not HTML (Content-Type = %s)", contentType),
		)
	}

	// With scripting disabled <noscript> children are parsed as elements and
	// get stripped like the rest of the body.
	root, err := html.ParseWithOptions(resp.Body, html.ParseOptionEnableScripting(false))
	if err != nil {
		return domain.Document{}, domain.NewError(domain.ErrorKindParse, "parse HTML", err)
	}

	return documentFromHTML(goquery.NewDocumentFromNode(root))
}

func isHTMLContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func documentFromHTML(doc *goquery.Document) (domain.Document, error) {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = WebPageFallbackTitle
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return domain.Document{}, domain.NewError(domain.ErrorKindParse, "find body", errors.New("body is missing"))
	}

	body.Find(strippedSelector).Remove()

	var lines []string
	for _, node := range body.Nodes {
		lines = appendTextLines(lines, node)
	}

	return domain.Document{
		Title: title,
		Text:  strings.Join(lines, "\n"),
	}, nil
}

// appendTextLines collects trimmed, non-empty text nodes in document order.
func appendTextLines(lines []string, node *html.Node) []string {
	if node.Type == html.TextNode {
		if text := strings.TrimSpace(node.Data); text != "" {
			lines = append(lines, text)
		}

		return lines
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		lines = appendTextLines(lines, child)
	}

	return lines
}
