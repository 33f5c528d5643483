package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"mvdan.cc/xurls/v2"

	"docsummarizer/internal/domain"
	"docsummarizer/internal/upload"
)

const welcomeText = `📄 *Document Summarizer*

Send me one of these and I will reply with a short summary:

– a link to a web page
– a PDF, \.txt or image file as a document
– a photo of printed text`

const noSourceText = "✖️ Send a link, a document or a photo\\."

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	switch {
	case message.IsCommand():
		switch message.Command() {
		case "start", "help":
			return b.sendMarkdown(ctx, chatID, welcomeText)
		default:
			return b.sendMarkdown(ctx, chatID, noSourceText)
		}

	case message.Document != nil:
		return b.withSpinner(ctx, chatID, func() error {
			return b.handleDocument(ctx, message)
		})

	case len(message.Photo) > 0:
		return b.withSpinner(ctx, chatID, func() error {
			return b.handlePhoto(ctx, message)
		})
	}

	pageURL, err := firstURL(message.Text + "\n" + message.Caption)
	if err != nil {
		return fmt.Errorf("find URL: %w", err)
	}

	if pageURL == "" {
		return b.sendMarkdown(ctx, chatID, noSourceText)
	}

	return b.withSpinner(ctx, chatID, func() error {
		return b.summarize(ctx, message, domain.Source{Kind: domain.SourceKindWebPage, URL: pageURL})
	})
}

func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	document := message.Document

	kind, ext, ok := documentKind(document.MimeType, document.FileName)
	if !ok {
		return b.sendError(ctx, message, fmt.Errorf("file %q is not a PDF, text file or PNG/JPEG image",
			document.FileName))
	}

	return b.summarizeFile(ctx, message, kind, ext, document.FileID, int64(document.FileSize))
}

func (b *Bot) handlePhoto(ctx context.Context, message *tgbotapi.Message) error {
	photo := largestPhoto(message.Photo)

	return b.summarizeFile(ctx, message, domain.SourceKindImage, ".jpg", photo.FileID, int64(photo.FileSize))
}

func (b *Bot) summarizeFile(
	ctx context.Context,
	message *tgbotapi.Message,
	kind domain.SourceKind,
	ext string,
	fileID string,
	size int64,
) error {
	fileURL, err := b.fileURL(fileID, size)
	if err != nil {
		return b.sendError(ctx, message, domain.NewError(domain.ErrorKindFetch, "get telegram file", err))
	}

	path, err := b.files.fetch(ctx, fileURL, ext)
	if err != nil {
		return b.sendError(ctx, message, domain.NewError(domain.ErrorKindFetch, "download telegram file", err))
	}
	defer upload.Remove(ctx, b.log, path)

	return b.summarize(ctx, message, domain.Source{Kind: kind, Path: path})
}

func (b *Bot) fileURL(fileID string, size int64) (string, error) {
	if size > telegramDownloadLimit {
		return "", fmt.Errorf("file is %d bytes, bots can download at most %d", size, telegramDownloadLimit)
	}

	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("get file direct URL: %w", err)
	}

	return fileURL, nil
}

// summarize runs the pipeline and replies. Pipeline failures are reported to
// the chat and logged by the pipeline, so only send failures are returned.
func (b *Bot) summarize(ctx context.Context, message *tgbotapi.Message, src domain.Source) error {
	res, err := b.runner.Run(ctx, src)
	if err != nil {
		return b.sendError(ctx, message, err)
	}

	return b.sendSummary(ctx, message, res.Document.Title, res.Summary)
}

// firstURL returns the first http(s) URL in text, or "".
func firstURL(text string) (string, error) {
	re, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return "", fmt.Errorf("create regexp: %w", err)
	}

	return strings.TrimSpace(re.FindString(text)), nil
}

func largestPhoto(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	var largest tgbotapi.PhotoSize

	for _, size := range sizes {
		if size.Width*size.Height >= largest.Width*largest.Height {
			largest = size
		}
	}

	return largest
}
