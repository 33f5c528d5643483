package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docsummarizer/internal/markdown"
	"docsummarizer/internal/pipeline"
)

const (
	// See https://core.telegram.org/bots/api#sendmessage.
	maxMessageLength = 4096

	maxErrorLength = 1000
)

func (b *Bot) sendSummary(ctx context.Context, message *tgbotapi.Message, title string, summary string) error {
	text := strings.TrimSpace(title + "\n\n" + summary)

	var errs []error

	for i, part := range splitMessage(text, maxMessageLength) {
		reply := tgbotapi.NewMessage(message.Chat.ID, part)
		reply.DisableWebPagePreview = true
		if i == 0 {
			reply.ReplyToMessageID = message.MessageID
		}

		if _, err := b.rateLimiter.Send(ctx, reply); err != nil {
			errs = append(errs, fmt.Errorf("send summary part %d: %w", i, err))
			break
		}
	}

	return errors.Join(errs...)
}

func (b *Bot) sendError(ctx context.Context, message *tgbotapi.Message, err error) error {
	text := []rune(pipeline.DisplayMessage(err))
	if len(text) > maxErrorLength {
		text = append(text[:maxErrorLength], '…')
	}

	reply := tgbotapi.NewMessage(message.Chat.ID, "❌ "+markdown.EscapeV2(string(text)))
	reply.ParseMode = tgbotapi.ModeMarkdownV2
	reply.DisableWebPagePreview = true
	reply.ReplyToMessageID = message.MessageID

	if _, sendErr := b.rateLimiter.Send(ctx, reply); sendErr != nil {
		return fmt.Errorf("send error message: %w", sendErr)
	}

	return nil
}

func (b *Bot) sendMarkdown(ctx context.Context, chatID int64, text string) error {
	normalizedText := strings.ToValidUTF8(text, "?")
	if normalizedText != text {
		b.log.WarnContext(ctx, "Message text had invalid UTF-8 and was normalized",
			"chatID", chatID,
			"originalLen", len(text),
			"normalizedLen", len(normalizedText))
	}

	reply := tgbotapi.NewMessage(chatID, normalizedText)

	// See https://core.telegram.org/bots/api#markdownv2-style.
	reply.ParseMode = tgbotapi.ModeMarkdownV2
	reply.DisableWebPagePreview = true

	if _, err := b.rateLimiter.Send(ctx, reply); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// splitMessage cuts text into parts of at most limit characters, preferring
// line breaks in the second half of each window.
func splitMessage(text string, limit int) []string {
	runes := []rune(strings.ToValidUTF8(text, "?"))
	parts := make([]string, 0, len(runes)/limit+1)

	for len(runes) > 0 {
		cut := min(limit, len(runes))
		if cut < len(runes) {
			for i := cut - 1; i >= limit/2; i-- {
				if runes[i] == '\n' {
					cut = i + 1
					break
				}
			}
		}

		part := strings.TrimRight(string(runes[:cut]), "\n")
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}

		runes = runes[cut:]
	}

	return parts
}
