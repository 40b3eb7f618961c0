package telegram

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sourcepaw/sourcebot/internal/modules/pipeline"
)

// Editor applies rewritten captions through the bot API.
type Editor struct {
	bot *bot.Bot
}

func NewEditor() *Editor {
	return &Editor{}
}

// SetBot injects the bot after construction; the bot itself depends on
// the handler, so it cannot exist yet when the editor is built.
func (e *Editor) SetBot(b *bot.Bot) {
	e.bot = b
}

// EditCaption replaces the post's caption and classifies the result.
// The bot API reports failures as flat description strings, so the
// classification is textual.
func (e *Editor) EditCaption(ctx context.Context, channelID int64, messageID int, text string) pipeline.EditOutcome {
	_, err := e.bot.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
		ChatID:    channelID,
		MessageID: messageID,
		Caption:   text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err == nil {
		return pipeline.EditOutcomeApplied
	}

	desc := err.Error()
	switch {
	case strings.Contains(desc, "message is not modified"):
		return pipeline.EditOutcomeNotModified
	case strings.Contains(desc, "not enough rights"):
		return pipeline.EditOutcomePermissionDenied
	case strings.Contains(desc, "message to edit not found"):
		return pipeline.EditOutcomeNotFound
	default:
		slog.Error("Caption edit failed", "channel_id", channelID, "message_id", messageID, "error", err)
		return pipeline.EditOutcomeFailed
	}
}
