package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/oops"
)

// Permission checks whether the bot holds caption edit rights in a
// channel before any lookup work is spent on a post.
type Permission struct {
	bot *bot.Bot
}

func NewPermission() *Permission {
	return &Permission{}
}

func (p *Permission) SetBot(b *bot.Bot) {
	p.bot = b
}

// CanEdit reports whether the bot is an administrator with the
// can_edit_messages right in the channel.
func (p *Permission) CanEdit(ctx context.Context, channelID int64) (bool, error) {
	member, err := p.bot.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: channelID,
		UserID: p.bot.ID(),
	})
	if err != nil {
		return false, oops.With("channel_id", channelID, "context", "failed to get own membership").Wrap(err)
	}

	if member.Type != models.ChatMemberTypeAdministrator || member.Administrator == nil {
		return false, nil
	}
	return member.Administrator.CanEditMessages, nil
}
