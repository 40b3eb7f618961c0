package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/samber/lo"
	channelService "github.com/sourcepaw/sourcebot/internal/modules/channel/service"
	"github.com/sourcepaw/sourcebot/internal/modules/pipeline"
	postDomain "github.com/sourcepaw/sourcebot/internal/modules/post/domain"
	"github.com/sourcepaw/sourcebot/internal/shared/config"
)

// Session is the slice of the MTProto client the admin commands drive.
type Session interface {
	StartLogin(phone string) error
	ProvideCode(code string) error
	CancelLogin() error
	Authenticated() bool
	State() string
}

// Handler handles Telegram bot interactions
type Handler struct {
	cfg            *config.Config
	channelService *channelService.Service
	pipeline       *pipeline.Service
	session        Session

	mu            sync.Mutex
	authenticated map[int64]struct{}
	awaitingCode  map[int64]bool
}

// New creates a new Telegram handler
func New(cfg *config.Config, channelService *channelService.Service, pipe *pipeline.Service, session Session) *Handler {
	return &Handler{
		cfg:            cfg,
		channelService: channelService,
		pipeline:       pipe,
		session:        session,
		authenticated:  make(map[int64]struct{}),
		awaitingCode:   make(map[int64]bool),
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/password", bot.MatchTypePrefix, h.handlePassword)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/authenticate", bot.MatchTypePrefix, h.handleAuthenticate)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, h.handleCancel)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/add_channel", bot.MatchTypePrefix, h.handleAddChannel)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/delete_channel", bot.MatchTypePrefix, h.handleDeleteChannel)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/list_channels", bot.MatchTypeExact, h.handleListChannels)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/pause", bot.MatchTypeExact, h.handlePause)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stop", bot.MatchTypePrefix, h.handleStop)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/resume", bot.MatchTypePrefix, h.handleResume)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact, h.handleStatus)
}

// HandleUpdate processes incoming updates
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.ChannelPost != nil:
		h.processChannelPost(ctx, update.ChannelPost, false)
	case update.EditedChannelPost != nil:
		h.processChannelPost(ctx, update.EditedChannelPost, true)
	case update.Message != nil && update.Message.Chat.Type == models.ChatTypePrivate:
		h.processPrivateMessage(ctx, b, update.Message)
	}
}

func (h *Handler) processChannelPost(ctx context.Context, msg *models.Message, isEdit bool) {
	ev := postDomain.Event{
		ChannelID: msg.Chat.ID,
		MessageID: msg.ID,
		Date:      time.Unix(int64(msg.Date), 0),
		Caption:   msg.Caption,
		IsEdit:    isEdit,
	}
	if len(msg.Photo) > 0 {
		// Sizes come smallest first; take the largest rendition.
		ev.PhotoFileID = msg.Photo[len(msg.Photo)-1].FileID
	}

	// The coordinator serializes lookups, so each post gets its own
	// goroutine and queues there instead of blocking the update loop.
	go h.pipeline.Process(ctx, ev)
}

// processPrivateMessage feeds non-command text into the login wizard
// when a code is expected.
func (h *Handler) processPrivateMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	h.mu.Lock()
	awaiting := h.awaitingCode[msg.From.ID]
	h.mu.Unlock()
	if !awaiting {
		return
	}

	// Codes are typically sent with spacing to dodge Telegram's own
	// login-code filter; strip everything but digits.
	code := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, msg.Text)

	if code == "" {
		h.reply(ctx, b, msg.Chat.ID, "Please send the login code (digits only).")
		return
	}

	if err := h.session.ProvideCode(code); err != nil {
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("❌ Login failed: %v", err))
	} else {
		h.reply(ctx, b, msg.Chat.ID, "✅ Code accepted, completing login...")
	}

	h.mu.Lock()
	delete(h.awaitingCode, msg.From.ID)
	h.mu.Unlock()
}

func (h *Handler) checkAuthorization(userID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.authenticated[userID]
	return ok
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		slog.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}

// requireAuth replies with a rejection when the user has not unlocked
// the bot with /password.
func (h *Handler) requireAuth(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if h.checkAuthorization(update.Message.From.ID) {
		return true
	}
	h.reply(ctx, b, update.Message.Chat.ID, "❌ Unauthorized. Unlock with /password <password> first.")
	return false
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	text := `👋 I watch channels for image posts and attach source links to their captions.

Available commands:
/help - Show this help message
/password <password> - Unlock admin commands
/authenticate <phone> - Log in the lookup user session
/cancel - Abort a pending login
/add_channel <@username or id> - Watch a channel
/delete_channel <id> - Forget a channel
/list_channels - List watched channels
/stop <id> - Pause one channel
/resume <id> - Resume one channel
/pause - Toggle all processing
/status - Show bot status`

	h.reply(ctx, b, update.Message.Chat.ID, text)
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleStart(ctx, b, update)
}

func (h *Handler) handlePassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /password <password>")
		return
	}

	if parts[1] != h.cfg.BotPassword {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Wrong password.")
		return
	}

	h.mu.Lock()
	h.authenticated[update.Message.From.ID] = struct{}{}
	h.mu.Unlock()

	h.reply(ctx, b, update.Message.Chat.ID, "✅ Admin commands unlocked.")
}

func (h *Handler) handleAuthenticate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAuth(ctx, b, update) {
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /authenticate <phone>\nExample: /authenticate +15551234567")
		return
	}

	if h.session.Authenticated() {
		h.reply(ctx, b, update.Message.Chat.ID, "✅ Lookup session is already authenticated.")
		return
	}

	if err := h.session.StartLogin(parts[1]); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to start login: %v", err))
		return
	}

	h.mu.Lock()
	h.awaitingCode[update.Message.From.ID] = true
	h.mu.Unlock()

	h.reply(ctx, b, update.Message.Chat.ID, "📱 Login code requested. Send me the code you receive (spaces are fine).")
}

func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAuth(ctx, b, update) {
		return
	}

	h.mu.Lock()
	delete(h.awaitingCode, update.Message.From.ID)
	h.mu.Unlock()

	if err := h.session.CancelLogin(); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, "Login aborted.")
}

func (h *Handler) handleAddChannel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAuth(ctx, b, update) {
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, "Usage: /add_channel <@username or id>\nExample: /add_channel @example_channel")
		return
	}

	ref := parts[1]
	var chatID any
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		chatID = id
	} else {
		chatID = "@" + strings.TrimPrefix(ref, "@")
	}

	chat, err := b.GetChat(ctx, &bot.GetChatParams{ChatID: chatID})
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Failed to get channel info: %v\nMake sure the bot is added to the channel as an administrator.", err))
		return
	}

	if err := h.channelService.AddChannel(chat.ID, chat.Title, update.Message.From.ID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to save channel: %v", err))
		return
	}

	h.reply(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Now watching %s\nChannel ID: %d", chat.Title, chat.ID))
}

func (h *Handler) handleDeleteChannel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAuth(ctx, b, update) {
		return
	}

	channelID, ok := h.channelArg(ctx, b, update, "/delete_channel")
	if !ok {
		return
	}

	if err := h.channelService.RemoveChannel(channelID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to remove channel: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Channel %d removed.", channelID))
}

func (h *Handler) handleListChannels(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAuth(ctx, b, update) {
		return
	}

	channels, err := h.channelService.GetAllChannels()
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to list channels: %v", err))
		return
	}

	if len(channels) == 0 {
		h.reply(ctx, b, update.Message.Chat.ID, "📭 No channels added yet.\nUse /add_channel to add one.")
		return
	}

	var text strings.Builder
	text.WriteString("📋 Watched Channels:\n\n")
	for i, ch := range channels {
		status := lo.Ternary(ch.Active(), "✅", "⏸️")
		text.WriteString(fmt.Sprintf("%s %d. %s\n   ID: %d\n\n", status, i+1, ch.Title, ch.ID))
	}

	h.reply(ctx, b, update.Message.Chat.ID, text.String())
}

func (h *Handler) handlePause(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAuth(ctx, b, update) {
		return
	}

	if h.pipeline.TogglePause() {
		h.reply(ctx, b, update.Message.Chat.ID, "⏸️ Processing paused for all channels.")
	} else {
		h.reply(ctx, b, update.Message.Chat.ID, "▶️ Processing resumed for all channels.")
	}
}

func (h *Handler) handleStop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAuth(ctx, b, update) {
		return
	}

	channelID, ok := h.channelArg(ctx, b, update, "/stop")
	if !ok {
		return
	}

	if err := h.channelService.StopChannel(channelID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to stop channel: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⏸️ Channel %d stopped.", channelID))
}

func (h *Handler) handleResume(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAuth(ctx, b, update) {
		return
	}

	channelID, ok := h.channelArg(ctx, b, update, "/resume")
	if !ok {
		return
	}

	if err := h.channelService.ResumeChannel(channelID); err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Failed to resume channel: %v", err))
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("▶️ Channel %d resumed.", channelID))
}

func (h *Handler) handleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAuth(ctx, b, update) {
		return
	}

	total, active := h.channelService.Count()
	text := fmt.Sprintf(`📊 Bot Status:

Channels: %d (Active: %d)
Processing: %s
Lookup session: %s`,
		total, active,
		lo.Ternary(h.pipeline.Paused(), "paused", "running"),
		h.session.State())

	h.reply(ctx, b, update.Message.Chat.ID, text)
}

func (h *Handler) channelArg(ctx context.Context, b *bot.Bot, update *models.Update, command string) (int64, bool) {
	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		h.reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Usage: %s <channel_id>", command))
		return 0, false
	}

	channelID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.reply(ctx, b, update.Message.Chat.ID, "❌ Invalid channel ID")
		return 0, false
	}
	return channelID, true
}
