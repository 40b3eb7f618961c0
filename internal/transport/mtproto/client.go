// Package mtproto runs the user-session side of the bot: forwarding
// images to the lookup account and streaming its replies back. The
// lookup account only talks to real users, so this cannot run on the
// bot API token.
package mtproto

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"github.com/samber/oops"
	"github.com/sourcepaw/sourcebot/internal/modules/source/search"
	"github.com/sourcepaw/sourcebot/internal/shared/config"
	sharederrors "github.com/sourcepaw/sourcebot/internal/shared/errors"
)

const (
	// startRetries bounds connection attempts before the process gives
	// up and exits.
	startRetries = 3
	retryDelay   = 2 * time.Second

	// maxReplyLen drops inbound messages too large to be a lookup
	// reply.
	maxReplyLen = 4096
)

// Client wraps a gotd user session. It implements search.Transport.
type Client struct {
	cfg    *config.Config
	client *telegram.Client
	wizard *wizard

	api    atomic.Pointer[tg.Client]
	authed atomic.Bool

	mu          sync.Mutex
	subscribers []func(search.Reply)
}

func New(cfg *config.Config) *Client {
	c := &Client{
		cfg:    cfg,
		wizard: newWizard(),
	}

	dispatcher := tg.NewUpdateDispatcher()
	dispatcher.OnNewMessage(c.onNewMessage)

	c.client = telegram.NewClient(cfg.TelegramAPIID, cfg.TelegramAPIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.SessionPath},
		UpdateHandler:  dispatcher,
	})
	return c
}

// Run connects and blocks until ctx is cancelled. Transient failures
// are retried a fixed number of times; exhausting them is fatal to the
// caller.
func (c *Client) Run(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= startRetries; attempt++ {
		lastErr = c.run(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		slog.Error("MTProto session stopped", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return oops.With("attempts", startRetries, "context", "MTProto session retries exhausted").Wrap(lastErr)
}

func (c *Client) run(ctx context.Context) error {
	return c.client.Run(ctx, func(ctx context.Context) error {
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return oops.With("context", "failed to query auth status").Wrap(err)
		}

		if !status.Authorized {
			slog.Info("Lookup session not authorized, waiting for /authenticate")
			flow := auth.NewFlow(c.wizard, auth.SendCodeOptions{})
			if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
				return oops.With("context", "login flow failed").Wrap(err)
			}
		}

		c.api.Store(c.client.API())
		c.authed.Store(true)
		c.wizard.finish()
		slog.Info("Lookup session ready", "lookup_bot", c.cfg.LookupBot)

		<-ctx.Done()
		c.authed.Store(false)
		return ctx.Err()
	})
}

// Forward uploads the image to the lookup account and returns the id
// of the message it will reply to.
func (c *Client) Forward(ctx context.Context, image []byte) (int, error) {
	api := c.api.Load()
	if api == nil || !c.authed.Load() {
		return 0, sharederrors.ErrNotAuthenticated
	}

	up := uploader.NewUploader(api)
	f, err := up.FromBytes(ctx, "image.jpg", image)
	if err != nil {
		return 0, oops.With("context", "failed to upload image").Wrap(err)
	}

	sender := message.NewSender(api).WithUploader(up)
	updates, err := sender.Resolve(c.cfg.LookupBot).Media(ctx, message.UploadedPhoto(f))
	if err != nil {
		return 0, oops.With("lookup_bot", c.cfg.LookupBot, "context", "failed to send image").Wrap(err)
	}

	return sentMessageID(updates)
}

// Subscribe registers a callback for replies from the lookup account.
func (c *Client) Subscribe(fn func(search.Reply)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// onNewMessage filters the update stream down to plausible lookup
// replies and fans them out to subscribers.
func (c *Client) onNewMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
	m, ok := u.Message.(*tg.Message)
	if !ok || m.Out {
		return nil
	}

	peer, ok := m.PeerID.(*tg.PeerUser)
	if !ok {
		return nil
	}
	user, ok := e.Users[peer.UserID]
	if !ok || !strings.EqualFold(user.Username, c.cfg.LookupBot) {
		return nil
	}

	if len(m.Message) > maxReplyLen {
		slog.Warn("Dropping oversized lookup reply", "size", len(m.Message))
		return nil
	}

	reply := search.Reply{
		Text:       m.Message,
		ReceivedAt: time.Unix(int64(m.Date), 0),
	}
	if header, ok := m.GetReplyTo(); ok {
		if h, ok := header.(*tg.MessageReplyHeader); ok {
			reply.ReplyToMsgID, _ = h.GetReplyToMsgID()
		}
	}

	c.mu.Lock()
	subs := make([]func(search.Reply), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(reply)
	}
	return nil
}

// sentMessageID digs the assigned message id out of the send response.
func sentMessageID(updates tg.UpdatesClass) (int, error) {
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID, nil
	case *tg.Updates:
		for _, upd := range u.Updates {
			if id, ok := upd.(*tg.UpdateMessageID); ok {
				return id.ID, nil
			}
		}
	case *tg.UpdatesCombined:
		for _, upd := range u.Updates {
			if id, ok := upd.(*tg.UpdateMessageID); ok {
				return id.ID, nil
			}
		}
	}
	return 0, oops.With("updates_type", updates.TypeName()).Errorf("no message id in send response")
}

// StartLogin begins the interactive login with the given phone number.
func (c *Client) StartLogin(phone string) error {
	if c.authed.Load() {
		return nil
	}
	return c.wizard.start(phone)
}

// ProvideCode feeds the received login code into the pending flow.
func (c *Client) ProvideCode(code string) error {
	return c.wizard.provideCode(code)
}

// CancelLogin aborts a pending login so a new one can start.
func (c *Client) CancelLogin() error {
	return c.wizard.cancel()
}

// Authenticated reports whether the session is authorized and ready.
func (c *Client) Authenticated() bool {
	return c.authed.Load()
}

// State describes the session for the status surfaces.
func (c *Client) State() string {
	switch {
	case c.authed.Load():
		return "authenticated"
	case c.wizard.pending():
		return "awaiting_code"
	default:
		return "unauthenticated"
	}
}
