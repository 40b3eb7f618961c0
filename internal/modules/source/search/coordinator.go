// Package search correlates forwarded images with the lookup account's
// free-text replies.
package search

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/sourcepaw/sourcebot/internal/modules/source/domain"
	"github.com/sourcepaw/sourcebot/internal/modules/source/extract"
)

const (
	// DefaultMinInterval is the minimum spacing between forwards.
	DefaultMinInterval = 2 * time.Second
	// DefaultWaitTimeout bounds the reply wait for one search.
	DefaultWaitTimeout = 8 * time.Second
)

// Transport forwards images to the lookup account and delivers its
// replies.
type Transport interface {
	// Forward sends the image and returns the outbound message id the
	// reply will target.
	Forward(ctx context.Context, image []byte) (int, error)
	// Subscribe registers the callback invoked for every message
	// received from the lookup account.
	Subscribe(fn func(Reply))
}

// Reply is one inbound message from the lookup account.
type Reply struct {
	Text         string
	ReplyToMsgID int
	ReceivedAt   time.Time
}

// pending is the request-scoped correlation state for one search. It
// replaces any shared response slot: a reply either lands in this
// object's one-shot channel or is dropped.
type pending struct {
	token       string
	sentAt      time.Time
	targetMsgID int
	reply       chan Reply
}

// Coordinator owns the Idle → Sending → Waiting → {Resolved, TimedOut}
// state machine. Search calls are serialized by an internal mutex, so
// at most one request is outstanding at any instant.
type Coordinator struct {
	transport   Transport
	minInterval time.Duration
	waitTimeout time.Duration

	mu          sync.Mutex
	lastForward time.Time
	current     atomic.Pointer[pending]
}

func New(transport Transport, minInterval, waitTimeout time.Duration) *Coordinator {
	c := &Coordinator{
		transport:   transport,
		minInterval: minInterval,
		waitTimeout: waitTimeout,
	}
	transport.Subscribe(c.handleReply)
	return c
}

// Search forwards the image and waits for a correlated reply. It
// returns nil when the reply yields no recognizable source URL or when
// the wait window expires; neither is an error. All correlation state
// is cleared on every exit path.
func (c *Coordinator) Search(ctx context.Context, image []byte) (*domain.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Stale state from an aborted run must not prime this search.
	c.current.Store(nil)

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	msgID, err := c.transport.Forward(ctx, image)
	if err != nil {
		return nil, oops.With("context", "forwarding image to lookup account").Wrap(err)
	}
	c.lastForward = time.Now()

	p := &pending{
		token: uuid.NewString(),
		// Reply timestamps carry whole-second precision, so the
		// comparison baseline must too.
		sentAt:      c.lastForward.Truncate(time.Second),
		targetMsgID: msgID,
		reply:       make(chan Reply, 1),
	}
	c.current.Store(p)
	defer c.current.Store(nil)

	slog.Debug("waiting for lookup reply", "token", p.token, "message_id", msgID)

	select {
	case r := <-p.reply:
		src := extract.Extract(r.Text)
		if src == nil {
			slog.Info("lookup reply carried no source link", "token", p.token)
			return nil, nil
		}
		slog.Info("source resolved", "token", p.token, "platform", src.Platform, "url", src.URL)
		return src, nil
	case <-time.After(c.waitTimeout):
		slog.Warn("timed out waiting for lookup reply", "token", p.token)
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// throttle sleeps out the remainder of the minimum forward spacing.
func (c *Coordinator) throttle(ctx context.Context) error {
	elapsed := time.Since(c.lastForward)
	if elapsed >= c.minInterval {
		return nil
	}

	slog.Debug("rate limiting lookup forward", "wait", c.minInterval-elapsed)
	select {
	case <-time.After(c.minInterval - elapsed):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleReply is the transport callback. A reply is accepted only if a
// request is outstanding, it targets that request's forwarded message,
// and it arrived no earlier than the submission. Anything else is
// dropped without touching state, so late replies from abandoned
// searches can never be misattributed.
func (c *Coordinator) handleReply(r Reply) {
	p := c.current.Load()
	if p == nil {
		slog.Debug("lookup reply with no search outstanding, dropped")
		return
	}
	if r.ReplyToMsgID != p.targetMsgID {
		slog.Debug("lookup reply targets a different message, dropped",
			"got", r.ReplyToMsgID, "want", p.targetMsgID)
		return
	}
	if r.ReceivedAt.Before(p.sentAt) {
		slog.Debug("lookup reply predates the request, dropped", "token", p.token)
		return
	}

	select {
	case p.reply <- r:
	default:
		// One-shot: a second qualifying reply for the same request is
		// ignored.
	}
}
