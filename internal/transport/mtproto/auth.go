package mtproto

import (
	"context"
	"sync"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/samber/oops"
	sharederrors "github.com/sourcepaw/sourcebot/internal/shared/errors"
)

// wizard implements auth.UserAuthenticator backed by channels the admin
// commands feed. Phone and Code block inside gotd's login flow until
// the admin supplies values through the bot.
type wizard struct {
	mu     sync.Mutex
	active bool
	phone  chan string
	code   chan string
}

var _ auth.UserAuthenticator = (*wizard)(nil)

func newWizard() *wizard {
	return &wizard{
		phone: make(chan string, 1),
		code:  make(chan string, 1),
	}
}

// start arms the wizard with a phone number. Only one login may be in
// flight at a time.
func (w *wizard) start(phone string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active {
		return sharederrors.ErrLoginInProgress
	}
	w.active = true
	w.phone <- phone
	return nil
}

func (w *wizard) provideCode(code string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active {
		return oops.Errorf("no login in progress")
	}

	select {
	case w.code <- code:
		return nil
	default:
		return oops.Errorf("a code is already pending")
	}
}

// cancel resets the wizard. The blocked flow keeps waiting on the
// channels, so the next start simply feeds it fresh values.
func (w *wizard) cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active {
		return oops.Errorf("no login in progress")
	}
	w.active = false
	w.drain()
	return nil
}

func (w *wizard) finish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = false
	w.drain()
}

func (w *wizard) pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *wizard) drain() {
	select {
	case <-w.phone:
	default:
	}
	select {
	case <-w.code:
	default:
	}
}

func (w *wizard) Phone(ctx context.Context) (string, error) {
	select {
	case phone := <-w.phone:
		return phone, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (w *wizard) Code(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
	select {
	case code := <-w.code:
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Password is called only for accounts with 2FA enabled, which the
// lookup session account must not use.
func (w *wizard) Password(_ context.Context) (string, error) {
	return "", oops.Errorf("two-factor passwords are not supported")
}

func (w *wizard) AcceptTermsOfService(_ context.Context, _ tg.HelpTermsOfService) error {
	return nil
}

// SignUp is never expected: the session account must already exist.
func (w *wizard) SignUp(_ context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, oops.Errorf("sign up is not supported")
}
