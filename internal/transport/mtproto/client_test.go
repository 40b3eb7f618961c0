package mtproto

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gotd/td/tg"
	sharederrors "github.com/sourcepaw/sourcebot/internal/shared/errors"
)

func TestSentMessageID(t *testing.T) {
	tests := []struct {
		name    string
		updates tg.UpdatesClass
		want    int
		wantErr bool
	}{
		{
			name:    "short sent message",
			updates: &tg.UpdateShortSentMessage{ID: 42},
			want:    42,
		},
		{
			name: "full updates",
			updates: &tg.Updates{
				Updates: []tg.UpdateClass{&tg.UpdateMessageID{ID: 7}},
			},
			want: 7,
		},
		{
			name: "combined updates",
			updates: &tg.UpdatesCombined{
				Updates: []tg.UpdateClass{&tg.UpdateMessageID{ID: 9}},
			},
			want: 9,
		},
		{
			name:    "no message id",
			updates: &tg.Updates{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sentMessageID(tt.updates)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("sentMessageID: %v", err)
			}
			if got != tt.want {
				t.Fatalf("id = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWizardSingleLogin(t *testing.T) {
	w := newWizard()

	if err := w.start("+15551234567"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w.start("+15557654321"); !errors.Is(err, sharederrors.ErrLoginInProgress) {
		t.Fatalf("second start = %v, want ErrLoginInProgress", err)
	}

	phone, err := w.Phone(context.Background())
	if err != nil {
		t.Fatalf("Phone: %v", err)
	}
	if phone != "+15551234567" {
		t.Fatalf("phone = %q", phone)
	}

	if err := w.provideCode("12345"); err != nil {
		t.Fatalf("provideCode: %v", err)
	}
	code, err := w.Code(context.Background(), nil)
	if err != nil {
		t.Fatalf("Code: %v", err)
	}
	if code != "12345" {
		t.Fatalf("code = %q", code)
	}

	w.finish()
	if w.pending() {
		t.Fatal("finished wizard should not be pending")
	}
}

func TestWizardCodeWithoutLogin(t *testing.T) {
	w := newWizard()
	if err := w.provideCode("12345"); err == nil {
		t.Fatal("provideCode without login should fail")
	}
}

func TestWizardCancelAllowsRestart(t *testing.T) {
	w := newWizard()

	if err := w.start("+15551234567"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w.cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := w.cancel(); err == nil {
		t.Fatal("second cancel should fail")
	}

	if err := w.start("+15557654321"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	phone, err := w.Phone(context.Background())
	if err != nil {
		t.Fatalf("Phone: %v", err)
	}
	if phone != "+15557654321" {
		t.Fatalf("phone = %q, want restarted value", phone)
	}
}

func TestWizardPhoneHonorsContext(t *testing.T) {
	w := newWizard()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := w.Phone(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Phone = %v, want deadline exceeded", err)
	}
}
