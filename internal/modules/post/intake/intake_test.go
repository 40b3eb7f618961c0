package intake

import (
	"testing"
	"time"

	"github.com/sourcepaw/sourcebot/internal/modules/post/domain"
	"github.com/sourcepaw/sourcebot/internal/modules/post/ledger"
)

type fakeChannels struct {
	monitored map[int64]bool
	stopped   map[int64]bool
}

func (f fakeChannels) IsMonitored(id int64) bool { return f.monitored[id] }
func (f fakeChannels) IsStopped(id int64) bool   { return f.stopped[id] }

const chanID = int64(-1001234)

func newTestFilter(led *ledger.Ledger) *Filter {
	channels := fakeChannels{
		monitored: map[int64]bool{chanID: true, -1009999: true},
		stopped:   map[int64]bool{-1009999: true},
	}
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return New(channels, led, start)
}

func validEvent() domain.Event {
	return domain.Event{
		ChannelID:   chanID,
		MessageID:   10,
		Date:        time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
		Caption:     "hello",
		PhotoFileID: "file-1",
	}
}

func TestAdmitAcceptsFreshPhotoPost(t *testing.T) {
	f := newTestFilter(ledger.New())
	if reason, ok := f.Admit(validEvent()); !ok {
		t.Fatalf("expected admission, got rejection %v", reason)
	}
}

func TestAdmitRejectionOrder(t *testing.T) {
	led := ledger.New()
	edited := validEvent()
	edited.MessageID = 99
	led.MarkEdited(edited.PostID())

	tcs := []struct {
		name   string
		mutate func(f *Filter, ev *domain.Event)
		want   domain.RejectReason
	}{
		{
			name:   "paused",
			mutate: func(f *Filter, ev *domain.Event) { f.TogglePause() },
			want:   domain.RejectReasonPaused,
		},
		{
			name:   "stopped channel",
			mutate: func(f *Filter, ev *domain.Event) { ev.ChannelID = -1009999 },
			want:   domain.RejectReasonChannelStopped,
		},
		{
			name: "before start",
			mutate: func(f *Filter, ev *domain.Event) {
				ev.Date = time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
			},
			want: domain.RejectReasonBeforeStart,
		},
		{
			name:   "not monitored",
			mutate: func(f *Filter, ev *domain.Event) { ev.ChannelID = -42 },
			want:   domain.RejectReasonNotMonitored,
		},
		{
			name:   "no photo",
			mutate: func(f *Filter, ev *domain.Event) { ev.PhotoFileID = "" },
			want:   domain.RejectReasonNoPhoto,
		},
		{
			name:   "already edited",
			mutate: func(f *Filter, ev *domain.Event) { ev.MessageID = 99 },
			want:   domain.RejectReasonAlreadyEdited,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFilter(led)
			ev := validEvent()
			tc.mutate(f, &ev)
			reason, ok := f.Admit(ev)
			if ok {
				t.Fatal("expected rejection")
			}
			if reason != tc.want {
				t.Fatalf("reason = %v, want %v", reason, tc.want)
			}
		})
	}
}

func TestAdmitClaimsHumanEdits(t *testing.T) {
	led := ledger.New()
	f := newTestFilter(led)

	ev := validEvent()
	ev.IsEdit = true

	reason, ok := f.Admit(ev)
	if ok || reason != domain.RejectReasonHumanEdit {
		t.Fatalf("Admit = (%v, %v), want human edit rejection", reason, ok)
	}
	if !led.IsEdited(ev.PostID()) {
		t.Fatal("human edit must claim the ledger entry")
	}

	// A later duplicate of the same post is now rejected outright.
	dup := validEvent()
	if reason, ok := f.Admit(dup); ok || reason != domain.RejectReasonAlreadyEdited {
		t.Fatalf("duplicate after claim = (%v, %v), want already edited", reason, ok)
	}
}

func TestTogglePause(t *testing.T) {
	f := newTestFilter(ledger.New())

	if f.Paused() {
		t.Fatal("filter should start unpaused")
	}
	if !f.TogglePause() {
		t.Fatal("first toggle should pause")
	}
	if reason, ok := f.Admit(validEvent()); ok || reason != domain.RejectReasonPaused {
		t.Fatalf("Admit while paused = (%v, %v)", reason, ok)
	}
	if f.TogglePause() {
		t.Fatal("second toggle should resume")
	}
	if _, ok := f.Admit(validEvent()); !ok {
		t.Fatal("resumed filter should admit again")
	}
}
