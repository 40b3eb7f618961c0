// Package intake decides whether a channel post event enters the
// source-resolution pipeline.
package intake

import (
	"sync/atomic"
	"time"

	"github.com/sourcepaw/sourcebot/internal/modules/post/domain"
	"github.com/sourcepaw/sourcebot/internal/modules/post/ledger"
)

// ChannelView is the read-only slice of the channel service the filter
// consults.
type ChannelView interface {
	IsMonitored(channelID int64) bool
	IsStopped(channelID int64) bool
}

// Filter admits or rejects post events. Its only side effect is
// claiming ledger entries for human edits.
type Filter struct {
	channels  ChannelView
	ledger    *ledger.Ledger
	startTime time.Time
	paused    atomic.Bool
}

func New(channels ChannelView, led *ledger.Ledger, startTime time.Time) *Filter {
	return &Filter{
		channels:  channels,
		ledger:    led,
		startTime: startTime,
	}
}

// Admit applies the rejection rules in order and returns the first
// matching reason. ok is true when the event may enter the pipeline.
func (f *Filter) Admit(ev domain.Event) (reason domain.RejectReason, ok bool) {
	switch {
	case f.paused.Load():
		return domain.RejectReasonPaused, false
	case f.channels.IsStopped(ev.ChannelID):
		return domain.RejectReasonChannelStopped, false
	case ev.Date.Before(f.startTime):
		return domain.RejectReasonBeforeStart, false
	case !f.channels.IsMonitored(ev.ChannelID):
		return domain.RejectReasonNotMonitored, false
	case !ev.HasPhoto():
		return domain.RejectReasonNoPhoto, false
	case f.ledger.IsEdited(ev.PostID()):
		return domain.RejectReasonAlreadyEdited, false
	}

	// An edit of a post we have not touched is a human edit: claim it
	// so the pipeline never overwrites a manual caption change.
	if ev.IsEdit {
		f.ledger.TryClaim(ev.PostID())
		return domain.RejectReasonHumanEdit, false
	}

	return "", true
}

// TogglePause flips global processing on or off and returns the new
// paused state.
func (f *Filter) TogglePause() bool {
	for {
		old := f.paused.Load()
		if f.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Paused reports whether global processing is off.
func (f *Filter) Paused() bool {
	return f.paused.Load()
}
