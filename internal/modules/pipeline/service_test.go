package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sourcepaw/sourcebot/internal/modules/post/domain"
	"github.com/sourcepaw/sourcebot/internal/modules/post/intake"
	"github.com/sourcepaw/sourcebot/internal/modules/post/ledger"
	sourcedomain "github.com/sourcepaw/sourcebot/internal/modules/source/domain"
)

type allChannels struct{}

func (allChannels) IsMonitored(int64) bool { return true }
func (allChannels) IsStopped(int64) bool   { return false }

type fakePermission struct {
	canEdit bool
	err     error
	calls   int
}

func (f *fakePermission) CanEdit(context.Context, int64) (bool, error) {
	f.calls++
	return f.canEdit, f.err
}

type fakeFetcher struct {
	image []byte
	err   error
}

func (f *fakeFetcher) Fetch(context.Context, string) ([]byte, error) {
	return f.image, f.err
}

type fakeSearcher struct {
	src *sourcedomain.Source
	err error
}

func (f *fakeSearcher) Search(context.Context, []byte) (*sourcedomain.Source, error) {
	return f.src, f.err
}

type fakeAuthors struct {
	label string
}

func (f *fakeAuthors) Author(context.Context, sourcedomain.Source) string {
	if f.label == "" {
		return sourcedomain.GenericAuthor
	}
	return f.label
}

type fakeEditor struct {
	outcome  EditOutcome
	captions []string
}

func (f *fakeEditor) EditCaption(_ context.Context, _ int64, _ int, text string) EditOutcome {
	f.captions = append(f.captions, text)
	return f.outcome
}

type fixture struct {
	svc        *Service
	ledger     *ledger.Ledger
	permission *fakePermission
	fetcher    *fakeFetcher
	searcher   *fakeSearcher
	editor     *fakeEditor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	led := ledger.New()
	f := &fixture{
		ledger:     led,
		permission: &fakePermission{canEdit: true},
		fetcher:    &fakeFetcher{image: []byte{0xFF, 0xD8}},
		searcher:   &fakeSearcher{},
		editor:     &fakeEditor{outcome: EditOutcomeApplied},
	}
	filter := intake.New(allChannels{}, led, time.Now().Add(-time.Hour))
	f.svc = New(filter, led, f.permission, f.fetcher, f.searcher, &fakeAuthors{}, f.editor)
	return f
}

func testEvent() domain.Event {
	return domain.Event{
		ChannelID:   -100,
		MessageID:   7,
		Date:        time.Now(),
		Caption:     "morning coffee",
		PhotoFileID: "photo-1",
	}
}

func TestProcessAppliesSourceLink(t *testing.T) {
	f := newFixture(t)
	f.searcher.src = &sourcedomain.Source{
		URL:      "https://e621.net/posts/123",
		Platform: sourcedomain.PlatformE621,
	}

	f.svc.Process(context.Background(), testEvent())

	if len(f.editor.captions) != 1 {
		t.Fatalf("editor called %d times, want 1", len(f.editor.captions))
	}
	got := f.editor.captions[0]
	if !strings.Contains(got, "](https://e621.net/posts/123)") {
		t.Fatalf("caption missing source link: %q", got)
	}
	if !f.ledger.IsEdited(testEvent().PostID()) {
		t.Fatal("applied edit must be recorded")
	}
}

func TestProcessDuplicateEventEditsOnce(t *testing.T) {
	f := newFixture(t)
	f.searcher.src = &sourcedomain.Source{
		URL:      "https://e621.net/posts/123",
		Platform: sourcedomain.PlatformE621,
	}

	ev := testEvent()
	f.svc.Process(context.Background(), ev)
	f.svc.Process(context.Background(), ev)

	if len(f.editor.captions) != 1 {
		t.Fatalf("editor called %d times for duplicate event, want 1", len(f.editor.captions))
	}
}

func TestProcessNoSourceUsesFallback(t *testing.T) {
	f := newFixture(t)

	f.svc.Process(context.Background(), testEvent())

	if len(f.editor.captions) != 1 {
		t.Fatalf("editor called %d times, want 1", len(f.editor.captions))
	}
	if !strings.Contains(f.editor.captions[0], "find the artist") {
		t.Fatalf("caption missing fallback text: %q", f.editor.captions[0])
	}
	if !f.ledger.IsEdited(testEvent().PostID()) {
		t.Fatal("fallback edit must still be recorded")
	}
}

func TestProcessFetchFailureDegradesToFallback(t *testing.T) {
	f := newFixture(t)
	f.fetcher.err = errors.New("file too big")

	f.svc.Process(context.Background(), testEvent())

	if len(f.editor.captions) != 1 {
		t.Fatalf("editor called %d times, want 1", len(f.editor.captions))
	}
	if !strings.Contains(f.editor.captions[0], "find the artist") {
		t.Fatalf("caption missing fallback text: %q", f.editor.captions[0])
	}
}

func TestProcessSearchErrorDegradesToFallback(t *testing.T) {
	f := newFixture(t)
	f.searcher.err = errors.New("forward failed")

	f.svc.Process(context.Background(), testEvent())

	if len(f.editor.captions) != 1 {
		t.Fatalf("editor called %d times, want 1", len(f.editor.captions))
	}
	if !strings.Contains(f.editor.captions[0], "find the artist") {
		t.Fatalf("caption missing fallback text: %q", f.editor.captions[0])
	}
}

func TestProcessPermissionDeniedSkipsEdit(t *testing.T) {
	f := newFixture(t)
	f.permission.canEdit = false

	f.svc.Process(context.Background(), testEvent())

	if len(f.editor.captions) != 0 {
		t.Fatal("editor must not be called without edit rights")
	}
	if f.ledger.IsEdited(testEvent().PostID()) {
		t.Fatal("skipped post must stay eligible")
	}
}

func TestProcessPermissionErrorSkipsEdit(t *testing.T) {
	f := newFixture(t)
	f.permission.err = errors.New("chat not found")

	f.svc.Process(context.Background(), testEvent())

	if len(f.editor.captions) != 0 {
		t.Fatal("editor must not be called when permission check fails")
	}
}

func TestProcessNotModifiedMarksLedger(t *testing.T) {
	f := newFixture(t)
	f.editor.outcome = EditOutcomeNotModified

	f.svc.Process(context.Background(), testEvent())

	if !f.ledger.IsEdited(testEvent().PostID()) {
		t.Fatal("not_modified counts as edited")
	}
}

func TestProcessFailedEditStaysEligible(t *testing.T) {
	f := newFixture(t)
	f.editor.outcome = EditOutcomeFailed

	ev := testEvent()
	f.svc.Process(context.Background(), ev)

	if f.ledger.IsEdited(ev.PostID()) {
		t.Fatal("failed edit must not be recorded")
	}

	f.editor.outcome = EditOutcomeApplied
	f.svc.Process(context.Background(), ev)

	if len(f.editor.captions) != 2 {
		t.Fatalf("editor called %d times, want retry after failure", len(f.editor.captions))
	}
	if !f.ledger.IsEdited(ev.PostID()) {
		t.Fatal("retried edit must be recorded")
	}
}

func TestProcessHumanEditNeverOverwritten(t *testing.T) {
	f := newFixture(t)
	ev := testEvent()
	ev.IsEdit = true

	f.svc.Process(context.Background(), ev)

	if len(f.editor.captions) != 0 {
		t.Fatal("human edit must not be overwritten")
	}
	if !f.ledger.IsEdited(ev.PostID()) {
		t.Fatal("human edit must claim the post")
	}
}

func TestTogglePauseBlocksProcessing(t *testing.T) {
	f := newFixture(t)

	if !f.svc.TogglePause() {
		t.Fatal("first toggle should pause")
	}
	f.svc.Process(context.Background(), testEvent())
	if len(f.editor.captions) != 0 {
		t.Fatal("paused pipeline must not edit")
	}

	if f.svc.TogglePause() {
		t.Fatal("second toggle should resume")
	}
	f.svc.Process(context.Background(), testEvent())
	if len(f.editor.captions) != 1 {
		t.Fatal("resumed pipeline should edit")
	}
}
