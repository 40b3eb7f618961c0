package service

import (
	"errors"
	"testing"

	"github.com/sourcepaw/sourcebot/internal/modules/channel/domain"
	sharederrors "github.com/sourcepaw/sourcebot/internal/shared/errors"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	channels map[int64]*domain.Channel
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{channels: make(map[int64]*domain.Channel)}
}

func (f *fakeRepo) SaveChannel(ch *domain.Channel) error {
	cp := *ch
	f.channels[ch.ID] = &cp
	return nil
}

func (f *fakeRepo) GetChannel(id int64) (*domain.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return nil, sharederrors.ErrChannelNotFound
	}
	return ch, nil
}

func (f *fakeRepo) GetAllChannels() ([]*domain.Channel, error) {
	var out []*domain.Channel
	for _, ch := range f.channels {
		out = append(out, ch)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(id int64, status domain.ChannelStatus) error {
	ch, ok := f.channels[id]
	if !ok {
		return sharederrors.ErrChannelNotFound
	}
	ch.Status = status
	return nil
}

func (f *fakeRepo) DeleteChannel(id int64) error {
	delete(f.channels, id)
	return nil
}

func (f *fakeRepo) Close() error { return nil }

func TestAddChannelIsMonitored(t *testing.T) {
	s := New(newFakeRepo())

	if err := s.AddChannel(-100, "Art", 7); err != nil {
		t.Fatalf("AddChannel: %v", err)
	}
	if !s.IsMonitored(-100) {
		t.Fatal("added channel should be monitored")
	}
	if s.IsStopped(-100) {
		t.Fatal("added channel should start active")
	}
	if s.IsMonitored(-200) {
		t.Fatal("unknown channel should not be monitored")
	}
}

func TestStopAndResume(t *testing.T) {
	repo := newFakeRepo()
	s := New(repo)
	if err := s.AddChannel(-100, "Art", 7); err != nil {
		t.Fatalf("AddChannel: %v", err)
	}

	if err := s.StopChannel(-100); err != nil {
		t.Fatalf("StopChannel: %v", err)
	}
	if !s.IsStopped(-100) {
		t.Fatal("stopped channel should report stopped")
	}
	if !s.IsMonitored(-100) {
		t.Fatal("stopped channel remains monitored")
	}
	if repo.channels[-100].Status != domain.ChannelStatusStopped {
		t.Fatal("stop must be persisted")
	}

	if err := s.ResumeChannel(-100); err != nil {
		t.Fatalf("ResumeChannel: %v", err)
	}
	if s.IsStopped(-100) {
		t.Fatal("resumed channel should be active")
	}

	if err := s.StopChannel(-404); !errors.Is(err, sharederrors.ErrChannelNotFound) {
		t.Fatalf("StopChannel(unknown) = %v, want ErrChannelNotFound", err)
	}
}

func TestRemoveChannel(t *testing.T) {
	s := New(newFakeRepo())
	if err := s.AddChannel(-100, "Art", 7); err != nil {
		t.Fatalf("AddChannel: %v", err)
	}
	if err := s.RemoveChannel(-100); err != nil {
		t.Fatalf("RemoveChannel: %v", err)
	}
	if s.IsMonitored(-100) {
		t.Fatal("removed channel should not be monitored")
	}
}

func TestLoadRestoresView(t *testing.T) {
	repo := newFakeRepo()
	repo.channels[-1] = &domain.Channel{ID: -1, Status: domain.ChannelStatusActive}
	repo.channels[-2] = &domain.Channel{ID: -2, Status: domain.ChannelStatusStopped}

	s := New(repo)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !s.IsMonitored(-1) || !s.IsMonitored(-2) {
		t.Fatal("both channels should be monitored after load")
	}
	if s.IsStopped(-1) || !s.IsStopped(-2) {
		t.Fatal("stopped state should survive reload")
	}

	total, active := s.Count()
	if total != 2 || active != 1 {
		t.Fatalf("Count = (%d, %d), want (2, 1)", total, active)
	}
}
