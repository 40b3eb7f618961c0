package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
	"github.com/sourcepaw/sourcebot/internal/modules/channel/domain"
	channelRepo "github.com/sourcepaw/sourcebot/internal/modules/channel/repository"
)

// Service holds the in-memory monitored/stopped view the intake filter
// consults, backed by the channel repository.
type Service struct {
	repo channelRepo.Repository

	mu       sync.RWMutex
	statuses map[int64]domain.ChannelStatus
}

// New creates a new channel service
func New(repo channelRepo.Repository) *Service {
	return &Service{
		repo:     repo,
		statuses: make(map[int64]domain.ChannelStatus),
	}
}

// Load populates the in-memory view from the repository.
func (s *Service) Load() error {
	channels, err := s.repo.GetAllChannels()
	if err != nil {
		return oops.With("context", "failed to load channels").Wrap(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range channels {
		s.statuses[ch.ID] = ch.Status
	}
	slog.Info("Loaded monitored channels", "count", len(channels))
	return nil
}

// AddChannel registers a channel for monitoring.
func (s *Service) AddChannel(channelID int64, title string, addedBy int64) error {
	channel := &domain.Channel{
		ID:      channelID,
		Title:   title,
		AddedBy: addedBy,
		AddedAt: time.Now(),
		Status:  domain.ChannelStatusActive,
	}
	if err := s.repo.SaveChannel(channel); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[channelID] = domain.ChannelStatusActive
	return nil
}

// RemoveChannel deletes a channel from monitoring entirely.
func (s *Service) RemoveChannel(channelID int64) error {
	if err := s.repo.DeleteChannel(channelID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statuses, channelID)
	return nil
}

// StopChannel pauses processing for one channel without removing it.
func (s *Service) StopChannel(channelID int64) error {
	return s.setStatus(channelID, domain.ChannelStatusStopped)
}

// ResumeChannel re-enables processing for a stopped channel.
func (s *Service) ResumeChannel(channelID int64) error {
	return s.setStatus(channelID, domain.ChannelStatusActive)
}

func (s *Service) setStatus(channelID int64, status domain.ChannelStatus) error {
	if err := s.repo.UpdateStatus(channelID, status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[channelID] = status
	return nil
}

// GetAllChannels retrieves all channels from the repository.
func (s *Service) GetAllChannels() ([]*domain.Channel, error) {
	return s.repo.GetAllChannels()
}

// IsMonitored reports whether a channel is in the monitored set,
// regardless of its stopped state.
func (s *Service) IsMonitored(channelID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.statuses[channelID]
	return ok
}

// IsStopped reports whether a monitored channel is currently stopped.
func (s *Service) IsStopped(channelID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statuses[channelID] == domain.ChannelStatusStopped
}

// Count returns how many channels are monitored and how many of those
// are active.
func (s *Service) Count() (total, active int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, status := range s.statuses {
		if status == domain.ChannelStatusActive {
			active++
		}
	}
	return len(s.statuses), active
}
