package repository

import (
	"github.com/sourcepaw/sourcebot/internal/modules/channel/domain"
)

// Repository defines the interface for channel persistence
// This abstraction allows easy replacement of storage implementations
// (e.g., SQLite -> PostgreSQL)
type Repository interface {
	SaveChannel(channel *domain.Channel) error
	GetChannel(channelID int64) (*domain.Channel, error)
	GetAllChannels() ([]*domain.Channel, error)
	UpdateStatus(channelID int64, status domain.ChannelStatus) error
	DeleteChannel(channelID int64) error
	Close() error
}
