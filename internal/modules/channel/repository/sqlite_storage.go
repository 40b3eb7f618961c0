package repository

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"
	"github.com/sourcepaw/sourcebot/internal/modules/channel/domain"
	sharederrors "github.com/sourcepaw/sourcebot/internal/shared/errors"

	_ "modernc.org/sqlite"
)

// SQLiteStorage implements Repository on an embedded SQLite database.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the channel database under
// basePath and ensures the schema exists.
func NewSQLiteStorage(basePath string) (Repository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create storage directory").Wrap(err)
	}

	dbPath := filepath.Join(basePath, "channels.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, oops.With("db_path", dbPath, "context", "failed to open channel database").Wrap(err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS channels (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			added_by INTEGER NOT NULL,
			added_at INTEGER NOT NULL,
			status TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, oops.With("db_path", dbPath, "context", "failed to create channels table").Wrap(err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) SaveChannel(channel *domain.Channel) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO channels (id, title, added_by, added_at, status)
		VALUES (?, ?, ?, ?, ?)
	`, channel.ID, channel.Title, channel.AddedBy, channel.AddedAt.Unix(), string(channel.Status))
	if err != nil {
		return oops.With("channel_id", channel.ID, "context", "failed to save channel").Wrap(err)
	}
	return nil
}

func (s *SQLiteStorage) GetChannel(channelID int64) (*domain.Channel, error) {
	row := s.db.QueryRow(`
		SELECT id, title, added_by, added_at, status
		FROM channels
		WHERE id = ?
	`, channelID)

	channel, err := scanChannel(row.Scan)
	if err == sql.ErrNoRows {
		return nil, sharederrors.ErrChannelNotFound
	}
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to read channel").Wrap(err)
	}
	return channel, nil
}

func (s *SQLiteStorage) GetAllChannels() ([]*domain.Channel, error) {
	rows, err := s.db.Query(`
		SELECT id, title, added_by, added_at, status
		FROM channels
		ORDER BY added_at
	`)
	if err != nil {
		return nil, oops.With("context", "failed to list channels").Wrap(err)
	}
	defer rows.Close()

	var channels []*domain.Channel
	for rows.Next() {
		channel, err := scanChannel(rows.Scan)
		if err != nil {
			return nil, oops.With("context", "failed to scan channel").Wrap(err)
		}
		channels = append(channels, channel)
	}
	return channels, rows.Err()
}

func (s *SQLiteStorage) UpdateStatus(channelID int64, status domain.ChannelStatus) error {
	res, err := s.db.Exec(`UPDATE channels SET status = ? WHERE id = ?`, string(status), channelID)
	if err != nil {
		return oops.With("channel_id", channelID, "context", "failed to update channel status").Wrap(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sharederrors.ErrChannelNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteChannel(channelID int64) error {
	_, err := s.db.Exec(`DELETE FROM channels WHERE id = ?`, channelID)
	if err != nil {
		return oops.With("channel_id", channelID, "context", "failed to delete channel").Wrap(err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func scanChannel(scan func(dest ...any) error) (*domain.Channel, error) {
	var channel domain.Channel
	var addedAt int64
	var status string

	if err := scan(&channel.ID, &channel.Title, &channel.AddedBy, &addedAt, &status); err != nil {
		return nil, err
	}

	channel.AddedAt = time.Unix(addedAt, 0)
	parsed, err := domain.ParseChannelStatus(status)
	if err != nil {
		parsed = domain.ChannelStatusActive
	}
	channel.Status = parsed
	return &channel, nil
}
