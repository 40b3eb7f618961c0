package domain

import "time"

// Channel is a Telegram broadcast channel being monitored for image
// posts.
type Channel struct {
	ID      int64         `json:"id"`
	Title   string        `json:"title"`
	AddedBy int64         `json:"added_by"`
	AddedAt time.Time     `json:"added_at"`
	Status  ChannelStatus `json:"status"`
}

// Active reports whether posts from the channel are processed.
func (c *Channel) Active() bool {
	return c.Status == ChannelStatusActive
}
