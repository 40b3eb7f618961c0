package domain

import (
	"fmt"
	"time"
)

// ID is the composite identity of a channel post.
type ID struct {
	ChannelID int64
	MessageID int
}

func (id ID) String() string {
	return fmt.Sprintf("%d/%d", id.ChannelID, id.MessageID)
}

// Event is a new or edited channel post as delivered by the event
// source. Read-only to the pipeline; only the caption is rewritten,
// and only through the caption editor.
type Event struct {
	ChannelID   int64
	MessageID   int
	Date        time.Time
	Caption     string
	PhotoFileID string
	IsEdit      bool
}

func (e Event) PostID() ID {
	return ID{ChannelID: e.ChannelID, MessageID: e.MessageID}
}

func (e Event) HasPhoto() bool {
	return e.PhotoFileID != ""
}
