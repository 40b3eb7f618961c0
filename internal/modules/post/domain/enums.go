//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// RejectReason explains why the intake filter dropped a post event
// ENUM(paused,channel_stopped,before_start,not_monitored,no_photo,already_edited,human_edit)
type RejectReason string
