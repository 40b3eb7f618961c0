//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ChannelStatus represents the lifecycle state of a monitored channel
// ENUM(active,stopped)
type ChannelStatus string
