//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Platform identifies the art platform a source URL points at
// ENUM(e621,furaffinity,twitter,bluesky)
type Platform string
