//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package pipeline

// EditOutcome classifies the result of a caption edit attempt
// ENUM(applied,not_modified,permission_denied,not_found,failed)
type EditOutcome string
