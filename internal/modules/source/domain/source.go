package domain

// Source is a resolved link to the platform an image originates from.
// It is never partially filled: a Source always carries both fields.
type Source struct {
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
}

// GenericAuthor marks an attribution the author lookup could not
// resolve beyond the platform itself.
const GenericAuthor = "unknown"

// Label returns a human-readable platform name for caption rendering.
func (p Platform) Label() string {
	switch p {
	case PlatformE621:
		return "e621"
	case PlatformFuraffinity:
		return "FurAffinity"
	case PlatformTwitter:
		return "Twitter"
	case PlatformBluesky:
		return "Bluesky"
	default:
		return "Source"
	}
}
