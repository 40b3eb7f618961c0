// Package caption composes MarkdownV2 captions carrying a source link.
package caption

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sourcepaw/sourcebot/internal/modules/source/domain"
)

const (
	// maxLen is the caption budget; longer captions are truncated to
	// truncLen runes with an ellipsis appended.
	maxLen   = 1000
	truncLen = 997

	ellipsis     = "..."
	fallbackText = "We'd be glad if you can find the artist 👀"
)

// markdownEscaper escapes the 18 characters MarkdownV2 reserves.
var markdownEscaper = strings.NewReplacer(
	"_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`,
	"(", `\(`, ")", `\)`, "~", `\~`, "`", "\\`",
	">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
	"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`,
	".", `\.`, "!", `\!`,
)

// existingLink matches [label](url) substrings that must survive
// escaping byte-for-byte.
var existingLink = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)

// Rewrite builds the new caption for a post. With a source it appends a
// single [label](url) block; without one it appends the fallback text.
// A caption that already carries a link block for the same source URL
// is returned unchanged, so Rewrite is a fixpoint on its own output.
func Rewrite(original string, src *domain.Source, authorLabel string) string {
	if src != nil && strings.Contains(original, "]("+src.URL+")") {
		return original
	}

	if runes := []rune(original); len(runes) > maxLen {
		original = string(runes[:truncLen]) + ellipsis
	}

	escaped := escapePreservingLinks(original)

	if src == nil {
		if escaped == "" {
			return fallbackText
		}
		return escaped + "\n\n" + fallbackText
	}

	link := fmt.Sprintf("[%s](%s)", linkLabel(src.Platform, authorLabel), src.URL)
	if escaped == "" {
		return link
	}
	return escaped + "\n\n" + link
}

// Escape backslash-escapes the MarkdownV2 special set.
func Escape(text string) string {
	return markdownEscaper.Replace(text)
}

// escapePreservingLinks escapes text while reproducing pre-existing
// [label](url) substrings verbatim. Links are swapped for opaque
// placeholders first so the escaper cannot touch their brackets.
func escapePreservingLinks(text string) string {
	links := existingLink.FindAllString(text, -1)
	if len(links) == 0 {
		return Escape(text)
	}

	for i := range links {
		text = strings.Replace(text, links[i], placeholder(i), 1)
	}
	text = Escape(text)
	for i := range links {
		text = strings.Replace(text, placeholder(i), links[i], 1)
	}
	return text
}

// placeholder builds a marker outside the escape set that cannot occur
// in Telegram captions.
func placeholder(i int) string {
	return fmt.Sprintf("\x00link%d\x00", i)
}

func linkLabel(platform domain.Platform, authorLabel string) string {
	switch authorLabel {
	case "":
		return "by artist"
	case domain.GenericAuthor:
		return fmt.Sprintf("by %s artist", platform.Label())
	default:
		return fmt.Sprintf("*by %s*", Escape(authorLabel))
	}
}
