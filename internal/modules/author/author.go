// Package author derives an artist label for a resolved source by
// fetching the page and reading its title. This is the plain-HTTP
// fallback; pages that render their metadata client-side simply yield
// the generic marker.
package author

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/sourcepaw/sourcebot/internal/modules/source/domain"
)

const (
	requestTimeout = 5 * time.Second
	maxBodyBytes   = 512 * 1024
	userAgent      = "Mozilla/5.0 (compatible; sourcebot/1.0)"
)

// Lookup fetches artist labels for source URLs.
type Lookup struct {
	client *http.Client
}

func New() *Lookup {
	return &Lookup{client: &http.Client{Timeout: requestTimeout}}
}

// NewWithClient is used by tests to inject a client.
func NewWithClient(client *http.Client) *Lookup {
	return &Lookup{client: client}
}

// Author returns the artist label for a source, or the generic marker
// when the page yields no usable name. Failures are logged and degrade
// to the generic marker; they never fail the pipeline.
func (l *Lookup) Author(ctx context.Context, src domain.Source) string {
	title, err := l.fetchTitle(ctx, src.URL)
	if err != nil {
		slog.Debug("author lookup failed", "url", src.URL, "error", err)
		return domain.GenericAuthor
	}

	if name := authorFromTitle(src.Platform, title); name != "" {
		return name
	}
	return domain.GenericAuthor
}

func (l *Lookup) fetchTitle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return pageTitle(io.LimitReader(resp.Body, maxBodyBytes))
}

// pageTitle extracts og:title if present, falling back to <title>.
func pageTitle(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var title, ogTitle string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && title == "" {
					title = n.FirstChild.Data
				}
			case "meta":
				var property, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "property", "name":
						property = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if property == "og:title" && ogTitle == "" {
					ogTitle = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if ogTitle != "" {
		return strings.TrimSpace(ogTitle), nil
	}
	return strings.TrimSpace(title), nil
}

// authorFromTitle applies per-platform title conventions. An empty
// return means no name could be derived.
func authorFromTitle(platform domain.Platform, title string) string {
	if title == "" {
		return ""
	}

	switch platform {
	case domain.PlatformFuraffinity:
		// "<work> by <name> -- Fur Affinity [dot] net"
		title = cutSuffixFold(title, "-- Fur Affinity [dot] net")
		if _, name, ok := lastCut(title, " by "); ok {
			return strings.TrimSpace(name)
		}
	case domain.PlatformE621:
		// "<tags> created by <name> - e621"
		title = cutSuffixFold(title, "- e621")
		if _, name, ok := lastCut(title, "created by "); ok {
			return strings.TrimSpace(name)
		}
	case domain.PlatformTwitter:
		// "<name> on X: ..." (or legacy "on Twitter")
		for _, sep := range []string{" on X:", " on Twitter:"} {
			if name, _, ok := strings.Cut(title, sep); ok {
				return strings.TrimSpace(name)
			}
		}
	case domain.PlatformBluesky:
		// "<name> (@handle.bsky.social) ..."
		if name, _, ok := strings.Cut(title, " (@"); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

func cutSuffixFold(s, suffix string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) >= len(suffix) && strings.EqualFold(trimmed[len(trimmed)-len(suffix):], suffix) {
		return strings.TrimSpace(trimmed[:len(trimmed)-len(suffix)])
	}
	return trimmed
}

func lastCut(s, sep string) (before, after string, ok bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}
