// Package extract pulls source URLs out of free-text lookup replies.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/sourcepaw/sourcebot/internal/modules/source/domain"
)

// markdownLink matches [label](url) substrings inside a single line.
var markdownLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// tokenCutset is trimmed from plain-text tokens before the URL test.
const tokenCutset = ",.!?()[]{}"

// platformHosts is the ordered platform table: earlier entries win the
// final selection. Hosts match exactly or as a dot-separated suffix.
var platformHosts = []struct {
	platform domain.Platform
	hosts    []string
}{
	{domain.PlatformE621, []string{"e621.net"}},
	{domain.PlatformFuraffinity, []string{"furaffinity.net", "www.furaffinity.net", "beta.furaffinity.net"}},
	{domain.PlatformTwitter, []string{"twitter.com", "x.com", "mobile.twitter.com"}},
	{domain.PlatformBluesky, []string{"bsky.app", "bsky.social"}},
}

// Extract scans reply text for the best matching source URL. Candidates
// are collected per platform with the last occurrence winning, then the
// final pick follows the fixed platform priority. Returns nil when no
// qualifying URL is present.
func Extract(text string) *domain.Source {
	candidates := make(map[domain.Platform]string)

	lines := lo.Filter(strings.Split(text, "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})

	for _, line := range lines {
		if scanMarkdownLinks(line, candidates) {
			continue
		}
		scanTokens(line, candidates)
	}

	for _, entry := range platformHosts {
		if u, ok := candidates[entry.platform]; ok {
			return &domain.Source{URL: u, Platform: entry.platform}
		}
	}
	return nil
}

func scanMarkdownLinks(line string, candidates map[domain.Platform]string) bool {
	found := false
	for _, m := range markdownLink.FindAllStringSubmatch(line, -1) {
		u := strings.TrimSpace(m[2])
		if platform, ok := matchPlatform(u); ok {
			candidates[platform] = u
			found = true
		}
	}
	return found
}

func scanTokens(line string, candidates map[domain.Platform]string) {
	for _, token := range strings.Fields(line) {
		token = strings.Trim(token, tokenCutset)
		token = strings.ReplaceAll(token, `\`, "")
		if platform, ok := matchPlatform(token); ok {
			candidates[platform] = token
		}
	}
}

// matchPlatform reports which platform a URL belongs to. Only absolute
// http/https URLs whose host is in the platform table qualify.
func matchPlatform(raw string) (domain.Platform, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	for _, entry := range platformHosts {
		for _, h := range entry.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return entry.platform, true
			}
		}
	}
	return "", false
}
