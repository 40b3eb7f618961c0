package author

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sourcepaw/sourcebot/internal/modules/source/domain"
)

func pageServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthorFromTitle(t *testing.T) {
	tests := []struct {
		name     string
		platform domain.Platform
		title    string
		want     string
	}{
		{
			name:     "furaffinity",
			platform: domain.PlatformFuraffinity,
			title:    "Morning Coffee by wolfpainter -- Fur Affinity [dot] net",
			want:     "wolfpainter",
		},
		{
			name:     "furaffinity takes last by",
			platform: domain.PlatformFuraffinity,
			title:    "Commission by the lake by wolfpainter -- Fur Affinity [dot] net",
			want:     "wolfpainter",
		},
		{
			name:     "e621",
			platform: domain.PlatformE621,
			title:    "canine solo created by foxartist - e621",
			want:     "foxartist",
		},
		{
			name:     "twitter on x",
			platform: domain.PlatformTwitter,
			title:    "Fox Artist on X: \"new piece!\"",
			want:     "Fox Artist",
		},
		{
			name:     "twitter legacy",
			platform: domain.PlatformTwitter,
			title:    "Fox Artist on Twitter: \"new piece!\"",
			want:     "Fox Artist",
		},
		{
			name:     "bluesky",
			platform: domain.PlatformBluesky,
			title:    "Fox Artist (@fox.bsky.social) — Bluesky",
			want:     "Fox Artist",
		},
		{
			name:     "no convention match",
			platform: domain.PlatformE621,
			title:    "just some page",
			want:     "",
		},
		{
			name:     "empty title",
			platform: domain.PlatformTwitter,
			title:    "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authorFromTitle(tt.platform, tt.title); got != tt.want {
				t.Fatalf("authorFromTitle(%v, %q) = %q, want %q", tt.platform, tt.title, got, tt.want)
			}
		})
	}
}

func TestAuthorFromPage(t *testing.T) {
	srv := pageServer(t, `<html><head>
		<title>Morning Coffee by wolfpainter -- Fur Affinity [dot] net</title>
	</head><body></body></html>`)

	l := NewWithClient(srv.Client())
	got := l.Author(context.Background(), domain.Source{
		URL:      srv.URL,
		Platform: domain.PlatformFuraffinity,
	})
	if got != "wolfpainter" {
		t.Fatalf("Author = %q, want wolfpainter", got)
	}
}

func TestAuthorPrefersOGTitle(t *testing.T) {
	srv := pageServer(t, `<html><head>
		<title>e621</title>
		<meta property="og:title" content="canine solo created by foxartist - e621">
	</head><body></body></html>`)

	l := NewWithClient(srv.Client())
	got := l.Author(context.Background(), domain.Source{
		URL:      srv.URL,
		Platform: domain.PlatformE621,
	})
	if got != "foxartist" {
		t.Fatalf("Author = %q, want foxartist", got)
	}
}

func TestAuthorFallsBackToGeneric(t *testing.T) {
	srv := pageServer(t, `<html><head><title>untitled</title></head><body></body></html>`)

	l := NewWithClient(srv.Client())
	got := l.Author(context.Background(), domain.Source{
		URL:      srv.URL,
		Platform: domain.PlatformTwitter,
	})
	if got != domain.GenericAuthor {
		t.Fatalf("Author = %q, want generic marker", got)
	}
}

func TestAuthorFetchFailureIsGeneric(t *testing.T) {
	srv := pageServer(t, "")
	url := srv.URL
	srv.Close()

	l := New()
	got := l.Author(context.Background(), domain.Source{
		URL:      url,
		Platform: domain.PlatformE621,
	})
	if got != domain.GenericAuthor {
		t.Fatalf("Author = %q, want generic marker on fetch failure", got)
	}
}
