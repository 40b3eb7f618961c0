// Package pipeline drives a channel post event through intake, source
// resolution and caption rewriting.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/sourcepaw/sourcebot/internal/modules/caption"
	postdomain "github.com/sourcepaw/sourcebot/internal/modules/post/domain"
	"github.com/sourcepaw/sourcebot/internal/modules/post/intake"
	"github.com/sourcepaw/sourcebot/internal/modules/post/ledger"
	sourcedomain "github.com/sourcepaw/sourcebot/internal/modules/source/domain"
)

// Permission answers whether the bot may edit captions in a channel.
type Permission interface {
	CanEdit(ctx context.Context, channelID int64) (bool, error)
}

// ImageFetcher downloads the post's photo bytes via the bot API.
type ImageFetcher interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
}

// Searcher resolves an image to a source link. A nil source with a nil
// error means the lookup found nothing.
type Searcher interface {
	Search(ctx context.Context, image []byte) (*sourcedomain.Source, error)
}

// AuthorLookup derives an artist label for a resolved source.
type AuthorLookup interface {
	Author(ctx context.Context, src sourcedomain.Source) string
}

// Editor applies the rewritten caption to the original post.
type Editor interface {
	EditCaption(ctx context.Context, channelID int64, messageID int, text string) EditOutcome
}

// Service wires the stages together. One Process call handles one post
// event end to end.
type Service struct {
	filter     *intake.Filter
	ledger     *ledger.Ledger
	permission Permission
	images     ImageFetcher
	searcher   Searcher
	authors    AuthorLookup
	editor     Editor
}

func New(
	filter *intake.Filter,
	led *ledger.Ledger,
	permission Permission,
	images ImageFetcher,
	searcher Searcher,
	authors AuthorLookup,
	editor Editor,
) *Service {
	return &Service{
		filter:     filter,
		ledger:     led,
		permission: permission,
		images:     images,
		searcher:   searcher,
		authors:    authors,
		editor:     editor,
	}
}

// Process runs one post event through the pipeline. It never returns an
// error: every failure mode degrades to a log line so one bad post
// cannot take the update loop down.
func (s *Service) Process(ctx context.Context, ev postdomain.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while processing post", "post_id", ev.PostID().String(), "panic", r)
		}
	}()

	logger := slog.With("post_id", ev.PostID().String())

	if reason, ok := s.filter.Admit(ev); !ok {
		logger.Debug("post rejected", "reason", reason.String())
		return
	}

	canEdit, err := s.permission.CanEdit(ctx, ev.ChannelID)
	if err != nil {
		logger.Warn("permission check failed", "error", err)
		return
	}
	if !canEdit {
		logger.Info("missing edit rights, skipping post")
		return
	}

	src := s.resolveSource(ctx, logger, ev)

	var authorLabel string
	if src != nil {
		authorLabel = s.authors.Author(ctx, *src)
	}

	text := caption.Rewrite(ev.Caption, src, authorLabel)
	outcome := s.editor.EditCaption(ctx, ev.ChannelID, ev.MessageID, text)

	switch outcome {
	case EditOutcomeApplied, EditOutcomeNotModified:
		s.ledger.MarkEdited(ev.PostID())
		logger.Info("caption rewritten", "outcome", outcome.String(), "has_source", src != nil)
	default:
		// Not marked: the post stays eligible if a retryable condition
		// clears and a fresh event arrives.
		logger.Warn("caption edit not applied", "outcome", outcome.String())
	}
}

// resolveSource fetches the photo and runs the lookup. Every failure
// degrades to no source, which yields the fallback caption.
func (s *Service) resolveSource(ctx context.Context, logger *slog.Logger, ev postdomain.Event) *sourcedomain.Source {
	image, err := s.images.Fetch(ctx, ev.PhotoFileID)
	if err != nil {
		logger.Warn("image fetch failed", "error", err)
		return nil
	}

	src, err := s.searcher.Search(ctx, image)
	if err != nil {
		logger.Warn("source lookup failed", "error", err)
		return nil
	}
	if src == nil {
		logger.Info("no source found")
		return nil
	}

	logger.Info("source resolved", "platform", src.Platform.String(), "url", src.URL)
	return src
}

// Paused exposes the intake pause state for the status endpoint.
func (s *Service) Paused() bool {
	return s.filter.Paused()
}

// TogglePause flips global processing and returns the new state.
func (s *Service) TogglePause() bool {
	return s.filter.TogglePause()
}
