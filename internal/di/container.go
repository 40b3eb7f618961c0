package di

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	"github.com/sourcepaw/sourcebot/internal/modules/author"
	channelRepo "github.com/sourcepaw/sourcebot/internal/modules/channel/repository"
	channelService "github.com/sourcepaw/sourcebot/internal/modules/channel/service"
	"github.com/sourcepaw/sourcebot/internal/modules/pipeline"
	"github.com/sourcepaw/sourcebot/internal/modules/post/intake"
	"github.com/sourcepaw/sourcebot/internal/modules/post/ledger"
	"github.com/sourcepaw/sourcebot/internal/modules/source/search"
	"github.com/sourcepaw/sourcebot/internal/shared/config"
	httpServer "github.com/sourcepaw/sourcebot/internal/transport/http"
	"github.com/sourcepaw/sourcebot/internal/transport/mtproto"
	telegramHandler "github.com/sourcepaw/sourcebot/internal/transport/telegram"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Channel Repository
	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := channelRepo.NewSQLiteStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize channel repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Channel Service
	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		repo := do.MustInvoke[channelRepo.Repository](i)
		svc := channelService.New(repo)
		if err := svc.Load(); err != nil {
			return nil, err
		}
		return svc, nil
	})

	// Register Edit Ledger
	do.Provide(injector, func(i do.Injector) (*ledger.Ledger, error) {
		return ledger.New(), nil
	})

	// Register Intake Filter
	do.Provide(injector, func(i do.Injector) (*intake.Filter, error) {
		channels := do.MustInvoke[*channelService.Service](i)
		led := do.MustInvoke[*ledger.Ledger](i)
		return intake.New(channels, led, time.Now()), nil
	})

	// Register MTProto Client
	do.Provide(injector, func(i do.Injector) (*mtproto.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return mtproto.New(cfg), nil
	})

	// Register Search Coordinator
	do.Provide(injector, func(i do.Injector) (*search.Coordinator, error) {
		client := do.MustInvoke[*mtproto.Client](i)
		return search.New(client, search.DefaultMinInterval, search.DefaultWaitTimeout), nil
	})

	// Register Author Lookup
	do.Provide(injector, func(i do.Injector) (*author.Lookup, error) {
		return author.New(), nil
	})

	// Register Bot API collaborators. They receive the bot later via
	// SetBot because the bot itself depends on the handler.
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Editor, error) {
		return telegramHandler.NewEditor(), nil
	})
	do.Provide(injector, func(i do.Injector) (*telegramHandler.ImageFetcher, error) {
		return telegramHandler.NewImageFetcher(), nil
	})
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Permission, error) {
		return telegramHandler.NewPermission(), nil
	})

	// Register Pipeline
	do.Provide(injector, func(i do.Injector) (*pipeline.Service, error) {
		return pipeline.New(
			do.MustInvoke[*intake.Filter](i),
			do.MustInvoke[*ledger.Ledger](i),
			do.MustInvoke[*telegramHandler.Permission](i),
			do.MustInvoke[*telegramHandler.ImageFetcher](i),
			do.MustInvoke[*search.Coordinator](i),
			do.MustInvoke[*author.Lookup](i),
			do.MustInvoke[*telegramHandler.Editor](i),
		), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		channels := do.MustInvoke[*channelService.Service](i)
		pipe := do.MustInvoke[*pipeline.Service](i)
		session := do.MustInvoke[*mtproto.Client](i)
		return telegramHandler.New(cfg, channels, pipe, session), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		channels := do.MustInvoke[*channelService.Service](i)
		pipe := do.MustInvoke[*pipeline.Service](i)
		session := do.MustInvoke[*mtproto.Client](i)
		return httpServer.New(cfg, channels, pipe, session), nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		handler.RegisterCommands(b)

		do.MustInvoke[*telegramHandler.Editor](i).SetBot(b)
		do.MustInvoke[*telegramHandler.ImageFetcher](i).SetBot(b)
		do.MustInvoke[*telegramHandler.Permission](i).SetBot(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Shutdown bot if it exists
	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	// Close the channel store if it exists
	if repo, err := do.Invoke[channelRepo.Repository](injector); err == nil && repo != nil {
		repo.Close()
	}

	return nil
}
