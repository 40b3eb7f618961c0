package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
	"github.com/sourcepaw/sourcebot/internal/di"
	"github.com/sourcepaw/sourcebot/internal/shared/config"
	httpServer "github.com/sourcepaw/sourcebot/internal/transport/http"
	"github.com/sourcepaw/sourcebot/internal/transport/mtproto"
)

func setupLogging(level slog.Level) {
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	multiHandler := slogmulti.Fanout(textHandler, jsonHandler)
	slog.SetDefault(slog.New(multiHandler))
}

func main() {
	setupLogging(slog.LevelInfo)

	// Setup dependency injection
	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg := do.MustInvoke[*config.Config](injector)
	if cfg.AppEnv == config.AppEnvDevelopment || cfg.AppEnv == config.AppEnvLocal {
		setupLogging(slog.LevelDebug)
	}

	session := do.MustInvoke[*mtproto.Client](injector)
	server := do.MustInvoke[*httpServer.Server](injector)
	b := do.MustInvoke[*bot.Bot](injector)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The MTProto session is load-bearing: if its retries are exhausted
	// the process must exit rather than run without lookups.
	sessionErr := make(chan error, 1)
	go func() {
		sessionErr <- session.Run(ctx)
	}()

	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Failed to start HTTP server", "error", err)
			os.Exit(1)
		}
	}()

	go b.Start(ctx)

	slog.Info("Application started", "port", cfg.HTTPPort, "env", cfg.AppEnv.String())
	slog.Info("Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		slog.Info("Shutting down...")
	case err := <-sessionErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MTProto session failed", "error", err)
			cancel()
			os.Exit(1)
		}
	}
}
