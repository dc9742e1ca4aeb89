package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/mspdash/internal/cli"
	"github.com/JonMunkholm/mspdash/internal/config"
	"github.com/JonMunkholm/mspdash/internal/core"
	"github.com/JonMunkholm/mspdash/internal/logging"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx = logging.WithRunID(ctx, uuid.NewString())

	err = cli.NewRootCommand(cfg).ExecuteContext(ctx)
	stop()
	if err != nil {
		um := core.MapError(err)
		logging.FromContext(ctx).Error("build failed",
			"error", err,
			"code", um.Code,
			"message", um.Message,
			"action", um.Action,
		)
		os.Exit(1)
	}
}
