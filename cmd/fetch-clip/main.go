// Package main runs the clip chain exactly once, for use from cron or a
// platform timer. There is no response channel; the outcome is logged.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maauso/clip-vault/internal/bootstrap"
	"github.com/maauso/clip-vault/internal/clipsync"
	"github.com/maauso/clip-vault/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	out, err := deps.Service.Run(ctx, clipsync.TriggerOneShot)
	if err != nil {
		logger.Error("scheduled run failed", slog.String("error", err.Error()))
		return err
	}

	logger.Info("scheduled run finished",
		slog.String("run_id", out.RunID),
		slog.String("status", string(out.Status)),
		slog.Int("listed", out.Listed),
		slog.Int("stored", len(out.Stored)),
		slog.Duration("duration", out.Duration),
	)
	return nil
}
