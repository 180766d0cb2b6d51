// Package bootstrap provides dependency initialization for the clip vault.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/maauso/clip-vault/internal/clip"
	"github.com/maauso/clip-vault/internal/clipsync"
	"github.com/maauso/clip-vault/internal/config"
	"github.com/maauso/clip-vault/internal/retention"
	"github.com/maauso/clip-vault/internal/scheduler"
	"github.com/maauso/clip-vault/internal/storage"
	"github.com/maauso/clip-vault/internal/twitch"
)

// Dependencies holds all initialized dependencies for the triggers.
type Dependencies struct {
	Service *clipsync.Service
	// Scheduler is nil when SCHEDULE_INTERVAL is not set.
	Scheduler *scheduler.Scheduler
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	// Initialize object store
	store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Initialize Twitch client
	twitchClient, err := twitch.NewClient(cfg.TwitchClientID, cfg.TwitchClientSecret,
		twitch.WithAuthURL(cfg.TwitchAuthURL),
		twitch.WithAPIURL(cfg.TwitchAPIURL),
		twitch.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("create Twitch client: %w", err)
	}

	mode, err := clip.ParseMode(cfg.SelectMode)
	if err != nil {
		return nil, err
	}

	syncer := retention.NewSyncer(store, cfg.RetentionCap, logger)

	svc := clipsync.NewService(
		twitchClient,
		syncer,
		clip.NewSelector(mode),
		cfg.TwitchBroadcaster,
		logger,
		clipsync.WithPageSize(cfg.ClipPageSize),
		clipsync.WithKeyPrefix(cfg.S3Prefix),
	)

	deps := &Dependencies{Service: svc}

	if cfg.ScheduleEnabled() {
		deps.Scheduler = scheduler.New(svc, scheduler.Config{
			Interval: cfg.ScheduleInterval,
			Logger:   logger,
		})
	}

	return deps, nil
}

// initStorage creates the S3-compatible object store.
func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.ObjectStore, error) {
	s3Store, err := storage.NewS3Storage(ctx, storage.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Prefix:          cfg.S3Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 storage: %w", err)
	}
	logger.Info("S3 storage configured",
		slog.String("endpoint", cfg.S3Endpoint),
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
		slog.String("prefix", cfg.S3Prefix),
		slog.Int("retention_cap", cfg.RetentionCap),
	)
	return s3Store, nil
}
