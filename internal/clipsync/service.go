// Package clipsync runs the clip chain: token, broadcaster lookup, clip
// listing, selection, download and retention-bounded upload.
package clipsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/maauso/clip-vault/internal/clip"
	"github.com/maauso/clip-vault/internal/retention"
	"github.com/maauso/clip-vault/internal/twitch"
)

// DefaultPageSize is the number of clips requested per run.
const DefaultPageSize = 100

// runKey is the single-flight key shared by every trigger.
const runKey = "clip-run"

// Trigger identifies what started a run.
type Trigger string

// Known triggers.
const (
	TriggerHTTP     Trigger = "http"
	TriggerSchedule Trigger = "schedule"
	TriggerOneShot  Trigger = "oneshot"
)

// Status is the terminal state of a successful run.
type Status string

const (
	// StatusCompleted means at least one clip was stored.
	StatusCompleted Status = "completed"
	// StatusNoClips means the listing was empty and nothing was uploaded.
	StatusNoClips Status = "no_clips"
)

// Syncer stores one object and enforces retention.
type Syncer interface {
	Sync(ctx context.Context, key string, body []byte, contentType string) (retention.Result, error)
}

// StoredClip records one clip written during a run.
type StoredClip struct {
	ClipID  string
	Title   string
	Key     string
	Count   int
	Evicted string
}

// Outcome is the result of one run. It is shared between callers joined by
// the single-flight guard and must be treated as read-only.
type Outcome struct {
	RunID         string
	Trigger       Trigger
	Status        Status
	BroadcasterID string
	Listed        int
	Stored        []StoredClip
	StartedAt     time.Time
	Duration      time.Duration
}

// Service orchestrates a run. Concurrent calls to Run share one in-flight
// chain.
type Service struct {
	client      twitch.Client
	syncer      Syncer
	selector    *clip.Selector
	broadcaster string
	pageSize    int
	keyPrefix   string
	newID       func() string
	logger      *slog.Logger
	group       singleflight.Group
}

// Option is a function that configures a Service.
type Option func(*Service)

// WithPageSize sets the number of clips requested per listing.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithKeyPrefix sets the object key prefix for stored clips.
func WithKeyPrefix(prefix string) Option {
	return func(s *Service) {
		s.keyPrefix = prefix
	}
}

// WithRunIDGenerator replaces the run ID source.
func WithRunIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService creates a new Service for broadcaster.
func NewService(client twitch.Client, syncer Syncer, selector *clip.Selector, broadcaster string, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if selector == nil {
		selector = clip.NewSelector(clip.ModeRandom)
	}
	s := &Service{
		client:      client,
		syncer:      syncer,
		selector:    selector,
		broadcaster: broadcaster,
		pageSize:    DefaultPageSize,
		newID:       uuid.NewString,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the chain once. A call made while another run is in flight
// waits for that run and returns its outcome. The chain itself runs on a
// context detached from ctx cancellation, so a caller giving up does not
// abort the run for the others.
func (s *Service) Run(ctx context.Context, trigger Trigger) (*Outcome, error) {
	ch := s.group.DoChan(runKey, func() (any, error) {
		return s.run(context.WithoutCancel(ctx), trigger)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("clipsync: waiting for run: %w", ctx.Err())
	case res := <-ch:
		out, _ := res.Val.(*Outcome)
		if res.Shared && out != nil {
			s.logger.Info("joined in-flight run",
				slog.String("run_id", out.RunID),
				slog.String("trigger", string(trigger)),
			)
		}
		return out, res.Err
	}
}

// run is one pass of the chain. Every error aborts the remaining steps.
func (s *Service) run(ctx context.Context, trigger Trigger) (*Outcome, error) {
	out := &Outcome{
		RunID:     s.newID(),
		Trigger:   trigger,
		StartedAt: time.Now(),
	}
	log := s.logger.With(
		slog.String("run_id", out.RunID),
		slog.String("trigger", string(trigger)),
	)
	defer func() { out.Duration = time.Since(out.StartedAt) }()

	log.Info("run started", slog.String("broadcaster", s.broadcaster))

	token, err := s.client.Token(ctx)
	if err != nil {
		log.Error("token request failed", slog.String("error", err.Error()))
		return out, err
	}
	log.Debug("access token received")

	broadcasterID, err := s.client.UserID(ctx, token, s.broadcaster)
	if err != nil {
		log.Error("broadcaster lookup failed", slog.String("error", err.Error()))
		return out, err
	}
	out.BroadcasterID = broadcasterID
	log.Info("broadcaster resolved", slog.String("broadcaster_id", broadcasterID))

	clips, err := s.client.Clips(ctx, token, broadcasterID, s.pageSize)
	if err != nil {
		log.Error("clip listing failed", slog.String("error", err.Error()))
		return out, err
	}
	out.Listed = len(clips)
	log.Info("clips listed", slog.Int("count", len(clips)))

	selected := s.selector.Select(clips)
	if len(selected) == 0 {
		out.Status = StatusNoClips
		log.Info("no clips to store")
		return out, nil
	}

	for _, c := range selected {
		stored, err := s.storeClip(ctx, log, c)
		if err != nil {
			return out, err
		}
		out.Stored = append(out.Stored, stored)
	}

	out.Status = StatusCompleted
	log.Info("run completed", slog.Int("stored", len(out.Stored)))
	return out, nil
}

// storeClip downloads c and hands it to the syncer.
func (s *Service) storeClip(ctx context.Context, log *slog.Logger, c clip.Clip) (StoredClip, error) {
	log = log.With(slog.String("clip_id", c.ID))

	assetURL, ok := c.VideoURL()
	if !ok {
		err := fmt.Errorf("%w: clip %s: thumbnail %q does not match asset naming", twitch.ErrDownload, c.ID, c.ThumbnailURL)
		log.Error("asset url derivation failed", slog.String("error", err.Error()))
		return StoredClip{}, err
	}

	log.Info("downloading clip", slog.String("title", c.Title), slog.String("url", assetURL))
	body, err := s.client.Download(ctx, assetURL)
	if err != nil {
		log.Error("clip download failed", slog.String("error", err.Error()))
		return StoredClip{}, err
	}

	res, err := s.syncer.Sync(ctx, c.ObjectKey(s.keyPrefix), body, clip.ContentType)
	if err != nil {
		log.Error("store sync failed",
			slog.String("key", res.Key),
			slog.Bool("uploaded", res.Uploaded),
			slog.String("error", err.Error()),
		)
		return StoredClip{}, err
	}

	return StoredClip{
		ClipID:  c.ID,
		Title:   c.Title,
		Key:     res.Key,
		Count:   res.Count,
		Evicted: res.Evicted,
	}, nil
}
