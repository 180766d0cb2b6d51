// Package scheduler runs the clip chain on a fixed interval inside the server
// process. Errors are logged only; a failed cycle never stops the loop.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/maauso/clip-vault/internal/clipsync"
)

// Runner runs the chain once.
type Runner interface {
	Run(ctx context.Context, trigger clipsync.Trigger) (*clipsync.Outcome, error)
}

// Config holds tunables for the Scheduler.
type Config struct {
	Interval time.Duration // how often a cycle begins
	Logger   *slog.Logger  // optional logger (defaults to slog.Default())
}

// Stats is a snapshot of cycle counters.
type Stats struct {
	Cycles   uint64
	Failures uint64
	LastRun  time.Time
}

// Scheduler triggers a run on every tick.
type Scheduler struct {
	runner Runner
	cfg    Config

	mu    sync.Mutex
	stats Stats

	ticker *time.Ticker
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// New constructs but does not start a Scheduler.
func New(runner Runner, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Scheduler{
		runner: runner,
		cfg:    cfg,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the loop in a new goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	if s.ticker != nil {
		return
	} // already started
	s.ticker = time.NewTicker(s.cfg.Interval)
	go s.loop(ctx)
}

// Stop signals the loop to exit and waits for the current cycle to finish.
// Stop on a scheduler that was never started returns immediately.
func (s *Scheduler) Stop() {
	if s.ticker == nil {
		return
	}
	s.once.Do(func() { close(s.stopCh) })
	<-s.doneCh
}

// Stats returns a copy of the cycle counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scheduler) loop(ctx context.Context) {
	log := s.cfg.Logger.With("domain", "scheduler")
	defer func() {
		s.ticker.Stop()
		close(s.doneCh)
	}()
	log.Info("scheduler started", "interval", s.cfg.Interval.String())
	for {
		select {
		case <-ctx.Done():
			log.Info("scheduler stop", "reason", "context_cancel")
			return
		case <-s.stopCh:
			log.Info("scheduler stop", "reason", "stop_signal")
			return
		case <-s.ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle performs one scheduled run.
func (s *Scheduler) runCycle(ctx context.Context) {
	start := time.Now()
	log := s.cfg.Logger.With("domain", "scheduler", "action", "cycle")

	out, err := s.runner.Run(ctx, clipsync.TriggerSchedule)

	s.mu.Lock()
	s.stats.Cycles++
	s.stats.LastRun = start
	if err != nil {
		s.stats.Failures++
	}
	s.mu.Unlock()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error("scheduled run failed", "error", err)
		}
		return
	}
	log.Info("cycle complete", "run_id", out.RunID, "status", string(out.Status), "ms", time.Since(start).Milliseconds())
}
