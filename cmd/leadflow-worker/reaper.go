package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type staleRunCloser interface {
	ReapStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// Reaper periodically closes runs left running by a crashed process.
type Reaper struct {
	closer   staleRunCloser
	schedule string
	maxAge   time.Duration
	logger   *slog.Logger
	cron     *cron.Cron
}

func NewReaper(closer staleRunCloser, schedule string, maxAge time.Duration, logger *slog.Logger) (*Reaper, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid stale run schedule %q: %w", schedule, err)
	}

	if maxAge <= 0 {
		return nil, fmt.Errorf("stale run age must be positive, got %s", maxAge)
	}

	return &Reaper{
		closer:   closer,
		schedule: schedule,
		maxAge:   maxAge,
		logger:   logger.With("module", "stale_run_reaper"),
	}, nil
}

func (r *Reaper) Start(ctx context.Context) error {
	r.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := r.cron.AddFunc(r.schedule, func() { r.reap(ctx) })
	if err != nil {
		return err
	}

	r.cron.Start()

	r.logger.InfoContext(ctx, "Stale run reaper started", "schedule", r.schedule, "max_age", r.maxAge)

	return nil
}

// Stop waits for a running pass to finish.
func (r *Reaper) Stop() {
	if r.cron == nil {
		return
	}

	<-r.cron.Stop().Done()
}

func (r *Reaper) reap(ctx context.Context) {
	closed, err := r.closer.ReapStale(ctx, r.maxAge)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to close stale runs", "error", err)

		return
	}

	if closed > 0 {
		r.logger.WarnContext(ctx, "Closed stale runs", "count", closed)
	}
}
