package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/robfig/cron/v3"
)

// Sweeper closes generation jobs whose deadline has passed.
type Sweeper interface {
	SweepStale(ctx context.Context, now time.Time) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
}

// NewScheduler registers the stale job sweep on schedule, which accepts
// standard cron specs and descriptors such as "@every 1m".
func NewScheduler(schedule string, sweeper Sweeper) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		sweeper: sweeper,
		timeout: 30 * time.Second,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	logging.NewLogger(context.Background()).LogInfof("cron", "job sweeper started")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running sweep or ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce performs a single sweep.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger := logging.NewLogger(ctx)
	n, err := s.sweeper.SweepStale(ctx, time.Now())
	if err != nil {
		logger.LogError("cron_sweep", err)
		return
	}
	if n > 0 {
		logger.LogInfof("cron_sweep", "timed out %d stale jobs", n)
	}
}
