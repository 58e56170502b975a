// Package scheduler owns the repeating fetch timers. Each publisher gets
// its own interval; every job's first run is pushed back by a fixed
// startup delay so process start does not burst-hit the upstream API.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/marinebus/noaa-weather-relay/internal/observability"
)

// StartupDelay is applied to every job's first run.
const StartupDelay = 5 * time.Second

// cycleTimeout bounds one fetch cycle. Overlapping cycles of the same
// job are possible when a round-trip outlasts the interval; writes are
// idempotent per path so last-write-wins is acceptable.
const cycleTimeout = 30 * time.Second

// Cycle is one fetch-convert-publish run.
type Cycle func(ctx context.Context) error

// Scheduler wraps gocron with per-job logging, metrics, and a readiness
// flag that flips once any cycle completes successfully.
type Scheduler struct {
	sched     *gocron.Scheduler
	logger    *slog.Logger
	metrics   *observability.Metrics
	completed atomic.Bool
}

// New creates a stopped scheduler.
func New(logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		sched:   gocron.NewScheduler(time.UTC),
		logger:  logger,
		metrics: metrics,
	}
}

// Add registers a named repeating job. The job's errors are reported
// here, never propagated: a failed cycle is retried at the next tick.
func (s *Scheduler) Add(name string, interval time.Duration, cycle Cycle) error {
	_, err := s.sched.Every(interval).StartAt(time.Now().Add(StartupDelay)).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()

		start := time.Now()
		err := cycle(ctx)
		s.metrics.FetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if err != nil {
			s.metrics.FetchesTotal.WithLabelValues(name, "error").Inc()
			s.logger.Error("fetch cycle failed", "target", name, "error", err)
			return
		}
		s.metrics.FetchesTotal.WithLabelValues(name, "success").Inc()
		s.completed.Store(true)
		s.logger.Debug("fetch cycle complete", "target", name, "duration", time.Since(start))
	})
	return err
}

// Start launches all registered jobs asynchronously.
func (s *Scheduler) Start() {
	s.metrics.SchedulerRunning.Set(1)
	s.sched.StartAsync()
	s.logger.Info("scheduler started", "jobs", len(s.sched.Jobs()), "startup_delay", StartupDelay)
}

// Stop cancels all timers. In-flight cycles finish on their own; their
// late publishes are harmless because writes are idempotent per path.
func (s *Scheduler) Stop() {
	s.sched.Stop()
	s.metrics.SchedulerRunning.Set(0)
	s.logger.Info("scheduler stopped")
}

// CheckReadiness reports ready once at least one cycle has completed.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.completed.Load() {
		return errors.New("no fetch cycle has completed yet")
	}
	return nil
}
