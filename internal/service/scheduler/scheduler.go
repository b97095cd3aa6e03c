package scheduler

import (
	"context"
	"sync"
	"time"

	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/pkg/observability"
	"vertitrack/internal/service/reminder"
)

type Scanner interface {
	RunScan(ctx context.Context) *reminder.ScanReport
}

type Purger interface {
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
}

type Config struct {
	ScanHour      int
	PurgeDay      int
	PurgeHour     int
	RetentionDays int
	JobTimeout    time.Duration
	Location      *time.Location
}

// Scheduler fires the daily scan and the monthly retention sweep.
type Scheduler struct {
	scanner Scanner
	purger  Purger
	clock   clock.Clock
	logger  *observability.Logger
	metrics observability.Metrics
	cfg     Config

	// sleep blocks for d or until ctx is done. It reports whether the full
	// duration elapsed.
	sleep func(ctx context.Context, d time.Duration) bool

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(scanner Scanner, purger Purger, clk clock.Clock, logger *observability.Logger, metrics observability.Metrics, cfg Config) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Minute
	}
	return &Scheduler{
		scanner: scanner,
		purger:  purger,
		clock:   clk,
		logger:  logger.With("component", "scheduler"),
		metrics: metrics,
		cfg:     cfg,
		sleep:   sleepContext,
	}
}

// Start launches the scheduling goroutine. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx, s.done)
}

// Stop cancels the loop and waits for an in-flight job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	done := s.done
	s.running = false
	s.mu.Unlock()

	<-done
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		now := s.clock.Now().In(s.cfg.Location)
		nextScan := NextDaily(now, s.cfg.ScanHour)
		nextPurge := NextMonthly(now, s.cfg.PurgeDay, s.cfg.PurgeHour)

		at := nextScan
		if nextPurge.Before(at) {
			at = nextPurge
		}

		s.logger.Debug("next job scheduled", "at", at)
		if !s.sleep(ctx, at.Sub(now)) {
			return
		}

		if !nextScan.After(at) {
			s.runScan(ctx)
		}
		if !nextPurge.After(at) {
			s.runPurge(ctx)
		}
	}
}

func (s *Scheduler) runScan(ctx context.Context) {
	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	report := s.scanner.RunScan(jobCtx)
	if report == nil {
		return
	}
	s.logger.Info("scheduled scan complete",
		"emitted", report.Emitted(),
		"cancelled", report.Cancelled,
		"skipped", report.Skipped,
	)
}

func (s *Scheduler) runPurge(ctx context.Context) {
	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	removed, err := s.purger.PurgeOlderThan(jobCtx, s.cfg.RetentionDays)
	if err != nil {
		s.logger.Error("alert purge failed", "retention_days", s.cfg.RetentionDays, "error", err)
		return
	}
	s.metrics.RecordPurge(removed)
	s.logger.Info("alert purge complete", "retention_days", s.cfg.RetentionDays, "removed", removed)
}

// NextDaily is the first hour:00 strictly after now, in now's location.
func NextDaily(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, now.Location())
	}
	return next
}

// NextMonthly is the first day-of-month at hour:00 strictly after now. day
// is clamped to 1..28 so every month has it.
func NextMonthly(now time.Time, day, hour int) time.Time {
	day = min(max(day, 1), 28)

	next := time.Date(now.Year(), now.Month(), day, hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month()+1, day, hour, 0, 0, 0, now.Location())
	}
	return next
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
