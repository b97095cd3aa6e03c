package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vertitrack/internal/mocks"
	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/pkg/observability"
	"vertitrack/internal/service/reminder"
)

func TestNextDaily(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before hour", time.Date(2026, 10, 17, 8, 59, 0, 0, loc), time.Date(2026, 10, 17, 9, 0, 0, 0, loc)},
		{"exactly at hour", time.Date(2026, 10, 17, 9, 0, 0, 0, loc), time.Date(2026, 10, 18, 9, 0, 0, 0, loc)},
		{"after hour", time.Date(2026, 10, 17, 13, 0, 0, 0, loc), time.Date(2026, 10, 18, 9, 0, 0, 0, loc)},
		{"month end", time.Date(2026, 10, 31, 23, 0, 0, 0, loc), time.Date(2026, 11, 1, 9, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NextDaily(tt.now, 9)), "got %s", NextDaily(tt.now, 9))
		})
	}
}

func TestNextMonthly(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		day  int
		want time.Time
	}{
		{"later this month", time.Date(2026, 10, 1, 1, 0, 0, 0, time.UTC), 1, time.Date(2026, 10, 1, 2, 0, 0, 0, time.UTC)},
		{"next month", time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), 1, time.Date(2026, 11, 1, 2, 0, 0, 0, time.UTC)},
		{"year rollover", time.Date(2026, 12, 2, 0, 0, 0, 0, time.UTC), 1, time.Date(2027, 1, 1, 2, 0, 0, 0, time.UTC)},
		{"day clamped", time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC), 31, time.Date(2026, 2, 28, 2, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NextMonthly(tt.now, tt.day, 2)), "got %s", NextMonthly(tt.now, tt.day, 2))
		})
	}
}

type recordingPurger struct {
	mu    sync.Mutex
	calls []int
	err   error
}

func (p *recordingPurger) PurgeOlderThan(_ context.Context, days int) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, days)
	return 3, p.err
}

// fakeSleep advances the clock instead of waiting and stops after n waits.
func fakeSleep(clk *clock.Fixed, n int) func(context.Context, time.Duration) bool {
	var count int
	return func(ctx context.Context, d time.Duration) bool {
		count++
		if count > n || ctx.Err() != nil {
			return false
		}
		clk.Advance(d)
		return true
	}
}

func TestScheduler_RunsScansDailyAndPurgesMonthly(t *testing.T) {
	// Oct 30 10:00: next events are scan Oct 31 09:00, purge Nov 1 02:00,
	// scan Nov 1 09:00, scan Nov 2 09:00.
	clk := clock.NewFixed(time.Date(2026, 10, 30, 10, 0, 0, 0, time.UTC))
	scanner := new(mocks.ReminderService)
	purger := &recordingPurger{}

	scanner.On("RunScan", mock.Anything).Return(&reminder.ScanReport{}).Times(3)

	s := New(scanner, purger, clk, observability.NewNopLogger(), observability.NopMetrics{}, Config{
		ScanHour: 9, PurgeDay: 1, PurgeHour: 2, RetentionDays: 90, Location: time.UTC,
	})
	s.sleep = fakeSleep(clk, 4)

	s.Start()
	s.Start()
	waitForStop(t, s)

	scanner.AssertExpectations(t)
	assert.Equal(t, []int{90}, purger.calls)
	assert.Equal(t, time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC), clk.Now())
}

func TestScheduler_PurgeErrorDoesNotStopLoop(t *testing.T) {
	clk := clock.NewFixed(time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC))
	scanner := new(mocks.ReminderService)
	purger := &recordingPurger{err: errors.New("db locked")}

	scanner.On("RunScan", mock.Anything).Return(&reminder.ScanReport{}).Once()

	s := New(scanner, purger, clk, observability.NewNopLogger(), observability.NopMetrics{}, Config{
		ScanHour: 9, PurgeDay: 1, PurgeHour: 2, RetentionDays: 30, Location: time.UTC,
	})
	s.sleep = fakeSleep(clk, 2)

	s.Start()
	waitForStop(t, s)

	assert.Equal(t, []int{30}, purger.calls)
	scanner.AssertExpectations(t)
}

func TestScheduler_StopCancelsWaiting(t *testing.T) {
	scanner := new(mocks.ReminderService)
	s := New(scanner, &recordingPurger{}, clock.System{Location: time.UTC}, observability.NewNopLogger(), observability.NopMetrics{}, Config{
		ScanHour: 9, PurgeDay: 1, PurgeHour: 2,
	})

	s.Start()
	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	scanner.AssertNotCalled(t, "RunScan", mock.Anything)
	s.Stop()
}

// waitForStop waits for the loop to exit on its own, then releases it.
func waitForStop(t *testing.T, s *Scheduler) {
	t.Helper()
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler loop did not exit")
	}
	s.Stop()
}
