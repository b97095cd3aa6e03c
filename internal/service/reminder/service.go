package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"vertitrack/internal/domain"
	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/pkg/observability"
	"vertitrack/internal/service/message"
)

const scanLockKey = "reminder:scan:lock"

var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type AlertCreator interface {
	Create(ctx context.Context, draft domain.AlertDraft) (*domain.Alert, bool, error)
}

// Notifier is told about CRITICAL alerts created by a scan.
type Notifier interface {
	NotifyCritical(ctx context.Context, alerts []domain.Alert) error
}

type Service interface {
	RunScan(ctx context.Context) *ScanReport
	RunManualScan(ctx context.Context) *ScanReport
	CheckAbsences(ctx context.Context, date time.Time) CategoryResult
}

type Options struct {
	ServiceDueDays int
	LockTTL        time.Duration
}

type service struct {
	source   Source
	store    AlertCreator
	renderer message.Service
	clock    clock.Clock
	logger   *observability.Logger
	metrics  observability.Metrics
	redis    *redis.Client
	notifier Notifier
	opts     Options

	// mu keeps scans strictly sequential within the process.
	mu sync.Mutex
}

// NewService builds the engine. redis and notifier may be nil.
func NewService(
	source Source,
	store AlertCreator,
	renderer message.Service,
	clk clock.Clock,
	logger *observability.Logger,
	metrics observability.Metrics,
	redis *redis.Client,
	notifier Notifier,
	opts Options,
) Service {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 15 * time.Minute
	}
	return &service{
		source:   source,
		store:    store,
		renderer: renderer,
		clock:    clk,
		logger:   logger,
		metrics:  metrics,
		redis:    redis,
		notifier: notifier,
		opts:     opts,
	}
}

func (s *service) RunScan(ctx context.Context) *ScanReport {
	return s.run(ctx, TriggerScheduled)
}

func (s *service) RunManualScan(ctx context.Context) *ScanReport {
	return s.run(ctx, TriggerManual)
}

func (s *service) CheckAbsences(ctx context.Context, date time.Time) CategoryResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := clock.Today(s.clock)
	result, _ := s.scanCategory(ctx, domain.CategoryStaffAbsence, today, domain.DateOf(date))
	s.metrics.RecordScan(TriggerAbsence, lo.Ternary(result.Failed(), "partial", "ok"))
	return result
}

func (s *service) run(ctx context.Context, trigger string) *ScanReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	began := time.Now()
	now := s.clock.Now()
	today := domain.DateOf(now)
	report := &ScanReport{Trigger: trigger, Date: today, StartedAt: now.UTC()}
	log := s.logger.With("trigger", trigger, "date", today.Format(domain.DateLayout))

	release, acquired := s.acquireLock(ctx)
	if !acquired {
		report.Skipped = true
		report.FinishedAt = s.clock.Now().UTC()
		s.metrics.RecordScan(trigger, report.outcome())
		log.Info("scan skipped, another instance holds the lock")
		return report
	}
	defer release()

	var critical []domain.Alert
	for _, category := range domain.ScanCategories {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			log.Warn("scan cancelled", "before_category", category, "error", err)
			break
		}

		result, created := s.scanCategory(ctx, category, today, today)
		report.Categories = append(report.Categories, result)
		critical = append(critical, lo.Filter(created, func(a domain.Alert, _ int) bool {
			return a.Priority == domain.PriorityCritical
		})...)
	}

	report.FinishedAt = s.clock.Now().UTC()
	s.metrics.RecordScan(trigger, report.outcome())
	s.metrics.ObserveScan(time.Since(began).Seconds())

	if len(critical) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyCritical(context.WithoutCancel(ctx), critical); err != nil {
			log.Error("critical alert digest failed", "alerts", len(critical), "error", err)
		}
	}

	log.Info("scan finished",
		"outcome", report.outcome(),
		"emitted", report.Emitted(),
		"failed_categories", report.FailedCategories(),
	)
	return report
}

// scanCategory runs one category to completion. Cancellation of ctx is not
// observed once a category has started. A panic in a collaborator fails the
// category and keeps the alerts already created.
func (s *service) scanCategory(ctx context.Context, category domain.AlertCategory, today, asOf time.Time) (result CategoryResult, created []domain.Alert) {
	ctx = context.WithoutCancel(ctx)
	log := s.logger.With("category", category)
	result = CategoryResult{Category: category}

	defer func() {
		if r := recover(); r != nil {
			s.failCategory(&result, fmt.Errorf("panic: %v", r))
			log.Error("category scan panicked", "panic", r)
		}
	}()

	candidates, err := s.source.Collect(ctx, category, asOf)
	if err != nil {
		s.failCategory(&result, err)
		log.Warn("deadline source unavailable", "error", err)
		return result, nil
	}
	result.Candidates = len(candidates)

	for _, c := range candidates {
		days := domain.DaysBetween(today, c.DueDate)
		if !ShouldEmit(category, days) {
			result.Gated++
			continue
		}

		alert, isNew, err := s.emit(ctx, c, days)
		if err != nil {
			result.Rejected++
			log.Error("failed to record alert", "subject", c.Subject.Key(), "due_date", c.DueDate.Format(domain.DateLayout), "error", err)
			continue
		}
		if !isNew {
			result.Duplicates++
			continue
		}

		result.Emitted++
		created = append(created, *alert)
		s.metrics.RecordAlert(string(alert.Category), string(alert.Priority))
	}

	if category == domain.CategoryServiceDue && s.opts.ServiceDueDays > 0 {
		s.logUpcomingServices(ctx, log, today)
	}

	log.Info("category scanned",
		"candidates", result.Candidates,
		"gated", result.Gated,
		"emitted", result.Emitted,
		"duplicates", result.Duplicates,
		"rejected", result.Rejected,
	)
	return result, created
}

func (s *service) failCategory(result *CategoryResult, err error) {
	srcErr := &domain.SourceError{Category: result.Category, Err: err}
	result.Err = srcErr
	result.Error = srcErr.Error()
	s.metrics.RecordCategoryFailure(string(result.Category))
}

func (s *service) emit(ctx context.Context, c domain.DeadlineCandidate, days int) (*domain.Alert, bool, error) {
	rendered, err := s.renderer.Render(c, days)
	if err != nil {
		return nil, false, err
	}

	return s.store.Create(ctx, domain.AlertDraft{
		Category:   c.Category,
		SubjectRef: c.Subject,
		DueDate:    c.DueDate,
		Title:      rendered.Title,
		Message:    rendered.Message,
	})
}

// logUpcomingServices reports services coming due soon. They do not raise
// alerts.
func (s *service) logUpcomingServices(ctx context.Context, log *observability.Logger, today time.Time) {
	upcoming, err := s.source.UpcomingServices(ctx, today, s.opts.ServiceDueDays)
	if err != nil {
		log.Warn("upcoming service lookup failed", "error", err)
		return
	}
	if len(upcoming) == 0 {
		return
	}

	lifts := lo.Map(upcoming, func(c domain.DeadlineCandidate, _ int) string { return c.Context.LiftNumber })
	log.Info("services due soon", "within_days", s.opts.ServiceDueDays, "count", len(upcoming), "lifts", lifts)
}

// acquireLock takes the cross-process scan lock when redis is configured.
// A redis failure does not block the scan.
func (s *service) acquireLock(ctx context.Context) (func(), bool) {
	if s.redis == nil {
		return func() {}, true
	}

	token := uuid.NewString()
	ok, err := s.redis.SetNX(ctx, scanLockKey, token, s.opts.LockTTL).Result()
	if err != nil {
		s.logger.Warn("scan lock unavailable, continuing without it", "error", err)
		return func() {}, true
	}
	if !ok {
		return nil, false
	}

	return func() {
		if err := releaseLock.Run(context.Background(), s.redis, []string{scanLockKey}, token).Err(); err != nil {
			s.logger.Warn("failed to release scan lock", "error", err)
		}
	}, true
}
