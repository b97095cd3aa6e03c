package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"vertitrack/internal/domain"
	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/repository"
)

// CountsCacheKey holds the cached AlertCounts. Every mutation drops it.
const CountsCacheKey = "alerts:counts"

type Archiver interface {
	Archive(ctx context.Context, alerts []domain.Alert, at time.Time) (string, error)
}

type Service interface {
	// Create stores a new alert for the draft. If an alert with the same
	// category, subject and due date was already raised today, that alert is
	// returned and created is false.
	Create(ctx context.Context, draft domain.AlertDraft) (alert *domain.Alert, created bool, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error)

	FindUnread(ctx context.Context) ([]domain.Alert, error)
	FindActive(ctx context.Context) ([]domain.Alert, error)
	FindUrgent(ctx context.Context) ([]domain.Alert, error)
	FindByPriority(ctx context.Context, priority domain.Priority) ([]domain.Alert, error)
	FindByCategory(ctx context.Context, category domain.AlertCategory) ([]domain.Alert, error)
	FindBySubject(ctx context.Context, subject domain.SubjectRef) ([]domain.Alert, error)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]domain.Alert, error)

	MarkRead(ctx context.Context, id uuid.UUID) error
	Dismiss(ctx context.Context, id uuid.UUID, note string) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)

	CountUnread(ctx context.Context) (int64, error)
	CountByPriority(ctx context.Context, priority domain.Priority) (int64, error)
}

type service struct {
	alertRepo repository.AlertRepository
	clock     clock.Clock
	redis     *redis.Client
	archiver  Archiver
	timeout   time.Duration
}

// NewService wires the store. redis and archiver are optional.
func NewService(alertRepo repository.AlertRepository, clk clock.Clock, redis *redis.Client, archiver Archiver, timeout time.Duration) Service {
	return &service{
		alertRepo: alertRepo,
		clock:     clk,
		redis:     redis,
		archiver:  archiver,
		timeout:   timeout,
	}
}

func (s *service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *service) Create(ctx context.Context, draft domain.AlertDraft) (*domain.Alert, bool, error) {
	if err := draft.Validate(); err != nil {
		return nil, false, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.clock.Now()
	today := domain.DateOf(now)
	due := domain.DateOf(draft.DueDate)

	alert := &domain.Alert{
		ID:         uuid.New(),
		Category:   draft.Category,
		Priority:   domain.PriorityFor(draft.Category, domain.DaysBetween(today, due)),
		SubjectRef: draft.SubjectRef,
		SubjectKey: draft.SubjectRef.Key(),
		Title:      strings.TrimSpace(draft.Title),
		Message:    draft.Message,
		RaisedOn:   today,
		DueDate:    due,
		IsRead:     false,
		IsActive:   true,
		CreatedAt:  now.UTC(),
	}

	inserted, err := s.alertRepo.Insert(ctx, alert)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		existing, err := s.alertRepo.GetByDailyKey(ctx, alert.Category, alert.SubjectKey, due, today)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("alert for %s %s on %s vanished after conflict", alert.Category, alert.SubjectKey, due.Format(domain.DateLayout))
		}
		return existing, false, nil
	}

	s.invalidateCounts(ctx)
	return alert, true, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	alert, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	return alert, nil
}

func (s *service) FindUnread(ctx context.Context) ([]domain.Alert, error) {
	return s.list(ctx, repository.AlertFilter{ActiveOnly: true, UnreadOnly: true})
}

func (s *service) FindActive(ctx context.Context) ([]domain.Alert, error) {
	return s.list(ctx, repository.AlertFilter{ActiveOnly: true})
}

func (s *service) FindUrgent(ctx context.Context) ([]domain.Alert, error) {
	return s.list(ctx, repository.AlertFilter{
		ActiveOnly: true,
		UnreadOnly: true,
		Priorities: []domain.Priority{domain.PriorityCritical, domain.PriorityHigh},
	})
}

func (s *service) FindByPriority(ctx context.Context, priority domain.Priority) ([]domain.Alert, error) {
	if !priority.Valid() {
		return nil, &domain.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", priority)}
	}
	return s.list(ctx, repository.AlertFilter{ActiveOnly: true, Priorities: []domain.Priority{priority}})
}

func (s *service) FindByCategory(ctx context.Context, category domain.AlertCategory) ([]domain.Alert, error) {
	if !category.Valid() {
		return nil, &domain.ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", category)}
	}
	return s.list(ctx, repository.AlertFilter{ActiveOnly: true, Category: &category})
}

// FindBySubject matches on whichever sides of the reference are set.
func (s *service) FindBySubject(ctx context.Context, subject domain.SubjectRef) ([]domain.Alert, error) {
	if subject.IsZero() {
		return nil, &domain.ValidationError{Field: "subject", Reason: "lift_id or employee_id is required"}
	}
	return s.list(ctx, repository.AlertFilter{
		ActiveOnly: true,
		LiftID:     subject.LiftID,
		EmployeeID: subject.EmployeeID,
	})
}

func (s *service) FindDueBetween(ctx context.Context, from, to time.Time) ([]domain.Alert, error) {
	from, to = domain.DateOf(from), domain.DateOf(to)
	if to.Before(from) {
		return nil, &domain.ValidationError{Field: "to", Reason: "must not precede from"}
	}
	return s.list(ctx, repository.AlertFilter{
		ActiveOnly: true,
		DueFrom:    &from,
		DueTo:      &to,
		OrderByDue: true,
	})
}

func (s *service) list(ctx context.Context, filter repository.AlertFilter) ([]domain.Alert, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.alertRepo.List(ctx, filter)
}

// MarkRead is a no-op for unknown, already read, or dismissed alerts.
func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	changed, err := s.alertRepo.MarkRead(ctx, id, s.clock.Now().UTC())
	if err != nil {
		return err
	}
	if changed {
		s.invalidateCounts(ctx)
	}
	return nil
}

func (s *service) Dismiss(ctx context.Context, id uuid.UUID, note string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	changed, err := s.alertRepo.Dismiss(ctx, id, note, s.clock.Now().UTC())
	if err != nil {
		return err
	}
	if changed {
		s.invalidateCounts(ctx)
		return nil
	}

	existing, err := s.alertRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return nil
}

// PurgeOlderThan removes alerts dismissed at least days ago. When an
// archiver is configured the rows are archived first and nothing is deleted
// if archiving fails.
func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, &domain.ValidationError{Field: "days", Reason: "must not be negative"}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.clock.Now().UTC()
	cutoff := now.AddDate(0, 0, -days)

	expired, err := s.alertRepo.ListDismissedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	if s.archiver != nil {
		if _, err := s.archiver.Archive(ctx, expired, now); err != nil {
			return 0, fmt.Errorf("archiving purged alerts: %w", err)
		}
	}

	ids := lo.Map(expired, func(a domain.Alert, _ int) uuid.UUID { return a.ID })
	removed, err := s.alertRepo.DeleteDismissed(ctx, ids)
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *service) CountUnread(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.alertRepo.CountUnread(ctx)
}

func (s *service) CountByPriority(ctx context.Context, priority domain.Priority) (int64, error) {
	if !priority.Valid() {
		return 0, &domain.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", priority)}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.alertRepo.CountByPriority(ctx, priority)
}

func (s *service) invalidateCounts(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, CountsCacheKey).Err()
	}
}
