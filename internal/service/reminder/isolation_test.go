package reminder_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vertitrack/internal/domain"
	"vertitrack/internal/mocks"
	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/pkg/i18n"
	"vertitrack/internal/pkg/observability"
	"vertitrack/internal/service/message"
	"vertitrack/internal/service/reminder"
)

func newMockedEngine(t *testing.T, source *mocks.DeadlineSource, store *mocks.AlertService, notifier reminder.Notifier) reminder.Service {
	t.Helper()
	catalog, err := i18n.NewCatalog()
	require.NoError(t, err)

	return reminder.NewService(
		source,
		store,
		message.NewService(catalog, "en"),
		clock.NewFixed(today),
		observability.NewNopLogger(),
		observability.NopMetrics{},
		nil,
		notifier,
		reminder.Options{},
	)
}

func TestScan_SourceFailureIsIsolated(t *testing.T) {
	source := new(mocks.DeadlineSource)
	store := new(mocks.AlertService)
	engine := newMockedEngine(t, source, store, nil)

	liftID := uuid.New()
	source.On("Collect", mock.Anything, domain.CategoryContractExpiry, mock.Anything).
		Return(nil, errors.New("connection refused"))
	source.On("Collect", mock.Anything, domain.CategoryContractRenewal, mock.Anything).
		Return([]domain.DeadlineCandidate{{
			Category: domain.CategoryContractRenewal,
			Subject:  domain.LiftSubject(liftID),
			DueDate:  domain.AddDays(today, 15),
			Context:  domain.CandidateContext{LiftNumber: "L-9", Location: "Annex"},
		}}, nil)
	for _, c := range []domain.AlertCategory{domain.CategoryQuarterlyPayment, domain.CategoryServiceDue, domain.CategoryStaffAbsence} {
		source.On("Collect", mock.Anything, c, mock.Anything).Return([]domain.DeadlineCandidate{}, nil)
	}

	store.On("Create", mock.Anything, mock.MatchedBy(func(d domain.AlertDraft) bool {
		return d.Category == domain.CategoryContractRenewal && *d.LiftID == liftID
	})).Return(&domain.Alert{ID: uuid.New(), Category: domain.CategoryContractRenewal, Priority: domain.PriorityHigh}, true, nil).Once()

	report := engine.RunScan(context.Background())

	require.Len(t, report.Categories, len(domain.ScanCategories))
	assert.Equal(t, []domain.AlertCategory{domain.CategoryContractExpiry}, report.FailedCategories())

	expiry, _ := report.Result(domain.CategoryContractExpiry)
	assert.ErrorIs(t, expiry.Err, domain.ErrSourceUnavailable)
	assert.Contains(t, expiry.Error, "connection refused")

	renewal, _ := report.Result(domain.CategoryContractRenewal)
	assert.Equal(t, 1, renewal.Emitted)
	assert.False(t, report.Cancelled)

	source.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestScan_StoreRejectionDoesNotStopCategory(t *testing.T) {
	source := new(mocks.DeadlineSource)
	store := new(mocks.AlertService)
	engine := newMockedEngine(t, source, store, nil)

	first, second := uuid.New(), uuid.New()
	candidates := []domain.DeadlineCandidate{
		{Category: domain.CategoryContractExpiry, Subject: domain.LiftSubject(first), DueDate: domain.AddDays(today, 7)},
		{Category: domain.CategoryContractExpiry, Subject: domain.LiftSubject(second), DueDate: domain.AddDays(today, 7)},
	}
	source.On("Collect", mock.Anything, domain.CategoryContractExpiry, mock.Anything).Return(candidates, nil)
	source.On("Collect", mock.Anything, mock.Anything, mock.Anything).Return([]domain.DeadlineCandidate{}, nil)

	store.On("Create", mock.Anything, mock.MatchedBy(func(d domain.AlertDraft) bool { return *d.LiftID == first })).
		Return(nil, false, errors.New("timeout"))
	store.On("Create", mock.Anything, mock.MatchedBy(func(d domain.AlertDraft) bool { return *d.LiftID == second })).
		Return(&domain.Alert{ID: uuid.New(), Priority: domain.PriorityCritical}, true, nil)

	report := engine.RunScan(context.Background())

	expiry, _ := report.Result(domain.CategoryContractExpiry)
	assert.Equal(t, 1, expiry.Rejected)
	assert.Equal(t, 1, expiry.Emitted)
	assert.False(t, expiry.Failed())
}

func TestScan_CancelledBeforeStartTouchesNothing(t *testing.T) {
	source := new(mocks.DeadlineSource)
	store := new(mocks.AlertService)
	engine := newMockedEngine(t, source, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := engine.RunScan(ctx)
	assert.True(t, report.Cancelled)
	assert.Empty(t, report.Categories)
	source.AssertNotCalled(t, "Collect", mock.Anything, mock.Anything, mock.Anything)
}

func TestScan_CancelledMidScanStopsAtCategoryBoundary(t *testing.T) {
	source := new(mocks.DeadlineSource)
	store := new(mocks.AlertService)
	engine := newMockedEngine(t, source, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	source.On("Collect", mock.Anything, domain.CategoryContractExpiry, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return([]domain.DeadlineCandidate{}, nil)

	report := engine.RunScan(ctx)
	assert.True(t, report.Cancelled)
	require.Len(t, report.Categories, 1)
	assert.Equal(t, domain.CategoryContractExpiry, report.Categories[0].Category)
	source.AssertNumberOfCalls(t, "Collect", 1)
}

func TestScan_NotifiesCriticalAlerts(t *testing.T) {
	source := new(mocks.DeadlineSource)
	store := new(mocks.AlertService)
	notifier := new(mocks.Notifier)
	engine := newMockedEngine(t, source, store, notifier)

	critical := &domain.Alert{ID: uuid.New(), Category: domain.CategoryContractExpiry, Priority: domain.PriorityCritical}
	source.On("Collect", mock.Anything, domain.CategoryContractExpiry, mock.Anything).Return([]domain.DeadlineCandidate{
		{Category: domain.CategoryContractExpiry, Subject: domain.LiftSubject(uuid.New()), DueDate: domain.AddDays(today, 3)},
	}, nil)
	source.On("Collect", mock.Anything, mock.Anything, mock.Anything).Return([]domain.DeadlineCandidate{}, nil)
	store.On("Create", mock.Anything, mock.Anything).Return(critical, true, nil)
	notifier.On("NotifyCritical", mock.Anything, mock.MatchedBy(func(alerts []domain.Alert) bool {
		return len(alerts) == 1 && alerts[0].ID == critical.ID
	})).Return(nil).Once()

	engine.RunScan(context.Background())
	notifier.AssertExpectations(t)
}

func TestScan_ConcurrentTriggersAreSerialized(t *testing.T) {
	source := new(mocks.DeadlineSource)
	store := new(mocks.AlertService)
	engine := newMockedEngine(t, source, store, nil)

	var active, peak int32
	source.On("Collect", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
		}).
		Return([]domain.DeadlineCandidate{}, nil)

	done := make(chan *reminder.ScanReport, 2)
	go func() { done <- engine.RunScan(context.Background()) }()
	go func() { done <- engine.RunManualScan(context.Background()) }()

	first, second := <-done, <-done
	assert.Len(t, first.Categories, len(domain.ScanCategories))
	assert.Len(t, second.Categories, len(domain.ScanCategories))
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
	source.AssertNumberOfCalls(t, "Collect", 2*len(domain.ScanCategories))
}

type panickingSource struct {
	*mocks.DeadlineSource
	category domain.AlertCategory
}

func (p panickingSource) Collect(ctx context.Context, category domain.AlertCategory, asOf time.Time) ([]domain.DeadlineCandidate, error) {
	if category == p.category {
		var lift *domain.Lift
		_ = lift.LiftNumber
	}
	return p.DeadlineSource.Collect(ctx, category, asOf)
}

type outcomeRecorder struct {
	observability.NopMetrics
	outcomes []string
	failures []string
}

func (r *outcomeRecorder) RecordScan(_ string, outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *outcomeRecorder) RecordCategoryFailure(category string) {
	r.failures = append(r.failures, category)
}

func TestScan_PanickingCategoryIsIsolated(t *testing.T) {
	inner := new(mocks.DeadlineSource)
	store := new(mocks.AlertService)
	metrics := &outcomeRecorder{}

	for _, c := range domain.ScanCategories {
		if c == domain.CategoryContractRenewal {
			continue
		}
		inner.On("Collect", mock.Anything, c, mock.Anything).Return([]domain.DeadlineCandidate{}, nil)
	}

	catalog, err := i18n.NewCatalog()
	require.NoError(t, err)
	engine := reminder.NewService(
		panickingSource{DeadlineSource: inner, category: domain.CategoryContractRenewal},
		store,
		message.NewService(catalog, "en"),
		clock.NewFixed(today),
		observability.NewNopLogger(),
		metrics,
		nil,
		nil,
		reminder.Options{},
	)

	var report *reminder.ScanReport
	require.NotPanics(t, func() { report = engine.RunScan(context.Background()) })

	require.Len(t, report.Categories, len(domain.ScanCategories))
	assert.Equal(t, []domain.AlertCategory{domain.CategoryContractRenewal}, report.FailedCategories())

	renewal, _ := report.Result(domain.CategoryContractRenewal)
	assert.ErrorIs(t, renewal.Err, domain.ErrSourceUnavailable)
	assert.Contains(t, renewal.Error, "panic")

	assert.Equal(t, []string{"partial"}, metrics.outcomes)
	assert.Equal(t, []string{string(domain.CategoryContractRenewal)}, metrics.failures)
	inner.AssertExpectations(t)
}
