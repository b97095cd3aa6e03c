package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertitrack/internal/domain"
	"vertitrack/internal/repository"
	"vertitrack/internal/testutil"
)

func newAlert(category domain.AlertCategory, priority domain.Priority, subject domain.SubjectRef, due, raised time.Time) *domain.Alert {
	return &domain.Alert{
		ID:         uuid.New(),
		Category:   category,
		Priority:   priority,
		SubjectRef: subject,
		SubjectKey: subject.Key(),
		Title:      string(category),
		RaisedOn:   raised,
		DueDate:    due,
		IsActive:   true,
		CreatedAt:  raised.Add(9 * time.Hour),
	}
}

func TestAlertRepository_InsertIsIdempotentPerDay(t *testing.T) {
	repo := repository.NewAlertRepository(testutil.NewTestDB(t))
	ctx := context.Background()
	subject := domain.LiftSubject(uuid.New())

	first := newAlert(domain.CategoryContractExpiry, domain.PriorityHigh, subject, day(15), today)
	inserted, err := repo.Insert(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	dup := newAlert(domain.CategoryContractExpiry, domain.PriorityHigh, subject, day(15), today)
	inserted, err = repo.Insert(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	nextDay := newAlert(domain.CategoryContractExpiry, domain.PriorityHigh, subject, day(15), day(1))
	inserted, err = repo.Insert(ctx, nextDay)
	require.NoError(t, err)
	assert.True(t, inserted)

	got, err := repo.GetByDailyKey(ctx, domain.CategoryContractExpiry, subject.Key(), day(15), today)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	require.NotNil(t, got.LiftID)
	assert.Equal(t, *subject.LiftID, *got.LiftID)
	assert.Nil(t, got.EmployeeID)
}

func TestAlertRepository_ListOrdering(t *testing.T) {
	repo := repository.NewAlertRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	low := newAlert(domain.CategoryStaffAbsence, domain.PriorityLow, domain.EmployeeSubject(uuid.New()), today, day(-3))
	criticalNew := newAlert(domain.CategoryContractExpiry, domain.PriorityCritical, domain.LiftSubject(uuid.New()), day(2), today)
	criticalOld := newAlert(domain.CategoryServiceDue, domain.PriorityCritical, domain.LiftSubject(uuid.New()), day(-9), day(-1))
	medium := newAlert(domain.CategoryContractRenewal, domain.PriorityMedium, domain.LiftSubject(uuid.New()), day(30), day(-5))

	for _, a := range []*domain.Alert{low, criticalNew, criticalOld, medium} {
		_, err := repo.Insert(ctx, a)
		require.NoError(t, err)
	}

	alerts, err := repo.List(ctx, repository.AlertFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, alerts, 4)
	assert.Equal(t, []uuid.UUID{criticalOld.ID, criticalNew.ID, medium.ID, low.ID},
		[]uuid.UUID{alerts[0].ID, alerts[1].ID, alerts[2].ID, alerts[3].ID})

	byDue, err := repo.List(ctx, repository.AlertFilter{ActiveOnly: true, OrderByDue: true})
	require.NoError(t, err)
	require.Len(t, byDue, 4)
	assert.Equal(t, criticalOld.ID, byDue[0].ID)
	assert.Equal(t, medium.ID, byDue[3].ID)

	from, to := today, day(5)
	window, err := repo.List(ctx, repository.AlertFilter{ActiveOnly: true, DueFrom: &from, DueTo: &to, OrderByDue: true})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, low.ID, window[0].ID)
	assert.Equal(t, criticalNew.ID, window[1].ID)

	category := domain.CategoryServiceDue
	filtered, err := repo.List(ctx, repository.AlertFilter{Category: &category})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, criticalOld.ID, filtered[0].ID)
}

func TestAlertRepository_ReadAndDismissAreConditional(t *testing.T) {
	repo := repository.NewAlertRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	a := newAlert(domain.CategoryQuarterlyPayment, domain.PriorityCritical, domain.LiftSubject(uuid.New()), today, today)
	_, err := repo.Insert(ctx, a)
	require.NoError(t, err)

	readAt := today.Add(10 * time.Hour)
	changed, err := repo.MarkRead(ctx, a.ID, readAt)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkRead(ctx, a.ID, readAt.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	unread, err := repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)

	dismissedAt := today.Add(11 * time.Hour)
	changed, err = repo.Dismiss(ctx, a.ID, "paid by cheque", dismissedAt)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Dismiss(ctx, a.ID, "again", dismissedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.ReadAt)
	assert.True(t, readAt.Equal(*got.ReadAt))
	require.NotNil(t, got.DismissedAt)
	assert.True(t, dismissedAt.Equal(*got.DismissedAt))
	require.NotNil(t, got.ResolutionNote)
	assert.Equal(t, "paid by cheque", *got.ResolutionNote)

	critical, err := repo.CountByPriority(ctx, domain.PriorityCritical)
	require.NoError(t, err)
	assert.Zero(t, critical)
}

func TestAlertRepository_PurgeOnlyTouchesDismissed(t *testing.T) {
	repo := repository.NewAlertRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	old := newAlert(domain.CategoryContractExpiry, domain.PriorityLow, domain.LiftSubject(uuid.New()), day(-200), day(-200))
	recent := newAlert(domain.CategoryContractExpiry, domain.PriorityLow, domain.LiftSubject(uuid.New()), day(-50), day(-50))
	ancientActive := newAlert(domain.CategoryContractExpiry, domain.PriorityLow, domain.LiftSubject(uuid.New()), day(-400), day(-400))

	for _, a := range []*domain.Alert{old, recent, ancientActive} {
		_, err := repo.Insert(ctx, a)
		require.NoError(t, err)
	}
	_, err := repo.Dismiss(ctx, old.ID, "done", day(-100))
	require.NoError(t, err)
	_, err = repo.Dismiss(ctx, recent.ID, "done", day(-10))
	require.NoError(t, err)

	expired, err := repo.ListDismissedBefore(ctx, day(-90))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, old.ID, expired[0].ID)

	removed, err := repo.DeleteDismissed(ctx, []uuid.UUID{old.ID, ancientActive.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	got, err := repo.GetByID(ctx, ancientActive.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	removed, err = repo.DeleteDismissed(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
