package reminder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertitrack/internal/domain"
	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/pkg/i18n"
	"vertitrack/internal/pkg/observability"
	"vertitrack/internal/repository"
	"vertitrack/internal/service/alert"
	"vertitrack/internal/service/message"
	"vertitrack/internal/service/reminder"
	"vertitrack/internal/testutil"
)

var today = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

type harness struct {
	repos  *repository.Repositories
	store  alert.Service
	engine reminder.Service
	clock  *clock.Fixed
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewTestDB(t)
	repos := repository.NewRepositories(db)
	clk := clock.NewFixed(today)

	catalog, err := i18n.NewCatalog()
	require.NoError(t, err)

	store := alert.NewService(repos.Alert, clk, nil, nil, 5*time.Second)
	engine := reminder.NewService(
		reminder.NewSource(repos, 30),
		store,
		message.NewService(catalog, "en"),
		clk,
		observability.NewNopLogger(),
		observability.NopMetrics{},
		nil,
		nil,
		reminder.Options{ServiceDueDays: 15},
	)

	return &harness{repos: repos, store: store, engine: engine, clock: clk}
}

func (h *harness) addLift(t *testing.T, mutate func(*domain.Lift)) *domain.Lift {
	t.Helper()
	amount := 12500.0
	l := &domain.Lift{
		LiftNumber:      "L-" + time.Now().Format("150405.000000000"),
		Location:        "Tower A",
		AMCStartDate:    domain.AddDays(today, -300),
		AMCEndDate:      domain.AddDays(today, 200),
		AMCRenewalDate:  domain.AddDays(today, 200),
		QuarterlyAmount: &amount,
	}
	if mutate != nil {
		mutate(l)
	}
	require.NoError(t, h.repos.Lift.Create(context.Background(), l))
	return l
}

func at(days int) *time.Time {
	d := domain.AddDays(today, days)
	return &d
}

func TestScan_ExpiryFifteenDaysOutIsHigh(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	lift := h.addLift(t, func(l *domain.Lift) { l.AMCEndDate = domain.AddDays(today, 15) })

	report := h.engine.RunScan(ctx)
	assert.Equal(t, 1, report.Emitted())

	alerts, err := h.store.FindByCategory(ctx, domain.CategoryContractExpiry)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.PriorityHigh, alerts[0].Priority)
	assert.Equal(t, lift.ID, *alerts[0].LiftID)
	assert.Contains(t, alerts[0].Message, "expiring in 15 days")
}

func TestScan_ExpiryOffMilestoneEmitsNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addLift(t, func(l *domain.Lift) { l.AMCEndDate = domain.AddDays(today, 20) })

	report := h.engine.RunScan(ctx)
	assert.Zero(t, report.Emitted())

	result, ok := report.Result(domain.CategoryContractExpiry)
	require.True(t, ok)
	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 1, result.Gated)
}

func TestScan_ExpirySevenDaysOutIsCritical(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	lift := h.addLift(t, func(l *domain.Lift) { l.AMCEndDate = domain.AddDays(today, 7) })

	h.engine.RunScan(ctx)

	alerts, err := h.store.FindBySubject(ctx, domain.LiftSubject(lift.ID))
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.CategoryContractExpiry, alerts[0].Category)
	assert.Equal(t, domain.PriorityCritical, alerts[0].Priority)
	assert.Equal(t, domain.AddDays(today, 7), alerts[0].DueDate.UTC())
}

func TestScan_ExpiredContractUsesPastTenseWording(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addLift(t, func(l *domain.Lift) { l.AMCEndDate = domain.AddDays(today, -5) })

	h.engine.RunScan(ctx)

	alerts, err := h.store.FindByCategory(ctx, domain.CategoryContractExpiry)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.PriorityCritical, alerts[0].Priority)
	assert.Contains(t, alerts[0].Message, "expired 5 days ago")
}

func TestScan_PaymentDueTodayThenNotAgain(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addLift(t, func(l *domain.Lift) { l.Quarter2PaymentDate = at(0) })

	report := h.engine.RunScan(ctx)
	payments, ok := report.Result(domain.CategoryQuarterlyPayment)
	require.True(t, ok)
	assert.Equal(t, 1, payments.Emitted)

	alerts, err := h.store.FindByCategory(ctx, domain.CategoryQuarterlyPayment)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.LessOrEqual(t, alerts[0].Priority.Rank(), domain.PriorityMedium.Rank())
	assert.Contains(t, alerts[0].Message, "Quarter 2")

	h.clock.Advance(24 * time.Hour)
	report = h.engine.RunScan(ctx)
	payments, _ = report.Result(domain.CategoryQuarterlyPayment)
	assert.Zero(t, payments.Emitted)

	alerts, err = h.store.FindByCategory(ctx, domain.CategoryQuarterlyPayment)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestScan_QuartersAreIndependentCandidates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addLift(t, func(l *domain.Lift) {
		l.Quarter1PaymentDate = at(3)
		l.Quarter2PaymentDate = at(7)
		l.Quarter3PaymentDate = at(10)
		l.Quarter4PaymentDate = at(15)
	})

	report := h.engine.RunScan(ctx)
	payments, _ := report.Result(domain.CategoryQuarterlyPayment)
	assert.Equal(t, 4, payments.Candidates)
	assert.Equal(t, 3, payments.Emitted)
	assert.Equal(t, 1, payments.Gated)
}

func TestScan_RerunSameDayIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.addLift(t, func(l *domain.Lift) {
		l.AMCEndDate = domain.AddDays(today, 30)
		l.AMCRenewalDate = domain.AddDays(today, 7)
	})

	first := h.engine.RunScan(ctx)
	assert.Equal(t, 2, first.Emitted())

	second := h.engine.RunManualScan(ctx)
	assert.Zero(t, second.Emitted())
	assert.Equal(t, reminder.TriggerManual, second.Trigger)

	renewal, _ := second.Result(domain.CategoryContractRenewal)
	assert.Equal(t, 1, renewal.Duplicates)

	unread, err := h.store.FindUnread(ctx)
	require.NoError(t, err)
	assert.Len(t, unread, 2)
}

func TestScan_OverdueServiceAlwaysAlerts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	lift := h.addLift(t, nil)
	require.NoError(t, h.repos.ServiceRecord.Create(ctx, &domain.ServiceRecord{
		LiftID: lift.ID, ServiceType: "PREVENTIVE", ServiceDate: domain.AddDays(today, -40), NextServiceDate: at(-10),
	}))

	h.engine.RunScan(ctx)

	alerts, err := h.store.FindByCategory(ctx, domain.CategoryServiceDue)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.PriorityCritical, alerts[0].Priority)
	assert.Contains(t, alerts[0].Message, "10 days overdue")
}

func TestCheckAbsences_OneLowAlertPerAbsentEmployee(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	lastName := "Kumar"
	ravi := &domain.Employee{EmployeeCode: "EMP007", FirstName: "Ravi", LastName: &lastName}
	require.NoError(t, h.repos.Employee.Create(ctx, ravi))

	date := domain.AddDays(today, -2)
	require.NoError(t, h.repos.Attendance.Create(ctx, &domain.Attendance{
		EmployeeID: ravi.ID, AttendanceDate: date, Status: domain.AttendanceAbsent,
	}))

	result := h.engine.CheckAbsences(ctx, date)
	assert.False(t, result.Failed())
	assert.Equal(t, 1, result.Emitted)

	alerts, err := h.store.FindBySubject(ctx, domain.EmployeeSubject(ravi.ID))
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.CategoryStaffAbsence, alerts[0].Category)
	assert.Equal(t, domain.PriorityLow, alerts[0].Priority)
	assert.Equal(t, date, alerts[0].DueDate.UTC())
	assert.Equal(t, "Employee Absent - Ravi Kumar", alerts[0].Title)

	again := h.engine.CheckAbsences(ctx, date)
	assert.Zero(t, again.Emitted)
	assert.Equal(t, 1, again.Duplicates)
}

func TestScan_DailyRunChecksTodaysAbsences(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	emp := &domain.Employee{EmployeeCode: "EMP001", FirstName: "Asha"}
	require.NoError(t, h.repos.Employee.Create(ctx, emp))
	require.NoError(t, h.repos.Attendance.Create(ctx, &domain.Attendance{
		EmployeeID: emp.ID, AttendanceDate: today, Status: domain.AttendanceAbsent,
	}))

	report := h.engine.RunScan(ctx)
	absences, ok := report.Result(domain.CategoryStaffAbsence)
	require.True(t, ok)
	assert.Equal(t, 1, absences.Emitted)
}
