package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"vertitrack/internal/domain"
	"vertitrack/internal/service/reminder"
)

type DeadlineSource struct {
	mock.Mock
}

func (m *DeadlineSource) Collect(ctx context.Context, category domain.AlertCategory, asOf time.Time) ([]domain.DeadlineCandidate, error) {
	args := m.Called(ctx, category, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeadlineCandidate), args.Error(1)
}

func (m *DeadlineSource) UpcomingServices(ctx context.Context, asOf time.Time, days int) ([]domain.DeadlineCandidate, error) {
	args := m.Called(ctx, asOf, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeadlineCandidate), args.Error(1)
}

type ReminderService struct {
	mock.Mock
}

func (m *ReminderService) RunScan(ctx context.Context) *reminder.ScanReport {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*reminder.ScanReport)
}

func (m *ReminderService) RunManualScan(ctx context.Context) *reminder.ScanReport {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*reminder.ScanReport)
}

func (m *ReminderService) CheckAbsences(ctx context.Context, date time.Time) reminder.CategoryResult {
	args := m.Called(ctx, date)
	return args.Get(0).(reminder.CategoryResult)
}

type Notifier struct {
	mock.Mock
}

func (m *Notifier) NotifyCritical(ctx context.Context, alerts []domain.Alert) error {
	args := m.Called(ctx, alerts)
	return args.Error(0)
}

type Archiver struct {
	mock.Mock
}

func (m *Archiver) Archive(ctx context.Context, alerts []domain.Alert, at time.Time) (string, error) {
	args := m.Called(ctx, alerts, at)
	return args.String(0), args.Error(1)
}
