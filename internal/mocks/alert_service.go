package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vertitrack/internal/domain"
)

type AlertService struct {
	mock.Mock
}

func (m *AlertService) Create(ctx context.Context, draft domain.AlertDraft) (*domain.Alert, bool, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Alert), args.Bool(1), args.Error(2)
}

func (m *AlertService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *AlertService) alerts(args mock.Arguments) ([]domain.Alert, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Alert), args.Error(1)
}

func (m *AlertService) FindUnread(ctx context.Context) ([]domain.Alert, error) {
	return m.alerts(m.Called(ctx))
}

func (m *AlertService) FindActive(ctx context.Context) ([]domain.Alert, error) {
	return m.alerts(m.Called(ctx))
}

func (m *AlertService) FindUrgent(ctx context.Context) ([]domain.Alert, error) {
	return m.alerts(m.Called(ctx))
}

func (m *AlertService) FindByPriority(ctx context.Context, priority domain.Priority) ([]domain.Alert, error) {
	return m.alerts(m.Called(ctx, priority))
}

func (m *AlertService) FindByCategory(ctx context.Context, category domain.AlertCategory) ([]domain.Alert, error) {
	return m.alerts(m.Called(ctx, category))
}

func (m *AlertService) FindBySubject(ctx context.Context, subject domain.SubjectRef) ([]domain.Alert, error) {
	return m.alerts(m.Called(ctx, subject))
}

func (m *AlertService) FindDueBetween(ctx context.Context, from, to time.Time) ([]domain.Alert, error) {
	return m.alerts(m.Called(ctx, from, to))
}

func (m *AlertService) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AlertService) Dismiss(ctx context.Context, id uuid.UUID, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

func (m *AlertService) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AlertService) CountUnread(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AlertService) CountByPriority(ctx context.Context, priority domain.Priority) (int64, error) {
	args := m.Called(ctx, priority)
	return args.Get(0).(int64), args.Error(1)
}
