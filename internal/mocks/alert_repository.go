package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"vertitrack/internal/domain"
	"vertitrack/internal/repository"
)

type AlertRepository struct {
	mock.Mock
}

func (m *AlertRepository) Insert(ctx context.Context, alert *domain.Alert) (bool, error) {
	args := m.Called(ctx, alert)
	return args.Bool(0), args.Error(1)
}

func (m *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *AlertRepository) GetByDailyKey(ctx context.Context, category domain.AlertCategory, subjectKey string, dueDate, raisedOn time.Time) (*domain.Alert, error) {
	args := m.Called(ctx, category, subjectKey, dueDate, raisedOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Alert), args.Error(1)
}

func (m *AlertRepository) List(ctx context.Context, filter repository.AlertFilter) ([]domain.Alert, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Alert), args.Error(1)
}

func (m *AlertRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *AlertRepository) Dismiss(ctx context.Context, id uuid.UUID, note string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, note, at)
	return args.Bool(0), args.Error(1)
}

func (m *AlertRepository) ListDismissedBefore(ctx context.Context, cutoff time.Time) ([]domain.Alert, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Alert), args.Error(1)
}

func (m *AlertRepository) DeleteDismissed(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AlertRepository) CountUnread(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AlertRepository) CountByPriority(ctx context.Context, priority domain.Priority) (int64, error) {
	args := m.Called(ctx, priority)
	return args.Get(0).(int64), args.Error(1)
}
