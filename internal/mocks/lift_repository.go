package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"vertitrack/internal/domain"
)

type LiftRepository struct {
	mock.Mock
}

func (m *LiftRepository) Create(ctx context.Context, lift *domain.Lift) error {
	args := m.Called(ctx, lift)
	return args.Error(0)
}

func (m *LiftRepository) ListActive(ctx context.Context) ([]domain.Lift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lift), args.Error(1)
}

func (m *LiftRepository) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.Lift, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lift), args.Error(1)
}

func (m *LiftRepository) FindOverdueExpiry(ctx context.Context, asOf time.Time) ([]domain.Lift, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lift), args.Error(1)
}

func (m *LiftRepository) FindRenewalBetween(ctx context.Context, from, to time.Time) ([]domain.Lift, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lift), args.Error(1)
}
