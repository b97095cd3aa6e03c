package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"vertitrack/internal/domain"
)

type ServiceRecordRepository struct {
	mock.Mock
}

func (m *ServiceRecordRepository) Create(ctx context.Context, record *domain.ServiceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *ServiceRecordRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]domain.ServiceRecord, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceRecord), args.Error(1)
}

func (m *ServiceRecordRepository) FindDueWithin(ctx context.Context, asOf time.Time, days int) ([]domain.ServiceRecord, error) {
	args := m.Called(ctx, asOf, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceRecord), args.Error(1)
}
