package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vertitrack/internal/domain"
)

type DashboardService struct {
	mock.Mock
}

func (m *DashboardService) Counts(ctx context.Context) (*domain.AlertCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AlertCounts), args.Error(1)
}
