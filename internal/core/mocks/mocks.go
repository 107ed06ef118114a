package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shelfdesk/metrics-backend/internal/core/domain"
	"github.com/shelfdesk/metrics-backend/internal/core/ports"
)

// MockMetricsRepository is a mock implementation of ports.MetricsRepository
type MockMetricsRepository struct {
	mock.Mock
}

func NewMockMetricsRepository() *MockMetricsRepository {
	return &MockMetricsRepository{}
}

func (m *MockMetricsRepository) Overview(ctx context.Context, window domain.MetricsWindow) (*domain.OverviewMetrics, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OverviewMetrics), args.Error(1)
}

func (m *MockMetricsRepository) ResolutionTime(ctx context.Context, params ports.ResolutionTimeParams) ([]domain.ResolutionTimeBucket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResolutionTimeBucket), args.Error(1)
}

func (m *MockMetricsRepository) TeamPerformance(ctx context.Context, window domain.MetricsWindow) ([]domain.TeamMemberPerformance, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TeamMemberPerformance), args.Error(1)
}

func (m *MockMetricsRepository) IssueTrends(ctx context.Context, params ports.IssueTrendsParams) ([]domain.IssueTrendBucket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IssueTrendBucket), args.Error(1)
}

func (m *MockMetricsRepository) StatusDistribution(ctx context.Context, libraryID uuid.UUID) ([]domain.StatusCount, error) {
	args := m.Called(ctx, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *MockMetricsRepository) PriorityBreakdown(ctx context.Context, libraryID uuid.UUID) ([]domain.PriorityCount, error) {
	args := m.Called(ctx, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriorityCount), args.Error(1)
}

func (m *MockMetricsRepository) CollectionStats(ctx context.Context, window domain.MetricsWindow) ([]domain.CollectionStats, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollectionStats), args.Error(1)
}

func (m *MockMetricsRepository) WorkloadBalance(ctx context.Context, libraryID uuid.UUID) ([]domain.WorkloadBalance, error) {
	args := m.Called(ctx, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkloadBalance), args.Error(1)
}

// MockMetricsService is a mock implementation of ports.MetricsService
type MockMetricsService struct {
	mock.Mock
}

func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

func (m *MockMetricsService) Overview(ctx context.Context, query ports.MetricsQuery) (*domain.OverviewMetrics, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OverviewMetrics), args.Error(1)
}

func (m *MockMetricsService) ResolutionTime(ctx context.Context, query ports.MetricsQuery) ([]domain.ResolutionTimeBucket, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResolutionTimeBucket), args.Error(1)
}

func (m *MockMetricsService) TeamPerformance(ctx context.Context, query ports.MetricsQuery) ([]domain.TeamMemberPerformance, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TeamMemberPerformance), args.Error(1)
}

func (m *MockMetricsService) IssueTrends(ctx context.Context, query ports.MetricsQuery) ([]domain.IssueTrendBucket, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IssueTrendBucket), args.Error(1)
}

func (m *MockMetricsService) StatusDistribution(ctx context.Context, libraryID uuid.UUID) ([]domain.StatusCount, error) {
	args := m.Called(ctx, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *MockMetricsService) PriorityBreakdown(ctx context.Context, libraryID uuid.UUID) ([]domain.PriorityCount, error) {
	args := m.Called(ctx, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriorityCount), args.Error(1)
}

func (m *MockMetricsService) CollectionStats(ctx context.Context, query ports.MetricsQuery) ([]domain.CollectionStats, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CollectionStats), args.Error(1)
}

func (m *MockMetricsService) WorkloadBalance(ctx context.Context, libraryID uuid.UUID) ([]domain.WorkloadBalance, error) {
	args := m.Called(ctx, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkloadBalance), args.Error(1)
}
