package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfdesk/metrics-backend/internal/core/domain"
	apperrors "github.com/shelfdesk/metrics-backend/internal/core/errors"
	"github.com/shelfdesk/metrics-backend/internal/core/mocks"
	"github.com/shelfdesk/metrics-backend/internal/core/ports"
	"github.com/shelfdesk/metrics-backend/internal/core/services"
)

func TestMetricsService_Overview(t *testing.T) {
	ctx := context.Background()
	libraryID := uuid.New()

	t.Run("success with explicit window", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

		expected := &domain.OverviewMetrics{
			TotalIssues:        10,
			OpenIssues:         4,
			ResolvedThisPeriod: 6,
		}

		mockRepo.On("Overview", ctx, mock.MatchedBy(func(w domain.MetricsWindow) bool {
			return w.LibraryID == libraryID && w.Start.Equal(start) && w.End.Equal(end)
		})).Return(expected, nil)

		overview, err := svc.Overview(ctx, ports.MetricsQuery{
			LibraryID: libraryID,
			Start:     &start,
			End:       &end,
		})

		require.NoError(t, err)
		assert.Equal(t, expected, overview)
		mockRepo.AssertExpectations(t)
	})

	t.Run("defaults window to trailing 30 days", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		mockRepo.On("Overview", ctx, mock.MatchedBy(func(w domain.MetricsWindow) bool {
			span := w.End.Sub(w.Start)
			return w.LibraryID == libraryID && span == 30*24*time.Hour
		})).Return(&domain.OverviewMetrics{}, nil)

		_, err := svc.Overview(ctx, ports.MetricsQuery{LibraryID: libraryID})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing library id", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		overview, err := svc.Overview(ctx, ports.MetricsQuery{})

		assert.Nil(t, overview)
		assert.ErrorIs(t, err, apperrors.ErrLibraryRequired)
		mockRepo.AssertNotCalled(t, "Overview")
	})

	t.Run("inverted date range", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.Overview(ctx, ports.MetricsQuery{
			LibraryID: libraryID,
			Start:     &start,
			End:       &end,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
		mockRepo.AssertNotCalled(t, "Overview")
	})
}

func TestMetricsService_ResolutionTime(t *testing.T) {
	ctx := context.Background()
	libraryID := uuid.New()

	t.Run("empty groupBy defaults to day", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		mockRepo.On("ResolutionTime", ctx, mock.MatchedBy(func(p ports.ResolutionTimeParams) bool {
			return p.GroupBy == domain.GroupByDay
		})).Return([]domain.ResolutionTimeBucket{}, nil)

		_, err := svc.ResolutionTime(ctx, ports.MetricsQuery{LibraryID: libraryID})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("malformed groupBy fails closed", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		buckets, err := svc.ResolutionTime(ctx, ports.MetricsQuery{
			LibraryID: libraryID,
			GroupBy:   "fortnight",
		})

		assert.Nil(t, buckets)
		assert.ErrorIs(t, err, apperrors.ErrInvalidGroupBy)
		mockRepo.AssertNotCalled(t, "ResolutionTime")
	})

	t.Run("filters pass through", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		priority := "urgent"
		assignee := uuid.New()

		mockRepo.On("ResolutionTime", ctx, mock.MatchedBy(func(p ports.ResolutionTimeParams) bool {
			return p.Priority != nil && *p.Priority == domain.PriorityUrgent &&
				p.AssignedTo != nil && *p.AssignedTo == assignee &&
				p.GroupBy == domain.GroupByWeek
		})).Return([]domain.ResolutionTimeBucket{}, nil)

		_, err := svc.ResolutionTime(ctx, ports.MetricsQuery{
			LibraryID:  libraryID,
			GroupBy:    "week",
			Priority:   &priority,
			AssignedTo: &assignee,
		})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestMetricsService_IssueTrends(t *testing.T) {
	ctx := context.Background()
	libraryID := uuid.New()

	t.Run("malformed groupBy fails closed", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		_, err := svc.IssueTrends(ctx, ports.MetricsQuery{
			LibraryID: libraryID,
			GroupBy:   "quarterly",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidGroupBy)
		mockRepo.AssertNotCalled(t, "IssueTrends")
	})

	t.Run("delegates with month grouping", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		expected := []domain.IssueTrendBucket{
			{Created: 5, Resolved: 3, NetChange: 2},
		}

		mockRepo.On("IssueTrends", ctx, mock.MatchedBy(func(p ports.IssueTrendsParams) bool {
			return p.GroupBy == domain.GroupByMonth
		})).Return(expected, nil)

		buckets, err := svc.IssueTrends(ctx, ports.MetricsQuery{
			LibraryID: libraryID,
			GroupBy:   "month",
		})

		require.NoError(t, err)
		assert.Equal(t, expected, buckets)
	})
}

func TestMetricsService_SnapshotOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("status distribution requires library id", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		_, err := svc.StatusDistribution(ctx, uuid.Nil)
		assert.ErrorIs(t, err, apperrors.ErrLibraryRequired)
	})

	t.Run("priority breakdown requires library id", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		_, err := svc.PriorityBreakdown(ctx, uuid.Nil)
		assert.ErrorIs(t, err, apperrors.ErrLibraryRequired)
	})

	t.Run("workload balance requires library id", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)

		_, err := svc.WorkloadBalance(ctx, uuid.Nil)
		assert.ErrorIs(t, err, apperrors.ErrLibraryRequired)
	})

	t.Run("data access errors propagate unchanged", func(t *testing.T) {
		mockRepo := mocks.NewMockMetricsRepository()
		svc := services.NewMetricsService(mockRepo)
		libraryID := uuid.New()

		dataErr := apperrors.NewDataAccessError("workload_balance", assert.AnError)
		mockRepo.On("WorkloadBalance", ctx, libraryID).Return(nil, dataErr)

		items, err := svc.WorkloadBalance(ctx, libraryID)

		assert.Nil(t, items)
		assert.Equal(t, dataErr, err)
	})
}
