package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shelfdesk/metrics-backend/internal/core/domain"
	apperrors "github.com/shelfdesk/metrics-backend/internal/core/errors"
	"github.com/shelfdesk/metrics-backend/internal/core/ports"
)

// MetricsService is the aggregation engine's core. It is stateless: each call
// validates its inputs, builds the tenant window and delegates to the
// repository. The HTTP layer already resolves the library from the session,
// but the engine re-validates defensively because it is the tenant-isolation
// boundary.
type MetricsService struct {
	repo ports.MetricsRepository
}

var _ ports.MetricsService = (*MetricsService)(nil)

func NewMetricsService(repo ports.MetricsRepository) ports.MetricsService {
	return &MetricsService{repo: repo}
}

func (s *MetricsService) Overview(ctx context.Context, query ports.MetricsQuery) (*domain.OverviewMetrics, error) {
	window, err := s.window(query)
	if err != nil {
		return nil, err
	}
	return s.repo.Overview(ctx, window)
}

func (s *MetricsService) ResolutionTime(ctx context.Context, query ports.MetricsQuery) ([]domain.ResolutionTimeBucket, error) {
	window, err := s.window(query)
	if err != nil {
		return nil, err
	}
	groupBy, err := parseGroupBy(query.GroupBy)
	if err != nil {
		return nil, err
	}

	params := ports.ResolutionTimeParams{
		Window:     window,
		GroupBy:    groupBy,
		AssignedTo: query.AssignedTo,
	}
	if query.Priority != nil {
		priority := domain.IssuePriority(*query.Priority)
		params.Priority = &priority
	}

	return s.repo.ResolutionTime(ctx, params)
}

func (s *MetricsService) TeamPerformance(ctx context.Context, query ports.MetricsQuery) ([]domain.TeamMemberPerformance, error) {
	window, err := s.window(query)
	if err != nil {
		return nil, err
	}
	return s.repo.TeamPerformance(ctx, window)
}

func (s *MetricsService) IssueTrends(ctx context.Context, query ports.MetricsQuery) ([]domain.IssueTrendBucket, error) {
	window, err := s.window(query)
	if err != nil {
		return nil, err
	}
	groupBy, err := parseGroupBy(query.GroupBy)
	if err != nil {
		return nil, err
	}

	return s.repo.IssueTrends(ctx, ports.IssueTrendsParams{Window: window, GroupBy: groupBy})
}

func (s *MetricsService) StatusDistribution(ctx context.Context, libraryID uuid.UUID) ([]domain.StatusCount, error) {
	if libraryID == uuid.Nil {
		return nil, apperrors.ErrLibraryRequired
	}
	return s.repo.StatusDistribution(ctx, libraryID)
}

func (s *MetricsService) PriorityBreakdown(ctx context.Context, libraryID uuid.UUID) ([]domain.PriorityCount, error) {
	if libraryID == uuid.Nil {
		return nil, apperrors.ErrLibraryRequired
	}
	return s.repo.PriorityBreakdown(ctx, libraryID)
}

func (s *MetricsService) CollectionStats(ctx context.Context, query ports.MetricsQuery) ([]domain.CollectionStats, error) {
	window, err := s.window(query)
	if err != nil {
		return nil, err
	}
	return s.repo.CollectionStats(ctx, window)
}

func (s *MetricsService) WorkloadBalance(ctx context.Context, libraryID uuid.UUID) ([]domain.WorkloadBalance, error) {
	if libraryID == uuid.Nil {
		return nil, apperrors.ErrLibraryRequired
	}
	return s.repo.WorkloadBalance(ctx, libraryID)
}

func (s *MetricsService) window(query ports.MetricsQuery) (domain.MetricsWindow, error) {
	return domain.NewMetricsWindow(query.LibraryID, query.Start, query.End, time.Now().UTC())
}

// parseGroupBy defaults an omitted value to day but fails closed on anything
// it does not recognize.
func parseGroupBy(value string) (domain.GroupBy, error) {
	if value == "" {
		return domain.GroupByDay, nil
	}
	groupBy := domain.GroupBy(value)
	if !groupBy.Valid() {
		return "", apperrors.ErrInvalidGroupBy
	}
	return groupBy, nil
}
