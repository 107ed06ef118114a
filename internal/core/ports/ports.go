package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shelfdesk/metrics-backend/internal/core/domain"
)

// ResolutionTimeParams narrows the resolution-time query. Priority and
// AssignedTo are optional equality filters applied before bucketing.
type ResolutionTimeParams struct {
	Window     domain.MetricsWindow
	GroupBy    domain.GroupBy
	Priority   *domain.IssuePriority
	AssignedTo *uuid.UUID
}

// IssueTrendsParams scopes the creation/resolution trend query.
type IssueTrendsParams struct {
	Window  domain.MetricsWindow
	GroupBy domain.GroupBy
}

// MetricsRepository is the secondary port for the aggregation queries. Every
// method is read-only and tenant-scoped; failures come back wrapped as
// *errors.DataAccessError.
type MetricsRepository interface {
	Overview(ctx context.Context, window domain.MetricsWindow) (*domain.OverviewMetrics, error)
	ResolutionTime(ctx context.Context, params ResolutionTimeParams) ([]domain.ResolutionTimeBucket, error)
	TeamPerformance(ctx context.Context, window domain.MetricsWindow) ([]domain.TeamMemberPerformance, error)
	IssueTrends(ctx context.Context, params IssueTrendsParams) ([]domain.IssueTrendBucket, error)
	StatusDistribution(ctx context.Context, libraryID uuid.UUID) ([]domain.StatusCount, error)
	PriorityBreakdown(ctx context.Context, libraryID uuid.UUID) ([]domain.PriorityCount, error)
	CollectionStats(ctx context.Context, window domain.MetricsWindow) ([]domain.CollectionStats, error)
	WorkloadBalance(ctx context.Context, libraryID uuid.UUID) ([]domain.WorkloadBalance, error)
}

// MetricsQuery is the caller-facing input for window-scoped operations.
// Start/End default to the trailing 30 days when nil; GroupBy defaults to day
// when empty, but a malformed value fails closed.
type MetricsQuery struct {
	LibraryID  uuid.UUID
	Start      *time.Time
	End        *time.Time
	GroupBy    string
	Priority   *string
	AssignedTo *uuid.UUID
}

// MetricsService is the primary port for the aggregation engine. It
// re-validates the tenant id defensively even though the HTTP layer resolves
// it from the session, because the engine is the tenant-isolation boundary.
type MetricsService interface {
	Overview(ctx context.Context, query MetricsQuery) (*domain.OverviewMetrics, error)
	ResolutionTime(ctx context.Context, query MetricsQuery) ([]domain.ResolutionTimeBucket, error)
	TeamPerformance(ctx context.Context, query MetricsQuery) ([]domain.TeamMemberPerformance, error)
	IssueTrends(ctx context.Context, query MetricsQuery) ([]domain.IssueTrendBucket, error)
	StatusDistribution(ctx context.Context, libraryID uuid.UUID) ([]domain.StatusCount, error)
	PriorityBreakdown(ctx context.Context, libraryID uuid.UUID) ([]domain.PriorityCount, error)
	CollectionStats(ctx context.Context, query MetricsQuery) ([]domain.CollectionStats, error)
	WorkloadBalance(ctx context.Context, libraryID uuid.UUID) ([]domain.WorkloadBalance, error)
}
