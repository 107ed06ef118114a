package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfdesk/metrics-backend/internal/core/domain"
	apperrors "github.com/shelfdesk/metrics-backend/internal/core/errors"
	"github.com/shelfdesk/metrics-backend/internal/core/ports"
)

// MetricsRepository is the secondary adapter for the aggregation queries.
// Every query is scoped to one library_id; nothing here mutates state.
type MetricsRepository struct {
	pool *pgxpool.Pool
}

var _ ports.MetricsRepository = (*MetricsRepository)(nil)

func NewMetricsRepository(pool *pgxpool.Pool) ports.MetricsRepository {
	return &MetricsRepository{pool: pool}
}

// Overview returns the KPI summary. open_issues and active_users are live
// snapshots; resolved_this_period uses the window; avg_resolution_hours spans
// all resolved issues for the tenant (reference behavior, kept as-is).
func (r *MetricsRepository) Overview(ctx context.Context, window domain.MetricsWindow) (*domain.OverviewMetrics, error) {
	const query = `
WITH issue_stats AS (
  SELECT
    COUNT(*) AS total_issues,
    COUNT(*) FILTER (WHERE i.status IN ('open', 'in_progress')) AS open_issues,
    COUNT(*) FILTER (WHERE i.resolved_at >= $2 AND i.resolved_at <= $3) AS resolved_this_period,
    AVG(EXTRACT(EPOCH FROM (i.resolved_at - i.created_at)) / 3600)
      FILTER (WHERE i.resolved_at IS NOT NULL) AS avg_resolution_hours,
    AVG(EXTRACT(EPOCH FROM (
      (SELECT MIN(c.created_at) FROM issue_comments c WHERE c.issue_id = i.id) - i.created_at
    )) / 3600) AS avg_first_response_hours,
    COUNT(*) FILTER (
      WHERE i.resolved_at IS NOT NULL AND i.due_date IS NOT NULL AND i.resolved_at <= i.due_date
    )::FLOAT
      / NULLIF(COUNT(*) FILTER (WHERE i.resolved_at IS NOT NULL AND i.due_date IS NOT NULL), 0)
      * 100 AS sla_compliance_pct
  FROM issues i
  WHERE i.library_id = $1
),
user_stats AS (
  SELECT COUNT(*) FILTER (WHERE u.last_login >= NOW() - INTERVAL '7 days') AS active_users
  FROM users u
  WHERE u.library_id = $1 AND u.is_active = true
)
SELECT
  i.total_issues,
  i.open_issues,
  i.resolved_this_period,
  COALESCE(i.avg_resolution_hours, 0) AS avg_resolution_hours,
  COALESCE(i.avg_first_response_hours, 0) AS avg_first_response_hours,
  COALESCE(i.sla_compliance_pct, 0) AS sla_compliance_pct,
  u.active_users
FROM issue_stats i, user_stats u
`

	row := r.pool.QueryRow(ctx, query,
		libraryParam(window.LibraryID), window.Start, window.End)

	var overview domain.OverviewMetrics
	if err := row.Scan(
		&overview.TotalIssues,
		&overview.OpenIssues,
		&overview.ResolvedThisPeriod,
		&overview.AvgResolutionHours,
		&overview.AvgFirstResponseHours,
		&overview.SLACompliancePct,
		&overview.ActiveUsers,
	); err != nil {
		return nil, apperrors.NewDataAccessError("overview", err)
	}

	return &overview, nil
}

// ResolutionTime buckets resolved issues by creation time and computes the
// mean plus continuous (interpolated) median and p90 of resolution hours per
// bucket. The bucket unit is passed as a date_trunc argument; the service
// guarantees it is one of day/week/month before it gets here.
func (r *MetricsRepository) ResolutionTime(ctx context.Context, params ports.ResolutionTimeParams) ([]domain.ResolutionTimeBucket, error) {
	const query = `
SELECT
  DATE_TRUNC($4, i.created_at) AS period,
  COUNT(*) AS issue_count,
  AVG(EXTRACT(EPOCH FROM (i.resolved_at - i.created_at)) / 3600) AS avg_resolution_hours,
  PERCENTILE_CONT(0.5) WITHIN GROUP (
    ORDER BY EXTRACT(EPOCH FROM (i.resolved_at - i.created_at)) / 3600
  ) AS median_resolution_hours,
  PERCENTILE_CONT(0.90) WITHIN GROUP (
    ORDER BY EXTRACT(EPOCH FROM (i.resolved_at - i.created_at)) / 3600
  ) AS p90_resolution_hours
FROM issues i
WHERE i.library_id = $1
  AND i.created_at >= $2 AND i.created_at <= $3
  AND i.resolved_at IS NOT NULL
  AND ($5::TEXT IS NULL OR i.priority = $5)
  AND ($6::UUID IS NULL OR i.assigned_to = $6)
GROUP BY 1
ORDER BY 1
`

	var priority pgtype.Text
	if params.Priority != nil {
		priority = pgtype.Text{String: params.Priority.String(), Valid: true}
	}
	var assignedTo pgtype.UUID
	if params.AssignedTo != nil {
		assignedTo = pgtype.UUID{Bytes: *params.AssignedTo, Valid: true}
	}

	rows, err := r.pool.Query(ctx, query,
		libraryParam(params.Window.LibraryID),
		params.Window.Start, params.Window.End,
		params.GroupBy.String(), priority, assignedTo)
	if err != nil {
		return nil, apperrors.NewDataAccessError("resolution_time", err)
	}
	defer rows.Close()

	buckets := make([]domain.ResolutionTimeBucket, 0)
	for rows.Next() {
		var b domain.ResolutionTimeBucket
		if err := rows.Scan(
			&b.Period,
			&b.IssueCount,
			&b.AvgResolutionHours,
			&b.MedianResolutionHours,
			&b.P90ResolutionHours,
		); err != nil {
			return nil, apperrors.NewDataAccessError("resolution_time", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDataAccessError("resolution_time", err)
	}

	return buckets, nil
}

// TeamPerformance returns one row per active staff/admin/manager user.
// Assigned/resolved/open counts and comments are window-scoped by creation
// time; overdue_issues is a live count and deliberately ignores the window.
func (r *MetricsRepository) TeamPerformance(ctx context.Context, window domain.MetricsWindow) ([]domain.TeamMemberPerformance, error) {
	const query = `
WITH members AS (
  SELECT u.id, u.first_name || ' ' || u.last_name AS user_name, u.role
  FROM users u
  WHERE u.library_id = $1
    AND u.role IN ('staff', 'admin', 'manager')
    AND u.is_active = true
),
window_issues AS (
  SELECT
    i.assigned_to AS user_id,
    COUNT(*) AS assigned_issues,
    COUNT(*) FILTER (WHERE i.status IN ('resolved', 'closed')) AS resolved_issues,
    COUNT(*) FILTER (WHERE i.status IN ('open', 'in_progress')) AS open_issues,
    AVG(EXTRACT(EPOCH FROM (i.resolved_at - i.created_at)) / 3600)
      FILTER (WHERE i.resolved_at IS NOT NULL) AS avg_resolution_hours,
    MAX(i.updated_at) AS last_activity
  FROM issues i
  WHERE i.library_id = $1
    AND i.assigned_to IS NOT NULL
    AND i.created_at >= $2 AND i.created_at <= $3
  GROUP BY i.assigned_to
),
overdue AS (
  SELECT i.assigned_to AS user_id, COUNT(*) AS overdue_issues
  FROM issues i
  WHERE i.library_id = $1
    AND i.assigned_to IS NOT NULL
    AND i.due_date < NOW()
    AND i.status NOT IN ('resolved', 'closed')
  GROUP BY i.assigned_to
),
comments AS (
  SELECT c.user_id, COUNT(*) AS comments_posted
  FROM issue_comments c
  JOIN issues i ON i.id = c.issue_id
  WHERE i.library_id = $1
    AND c.created_at >= $2 AND c.created_at <= $3
  GROUP BY c.user_id
)
SELECT
  m.id,
  m.user_name,
  m.role,
  COALESCE(w.assigned_issues, 0),
  COALESCE(w.resolved_issues, 0),
  COALESCE(w.open_issues, 0),
  COALESCE(o.overdue_issues, 0),
  COALESCE(w.avg_resolution_hours, 0),
  COALESCE(c.comments_posted, 0),
  w.last_activity
FROM members m
LEFT JOIN window_issues w ON w.user_id = m.id
LEFT JOIN overdue o ON o.user_id = m.id
LEFT JOIN comments c ON c.user_id = m.id
ORDER BY COALESCE(w.assigned_issues, 0) DESC, m.user_name
`

	rows, err := r.pool.Query(ctx, query,
		libraryParam(window.LibraryID), window.Start, window.End)
	if err != nil {
		return nil, apperrors.NewDataAccessError("team_performance", err)
	}
	defer rows.Close()

	members := make([]domain.TeamMemberPerformance, 0)
	for rows.Next() {
		var (
			m            domain.TeamMemberPerformance
			userID       pgtype.UUID
			role         string
			lastActivity pgtype.Timestamptz
		)
		if err := rows.Scan(
			&userID,
			&m.UserName,
			&role,
			&m.AssignedIssues,
			&m.ResolvedIssues,
			&m.OpenIssues,
			&m.OverdueIssues,
			&m.AvgResolutionHours,
			&m.CommentsPosted,
			&lastActivity,
		); err != nil {
			return nil, apperrors.NewDataAccessError("team_performance", err)
		}
		m.UserID = userID.Bytes
		m.Role = domain.UserRole(role)
		m.LastActivity = timeOrNil(lastActivity)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDataAccessError("team_performance", err)
	}

	return members, nil
}

// IssueTrends counts created and resolved issues per bucket. Both counts key
// off creation time: resolved means "created in this bucket and resolved
// since", matching the reference grouping.
func (r *MetricsRepository) IssueTrends(ctx context.Context, params ports.IssueTrendsParams) ([]domain.IssueTrendBucket, error) {
	const query = `
SELECT
  DATE_TRUNC($4, i.created_at) AS period,
  COUNT(*) AS created,
  COUNT(*) FILTER (WHERE i.resolved_at IS NOT NULL) AS resolved
FROM issues i
WHERE i.library_id = $1
  AND i.created_at >= $2 AND i.created_at <= $3
GROUP BY 1
ORDER BY 1
`

	rows, err := r.pool.Query(ctx, query,
		libraryParam(params.Window.LibraryID),
		params.Window.Start, params.Window.End,
		params.GroupBy.String())
	if err != nil {
		return nil, apperrors.NewDataAccessError("issue_trends", err)
	}
	defer rows.Close()

	buckets := make([]domain.IssueTrendBucket, 0)
	for rows.Next() {
		var b domain.IssueTrendBucket
		if err := rows.Scan(&b.Period, &b.Created, &b.Resolved); err != nil {
			return nil, apperrors.NewDataAccessError("issue_trends", err)
		}
		b.NetChange = b.Created - b.Resolved
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDataAccessError("issue_trends", err)
	}

	return buckets, nil
}

// StatusDistribution returns one row per distinct status in pipeline order
// (open, in_progress, resolved, closed, anything else alphabetically last).
func (r *MetricsRepository) StatusDistribution(ctx context.Context, libraryID uuid.UUID) ([]domain.StatusCount, error) {
	const query = `
SELECT
  i.status,
  COUNT(*) AS count,
  AVG(EXTRACT(EPOCH FROM (NOW() - i.created_at)) / 86400) AS avg_age_days,
  MIN(i.created_at) AS oldest_issue_date,
  MAX(i.updated_at) AS most_recent_update
FROM issues i
WHERE i.library_id = $1
GROUP BY i.status
ORDER BY
  CASE i.status
    WHEN 'open' THEN 1
    WHEN 'in_progress' THEN 2
    WHEN 'resolved' THEN 3
    WHEN 'closed' THEN 4
    ELSE 5
  END,
  i.status
`

	rows, err := r.pool.Query(ctx, query, libraryParam(libraryID))
	if err != nil {
		return nil, apperrors.NewDataAccessError("status_distribution", err)
	}
	defer rows.Close()

	counts := make([]domain.StatusCount, 0)
	for rows.Next() {
		var (
			c          domain.StatusCount
			status     string
			oldest     pgtype.Timestamptz
			mostRecent pgtype.Timestamptz
		)
		if err := rows.Scan(&status, &c.Count, &c.AvgAgeDays, &oldest, &mostRecent); err != nil {
			return nil, apperrors.NewDataAccessError("status_distribution", err)
		}
		c.Status = domain.IssueStatus(status)
		c.OldestIssueDate = timeOrNil(oldest)
		c.MostRecentUpdate = timeOrNil(mostRecent)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDataAccessError("status_distribution", err)
	}

	return counts, nil
}

// PriorityBreakdown returns one row per priority in urgency order, merging
// resolved and closed into one resolved column.
func (r *MetricsRepository) PriorityBreakdown(ctx context.Context, libraryID uuid.UUID) ([]domain.PriorityCount, error) {
	const query = `
SELECT
  i.priority,
  COUNT(*) FILTER (WHERE i.status = 'open') AS open,
  COUNT(*) FILTER (WHERE i.status = 'in_progress') AS in_progress,
  COUNT(*) FILTER (WHERE i.status IN ('resolved', 'closed')) AS resolved,
  COUNT(*) AS total,
  COALESCE(AVG(EXTRACT(EPOCH FROM (i.resolved_at - i.created_at)) / 3600)
    FILTER (WHERE i.resolved_at IS NOT NULL), 0) AS avg_resolution_hours
FROM issues i
WHERE i.library_id = $1
GROUP BY i.priority
ORDER BY
  CASE i.priority
    WHEN 'urgent' THEN 1
    WHEN 'high' THEN 2
    WHEN 'medium' THEN 3
    WHEN 'low' THEN 4
    ELSE 5
  END,
  i.priority
`

	rows, err := r.pool.Query(ctx, query, libraryParam(libraryID))
	if err != nil {
		return nil, apperrors.NewDataAccessError("priority_breakdown", err)
	}
	defer rows.Close()

	counts := make([]domain.PriorityCount, 0)
	for rows.Next() {
		var (
			c        domain.PriorityCount
			priority string
		)
		if err := rows.Scan(
			&priority,
			&c.Open,
			&c.InProgress,
			&c.Resolved,
			&c.Total,
			&c.AvgResolutionHours,
		); err != nil {
			return nil, apperrors.NewDataAccessError("priority_breakdown", err)
		}
		c.Priority = domain.IssuePriority(priority)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDataAccessError("priority_breakdown", err)
	}

	return counts, nil
}

// CollectionStats returns one row per active collection, counting only
// issues created inside the window. Collections without matching issues
// still appear with zero counts; avg_resolution_hours serializes as 0 when
// nothing resolved (documented API choice).
func (r *MetricsRepository) CollectionStats(ctx context.Context, window domain.MetricsWindow) ([]domain.CollectionStats, error) {
	const query = `
SELECT
  c.id AS collection_id,
  c.name,
  c.colour,
  COUNT(i.id) AS issue_count,
  COUNT(i.id) FILTER (WHERE i.status IN ('resolved', 'closed')) AS resolved_count,
  COUNT(i.id) FILTER (WHERE i.status IN ('open', 'in_progress')) AS open_issues,
  COALESCE(AVG(EXTRACT(EPOCH FROM (i.resolved_at - i.created_at)) / 3600)
    FILTER (WHERE i.resolved_at IS NOT NULL), 0) AS avg_resolution_hours,
  MAX(i.created_at) AS most_recent_issue
FROM collections c
LEFT JOIN issues i ON i.collection_id = c.id
  AND i.created_at >= $2 AND i.created_at <= $3
WHERE c.library_id = $1
  AND c.is_active = true
GROUP BY c.id, c.name, c.colour
ORDER BY issue_count DESC, c.name
`

	rows, err := r.pool.Query(ctx, query,
		libraryParam(window.LibraryID), window.Start, window.End)
	if err != nil {
		return nil, apperrors.NewDataAccessError("collection_stats", err)
	}
	defer rows.Close()

	stats := make([]domain.CollectionStats, 0)
	for rows.Next() {
		var (
			s            domain.CollectionStats
			collectionID pgtype.UUID
			mostRecent   pgtype.Timestamptz
		)
		if err := rows.Scan(
			&collectionID,
			&s.Name,
			&s.Color,
			&s.IssueCount,
			&s.ResolvedCount,
			&s.OpenIssues,
			&s.AvgResolutionHours,
			&mostRecent,
		); err != nil {
			return nil, apperrors.NewDataAccessError("collection_stats", err)
		}
		s.CollectionID = collectionID.Bytes
		s.MostRecentIssue = timeOrNil(mostRecent)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDataAccessError("collection_stats", err)
	}

	return stats, nil
}

// WorkloadBalance returns one live row per active team member. The SQL
// produces the raw counts; the team average and the balance classification
// come from domain.ClassifyWorkload so the rule lives in one place.
func (r *MetricsRepository) WorkloadBalance(ctx context.Context, libraryID uuid.UUID) ([]domain.WorkloadBalance, error) {
	const query = `
SELECT
  u.id AS user_id,
  u.first_name || ' ' || u.last_name AS user_name,
  COUNT(i.id) FILTER (WHERE i.status IN ('open', 'in_progress')) AS current_workload,
  COUNT(i.id) FILTER (WHERE i.status = 'open') AS open_count,
  COUNT(i.id) FILTER (WHERE i.status = 'in_progress') AS in_progress_count,
  COUNT(i.id) FILTER (WHERE i.priority = 'urgent') AS urgent_count,
  COUNT(i.id) FILTER (
    WHERE i.due_date < NOW() AND i.status NOT IN ('resolved', 'closed')
  ) AS overdue_count
FROM users u
LEFT JOIN issues i ON i.assigned_to = u.id AND i.library_id = $1
WHERE u.library_id = $1
  AND u.role IN ('staff', 'admin', 'manager')
  AND u.is_active = true
GROUP BY u.id, u.first_name, u.last_name
ORDER BY current_workload DESC, user_name
`

	rows, err := r.pool.Query(ctx, query, libraryParam(libraryID))
	if err != nil {
		return nil, apperrors.NewDataAccessError("workload_balance", err)
	}
	defer rows.Close()

	items := make([]domain.WorkloadBalance, 0)
	for rows.Next() {
		var (
			w      domain.WorkloadBalance
			userID pgtype.UUID
		)
		if err := rows.Scan(
			&userID,
			&w.UserName,
			&w.CurrentWorkload,
			&w.OpenCount,
			&w.InProgressCount,
			&w.UrgentCount,
			&w.OverdueCount,
		); err != nil {
			return nil, apperrors.NewDataAccessError("workload_balance", err)
		}
		w.UserID = userID.Bytes
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDataAccessError("workload_balance", err)
	}

	var total int64
	for _, w := range items {
		total += w.CurrentWorkload
	}
	var avg float64
	if len(items) > 0 {
		avg = float64(total) / float64(len(items))
	}
	for i := range items {
		items[i].AvgWorkload = avg
		items[i].Status = domain.ClassifyWorkload(items[i].CurrentWorkload, avg)
	}

	return items, nil
}

func libraryParam(libraryID uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: libraryID, Valid: true}
}

func timeOrNil(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	value := ts.Time
	return &value
}
