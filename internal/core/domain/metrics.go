package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/shelfdesk/metrics-backend/internal/core/errors"
)

// GroupBy is the time-bucketing granularity for trend queries.
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

func (g GroupBy) String() string { return string(g) }

// Valid reports whether the value is a known granularity. A malformed value
// must fail closed, never silently default.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByDay, GroupByWeek, GroupByMonth:
		return true
	}
	return false
}

// DefaultWindowDays is the trailing window applied when the caller omits
// bounds.
const DefaultWindowDays = 30

// MetricsWindow scopes a metrics query to one tenant and a time range.
// It is constructed per request and never persisted.
type MetricsWindow struct {
	LibraryID uuid.UUID
	Start     time.Time
	End       time.Time
}

// NewMetricsWindow builds a window, defaulting missing bounds to the trailing
// 30 days ending at now.
func NewMetricsWindow(libraryID uuid.UUID, start, end *time.Time, now time.Time) (MetricsWindow, error) {
	if libraryID == uuid.Nil {
		return MetricsWindow{}, apperrors.ErrLibraryRequired
	}

	w := MetricsWindow{
		LibraryID: libraryID,
		Start:     now.Add(-DefaultWindowDays * 24 * time.Hour),
		End:       now,
	}
	if start != nil {
		w.Start = *start
	}
	if end != nil {
		w.End = *end
	}

	if w.Start.After(w.End) {
		return MetricsWindow{}, apperrors.ErrInvalidDateRange
	}
	return w, nil
}

// OverviewMetrics is the KPI summary for a library. open_issues and
// active_users are live snapshots; resolved_this_period is window-scoped.
// avg_resolution_hours deliberately covers all resolved issues for the
// tenant, not just the window, mirroring the reference dashboard.
type OverviewMetrics struct {
	TotalIssues           int64
	OpenIssues            int64
	ResolvedThisPeriod    int64
	AvgResolutionHours    float64
	AvgFirstResponseHours float64
	SLACompliancePct      float64
	ActiveUsers           int64
}

// ResolutionTimeBucket is one time bucket of resolution-time statistics.
// Percentiles are continuous (linear interpolation between ranked values).
type ResolutionTimeBucket struct {
	Period                time.Time
	IssueCount            int64
	AvgResolutionHours    float64
	MedianResolutionHours float64
	P90ResolutionHours    float64
}

// TeamMemberPerformance is one active staff/admin/manager user's window
// activity. OverdueIssues ignores the window: it is a live count of assigned,
// non-terminal issues past their due date.
type TeamMemberPerformance struct {
	UserID             uuid.UUID
	UserName           string
	Role               UserRole
	AssignedIssues     int64
	ResolvedIssues     int64
	OpenIssues         int64
	OverdueIssues      int64
	AvgResolutionHours float64
	CommentsPosted     int64
	LastActivity       *time.Time
}

// IssueTrendBucket counts issue creation and resolution per bucket. Both
// counts are bucketed by creation time, so Resolved means "issues created in
// this bucket that have since been resolved" - the reference grouping key,
// preserved on purpose.
type IssueTrendBucket struct {
	Period    time.Time
	Created   int64
	Resolved  int64
	NetChange int64
}

// StatusCount is one row of the status distribution.
type StatusCount struct {
	Status           IssueStatus
	Count            int64
	AvgAgeDays       float64
	OldestIssueDate  *time.Time
	MostRecentUpdate *time.Time
}

// PriorityCount is one row of the priority breakdown. Resolved merges the
// resolved and closed statuses.
type PriorityCount struct {
	Priority           IssuePriority
	Open               int64
	InProgress         int64
	Resolved           int64
	Total              int64
	AvgResolutionHours float64
}

// CollectionStats is one active collection's window activity. Collections
// with no matching issues still appear with zero counts; AvgResolutionHours
// is 0 (not null) when nothing resolved.
type CollectionStats struct {
	CollectionID       uuid.UUID
	Name               string
	Color              string
	IssueCount         int64
	ResolvedCount      int64
	OpenIssues         int64
	AvgResolutionHours float64
	MostRecentIssue    *time.Time
}

// WorkloadStatus classifies a team member's load against the team average.
type WorkloadStatus string

const (
	WorkloadOverloaded    WorkloadStatus = "overloaded"
	WorkloadUnderutilized WorkloadStatus = "underutilized"
	WorkloadBalanced      WorkloadStatus = "balanced"
)

// ClassifyWorkload applies the balance rule: overloaded above 1.5x the team
// average, underutilized below 0.5x, balanced otherwise. When the average is
// 0 every workload is also 0, so every row is balanced.
func ClassifyWorkload(currentWorkload int64, avgWorkload float64) WorkloadStatus {
	load := float64(currentWorkload)
	switch {
	case load > avgWorkload*1.5 && avgWorkload > 0:
		return WorkloadOverloaded
	case load < avgWorkload*0.5:
		return WorkloadUnderutilized
	default:
		return WorkloadBalanced
	}
}

// WorkloadBalance is one team member's live workload snapshot. None of its
// fields are window-scoped.
type WorkloadBalance struct {
	UserID          uuid.UUID
	UserName        string
	CurrentWorkload int64
	OpenCount       int64
	InProgressCount int64
	UrgentCount     int64
	OverdueCount    int64
	AvgWorkload     float64
	Status          WorkloadStatus
}
