package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfdesk/metrics-backend/internal/core/domain"
	"github.com/shelfdesk/metrics-backend/internal/core/ports"
)

// The repository has no write path, so test fixtures are seeded with raw SQL.

func createTestLibrary(t *testing.T, ctx context.Context) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := testPool.Exec(ctx,
		`INSERT INTO libraries (id, name) VALUES ($1, $2)`,
		id, "Library "+id.String()[:8])
	require.NoError(t, err)
	return id
}

type testUser struct {
	id        uuid.UUID
	libraryID uuid.UUID
	role      string
	lastLogin *time.Time
	isActive  bool
}

func createTestStaff(t *testing.T, ctx context.Context, libraryID uuid.UUID, firstName, lastName, role string) uuid.UUID {
	t.Helper()
	return insertUser(t, ctx, testUser{libraryID: libraryID, role: role, isActive: true}, firstName, lastName)
}

func insertUser(t *testing.T, ctx context.Context, u testUser, firstName, lastName string) uuid.UUID {
	t.Helper()
	if u.id == uuid.Nil {
		u.id = uuid.New()
	}
	_, err := testPool.Exec(ctx,
		`INSERT INTO users (id, library_id, email, password_hash, first_name, last_name, role, is_active, last_login)
		 VALUES ($1, $2, $3, 'x', $4, $5, $6, $7, $8)`,
		u.id, u.libraryID, uuid.NewString()+"@example.com", firstName, lastName, u.role, u.isActive, u.lastLogin)
	require.NoError(t, err)
	return u.id
}

func createTestCollection(t *testing.T, ctx context.Context, libraryID uuid.UUID, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := testPool.Exec(ctx,
		`INSERT INTO collections (id, library_id, name, colour) VALUES ($1, $2, $3, '#2563eb')`,
		id, libraryID, name)
	require.NoError(t, err)
	return id
}

type testIssue struct {
	libraryID    uuid.UUID
	collectionID *uuid.UUID
	assignedTo   *uuid.UUID
	status       string
	priority     string
	createdAt    time.Time
	resolvedAt   *time.Time
	dueDate      *time.Time
}

func insertIssue(t *testing.T, ctx context.Context, issue testIssue) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if issue.status == "" {
		issue.status = "open"
	}
	if issue.priority == "" {
		issue.priority = "medium"
	}
	_, err := testPool.Exec(ctx,
		`INSERT INTO issues (id, library_id, collection_id, assigned_to, title, status, priority, due_date, resolved_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 'Test issue', $5, $6, $7, $8, $9, $9)`,
		id, issue.libraryID, issue.collectionID, issue.assignedTo,
		issue.status, issue.priority, issue.dueDate, issue.resolvedAt, issue.createdAt)
	require.NoError(t, err)
	return id
}

func insertComment(t *testing.T, ctx context.Context, issueID, userID uuid.UUID, createdAt time.Time) {
	t.Helper()
	_, err := testPool.Exec(ctx,
		`INSERT INTO issue_comments (id, issue_id, user_id, body, created_at)
		 VALUES ($1, $2, $3, 'a comment', $4)`,
		uuid.New(), issueID, userID, createdAt)
	require.NoError(t, err)
}

func testWindow(libraryID uuid.UUID, start, end time.Time) domain.MetricsWindow {
	return domain.MetricsWindow{LibraryID: libraryID, Start: start, End: end}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestMetricsRepository_Overview(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	otherLibrary := createTestLibrary(t, ctx)

	now := time.Now().UTC().Truncate(time.Second)
	windowStart := now.Add(-30 * 24 * time.Hour)

	// Two open, one resolved inside the window after 10h, one resolved before
	// the window after 20h.
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "open", createdAt: now.Add(-48 * time.Hour)})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "in_progress", createdAt: now.Add(-24 * time.Hour)})
	insertIssue(t, ctx, testIssue{
		libraryID: libraryID, status: "resolved",
		createdAt:  now.Add(-20 * time.Hour),
		resolvedAt: timePtr(now.Add(-10 * time.Hour)),
	})
	insertIssue(t, ctx, testIssue{
		libraryID: libraryID, status: "closed",
		createdAt:  now.Add(-80 * 24 * time.Hour),
		resolvedAt: timePtr(now.Add(-80*24*time.Hour + 20*time.Hour)),
	})

	// Active and inactive users
	insertUser(t, ctx, testUser{libraryID: libraryID, role: "staff", isActive: true, lastLogin: timePtr(now.Add(-time.Hour))}, "Recent", "Login")
	insertUser(t, ctx, testUser{libraryID: libraryID, role: "staff", isActive: true, lastLogin: timePtr(now.Add(-30 * 24 * time.Hour))}, "Stale", "Login")

	// Noise in another tenant must not leak in
	insertIssue(t, ctx, testIssue{libraryID: otherLibrary, status: "open", createdAt: now.Add(-time.Hour)})

	overview, err := repo.Overview(ctx, testWindow(libraryID, windowStart, now))
	require.NoError(t, err)

	assert.Equal(t, int64(4), overview.TotalIssues)
	assert.Equal(t, int64(2), overview.OpenIssues)
	assert.Equal(t, int64(1), overview.ResolvedThisPeriod)
	// Both resolved issues count toward the average: (10 + 20) / 2
	assert.InDelta(t, 15.0, overview.AvgResolutionHours, 0.01)
	assert.Equal(t, int64(1), overview.ActiveUsers)
	// No issue has both resolved_at and due_date: 0, not NaN
	assert.Equal(t, 0.0, overview.SLACompliancePct)
	assert.Equal(t, 0.0, overview.AvgFirstResponseHours)
}

func TestMetricsRepository_Overview_SLACompliance(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	now := time.Now().UTC().Truncate(time.Second)

	// One resolved on time, one resolved late
	insertIssue(t, ctx, testIssue{
		libraryID: libraryID, status: "resolved",
		createdAt:  now.Add(-48 * time.Hour),
		dueDate:    timePtr(now.Add(-24 * time.Hour)),
		resolvedAt: timePtr(now.Add(-30 * time.Hour)),
	})
	insertIssue(t, ctx, testIssue{
		libraryID: libraryID, status: "resolved",
		createdAt:  now.Add(-48 * time.Hour),
		dueDate:    timePtr(now.Add(-24 * time.Hour)),
		resolvedAt: timePtr(now.Add(-1 * time.Hour)),
	})

	overview, err := repo.Overview(ctx, testWindow(libraryID, now.Add(-30*24*time.Hour), now))
	require.NoError(t, err)

	assert.InDelta(t, 50.0, overview.SLACompliancePct, 0.01)
}

func TestMetricsRepository_ResolutionTime(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	staffID := createTestStaff(t, ctx, libraryID, "Mira", "Chen", "staff")

	day1 := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 4, 9, 0, 0, 0, time.UTC)

	// Day one: resolved after 2h and 4h. Day two: resolved after 8h.
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "resolved", createdAt: day1, resolvedAt: timePtr(day1.Add(2 * time.Hour))})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "resolved", priority: "urgent", assignedTo: &staffID, createdAt: day1, resolvedAt: timePtr(day1.Add(4 * time.Hour))})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "resolved", createdAt: day2, resolvedAt: timePtr(day2.Add(8 * time.Hour))})
	// Unresolved issues are excluded
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "open", createdAt: day1})

	window := testWindow(libraryID, day1.Add(-time.Hour), day2.Add(24*time.Hour))

	t.Run("buckets by day in ascending order", func(t *testing.T) {
		buckets, err := repo.ResolutionTime(ctx, ports.ResolutionTimeParams{
			Window:  window,
			GroupBy: domain.GroupByDay,
		})
		require.NoError(t, err)
		require.Len(t, buckets, 2)

		assert.True(t, buckets[0].Period.Before(buckets[1].Period))
		assert.Equal(t, int64(2), buckets[0].IssueCount)
		assert.InDelta(t, 3.0, buckets[0].AvgResolutionHours, 0.01)
		assert.InDelta(t, 3.0, buckets[0].MedianResolutionHours, 0.01)
		// Continuous p90 interpolates between 2h and 4h
		assert.InDelta(t, 3.8, buckets[0].P90ResolutionHours, 0.01)

		assert.Equal(t, int64(1), buckets[1].IssueCount)
		assert.InDelta(t, 8.0, buckets[1].AvgResolutionHours, 0.01)
	})

	t.Run("priority and assignee filters", func(t *testing.T) {
		priority := domain.PriorityUrgent
		buckets, err := repo.ResolutionTime(ctx, ports.ResolutionTimeParams{
			Window:   window,
			GroupBy:  domain.GroupByDay,
			Priority: &priority,
		})
		require.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.Equal(t, int64(1), buckets[0].IssueCount)

		buckets, err = repo.ResolutionTime(ctx, ports.ResolutionTimeParams{
			Window:     window,
			GroupBy:    domain.GroupByDay,
			AssignedTo: &staffID,
		})
		require.NoError(t, err)
		require.Len(t, buckets, 1)
		assert.InDelta(t, 4.0, buckets[0].AvgResolutionHours, 0.01)
	})

	t.Run("empty window yields no buckets", func(t *testing.T) {
		buckets, err := repo.ResolutionTime(ctx, ports.ResolutionTimeParams{
			Window:  testWindow(libraryID, day1.Add(-48*time.Hour), day1.Add(-24*time.Hour)),
			GroupBy: domain.GroupByDay,
		})
		require.NoError(t, err)
		assert.Empty(t, buckets)
	})
}

func TestMetricsRepository_TeamPerformance(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	now := time.Now().UTC().Truncate(time.Second)
	windowStart := now.Add(-30 * 24 * time.Hour)

	busyID := createTestStaff(t, ctx, libraryID, "Ada", "Park", "staff")
	idleID := createTestStaff(t, ctx, libraryID, "Ben", "Okoro", "manager")
	// Patrons never appear, active or not
	insertUser(t, ctx, testUser{libraryID: libraryID, role: "patron", isActive: true}, "Pat", "Ron")
	// Inactive staff never appear
	insertUser(t, ctx, testUser{libraryID: libraryID, role: "staff", isActive: false}, "Gone", "Away")

	// Two window issues for the busy member, one resolved after 6h
	issueID := insertIssue(t, ctx, testIssue{
		libraryID: libraryID, assignedTo: &busyID, status: "resolved",
		createdAt: now.Add(-72 * time.Hour), resolvedAt: timePtr(now.Add(-66 * time.Hour)),
	})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, assignedTo: &busyID, status: "open", createdAt: now.Add(-24 * time.Hour)})
	// Overdue issue created OUTSIDE the window still counts as overdue
	insertIssue(t, ctx, testIssue{
		libraryID: libraryID, assignedTo: &busyID, status: "open",
		createdAt: now.Add(-90 * 24 * time.Hour), dueDate: timePtr(now.Add(-24 * time.Hour)),
	})

	// Comments: two in window, one before it
	insertComment(t, ctx, issueID, busyID, now.Add(-70*time.Hour))
	insertComment(t, ctx, issueID, busyID, now.Add(-69*time.Hour))
	insertComment(t, ctx, issueID, busyID, now.Add(-40*24*time.Hour))

	members, err := repo.TeamPerformance(ctx, testWindow(libraryID, windowStart, now))
	require.NoError(t, err)
	require.Len(t, members, 2)

	// Ordered by assigned count descending
	busy := members[0]
	assert.Equal(t, busyID, busy.UserID)
	assert.Equal(t, "Ada Park", busy.UserName)
	assert.Equal(t, domain.RoleStaff, busy.Role)
	assert.Equal(t, int64(2), busy.AssignedIssues)
	assert.Equal(t, int64(1), busy.ResolvedIssues)
	assert.Equal(t, int64(1), busy.OpenIssues)
	assert.Equal(t, int64(1), busy.OverdueIssues)
	assert.InDelta(t, 6.0, busy.AvgResolutionHours, 0.01)
	assert.Equal(t, int64(2), busy.CommentsPosted)
	require.NotNil(t, busy.LastActivity)

	// Idle member appears with zero counts, not a missing row
	idle := members[1]
	assert.Equal(t, idleID, idle.UserID)
	assert.Equal(t, int64(0), idle.AssignedIssues)
	assert.Equal(t, int64(0), idle.CommentsPosted)
	assert.Nil(t, idle.LastActivity)
}

func TestMetricsRepository_IssueTrends(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	day1 := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 11, 8, 0, 0, 0, time.UTC)

	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "resolved", createdAt: day1, resolvedAt: timePtr(day1.Add(time.Hour))})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "open", createdAt: day1})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "open", createdAt: day1})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "open", createdAt: day2})

	buckets, err := repo.IssueTrends(ctx, ports.IssueTrendsParams{
		Window:  testWindow(libraryID, day1.Add(-time.Hour), day2.Add(24*time.Hour)),
		GroupBy: domain.GroupByDay,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.True(t, buckets[0].Period.Before(buckets[1].Period))
	assert.Equal(t, int64(3), buckets[0].Created)
	assert.Equal(t, int64(1), buckets[0].Resolved)
	assert.Equal(t, int64(2), buckets[0].NetChange)

	assert.Equal(t, int64(1), buckets[1].Created)
	assert.Equal(t, int64(0), buckets[1].Resolved)
	assert.Equal(t, int64(1), buckets[1].NetChange)
}

func TestMetricsRepository_StatusDistribution(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	now := time.Now().UTC().Truncate(time.Second)

	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "closed", createdAt: now.Add(-96 * time.Hour), resolvedAt: timePtr(now.Add(-90 * time.Hour))})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "open", createdAt: now.Add(-48 * time.Hour)})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "open", createdAt: now.Add(-24 * time.Hour)})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, status: "in_progress", createdAt: now.Add(-12 * time.Hour)})

	counts, err := repo.StatusDistribution(ctx, libraryID)
	require.NoError(t, err)
	require.Len(t, counts, 3)

	// Pipeline order, absent statuses omitted
	assert.Equal(t, domain.StatusOpen, counts[0].Status)
	assert.Equal(t, domain.StatusInProgress, counts[1].Status)
	assert.Equal(t, domain.StatusClosed, counts[2].Status)

	assert.Equal(t, int64(2), counts[0].Count)
	assert.InDelta(t, 1.5, counts[0].AvgAgeDays, 0.1)
	require.NotNil(t, counts[0].OldestIssueDate)
	assert.WithinDuration(t, now.Add(-48*time.Hour), *counts[0].OldestIssueDate, time.Second)

	// Counts sum to the total issue count
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	assert.Equal(t, int64(4), total)
}

func TestMetricsRepository_PriorityBreakdown(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	now := time.Now().UTC().Truncate(time.Second)

	insertIssue(t, ctx, testIssue{libraryID: libraryID, priority: "low", status: "open", createdAt: now.Add(-2 * time.Hour)})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, priority: "urgent", status: "resolved", createdAt: now.Add(-10 * time.Hour), resolvedAt: timePtr(now.Add(-6 * time.Hour))})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, priority: "urgent", status: "closed", createdAt: now.Add(-10 * time.Hour), resolvedAt: timePtr(now.Add(-2 * time.Hour))})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, priority: "urgent", status: "in_progress", createdAt: now.Add(-1 * time.Hour)})

	counts, err := repo.PriorityBreakdown(ctx, libraryID)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	// Urgency order
	urgent := counts[0]
	assert.Equal(t, domain.PriorityUrgent, urgent.Priority)
	assert.Equal(t, int64(0), urgent.Open)
	assert.Equal(t, int64(1), urgent.InProgress)
	// resolved and closed merge
	assert.Equal(t, int64(2), urgent.Resolved)
	assert.Equal(t, int64(3), urgent.Total)
	assert.InDelta(t, 6.0, urgent.AvgResolutionHours, 0.01)

	low := counts[1]
	assert.Equal(t, domain.PriorityLow, low.Priority)
	assert.Equal(t, int64(1), low.Open)
	assert.Equal(t, 0.0, low.AvgResolutionHours)
}

func TestMetricsRepository_CollectionStats(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	now := time.Now().UTC().Truncate(time.Second)
	windowStart := now.Add(-30 * 24 * time.Hour)

	busyColl := createTestCollection(t, ctx, libraryID, "Periodicals")
	quietColl := createTestCollection(t, ctx, libraryID, "Archives")

	insertIssue(t, ctx, testIssue{
		libraryID: libraryID, collectionID: &busyColl, status: "resolved",
		createdAt: now.Add(-50 * time.Hour), resolvedAt: timePtr(now.Add(-45 * time.Hour)),
	})
	insertIssue(t, ctx, testIssue{libraryID: libraryID, collectionID: &busyColl, status: "open", createdAt: now.Add(-20 * time.Hour)})
	// Outside the window: invisible to the counts
	insertIssue(t, ctx, testIssue{libraryID: libraryID, collectionID: &busyColl, status: "open", createdAt: now.Add(-60 * 24 * time.Hour)})

	stats, err := repo.CollectionStats(ctx, testWindow(libraryID, windowStart, now))
	require.NoError(t, err)
	require.Len(t, stats, 2)

	busy := stats[0]
	assert.Equal(t, busyColl, busy.CollectionID)
	assert.Equal(t, "Periodicals", busy.Name)
	assert.Equal(t, "#2563eb", busy.Color)
	assert.Equal(t, int64(2), busy.IssueCount)
	assert.Equal(t, int64(1), busy.ResolvedCount)
	assert.Equal(t, int64(1), busy.OpenIssues)
	assert.InDelta(t, 5.0, busy.AvgResolutionHours, 0.01)
	require.NotNil(t, busy.MostRecentIssue)

	// Zero-activity collection still gets a row with zero counts
	quiet := stats[1]
	assert.Equal(t, quietColl, quiet.CollectionID)
	assert.Equal(t, int64(0), quiet.IssueCount)
	assert.Equal(t, 0.0, quiet.AvgResolutionHours)
	assert.Nil(t, quiet.MostRecentIssue)
}

func TestMetricsRepository_WorkloadBalance(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	now := time.Now().UTC().Truncate(time.Second)

	heavyID := createTestStaff(t, ctx, libraryID, "Cara", "Diaz", "staff")
	lightID := createTestStaff(t, ctx, libraryID, "Dan", "Eze", "staff")

	// Heavy: 4 live issues including an urgent and an overdue one
	for i := 0; i < 3; i++ {
		insertIssue(t, ctx, testIssue{libraryID: libraryID, assignedTo: &heavyID, status: "open", createdAt: now.Add(-time.Hour)})
	}
	insertIssue(t, ctx, testIssue{
		libraryID: libraryID, assignedTo: &heavyID, status: "in_progress", priority: "urgent",
		createdAt: now.Add(-48 * time.Hour), dueDate: timePtr(now.Add(-24 * time.Hour)),
	})
	// Resolved issues do not count toward workload
	insertIssue(t, ctx, testIssue{
		libraryID: libraryID, assignedTo: &heavyID, status: "resolved",
		createdAt: now.Add(-72 * time.Hour), resolvedAt: timePtr(now.Add(-70 * time.Hour)),
	})

	items, err := repo.WorkloadBalance(ctx, libraryID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	heavy := items[0]
	assert.Equal(t, heavyID, heavy.UserID)
	assert.Equal(t, int64(4), heavy.CurrentWorkload)
	assert.Equal(t, int64(3), heavy.OpenCount)
	assert.Equal(t, int64(1), heavy.InProgressCount)
	assert.Equal(t, int64(1), heavy.UrgentCount)
	assert.Equal(t, int64(1), heavy.OverdueCount)
	// avg = (4 + 0) / 2 = 2; 4 > 3 so overloaded
	assert.InDelta(t, 2.0, heavy.AvgWorkload, 0.01)
	assert.Equal(t, domain.WorkloadOverloaded, heavy.Status)

	light := items[1]
	assert.Equal(t, lightID, light.UserID)
	assert.Equal(t, int64(0), light.CurrentWorkload)
	// 0 < 1 so underutilized
	assert.Equal(t, domain.WorkloadUnderutilized, light.Status)
}

func TestMetricsRepository_WorkloadBalance_AllIdle(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryID := createTestLibrary(t, ctx)
	createTestStaff(t, ctx, libraryID, "Eva", "Font", "staff")
	createTestStaff(t, ctx, libraryID, "Fred", "Gale", "manager")

	items, err := repo.WorkloadBalance(ctx, libraryID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Zero average classifies everyone as balanced, never NaN
	for _, item := range items {
		assert.Equal(t, 0.0, item.AvgWorkload)
		assert.Equal(t, domain.WorkloadBalanced, item.Status)
	}
}

func TestMetricsRepository_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMetricsRepository(testPool)

	libraryA := createTestLibrary(t, ctx)
	libraryB := createTestLibrary(t, ctx)
	now := time.Now().UTC().Truncate(time.Second)

	staffB := createTestStaff(t, ctx, libraryB, "Only", "InB", "staff")
	insertIssue(t, ctx, testIssue{libraryID: libraryB, assignedTo: &staffB, status: "open", createdAt: now.Add(-time.Hour)})
	collB := createTestCollection(t, ctx, libraryB, "B Stacks")
	insertIssue(t, ctx, testIssue{libraryID: libraryB, collectionID: &collB, status: "open", createdAt: now.Add(-time.Hour)})

	window := testWindow(libraryA, now.Add(-30*24*time.Hour), now)

	overview, err := repo.Overview(ctx, window)
	require.NoError(t, err)
	assert.Equal(t, int64(0), overview.TotalIssues)

	members, err := repo.TeamPerformance(ctx, window)
	require.NoError(t, err)
	assert.Empty(t, members)

	counts, err := repo.StatusDistribution(ctx, libraryA)
	require.NoError(t, err)
	assert.Empty(t, counts)

	stats, err := repo.CollectionStats(ctx, window)
	require.NoError(t, err)
	assert.Empty(t, stats)

	items, err := repo.WorkloadBalance(ctx, libraryA)
	require.NoError(t, err)
	assert.Empty(t, items)
}
