package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shelfdesk/metrics-backend/internal/core/errors"
)

func TestNewMetricsWindow(t *testing.T) {
	libraryID := uuid.New()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("defaults to trailing 30 days", func(t *testing.T) {
		w, err := NewMetricsWindow(libraryID, nil, nil, now)
		require.NoError(t, err)

		assert.Equal(t, libraryID, w.LibraryID)
		assert.Equal(t, now, w.End)
		assert.Equal(t, now.Add(-30*24*time.Hour), w.Start)
	})

	t.Run("explicit bounds are kept", func(t *testing.T) {
		start := now.Add(-7 * 24 * time.Hour)
		end := now.Add(-24 * time.Hour)

		w, err := NewMetricsWindow(libraryID, &start, &end, now)
		require.NoError(t, err)

		assert.Equal(t, start, w.Start)
		assert.Equal(t, end, w.End)
	})

	t.Run("start only keeps default end", func(t *testing.T) {
		start := now.Add(-90 * 24 * time.Hour)

		w, err := NewMetricsWindow(libraryID, &start, nil, now)
		require.NoError(t, err)

		assert.Equal(t, start, w.Start)
		assert.Equal(t, now, w.End)
	})

	t.Run("missing library id", func(t *testing.T) {
		_, err := NewMetricsWindow(uuid.Nil, nil, nil, now)
		assert.ErrorIs(t, err, apperrors.ErrLibraryRequired)
	})

	t.Run("inverted range", func(t *testing.T) {
		start := now
		end := now.Add(-24 * time.Hour)

		_, err := NewMetricsWindow(libraryID, &start, &end, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})
}

func TestGroupByValid(t *testing.T) {
	assert.True(t, GroupByDay.Valid())
	assert.True(t, GroupByWeek.Valid())
	assert.True(t, GroupByMonth.Valid())

	assert.False(t, GroupBy("").Valid())
	assert.False(t, GroupBy("year").Valid())
	assert.False(t, GroupBy("Day").Valid())
}

func TestClassifyWorkload(t *testing.T) {
	tests := []struct {
		name     string
		workload int64
		avg      float64
		want     WorkloadStatus
	}{
		{"above 1.5x average", 15, 9, WorkloadOverloaded},
		{"exactly 1.5x average stays balanced", 9, 6, WorkloadBalanced},
		{"below half average", 2, 6, WorkloadUnderutilized},
		{"exactly half average stays balanced", 3, 6, WorkloadBalanced},
		{"within band", 7, 6, WorkloadBalanced},
		{"zero average zero workload", 0, 0, WorkloadBalanced},
		{"zero average nonzero workload", 3, 0, WorkloadBalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyWorkload(tt.workload, tt.avg))
		})
	}
}

func TestIssueStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusOpen.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.True(t, StatusResolved.IsTerminal())
	assert.True(t, StatusClosed.IsTerminal())
}

func TestUserRoleHelpers(t *testing.T) {
	assert.True(t, RoleAdmin.CanViewMetrics())
	assert.True(t, RoleManager.CanViewMetrics())
	assert.False(t, RoleStaff.CanViewMetrics())
	assert.False(t, RolePatron.CanViewMetrics())

	assert.True(t, RoleStaff.IsTeamMember())
	assert.False(t, RolePatron.IsTeamMember())
}
