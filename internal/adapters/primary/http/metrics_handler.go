package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/shelfdesk/metrics-backend/internal/adapters/primary/http/middleware"
	"github.com/shelfdesk/metrics-backend/internal/adapters/primary/validation"
	"github.com/shelfdesk/metrics-backend/internal/auth"
	"github.com/shelfdesk/metrics-backend/internal/core/domain"
	apperrors "github.com/shelfdesk/metrics-backend/internal/core/errors"
	"github.com/shelfdesk/metrics-backend/internal/core/ports"
)

type MetricsHandler struct {
	metricsService ports.MetricsService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

func NewMetricsHandler(metricsService ports.MetricsService, errorHandler *ErrorHandler, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "metrics"),
	}
}

func (h *MetricsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/overview", h.HandleOverview)
	r.Get("/resolution-time", h.HandleResolutionTime)
	r.Get("/team-performance", h.HandleTeamPerformance)
	r.Get("/issue-trends", h.HandleIssueTrends)
	r.Get("/status-distribution", h.HandleStatusDistribution)
	r.Get("/priority-breakdown", h.HandlePriorityBreakdown)
	r.Get("/collection-stats", h.HandleCollectionStats)
	r.Get("/workload-balance", h.HandleWorkloadBalance)
}

// OverviewDTO mirrors the dashboard's KPI card payload.
type OverviewDTO struct {
	TotalIssues           int64   `json:"total_issues"`
	OpenIssues            int64   `json:"open_issues"`
	ResolvedThisPeriod    int64   `json:"resolved_this_period"`
	AvgResolutionHours    float64 `json:"avg_resolution_hours"`
	AvgFirstResponseHours float64 `json:"avg_first_response_hours"`
	SLACompliance         float64 `json:"sla_compliance"`
	ActiveUsers           int64   `json:"active_users"`
}

type ResolutionTimeBucketDTO struct {
	Period                time.Time `json:"period"`
	IssueCount            int64     `json:"issue_count"`
	AvgResolutionHours    float64   `json:"avg_resolution_hours"`
	MedianResolutionHours float64   `json:"median_resolution_hours"`
	P90ResolutionHours    float64   `json:"p90_resolution_hours"`
}

type TeamMemberPerformanceDTO struct {
	UserID             uuid.UUID  `json:"user_id"`
	UserName           string     `json:"user_name"`
	Role               string     `json:"role"`
	AssignedIssues     int64      `json:"assigned_issues"`
	ResolvedIssues     int64      `json:"resolved_issues"`
	OpenIssues         int64      `json:"open_issues"`
	OverdueIssues      int64      `json:"overdue_issues"`
	AvgResolutionHours float64    `json:"avg_resolution_hours"`
	CommentsPosted     int64      `json:"comments_posted"`
	LastActivity       *time.Time `json:"last_activity"`
}

type IssueTrendBucketDTO struct {
	Period    time.Time `json:"period"`
	Created   int64     `json:"created"`
	Resolved  int64     `json:"resolved"`
	NetChange int64     `json:"net_change"`
}

type StatusCountDTO struct {
	Status           string     `json:"status"`
	Count            int64      `json:"count"`
	AvgAgeDays       float64    `json:"avg_age_days"`
	OldestIssueDate  *time.Time `json:"oldest_issue_date"`
	MostRecentUpdate *time.Time `json:"most_recent_update"`
}

type PriorityCountDTO struct {
	Priority           string  `json:"priority"`
	Open               int64   `json:"open"`
	InProgress         int64   `json:"in_progress"`
	Resolved           int64   `json:"resolved"`
	Total              int64   `json:"total"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

type CollectionStatsDTO struct {
	CollectionID       uuid.UUID  `json:"collection_id"`
	Name               string     `json:"collection_name"`
	Color              string     `json:"collection_color"`
	IssueCount         int64      `json:"issue_count"`
	ResolvedCount      int64      `json:"resolved_count"`
	OpenIssues         int64      `json:"open_issues"`
	AvgResolutionHours float64    `json:"avg_resolution_hours"`
	MostRecentIssue    *time.Time `json:"most_recent_issue"`
}

type WorkloadBalanceDTO struct {
	UserID          uuid.UUID `json:"user_id"`
	UserName        string    `json:"user_name"`
	CurrentWorkload int64     `json:"current_workload"`
	OpenCount       int64     `json:"open_count"`
	InProgressCount int64     `json:"in_progress_count"`
	UrgentCount     int64     `json:"urgent_count"`
	OverdueCount    int64     `json:"overdue_count"`
	AvgWorkload     float64   `json:"avg_workload"`
	Status          string    `json:"status"`
}

// HandleOverview handles GET /metrics/overview
func (h *MetricsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	overview, err := h.metricsService.Overview(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, toOverviewDTO(overview))
}

// HandleResolutionTime handles GET /metrics/resolution-time
func (h *MetricsHandler) HandleResolutionTime(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	query.GroupBy = r.URL.Query().Get("groupBy")

	if priority := validation.ParseStringQueryParam(r, "priority"); priority != nil {
		v := validation.NewValidator()
		v.OneOf("priority", *priority, []string{"urgent", "high", "medium", "low"})
		if v.HasErrors() {
			h.errorHandler.Handle(w, r, v.Errors())
			return
		}
		query.Priority = priority
	}

	assignedTo, err := validation.ParseUUIDQueryParam(r, "assignedTo")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	query.AssignedTo = assignedTo

	buckets, err := h.metricsService.ResolutionTime(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]ResolutionTimeBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		response = append(response, ResolutionTimeBucketDTO{
			Period:                b.Period,
			IssueCount:            b.IssueCount,
			AvgResolutionHours:    b.AvgResolutionHours,
			MedianResolutionHours: b.MedianResolutionHours,
			P90ResolutionHours:    b.P90ResolutionHours,
		})
	}

	WriteSuccess(w, response)
}

// HandleTeamPerformance handles GET /metrics/team-performance
func (h *MetricsHandler) HandleTeamPerformance(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	members, err := h.metricsService.TeamPerformance(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]TeamMemberPerformanceDTO, 0, len(members))
	for _, m := range members {
		response = append(response, TeamMemberPerformanceDTO{
			UserID:             m.UserID,
			UserName:           m.UserName,
			Role:               string(m.Role),
			AssignedIssues:     m.AssignedIssues,
			ResolvedIssues:     m.ResolvedIssues,
			OpenIssues:         m.OpenIssues,
			OverdueIssues:      m.OverdueIssues,
			AvgResolutionHours: m.AvgResolutionHours,
			CommentsPosted:     m.CommentsPosted,
			LastActivity:       m.LastActivity,
		})
	}

	WriteSuccess(w, response)
}

// HandleIssueTrends handles GET /metrics/issue-trends
func (h *MetricsHandler) HandleIssueTrends(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	query.GroupBy = r.URL.Query().Get("groupBy")

	buckets, err := h.metricsService.IssueTrends(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]IssueTrendBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		response = append(response, IssueTrendBucketDTO{
			Period:    b.Period,
			Created:   b.Created,
			Resolved:  b.Resolved,
			NetChange: b.NetChange,
		})
	}

	WriteSuccess(w, response)
}

// HandleStatusDistribution handles GET /metrics/status-distribution
func (h *MetricsHandler) HandleStatusDistribution(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	counts, err := h.metricsService.StatusDistribution(r.Context(), claims.LibraryID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteSuccess(w, toStatusCountDTOs(counts))
}

// HandlePriorityBreakdown handles GET /metrics/priority-breakdown
func (h *MetricsHandler) HandlePriorityBreakdown(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	counts, err := h.metricsService.PriorityBreakdown(r.Context(), claims.LibraryID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]PriorityCountDTO, 0, len(counts))
	for _, c := range counts {
		response = append(response, PriorityCountDTO{
			Priority:           string(c.Priority),
			Open:               c.Open,
			InProgress:         c.InProgress,
			Resolved:           c.Resolved,
			Total:              c.Total,
			AvgResolutionHours: c.AvgResolutionHours,
		})
	}

	WriteSuccess(w, response)
}

// HandleCollectionStats handles GET /metrics/collection-stats
func (h *MetricsHandler) HandleCollectionStats(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	stats, err := h.metricsService.CollectionStats(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]CollectionStatsDTO, 0, len(stats))
	for _, s := range stats {
		response = append(response, CollectionStatsDTO{
			CollectionID:       s.CollectionID,
			Name:               s.Name,
			Color:              s.Color,
			IssueCount:         s.IssueCount,
			ResolvedCount:      s.ResolvedCount,
			OpenIssues:         s.OpenIssues,
			AvgResolutionHours: s.AvgResolutionHours,
			MostRecentIssue:    s.MostRecentIssue,
		})
	}

	WriteSuccess(w, response)
}

// HandleWorkloadBalance handles GET /metrics/workload-balance
func (h *MetricsHandler) HandleWorkloadBalance(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	items, err := h.metricsService.WorkloadBalance(r.Context(), claims.LibraryID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]WorkloadBalanceDTO, 0, len(items))
	for _, item := range items {
		response = append(response, WorkloadBalanceDTO{
			UserID:          item.UserID,
			UserName:        item.UserName,
			CurrentWorkload: item.CurrentWorkload,
			OpenCount:       item.OpenCount,
			InProgressCount: item.InProgressCount,
			UrgentCount:     item.UrgentCount,
			OverdueCount:    item.OverdueCount,
			AvgWorkload:     item.AvgWorkload,
			Status:          string(item.Status),
		})
	}

	WriteSuccess(w, response)
}

// parseQuery builds the window-scoped query from the session tenant and the
// startDate/endDate query parameters. The library never comes from the
// request; it always comes from the token.
func (h *MetricsHandler) parseQuery(w http.ResponseWriter, r *http.Request) (ports.MetricsQuery, bool) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return ports.MetricsQuery{}, false
	}

	start, err := validation.ParseTimeQueryParam(r, "startDate")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return ports.MetricsQuery{}, false
	}

	end, err := validation.ParseTimeQueryParam(r, "endDate")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return ports.MetricsQuery{}, false
	}

	return ports.MetricsQuery{
		LibraryID: claims.LibraryID,
		Start:     start,
		End:       end,
	}, true
}

func (h *MetricsHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}

func toOverviewDTO(o *domain.OverviewMetrics) OverviewDTO {
	return OverviewDTO{
		TotalIssues:           o.TotalIssues,
		OpenIssues:            o.OpenIssues,
		ResolvedThisPeriod:    o.ResolvedThisPeriod,
		AvgResolutionHours:    o.AvgResolutionHours,
		AvgFirstResponseHours: o.AvgFirstResponseHours,
		SLACompliance:         o.SLACompliancePct,
		ActiveUsers:           o.ActiveUsers,
	}
}

func toStatusCountDTOs(counts []domain.StatusCount) []StatusCountDTO {
	response := make([]StatusCountDTO, 0, len(counts))
	for _, c := range counts {
		response = append(response, StatusCountDTO{
			Status:           string(c.Status),
			Count:            c.Count,
			AvgAgeDays:       c.AvgAgeDays,
			OldestIssueDate:  c.OldestIssueDate,
			MostRecentUpdate: c.MostRecentUpdate,
		})
	}
	return response
}
