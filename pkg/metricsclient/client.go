package metricsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is a thin HTTP client for the metrics API. It speaks the envelope
// wire format and exposes one method per endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a metrics API client. baseURL is the server root, e.g.
// "https://api.example.org"; the /api/v1/metrics prefix is added per call.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query narrows window-scoped endpoints. Zero values are omitted from the
// request so the server applies its defaults.
type Query struct {
	StartDate  time.Time
	EndDate    time.Time
	GroupBy    string
	Priority   string
	AssignedTo string
}

func (q Query) values() url.Values {
	v := url.Values{}
	if !q.StartDate.IsZero() {
		v.Set("startDate", q.StartDate.Format(time.RFC3339))
	}
	if !q.EndDate.IsZero() {
		v.Set("endDate", q.EndDate.Format(time.RFC3339))
	}
	if q.GroupBy != "" {
		v.Set("groupBy", q.GroupBy)
	}
	if q.Priority != "" {
		v.Set("priority", q.Priority)
	}
	if q.AssignedTo != "" {
		v.Set("assignedTo", q.AssignedTo)
	}
	return v
}

// Overview mirrors the overview endpoint payload.
type Overview struct {
	TotalIssues           int64   `json:"total_issues"`
	OpenIssues            int64   `json:"open_issues"`
	ResolvedThisPeriod    int64   `json:"resolved_this_period"`
	AvgResolutionHours    float64 `json:"avg_resolution_hours"`
	AvgFirstResponseHours float64 `json:"avg_first_response_hours"`
	SLACompliance         float64 `json:"sla_compliance"`
	ActiveUsers           int64   `json:"active_users"`
}

type ResolutionTimeBucket struct {
	Period                time.Time `json:"period"`
	IssueCount            int64     `json:"issue_count"`
	AvgResolutionHours    float64   `json:"avg_resolution_hours"`
	MedianResolutionHours float64   `json:"median_resolution_hours"`
	P90ResolutionHours    float64   `json:"p90_resolution_hours"`
}

type TeamMemberPerformance struct {
	UserID             string     `json:"user_id"`
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

type IssueTrendBucket struct {
	Period    time.Time `json:"period"`
	Created   int64     `json:"created"`
	Resolved  int64     `json:"resolved"`
	NetChange int64     `json:"net_change"`
}

type StatusCount struct {
	Status           string     `json:"status"`
	Count            int64      `json:"count"`
	AvgAgeDays       float64    `json:"avg_age_days"`
	OldestIssueDate  *time.Time `json:"oldest_issue_date"`
	MostRecentUpdate *time.Time `json:"most_recent_update"`
}

type PriorityCount struct {
	Priority           string  `json:"priority"`
	Open               int64   `json:"open"`
	InProgress         int64   `json:"in_progress"`
	Resolved           int64   `json:"resolved"`
	Total              int64   `json:"total"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

type CollectionStats struct {
	CollectionID       string     `json:"collection_id"`
	Name               string     `json:"collection_name"`
	Color              string     `json:"collection_color"`
	IssueCount         int64      `json:"issue_count"`
	ResolvedCount      int64      `json:"resolved_count"`
	OpenIssues         int64      `json:"open_issues"`
	AvgResolutionHours float64    `json:"avg_resolution_hours"`
	MostRecentIssue    *time.Time `json:"most_recent_issue"`
}

type WorkloadBalance struct {
	UserID          string  `json:"user_id"`
	UserName        string  `json:"user_name"`
	CurrentWorkload int64   `json:"current_workload"`
	OpenCount       int64   `json:"open_count"`
	InProgressCount int64   `json:"in_progress_count"`
	UrgentCount     int64   `json:"urgent_count"`
	OverdueCount    int64   `json:"overdue_count"`
	AvgWorkload     float64 `json:"avg_workload"`
	Status          string  `json:"status"`
}

// APIError is a non-2xx response decoded from the failure envelope.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("metrics api: %d %s (%s)", e.StatusCode, e.Message, e.Code)
}

func (c *Client) GetOverview(ctx context.Context, q Query) (*Overview, error) {
	var out Overview
	if err := c.get(ctx, "/overview", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetResolutionTime(ctx context.Context, q Query) ([]ResolutionTimeBucket, error) {
	var out []ResolutionTimeBucket
	if err := c.get(ctx, "/resolution-time", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTeamPerformance(ctx context.Context, q Query) ([]TeamMemberPerformance, error) {
	var out []TeamMemberPerformance
	if err := c.get(ctx, "/team-performance", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetIssueTrends(ctx context.Context, q Query) ([]IssueTrendBucket, error) {
	var out []IssueTrendBucket
	if err := c.get(ctx, "/issue-trends", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetStatusDistribution(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	if err := c.get(ctx, "/status-distribution", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPriorityBreakdown(ctx context.Context) ([]PriorityCount, error) {
	var out []PriorityCount
	if err := c.get(ctx, "/priority-breakdown", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCollectionStats(ctx context.Context, q Query) ([]CollectionStats, error) {
	var out []CollectionStats
	if err := c.get(ctx, "/collection-stats", q.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetWorkloadBalance(ctx context.Context) ([]WorkloadBalance, error) {
	var out []WorkloadBalance
	if err := c.get(ctx, "/workload-balance", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + "/api/v1/metrics" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("metrics api: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "request failed"}
		if env.Error != nil {
			apiErr.Message = env.Error.Message
			apiErr.Code = env.Error.Code
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("metrics api: decode data: %w", err)
		}
	}
	return nil
}
