package metricsclient

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Snapshot is one dashboard's worth of metrics. Sections that failed their
// last fetch keep the previous value; Errors records what went wrong per
// section on the most recent refresh.
type Snapshot struct {
	Overview           *Overview
	ResolutionTime     []ResolutionTimeBucket
	TeamPerformance    []TeamMemberPerformance
	IssueTrends        []IssueTrendBucket
	StatusDistribution []StatusCount
	PriorityBreakdown  []PriorityCount
	CollectionStats    []CollectionStats
	WorkloadBalance    []WorkloadBalance

	Errors      map[string]error
	LastUpdated time.Time
}

// Err joins the per-section errors from the most recent refresh into one
// aggregate error, or nil when every section succeeded.
func (s Snapshot) Err() error {
	if len(s.Errors) == 0 {
		return nil
	}

	names := make([]string, 0, len(s.Errors))
	for name := range s.Errors {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, s.Errors[name])
	}
	return errors.Join(errs...)
}

// Poller keeps a Snapshot current by fanning out to all eight endpoints in
// parallel. Each section updates independently: one failing endpoint never
// blanks the others, and a failing section retains its last good value.
type Poller struct {
	client *Client

	mu       sync.RWMutex
	query    Query
	snapshot Snapshot

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller creates a poller over the given client. Call Refresh for a
// one-shot fetch or Start for periodic refreshes.
func NewPoller(client *Client) *Poller {
	return &Poller{
		client: client,
		snapshot: Snapshot{
			Errors: make(map[string]error),
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// SetDateRange changes the window used by window-scoped sections. It takes
// effect on the next refresh.
func (p *Poller) SetDateRange(start, end time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.StartDate = start
	p.query.EndDate = end
}

// SetGroupBy changes the bucketing granularity for trend sections.
func (p *Poller) SetGroupBy(groupBy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.GroupBy = groupBy
}

// Snapshot returns a copy of the current snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := p.snapshot
	snap.Errors = make(map[string]error, len(p.snapshot.Errors))
	for k, v := range p.snapshot.Errors {
		snap.Errors[k] = v
	}
	return snap
}

// Refresh fetches all eight sections in parallel and merges the results into
// the snapshot. It returns the merged snapshot.
func (p *Poller) Refresh(ctx context.Context) Snapshot {
	p.mu.RLock()
	query := p.query
	p.mu.RUnlock()

	type sectionResult struct {
		name  string
		value any
		err   error
	}

	sections := []struct {
		name  string
		fetch func(context.Context) (any, error)
	}{
		{"overview", func(ctx context.Context) (any, error) {
			return p.client.GetOverview(ctx, query)
		}},
		{"resolution_time", func(ctx context.Context) (any, error) {
			return p.client.GetResolutionTime(ctx, query)
		}},
		{"team_performance", func(ctx context.Context) (any, error) {
			return p.client.GetTeamPerformance(ctx, query)
		}},
		{"issue_trends", func(ctx context.Context) (any, error) {
			return p.client.GetIssueTrends(ctx, query)
		}},
		{"status_distribution", func(ctx context.Context) (any, error) {
			return p.client.GetStatusDistribution(ctx)
		}},
		{"priority_breakdown", func(ctx context.Context) (any, error) {
			return p.client.GetPriorityBreakdown(ctx)
		}},
		{"collection_stats", func(ctx context.Context) (any, error) {
			return p.client.GetCollectionStats(ctx, query)
		}},
		{"workload_balance", func(ctx context.Context) (any, error) {
			return p.client.GetWorkloadBalance(ctx)
		}},
	}

	results := make(chan sectionResult, len(sections))
	var wg sync.WaitGroup
	for _, section := range sections {
		wg.Add(1)
		go func(name string, fetch func(context.Context) (any, error)) {
			defer wg.Done()
			value, err := fetch(ctx)
			results <- sectionResult{name: name, value: value, err: err}
		}(section.name, section.fetch)
	}
	wg.Wait()
	close(results)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.snapshot.Errors = make(map[string]error)
	for res := range results {
		if res.err != nil {
			p.snapshot.Errors[res.name] = res.err
			continue
		}
		p.merge(res.name, res.value)
	}
	p.snapshot.LastUpdated = time.Now()

	snap := p.snapshot
	snap.Errors = make(map[string]error, len(p.snapshot.Errors))
	for k, v := range p.snapshot.Errors {
		snap.Errors[k] = v
	}
	return snap
}

// merge writes one successfully fetched section into the snapshot. Callers
// must hold p.mu.
func (p *Poller) merge(name string, value any) {
	switch name {
	case "overview":
		p.snapshot.Overview = value.(*Overview)
	case "resolution_time":
		p.snapshot.ResolutionTime = value.([]ResolutionTimeBucket)
	case "team_performance":
		p.snapshot.TeamPerformance = value.([]TeamMemberPerformance)
	case "issue_trends":
		p.snapshot.IssueTrends = value.([]IssueTrendBucket)
	case "status_distribution":
		p.snapshot.StatusDistribution = value.([]StatusCount)
	case "priority_breakdown":
		p.snapshot.PriorityBreakdown = value.([]PriorityCount)
	case "collection_stats":
		p.snapshot.CollectionStats = value.([]CollectionStats)
	case "workload_balance":
		p.snapshot.WorkloadBalance = value.([]WorkloadBalance)
	}
}

// Start refreshes immediately, then on every tick of interval until Stop is
// called or ctx is cancelled. onUpdate, if non-nil, runs after each refresh
// with the merged snapshot.
func (p *Poller) Start(ctx context.Context, interval time.Duration, onUpdate func(Snapshot)) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		snap := p.Refresh(ctx)
		if onUpdate != nil {
			onUpdate(snap)
		}

		for {
			select {
			case <-ticker.C:
				snap := p.Refresh(ctx)
				if onUpdate != nil {
					onUpdate(snap)
				}
			case <-p.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the refresh loop started by Start and waits for it to exit. Safe
// to call more than once, and a no-op if Start was never called.
func (p *Poller) Stop() {
	p.mu.RLock()
	started := p.started
	p.mu.RUnlock()

	p.stopOnce.Do(func() {
		close(p.stop)
	})
	if started {
		<-p.done
	}
}
