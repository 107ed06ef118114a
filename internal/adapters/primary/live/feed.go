package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfdesk/metrics-backend/internal/core/domain"
	"github.com/shelfdesk/metrics-backend/internal/core/ports"
)

// MinInterval is the floor for the refresh interval. Snapshots run the two
// cheapest aggregates, but they still hit the database, so a client cannot
// ask for a sub-second cadence.
const MinInterval = 5 * time.Second

// Snapshot is the payload pushed to every subscriber of a library.
type Snapshot struct {
	GeneratedAt        time.Time               `json:"generated_at"`
	Overview           *domain.OverviewMetrics `json:"overview"`
	StatusDistribution []domain.StatusCount    `json:"status_distribution"`
}

// Feed maintains the set of active clients, grouped by library, and pushes a
// fresh metrics snapshot to each group on a fixed interval. Libraries with no
// subscribers cost nothing: the refresh loop only queries for libraries that
// currently have at least one connection.
type Feed struct {
	// clients maps library IDs to their active connections.
	clients map[uuid.UUID]map[*Client]bool

	metricsService ports.MetricsService

	Register   chan *Client
	Unregister chan *Client

	interval time.Duration

	// mu protects the clients map
	mu sync.RWMutex

	logger *slog.Logger
}

// NewFeed creates a live metrics feed. Intervals below MinInterval are
// clamped.
func NewFeed(metricsService ports.MetricsService, interval time.Duration, logger *slog.Logger) *Feed {
	if interval < MinInterval {
		interval = MinInterval
	}
	return &Feed{
		clients:        make(map[uuid.UUID]map[*Client]bool),
		metricsService: metricsService,
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		interval:       interval,
		logger:         logger.With("component", "live_feed"),
	}
}

// Run starts the feed's event loop. This MUST be run as a goroutine. It
// returns when ctx is cancelled, after closing every client's send channel.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case client := <-f.Register:
			f.registerClient(client)

		case client := <-f.Unregister:
			f.unregisterClient(client)

		case <-ticker.C:
			f.refresh(ctx)

		case <-ctx.Done():
			f.closeAll()
			return
		}
	}
}

func (f *Feed) registerClient(client *Client) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clients[client.LibraryID] == nil {
		f.clients[client.LibraryID] = make(map[*Client]bool)
	}
	f.clients[client.LibraryID][client] = true

	f.logger.Info("client registered",
		"library_id", client.LibraryID,
		"library_connections", len(f.clients[client.LibraryID]),
	)
}

func (f *Feed) unregisterClient(client *Client) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if libClients, ok := f.clients[client.LibraryID]; ok {
		if _, exists := libClients[client]; exists {
			delete(libClients, client)
			if len(libClients) == 0 {
				delete(f.clients, client.LibraryID)
			}
		}
	}

	client.CloseSend()

	f.logger.Info("client unregistered", "library_id", client.LibraryID)
}

// refresh computes one snapshot per subscribed library and fans it out. A
// failed query skips the push; subscribers keep their previous snapshot and
// the next tick tries again.
func (f *Feed) refresh(ctx context.Context) {
	for _, libraryID := range f.subscribedLibraries() {
		snapshot, err := f.snapshot(ctx, libraryID)
		if err != nil {
			f.logger.Warn("snapshot failed, keeping clients on previous data",
				"library_id", libraryID,
				"error", err,
			)
			continue
		}
		f.push(libraryID, snapshot)
	}
}

func (f *Feed) snapshot(ctx context.Context, libraryID uuid.UUID) (Snapshot, error) {
	overview, err := f.metricsService.Overview(ctx, ports.MetricsQuery{LibraryID: libraryID})
	if err != nil {
		return Snapshot{}, err
	}

	distribution, err := f.metricsService.StatusDistribution(ctx, libraryID)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		GeneratedAt:        time.Now().UTC(),
		Overview:           overview,
		StatusDistribution: distribution,
	}, nil
}

func (f *Feed) push(libraryID uuid.UUID, snapshot Snapshot) {
	f.mu.RLock()
	group, ok := f.clients[libraryID]
	if !ok {
		f.mu.RUnlock()
		return
	}

	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(group))
	for client := range group {
		clients = append(clients, client)
	}
	f.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- snapshot:
		default:
			// Client's send buffer is full, drop the connection
			f.logger.Warn("client send buffer full, unregistering",
				"library_id", client.LibraryID,
			)
			go func(c *Client) { f.Unregister <- c }(client)
		}
	}
}

func (f *Feed) subscribedLibraries() []uuid.UUID {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(f.clients))
	for id := range f.clients {
		ids = append(ids, id)
	}
	return ids
}

func (f *Feed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for libraryID, group := range f.clients {
		for client := range group {
			client.CloseSend()
		}
		delete(f.clients, libraryID)
	}
}

// ClientCount returns the total number of connected clients
func (f *Feed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	count := 0
	for _, group := range f.clients {
		count += len(group)
	}
	return count
}
