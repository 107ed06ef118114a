package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/shelfdesk/metrics-backend/internal/adapters/primary/live"
	"github.com/shelfdesk/metrics-backend/internal/auth"
	"github.com/shelfdesk/metrics-backend/internal/config"
	"github.com/shelfdesk/metrics-backend/internal/core/domain"
)

// LiveHandler upgrades dashboard connections onto the live metrics feed.
type LiveHandler struct {
	feed     *live.Feed
	tm       *auth.TokenManager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewLiveHandler creates a new live feed handler
func NewLiveHandler(feed *live.Feed, tm *auth.TokenManager, cfg *config.Config, logger *slog.Logger) *LiveHandler {
	handler := &LiveHandler{
		feed:   feed,
		tm:     tm,
		logger: logger.With("handler", "live"),
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.LiveFeed.ReadBufferSize,
		WriteBufferSize: cfg.LiveFeed.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *LiveHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.LiveFeed.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins (but log a warning)
		if cfg.IsDevelopment() {
			if origin != "" {
				h.logger.Warn("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:]
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// ServeHTTP handles live feed connection requests. Browsers cannot set an
// Authorization header on websocket upgrades, so the token rides in a query
// parameter.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		h.logger.Warn("live connection rejected: missing token",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
		)
		http.Error(w, "Missing authentication token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tm.ValidateToken(tokenString)
	if err != nil {
		h.logger.Warn("live connection rejected: invalid token",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	if !domain.UserRole(claims.Role).CanViewMetrics() {
		h.logger.Warn("live connection rejected: insufficient role",
			"request_id", requestID,
			"role", claims.Role,
		)
		http.Error(w, "Insufficient permissions to view metrics", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade live connection",
			"request_id", requestID,
			"user_id", claims.UserID,
			"error", err,
		)
		return
	}

	h.logger.Info("live connection established",
		"request_id", requestID,
		"user_id", claims.UserID,
		"library_id", claims.LibraryID,
	)

	client := live.NewClient(h.feed, conn, claims.LibraryID, h.logger)
	h.feed.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
