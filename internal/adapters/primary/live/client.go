package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// The feed is push-only; clients have nothing meaningful to say beyond
	// control frames.
	maxMessageSize = 512
)

// Client is a middleman between one websocket connection and the feed.
type Client struct {
	Feed *Feed

	Conn *websocket.Conn

	// Buffered channel of outbound snapshots.
	Send chan Snapshot

	// LibraryID is the tenant whose snapshots this connection receives. It
	// comes from the token, never from the client.
	LibraryID uuid.UUID

	// closeOnce ensures the Send channel is only closed once
	closeOnce sync.Once

	logger *slog.Logger
}

// NewClient creates a feed client for an upgraded connection.
func NewClient(feed *Feed, conn *websocket.Conn, libraryID uuid.UUID, logger *slog.Logger) *Client {
	return &Client{
		Feed:      feed,
		Conn:      conn,
		Send:      make(chan Snapshot, 8),
		LibraryID: libraryID,
		logger:    logger.With("library_id", libraryID.String()),
	}
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// ReadPump drains the connection so control frames are processed and
// disconnects are noticed. This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Feed.Unregister <- c
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}
	}
}

// WritePump pumps snapshots from the feed to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case snapshot, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The feed closed the channel. Send close message.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.writeJSON(snapshot); err != nil {
				c.logger.Error("failed to write snapshot", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

func (c *Client) writeJSON(snapshot Snapshot) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}
