package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait is the allowed duration for one write to a peer.
	writeWait = 10 * time.Second
	// pongWait is how long to wait for a pong before dropping the peer.
	pongWait = 60 * time.Second
	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// sendBuffer is the per-client outbound queue. A client that falls
	// this far behind is dropped rather than blocking the hub.
	sendBuffer = 32
)

// Identity ties a WebSocket connection to the authenticated user and their
// tenant, so audience scoping can match connections.
type Identity struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	DepartmentID   *uuid.UUID
}

// envelope is the wire format pushed to clients.
type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type client struct {
	hub      *Hub
	conn     *websocket.Conn
	identity Identity
	send     chan []byte
}

// Hub tracks connected WebSocket clients and fans events out to them.
// It implements Emitter.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With("component", "realtime_hub"),
	}
}

// ServeWS upgrades the request to a WebSocket connection and registers it
// under the given identity. The caller has already authenticated the user.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, identity Identity) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade websocket: %w", err)
	}

	c := &client{
		hub:      h,
		conn:     conn,
		identity: identity,
		send:     make(chan []byte, sendBuffer),
	}
	h.register(c)

	go c.writePump()
	go c.readPump()
	return nil
}

// Emit delivers the event to every connected client the audience matches.
// Slow clients are skipped; delivery is best effort.
func (h *Hub) Emit(_ context.Context, audience Audience, event string, payload any) error {
	if err := audience.Validate(); err != nil {
		return err
	}
	msg, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal event %q: %w", event, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.clients {
		if !matches(audience, c.identity) {
			continue
		}
		select {
		case c.send <- msg:
			delivered++
		default:
			h.logger.Warn("dropping event for slow client",
				"user_id", c.identity.UserID,
				"event", event)
		}
	}
	h.logger.Debug("emitted event",
		"event", event,
		"scope", audience.Scope,
		"delivered", delivered)
	return nil
}

// ConnectionCount returns the number of registered clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("client connected", "user_id", c.identity.UserID)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	h.logger.Debug("client disconnected", "user_id", c.identity.UserID)
}

// matches reports whether the client identity falls inside the audience.
func matches(a Audience, id Identity) bool {
	switch a.Scope {
	case ScopeUser:
		return a.ID == id.UserID
	case ScopeDepartment:
		return id.DepartmentID != nil && a.ID == *id.DepartmentID
	case ScopeOrganization:
		return a.ID == id.OrganizationID
	case ScopeRecipients:
		for _, u := range a.Users {
			if u == id.UserID {
				return true
			}
		}
	}
	return false
}

// readPump drains inbound frames so control messages are processed. Clients
// never send application data; anything readable besides ping/pong is
// discarded.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump pushes queued events to the peer and keeps the connection alive
// with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
