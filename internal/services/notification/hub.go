package notification

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bobmcallan/marketdesk/internal/common"
)

const writeWait = 10 * time.Second

// client is one websocket subscriber. Writes are serialised per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Hub tracks websocket subscribers per session.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *common.Logger
}

// NewHub creates an empty hub. Upgrades are accepted from the server's own
// host and from allowedOrigins; "*" accepts any origin.
func NewHub(logger *common.Logger, allowedOrigins ...string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}
	return &Hub{
		sessions: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return originAllowed(r, allowed) },
		},
		logger: logger,
	}
}

// originAllowed accepts requests without an Origin header (non-browser
// clients), same-host origins and listed origins.
func originAllowed(r *http.Request, allowed map[string]bool) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || allowed["*"] {
		return true
	}
	if allowed[strings.ToLower(strings.TrimRight(origin, "/"))] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (h *Hub) add(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[sessionID]
	if !ok {
		set = make(map[*client]struct{})
		h.sessions[sessionID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) remove(sessionID string, c *client) {
	h.mu.Lock()
	if set, ok := h.sessions[sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.sessions, sessionID)
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Subscribers returns the number of open connections for a session.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// BroadcastJSON sends v to every subscriber of sessionID. Connections that
// fail to write are dropped.
func (h *Hub) BroadcastJSON(sessionID string, v any) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.sessions[sessionID]))
	for c := range h.sessions[sessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(v); err != nil {
			h.logger.Debug().Err(err).Msg("Dropping websocket subscriber")
			h.remove(sessionID, c)
		}
	}
}

// CloseSession disconnects every subscriber of sessionID.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	set := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	h.mu.Unlock()
	for c := range set {
		_ = c.conn.Close()
	}
}

// Serve upgrades the request and keeps the connection registered until the
// peer disconnects. initial, when non-nil, is sent first.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string, initial any) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	c := &client{conn: conn}
	h.add(sessionID, c)

	if initial != nil {
		if err := c.writeJSON(initial); err != nil {
			h.remove(sessionID, c)
			return
		}
	}

	// Inbound messages are ignored; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(sessionID, c)
			return
		}
	}
}
