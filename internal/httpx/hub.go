package httpx

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lgbarn/chess-server-go/internal/model"
)

// conn is one client websocket. gorilla/websocket allows a single
// concurrent writer, so every write goes through send.
type conn struct {
	ws      *websocket.Conn
	timeout time.Duration

	writeMu sync.Mutex
}

func (c *conn) send(msg model.ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(msg)
}

func (c *conn) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(c.timeout))
	_ = c.ws.Close()
}

// Hub groups websocket connections by the game they follow.
type Hub struct {
	timeout time.Duration
	log     *slog.Logger

	mu    sync.Mutex
	games map[int]map[*conn]struct{}
	conns map[*conn]int // game each open connection follows, 0 for none
}

// NewHub creates an empty Hub. Writes to a client time out after timeout.
func NewHub(timeout time.Duration, logger *slog.Logger) *Hub {
	return &Hub{
		timeout: timeout,
		log:     logger,
		games:   make(map[int]map[*conn]struct{}),
		conns:   make(map[*conn]int),
	}
}

// add tracks a newly upgraded connection.
func (h *Hub) add(ws *websocket.Conn) *conn {
	c := &conn{ws: ws, timeout: h.timeout}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = 0
	return c
}

// drop forgets a connection once its socket is gone.
func (h *Hub) drop(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unfollowLocked(c)
	delete(h.conns, c)
}

// join makes c follow gameID, leaving any game it followed before.
func (h *Hub) join(c *conn, gameID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unfollowLocked(c)
	set, ok := h.games[gameID]
	if !ok {
		set = make(map[*conn]struct{})
		h.games[gameID] = set
	}
	set[c] = struct{}{}
	h.conns[c] = gameID
}

// unfollow stops c following its game.
func (h *Hub) unfollow(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unfollowLocked(c)
}

func (h *Hub) unfollowLocked(c *conn) {
	id := h.conns[c]
	if id == 0 {
		return
	}
	h.conns[c] = 0
	delete(h.games[id], c)
	if len(h.games[id]) == 0 {
		delete(h.games, id)
	}
}

// followers returns the connections following gameID.
func (h *Hub) followers(gameID int) []*conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*conn, 0, len(h.games[gameID]))
	for c := range h.games[gameID] {
		out = append(out, c)
	}
	return out
}

// broadcast sends msg to every follower of gameID except skip, which may
// be nil.
func (h *Hub) broadcast(gameID int, skip *conn, msg model.ServerMessage) {
	for _, c := range h.followers(gameID) {
		if c == skip {
			continue
		}
		if err := c.send(msg); err != nil {
			h.log.Debug("websocket send failed", "game", gameID, "err", err)
		}
	}
}

// Count returns the number of connections following gameID.
func (h *Hub) Count(gameID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.games[gameID])
}

// following returns the game c follows, or 0.
func (h *Hub) following(c *conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conns[c]
}

// CloseAll sends a close frame to every open connection and closes it.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.games = make(map[int]map[*conn]struct{})
	h.conns = make(map[*conn]int)
	h.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}
