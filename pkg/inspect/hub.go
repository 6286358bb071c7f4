package inspect

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// client is one connected WebSocket viewer.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// hub fans flush messages out to every connected client.
type hub struct {
	mu           sync.Mutex
	clients      map[string]*client
	buffer       int
	writeTimeout time.Duration
	logger       *slog.Logger
	closed       bool
}

func newHub(buffer int, writeTimeout time.Duration, logger *slog.Logger) *hub {
	return &hub{
		clients:      make(map[string]*client),
		buffer:       buffer,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// register adds conn and starts its writer. The returned client id is a
// random UUID. When greet is non-nil its message is queued before the
// client becomes visible to broadcasts or disconnects. Once the hub is
// closed, conn is closed and register returns nil.
func (h *hub) register(conn *websocket.Conn, greet func(id string) []byte) *client {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.buffer),
	}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return nil
	}
	if greet != nil {
		select {
		case c.send <- greet(c.id):
		default:
		}
	}
	h.clients[c.id] = c
	h.mu.Unlock()

	go h.writeLoop(c)
	h.logger.Debug("inspector client connected", "client", c.id)
	return c
}

// unregister removes c and closes its queue. Safe to call twice.
func (h *hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.logger.Debug("inspector client disconnected", "client", c.id)
}

// broadcast queues msg for every client. Clients whose queue is full are
// dropped rather than blocking the runtime.
func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	var slow []*client
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("inspector client too slow, disconnecting", "client", c.id)
		h.unregister(c)
	}
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// closeAll disconnects every client and refuses new ones.
func (h *hub) closeAll() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.unregister(c)
	}
}

func (h *hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("inspector write error", "client", c.id, "error", err)
			h.unregister(c)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
