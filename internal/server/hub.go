package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"todo/internal/task"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 64
)

// Messages pushed to websocket clients.
type renderMessage struct {
	Type  string      `json:"type"` // "render"
	Tasks []task.Task `json:"tasks"`
	Open  int         `json:"open"`
}

type itemMessage struct {
	Type string    `json:"type"` // "item"
	Task task.Task `json:"task"`
}

type countMessage struct {
	Type string `json:"type"` // "count"
	Open int    `json:"open"`
}

// Hub fans manager notifications out to every connected websocket client.
type Hub struct {
	log *slog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

var _ task.View = (*Hub)(nil)

// NewHub returns an empty Hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) Render(tasks []task.Task) {
	h.broadcast(renderMessage{Type: "render", Tasks: nonNil(tasks), Open: task.OpenCount(tasks)})
}

func (h *Hub) RenderItem(t task.Task) {
	h.broadcast(itemMessage{Type: "item", Task: t})
}

func (h *Hub) RenderCount(open int) {
	h.broadcast(countMessage{Type: "count", Open: open})
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Serve upgrades the request and streams notifications to it. The first
// message is a render of snapshot(), taken under the hub lock so no later
// notification can arrive ahead of it.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, snapshot func() []task.Task) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	tasks := snapshot()
	first, err := json.Marshal(renderMessage{Type: "render", Tasks: nonNil(tasks), Open: task.OpenCount(tasks)})
	if err != nil {
		h.mu.Unlock()
		conn.Close()
		return
	}
	c.send <- first
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("websocket client connected", "remote", r.RemoteAddr)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("failed to encode websocket message", "error", err)
		return
	}

	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow websocket client")
		h.unregister(c)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func nonNil(tasks []task.Task) []task.Task {
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump only watches for the peer going away; the feed is one-way.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
