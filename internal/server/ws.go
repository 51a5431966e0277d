package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/fingercount/internal/app"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// resultMessage is the JSON pushed to WebSocket clients for every frame.
type resultMessage struct {
	Seq       uint64 `json:"seq"`
	Timestamp int64  `json:"timestamp"`
	Count     int    `json:"count"`
	Result    any    `json:"result"`
}

// client owns one connection. Messages that arrive while the previous one is
// still being written replace it.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts evaluated frames to WebSocket clients.
type Hub struct {
	clients map[*client]struct{}
	mu      sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 1)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	conn.Close()
}

// Broadcast sends snap to every connected client. It never blocks on a slow client.
func (h *Hub) Broadcast(snap app.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(resultMessage{
		Seq:       snap.Seq,
		Timestamp: snap.At.UnixMilli(),
		Count:     snap.Result.Count,
		Result:    snap.Result,
	})
	if err != nil {
		log.Printf("websocket encode error: %v", err)
		return
	}

	for c := range h.clients {
		c.offer(msg)
	}
}

// offer queues msg, displacing a message the writer has not picked up yet.
func (c *client) offer(msg []byte) {
	for {
		select {
		case c.send <- msg:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

func (c *client) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.conn.Close()
			return
		}
	}
}
