package api

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// client serializes writes to one connection; gorilla connections allow a single writer
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(message)
}

// send writes one message; the caller holds c.mu
func (c *client) send(message []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub fans session updates out to every connected viewer
type Hub struct {
	clients   map[*client]struct{}
	broadcast chan []byte
	mutex     sync.RWMutex
	logger    *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		broadcast: make(chan []byte, 256),
		logger:    logger,
	}
}

// Run delivers broadcast messages until ctx is done, then closes all connections
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case msg := <-h.broadcast:
			h.mutex.RLock()
			clients := make([]*client, 0, len(h.clients))
			for c := range h.clients {
				clients = append(clients, c)
			}
			h.mutex.RUnlock()

			for _, c := range clients {
				if err := c.write(msg); err != nil {
					h.logger.Debug("dropping websocket viewer", zap.Error(err))
					h.remove(c)
				}
			}
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				c.conn.Close()
				delete(h.clients, c)
			}
			h.mutex.Unlock()
			return
		}
	}
}

func (h *Hub) add(c *client) {
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mutex.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.conn.Close()
	}
	h.mutex.Unlock()
}

// Broadcast queues a message for every viewer; it never blocks
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping update")
	}
}

// ClientsCount returns the number of connected viewers
func (h *Hub) ClientsCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
