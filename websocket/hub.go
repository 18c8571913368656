package websocket

import (
	"sync"

	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/services"
)

const sendBuffer = 16

// Conn is the part of a websocket connection the hub needs.
type Conn interface {
	WriteJSON(v interface{}) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

type client struct {
	userID uint
	conn   Conn
	send   chan services.Event
	done   chan struct{}
}

// Hub fans events out to every live connection of a user. It implements
// services.Notifier; Notify never blocks and drops events for slow clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*client]struct{}
	log     *logger.Logger
}

func NewHub(baseLog *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*client]struct{}),
		log:     baseLog.With("service", "WebsocketHub"),
	}
}

func (h *Hub) register(userID uint, conn Conn) *client {
	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan services.Event, sendBuffer),
		done:   make(chan struct{}),
	}
	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("client registered", "user_id", userID)
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if set, ok := h.clients[c.userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.done)
		}
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	h.log.Debug("client unregistered", "user_id", c.userID)
}

func (h *Hub) Notify(userID uint, event services.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- event:
		default:
			h.log.Warn("dropping event for slow client", "user_id", userID, "type", event.Type)
		}
	}
}

func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Serve owns conn until the peer disconnects. Inbound messages are ignored.
func (h *Hub) Serve(userID uint, conn Conn) {
	c := h.register(userID, conn)
	defer func() {
		h.unregister(c)
		conn.Close()
	}()

	go h.writePump(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	for {
		select {
		case event := <-c.send:
			if err := c.conn.WriteJSON(event); err != nil {
				h.log.Error("error sending event to client", "user_id", c.userID, "error", err)
				c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
