package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"SignalSentinel/internal/model"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans cycle events out to WebSocket clients. A newly connected client
// first receives the latest event.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	latest  []byte
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// Broadcast encodes evt and queues it for every client. Slow clients whose
// buffer is full miss the event.
func (h *Hub) Broadcast(evt model.CycleEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Msg("encode cycle event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = payload
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			log.Warn().Msg("ws client buffer full, event dropped")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and starts the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), hub: h}

	h.mu.Lock()
	h.clients[c] = true
	if h.latest != nil {
		c.send <- h.latest
	}
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
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

// readPump only handles control frames; client messages are ignored.
func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
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
