// server/ws/hub.go
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/vinizap/shelf/server/domain"
)

const sendBuffer = 64

// Message is the frame every subscriber receives. Origin names the server
// instance that produced it.
type Message struct {
	Type    domain.EventType `json:"type"`
	Origin  string           `json:"origin,omitempty"`
	Payload json.RawMessage  `json:"payload"`
}

// Conn is the part of a websocket connection the hub needs. Both the fiber
// and gorilla connections satisfy it.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Forwarder receives every message broadcast on this instance, for delivery
// to other instances.
type Forwarder interface {
	Forward(msg Message)
}

type client struct {
	conn Conn
	send chan Message
	// done is closed once the write pump has stopped touching conn.
	done chan struct{}
}

type Hub struct {
	origin     string
	clients    map[Conn]*client
	broadcast  chan Message
	register   chan *client
	unregister chan Conn
	done       chan struct{}
	mu         sync.RWMutex
	forwarder  Forwarder
	log        zerolog.Logger
}

func NewHub(origin string, log zerolog.Logger) *Hub {
	return &Hub{
		origin:     origin,
		clients:    make(map[Conn]*client),
		broadcast:  make(chan Message, 256),
		register:   make(chan *client),
		unregister: make(chan Conn),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// SetForwarder must be called before Run.
func (h *Hub) SetForwarder(f Forwarder) {
	h.forwarder = f
}

func (h *Hub) Origin() string {
	return h.origin
}

// Run owns the client registry until ctx ends, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn, c := range h.clients {
				delete(h.clients, conn)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.conn] = c
			h.mu.Unlock()
			go h.writePump(c)

		case conn := <-h.unregister:
			h.drop(conn)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn, c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.log.Warn().Msg("dropping slow websocket client")
					delete(h.clients, conn)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) drop(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(c.send)
	}
}

// writePump closes conn when it stops so a blocked reader wakes up. The
// caller of Register must not release conn before done is closed.
func (h *Hub) writePump(c *client) {
	defer close(c.done)
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			h.log.Debug().Err(err).Msg("websocket write error")
			h.Unregister(c.conn)
			for range c.send {
			}
			return
		}
	}
}

// Broadcast delivers an event to every local client and to the forwarder.
func (h *Hub) Broadcast(eventType domain.EventType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}
	msg := Message{Type: eventType, Origin: h.origin, Payload: data}
	h.BroadcastLocal(msg)
	if h.forwarder != nil {
		h.forwarder.Forward(msg)
	}
	return nil
}

// BroadcastLocal delivers msg to this instance's clients only.
func (h *Hub) BroadcastLocal(msg Message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Register adds conn to the hub. The returned channel is closed once the hub
// no longer uses conn; connection owners wait on it before releasing conn.
func (h *Hub) Register(conn Conn) <-chan struct{} {
	c := &client{conn: conn, send: make(chan Message, sendBuffer), done: make(chan struct{})}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		close(c.done)
	}
	return c.done
}

func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleConnection reads until the peer goes away. Inbound frames carry no
// commands; a subscribe frame is only logged.
func (h *Hub) HandleConnection(conn Conn) {
	defer h.Unregister(conn)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(raw, &msg) == nil && msg.Type == "subscribe" {
			h.log.Debug().Msg("client subscribed")
		}
	}
}
