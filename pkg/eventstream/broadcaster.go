// Package eventstream pushes tool execution events to WebSocket
// subscribers. The broadcaster exposes an executor.EventCallback so a
// single agent run can be mirrored to every connected client, replacing
// the console printer when running as a daemon.
package eventstream

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/halim/orin/pkg/executor"
)

// EventMessage is the wire form of one pipeline event.
type EventMessage struct {
	Type      string `json:"type"`
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Tool      string `json:"tool,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Seq       int64  `json:"seq"`
}

type client struct {
	id   string
	conn *websocket.Conn

	// Guards conn writes. gorilla/websocket allows one concurrent writer.
	writeMu sync.Mutex
}

func (c *client) send(msg EventMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Broadcaster fans execution events out to connected WebSocket clients.
type Broadcaster struct {
	logger   zerolog.Logger
	upgrader websocket.Upgrader
	seq      atomic.Int64

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

// New creates an empty broadcaster.
func New(logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// Handler returns the HTTP handler that upgrades subscribers.
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.logger.Error().Err(err).Msg("Failed to upgrade connection")
			return
		}

		id, _ := gonanoid.New()
		c := &client{id: id, conn: conn}

		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			conn.Close()
			return
		}
		b.clients[id] = c
		b.mu.Unlock()

		b.logger.Info().Str("client_id", id).Str("ip", r.RemoteAddr).Msg("Event stream client connected")

		go b.drain(c)
	}
}

// drain consumes inbound frames so pings and close frames are processed,
// and drops the client once the connection dies.
func (b *Broadcaster) drain(c *client) {
	defer func() {
		c.conn.Close()
		b.mu.Lock()
		delete(b.clients, c.id)
		b.mu.Unlock()
		b.logger.Info().Str("client_id", c.id).Msg("Event stream client disconnected")
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Callback returns an event callback that broadcasts every event.
func (b *Broadcaster) Callback() executor.EventCallback {
	return func(event executor.Event) {
		b.Broadcast(event)
	}
}

// Broadcast sends one event to every connected client. Slow or dead
// clients only lose their own messages.
func (b *Broadcaster) Broadcast(event executor.Event) {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	msg := EventMessage{
		Type:      string(event.Type),
		Stage:     string(event.Stage),
		Message:   event.Message,
		Tool:      event.Tool,
		Timestamp: ts.UnixMilli(),
		Seq:       b.seq.Add(1),
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for _, c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			b.logger.Warn().
				Err(err).
				Str("client_id", c.id).
				Str("stage", msg.Stage).
				Msg("Failed to broadcast event")
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close disconnects every client and rejects new ones.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	clients := make([]*client, 0, len(b.clients))
	for _, c := range b.clients {
		clients = append(clients, c)
	}
	b.clients = make(map[string]*client)
	b.mu.Unlock()

	for _, c := range clients {
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutting down"))
		c.writeMu.Unlock()
		c.conn.Close()
	}
}
