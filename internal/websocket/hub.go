// Package websocket streams roster changes to connected browsers.
package websocket

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const sendBuffer = 16

// Hub fans roster events out to every connected client. A client whose
// buffer is full is disconnected instead of stalling the publisher.
type Hub struct {
	upgrader   websocket.Upgrader
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	done       chan struct{}
	log        zerolog.Logger
}

type client struct {
	conn    *websocket.Conn
	send    chan Event
	writeMu sync.Mutex
}

func (c *client) write(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteTyped(c.conn, v)
}

// NewHub creates a Hub. allowedOrigins restricts the upgrade Origin header;
// an empty slice permits all origins.
func NewHub(allowedOrigins []string, log zerolog.Logger) *Hub {
	return &Hub{
		upgrader:   buildUpgrader(allowedOrigins),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, sendBuffer),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
}

func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// Run owns the client registry until ctx is cancelled. Call in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*client]struct{})
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				close(c.send)
			}
			h.log.Info().Int("clients", len(clients)).Msg("Hub stopped")
			return

		case c := <-h.register:
			clients[c] = struct{}{}
			h.log.Debug().Int("clients", len(clients)).Msg("Client connected")

		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
			}

		case ev := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- ev:
				default:
					delete(clients, c)
					close(c.send)
					h.log.Warn().Msg("Dropping slow client")
				}
			}
		}
	}
}

// Publish queues ev for every connected client. It returns immediately
// once the hub has stopped.
func (h *Hub) Publish(ev Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	}
}

// Serve upgrades the request and streams events until either side closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan Event, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for ev := range c.send {
		if err := c.write(ev); err != nil {
			h.log.Debug().Err(err).Msg("Write failed")
			break
		}
	}
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.writeMu.Unlock()
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		var msg RequestEnvelope
		if err := ReadJSON(c.conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case "ping":
			_ = c.write(PongResponse{Event: EventPong})
		default:
			_ = c.write(ErrorResponse{Event: EventError, Error: "unknown action: " + msg.Action})
		}
	}
}
