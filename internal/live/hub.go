// internal/live/hub.go
//
// WebSocket push of game snapshots.
// Responsibilities:
//   - Upgrade GET /ws and greet each client with the current state.
//   - Fan every store change out to all connected clients.
//   - Keep connections alive with ping/pong and drop slow clients.
//
// Clients only listen; anything they send is read and discarded.

package live

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// EventHello is the first message every client receives.
	EventHello = "state"
)

// Message is one push to clients. State is null when no game is live.
type Message struct {
	Event string         `json:"event"`
	State *game.Snapshot `json:"state"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected clients and broadcasts messages.
type Hub struct {
	upgrader   websocket.Upgrader
	current    func() *game.Snapshot
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{} // closed when Run returns
}

// NewHub creates a hub. Upgrades are accepted from origin (any origin when
// it is "*" or empty). current supplies the greeting state and may be nil.
func NewHub(origin string, current func() *game.Snapshot) *Hub {
	if current == nil {
		current = func() *game.Snapshot { return nil }
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				got := r.Header.Get("Origin")
				return origin == "" || origin == "*" || got == "" || got == origin
			},
		},
		current:    current,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It returns when ctx is done, closing every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.greet(c)
			log.Debug().Int("clients", len(h.clients)).Msg("ws client joined")
		case c := <-h.unregister:
			h.drop(c)
		case data := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// Send buffer full: the client is too slow to keep up.
					h.drop(c)
				}
			}
		}
	}
}

// Broadcast queues a message for every client. It never blocks; when the
// hub is backed up the message is dropped.
func (h *Hub) Broadcast(event string, snap *game.Snapshot) {
	data, err := json.Marshal(Message{Event: event, State: snap})
	if err != nil {
		log.Warn().Err(err).Str("event", event).Msg("marshal ws message")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn().Str("event", event).Msg("ws broadcast queue full, dropping")
	}
}

// ServeWS upgrades the request and registers the client. The hub greets it
// with the current state once registered.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, 256)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// greet queues the current state for a client that was just registered.
// It runs inside Run, so every broadcast handled later also reaches c.
func (h *Hub) greet(c *client) {
	hello, err := json.Marshal(Message{Event: EventHello, State: h.current()})
	if err != nil {
		log.Warn().Err(err).Msg("marshal ws greeting")
		return
	}
	c.send <- hello
}

func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		log.Debug().Int("clients", len(h.clients)).Msg("ws client left")
	}
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("ws read")
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
