// Package events streams board mutations to connected dashboards over
// websockets.
package events

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	sendBuffer      = 64
	broadcastBuffer = 256
)

type Message struct {
	Type       string             `json:"type"`
	Task       *models.Task       `json:"task,omitempty"`
	FromStatus models.TaskStatus  `json:"from_status,omitempty"`
	Member     *models.TeamMember `json:"member,omitempty"`
	Meeting    *meetingMessage    `json:"meeting,omitempty"`
	At         time.Time          `json:"at"`
}

type meetingMessage struct {
	Time      string   `json:"time"`
	Scheduled bool     `json:"scheduled"`
	Attendees []string `json:"attendees"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans board events out to every connected client. Clients that fall
// behind are disconnected.
type Hub struct {
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	clients    map[*client]struct{}
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug().
				Int("clients", len(h.clients)).
				Msg("registered events client")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					delete(h.clients, c)
					close(c.send)
					h.logger.Warn().Msg("dropped slow events client")
				}
			}
		}
	}
}

// Publish queues a store event for broadcast. It never blocks, so it is
// safe to use as a store.Listener.
func (h *Hub) Publish(e store.Event) {
	data, err := json.Marshal(newMessage(e))
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", string(e.Kind)).
			Msg("failed to marshal event")
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn().
			Str("event", string(e.Kind)).
			Msg("events queue is full, dropped event")
	}
}

func newMessage(e store.Event) Message {
	msg := Message{
		Type:       string(e.Kind),
		Task:       e.Task,
		FromStatus: e.FromStatus,
		Member:     e.Member,
		At:         time.Now().UTC(),
	}
	if e.Meeting != nil {
		msg.Meeting = &meetingMessage{
			Time:      e.Meeting.Time,
			Scheduled: e.Meeting.Scheduled,
			Attendees: e.Meeting.Attendees,
		}
	}
	return msg
}

// ServeWS upgrades the request and registers the connection. The hub must
// be running.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to upgrade events connection")
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards client input and detects disconnects.
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
				c.hub.logger.Debug().
					Err(err).
					Msg("events client closed unexpectedly")
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
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
