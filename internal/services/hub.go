package services

import (
	"context"

	"github.com/gorilla/websocket"
)

// AdminEvent is a message pushed to connected admin UI sockets: either
// a metric sample or an activity-log entry.
type AdminEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// AdminHub fans AdminEvents out to websocket clients. Registration and
// broadcast both go through the run loop, so the clients map is only
// ever touched from one goroutine.
type AdminHub struct {
	clients    map[*websocket.Conn]bool
	events     chan AdminEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

func NewAdminHub() *AdminHub {
	return &AdminHub{
		clients:    map[*websocket.Conn]bool{},
		events:     make(chan AdminEvent, 32),
		register:   make(chan *websocket.Conn, 4),
		unregister: make(chan *websocket.Conn, 4),
	}
}

func (h *AdminHub) Run(ctx context.Context) {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
		case conn := <-h.unregister:
			delete(h.clients, conn)
		case event := <-h.events:
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					delete(h.clients, conn)
					_ = conn.Close()
				}
			}
		case <-ctx.Done():
			for conn := range h.clients {
				_ = conn.Close()
			}
			return
		}
	}
}

// Broadcast drops the event when the hub is saturated; the feed is
// advisory, not durable.
func (h *AdminHub) Broadcast(event AdminEvent) {
	select {
	case h.events <- event:
	default:
	}
}

func (h *AdminHub) Add(conn *websocket.Conn) {
	h.register <- conn
}

func (h *AdminHub) Remove(conn *websocket.Conn) {
	h.unregister <- conn
}
