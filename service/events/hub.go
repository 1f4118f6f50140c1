package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/blink-new/meetly-server/cmd/models"
	"github.com/gorilla/websocket"
)

const (
	AppointmentBooked    = "appointment.booked"
	AppointmentCancelled = "appointment.cancelled"
)

const sendBufferSize = 256

type Event struct {
	Type        string             `json:"type"`
	Appointment models.Appointment `json:"appointment"`
}

// client owns all writes to its connection: publishers only enqueue on
// send, the write pump is the single writer the websocket package
// requires.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// Hub fans booking events out to the owner's live websocket
// connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint][]*client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint][]*client),
	}
}

func (h *Hub) register(userID uint, conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	go c.writePump()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = append(h.clients[userID], c)
	return c
}

// unregister removes the client and closes its send channel, which
// stops the write pump. Safe to call more than once.
func (h *Hub) unregister(userID uint, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[userID]
	for i, existing := range conns {
		if existing == c {
			h.clients[userID] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			break
		}
	}
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Publish delivers an event to every live connection of the owner.
// Clients too slow to drain their buffer are dropped.
func (h *Hub) Publish(ownerID uint, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	h.mu.RLock()
	clients := append([]*client(nil), h.clients[ownerID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			h.unregister(ownerID, c)
		}
	}
}
