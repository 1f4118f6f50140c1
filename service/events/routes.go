package events

import (
	"net/http"

	"github.com/blink-new/meetly-server/cmd/utils"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EventsHandler struct {
	hub *Hub
}

func NewEventsHandler(hub *Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func (h *EventsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/events", utils.AuthMiddleware(h.HandleWebSocket))
}

// HandleWebSocket upgrades the connection and streams booking events to
// the authenticated owner until the peer hangs up.
func (h *EventsHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := h.hub.register(userID, conn)

	// Drain the connection; the write pump owns outgoing frames.
	go func() {
		defer h.hub.unregister(userID, client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
