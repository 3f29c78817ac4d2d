package handlers

import (
	"log"
	"net/http"

	"github.com/frbcapl/pool-league-backend/internal/ws"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler serves the read-only division event feed used by live
// ladder dashboards.
type WebSocketHandler struct {
	hub *ws.Hub
}

func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	division := r.URL.Query().Get("division")
	if division == "" {
		http.Error(w, "division query parameter required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR [WebSocketHandler.Handle] upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, division)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
