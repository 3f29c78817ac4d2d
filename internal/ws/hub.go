package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/frbcapl/pool-league-backend/internal/service"
)

// Hub fans challenge lifecycle events out to dashboard subscribers. Each
// client subscribes to one division's feed; the feed is read-only, so there
// is no inbound command handling.
type Hub struct {
	divisions  map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastRequest
	stop       chan struct{}
	done       chan struct{}
	stopped    bool
	mu         sync.RWMutex
}

type broadcastRequest struct {
	division string
	payload  []byte
}

func NewHub() *Hub {
	return &Hub{
		divisions:  make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastRequest, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, clients := range h.divisions {
				for client := range clients {
					client.Close()
				}
			}
			h.divisions = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				if h.divisions[client.division] == nil {
					h.divisions[client.division] = make(map[*Client]bool)
				}
				h.divisions[client.division][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.divisions[client.division]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					client.Close()
					if len(clients) == 0 {
						delete(h.divisions, client.division)
					}
				}
			}
			h.mu.Unlock()

		case req := <-h.broadcast:
			h.mu.RLock()
			for client := range h.divisions[req.division] {
				select {
				case client.send <- req.payload:
				default:
					// Slow consumer; drop the event rather than block the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishChallengeEvent implements service.EventPublisher.
func (h *Hub) PublishChallengeEvent(division string, event service.ChallengeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR [ws.Hub] failed to marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- broadcastRequest{division: division, payload: payload}:
	case <-h.done:
	}
}
