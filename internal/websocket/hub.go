package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"moodmap/internal/models"
)

// EventToSend defines the structure for pushing a payload to a specific user.
type EventToSend struct {
	TargetUser string
	Payload    []byte
}

// Hub maintains the set of active clients and pushes feed change events to
// them. Clients are keyed by username; one user may hold several
// connections (phone plus tablet, for instance).
type Hub struct {
	// Registered clients. Maps username to a set of active client connections.
	Clients map[string]map[*Client]bool

	// Channel for pushing events to specific users.
	SendDirect chan *EventToSend

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Mutex to protect concurrent access to the clients map.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		SendDirect: make(chan *EventToSend),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[string]map[*Client]bool),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	log.Println("WebSocket Hub started.")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.Username]; !ok {
				h.Clients[client.Username] = make(map[*Client]bool)
			}
			h.Clients[client.Username][client] = true
			log.Printf("WebSocket client registered for %s. Total connections for user: %d", client.Username, len(h.Clients[client.Username]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if userClients, ok := h.Clients[client.Username]; ok {
				if _, clientOk := userClients[client]; clientOk {
					delete(userClients, client)
					if len(userClients) == 0 {
						delete(h.Clients, client.Username)
						log.Printf("WebSocket client unregistered. %s has no more connections.", client.Username)
					} else {
						log.Printf("WebSocket client unregistered for %s. Remaining connections: %d", client.Username, len(userClients))
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.SendDirect:
			h.mu.RLock()
			if userClients, ok := h.Clients[event.TargetUser]; ok {
				for client := range userClients {
					select {
					case client.Send <- event.Payload:
					default:
						log.Printf("Send channel full for client of %s. Event dropped for this client.", client.Username)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishToUser queues a feed change event for every connection the user
// holds. It satisfies the actors' EventPublisher interface; a disconnected
// user simply misses the push and catches up on the next feed refresh.
func (h *Hub) PublishToUser(username string, event *models.FeedChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal feed change event for %s: %v", username, err)
		return
	}

	message := &EventToSend{
		TargetUser: username,
		Payload:    payload,
	}
	select {
	case h.SendDirect <- message:
	case <-time.After(1 * time.Second):
		log.Printf("Timeout queuing event for %s. Hub might be busy or blocked.", username)
	}
}
