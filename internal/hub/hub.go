package hub

import (
	"encoding/json"
	"sync"

	"playgrid/backend/internal/room"
)

// Client is a single live connection's outbound queue. The gateway's write
// pump drains it.
type Client chan []byte

// Hub manages the room-scoped broadcast groups: for each room code, the set
// of connected players' clients. It implements room.Notifier.
type Hub struct {
	rooms map[string]map[uint]Client // code -> userID -> client
	mu    sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[uint]Client),
	}
}

// Subscribe binds a user's client to a room code. A re-subscribe for the
// same user replaces the previous client.
func (h *Hub) Subscribe(code string, userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[code]; !ok {
		h.rooms[code] = make(map[uint]Client)
	}
	h.rooms[code][userID] = client
}

// Unsubscribe removes a user's client from a room. It is a no-op if another
// client has already taken the slot.
func (h *Hub) Unsubscribe(code string, userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[code]; ok {
		if current, ok := clients[userID]; ok && current == client {
			delete(clients, userID)
			if len(clients) == 0 {
				delete(h.rooms, code)
			}
		}
	}
}

// Broadcast sends an event to every client in the room.
func (h *Hub) Broadcast(code string, event room.Event) {
	h.send(code, event, nil)
}

// BroadcastExcept sends an event to every client in the room except the
// given user's, used when the actor gets a dedicated reply instead.
func (h *Hub) BroadcastExcept(code string, userID uint, event room.Event) {
	h.send(code, event, &userID)
}

func (h *Hub) send(code string, event room.Event, except *uint) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[code]
	if !ok {
		return
	}

	message, err := json.Marshal(event)
	if err != nil {
		return
	}

	for userID, client := range clients {
		if except != nil && userID == *except {
			continue
		}
		// Non-blocking send so a slow client cannot stall the room.
		select {
		case client <- message:
		default:
		}
	}
}
