package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/kiwari-pos/floor/internal/floor"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// displayEvent routes an event to one display room
type displayEvent struct {
	Display enum.Display
	Event   Event
}

// Hub maintains the connected screens per display and fans events out to them
type Hub struct {
	// Registered clients by display
	rooms map[enum.Display]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *displayEvent

	// Closed when Run returns
	done chan struct{}

	mu     sync.RWMutex
	logger *gecho.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *gecho.Logger) *Hub {
	return &Hub{
		rooms:      make(map[enum.Display]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *displayEvent, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop and returns when ctx is done, closing every
// client. Call it as a goroutine: go hub.Run(ctx)
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for display, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, display)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.display] == nil {
				h.rooms[client.display] = make(map[*Client]bool)
			}
			h.rooms[client.display][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.logger.Error("Failed to marshal display event", gecho.Field("type", event.Event.Type), gecho.Field("error", err))
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.Display] {
				select {
				case client.send <- message:
				default:
					// Slow screen; drop it and let it reconnect
					h.logger.Warn("Dropping slow display client", gecho.Field("display", string(event.Display)))
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops client from its room. Callers hold h.mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.display]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.display)
	}
}

// BroadcastToDisplay sends an event to every client watching display
func (h *Hub) BroadcastToDisplay(display enum.Display, event Event) {
	select {
	case h.broadcast <- &displayEvent{Display: display, Event: event}:
	case <-h.done:
	}
}

// ClientCount returns the number of screens connected to display
func (h *Hub) ClientCount(display enum.Display) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[display])
}

// Publish is a floor.Listener that forwards committed floor events to the
// displays they are addressed to.
func (h *Hub) Publish(events []floor.Event) {
	for _, e := range events {
		payload, err := eventPayload(e)
		if err != nil {
			h.logger.Error("Failed to encode floor event", gecho.Field("type", e.Type), gecho.Field("error", err))
			continue
		}
		msg := Event{Type: e.Type, Payload: payload}
		for _, d := range e.Displays {
			h.BroadcastToDisplay(d, msg)
		}
	}
}

func eventPayload(e floor.Event) (json.RawMessage, error) {
	var v any
	switch {
	case e.Order != nil:
		v = e.Order
	case e.Table != nil:
		v = e.Table
	case e.MenuItem != nil:
		v = e.MenuItem
	case e.Settings != nil:
		v = e.Settings
	default:
		return json.RawMessage(`{}`), nil
	}
	return json.Marshal(v)
}
