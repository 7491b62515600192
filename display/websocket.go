package ostinato

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	Mb "github.com/maroda/ostinato/playback"
)

// Websocket event types.
const (
	EventConnected = "connected"
	EventUpdate    = "update"
	EventStep      = "step"
)

// Event is one message pushed to websocket clients.
type Event struct {
	Type     string      `json:"type"`
	Revision int64       `json:"revision,omitempty"`
	Step     *Mb.StepRef `json:"step,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans events out to every connected client.
// A client that falls behind loses events rather than blocking the sender.
type Hub struct {
	MU      sync.Mutex
	clients map[chan Event]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan Event]struct{})}
}

func (h *Hub) register() (chan Event, bool) {
	h.MU.Lock()
	defer h.MU.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan Event, 32)
	h.clients[ch] = struct{}{}
	return ch, true
}

func (h *Hub) unregister(ch chan Event) {
	h.MU.Lock()
	defer h.MU.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

func (h *Hub) Broadcast(ev Event) {
	h.MU.Lock()
	defer h.MU.Unlock()
	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			slog.Debug("Websocket client is behind, dropping event", slog.String("type", ev.Type))
		}
	}
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.MU.Lock()
	defer h.MU.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.MU.Lock()
	defer h.MU.Unlock()
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}

func (v *View) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, ok := v.Hub.register()
	if !ok {
		return
	}
	defer v.Hub.unregister(events)

	if err := conn.WriteJSON(Event{Type: EventConnected}); err != nil {
		return
	}

	// Reads only detect the client going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return // Connection closed
			}
		case <-gone:
			return
		}
	}
}
