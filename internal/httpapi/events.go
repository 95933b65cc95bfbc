package httpapi

import (
	"sync"

	"github.com/gorilla/websocket"

	"juliejulie/internal/command"
)

// Hub fans router events out to connected websocket clients. Slow clients
// get dropped rather than blocking the router.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]chan command.Event
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]chan command.Event)}
}

// Publish implements command.Notifier.
func (h *Hub) Publish(event command.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.conns {
		select {
		case ch <- event:
		default:
			// Queue full: client isn't keeping up. Disconnect it.
			delete(h.conns, conn)
			close(ch)
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) chan command.Event {
	ch := make(chan command.Event, 64)
	h.mu.Lock()
	h.conns[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		close(ch)
	}
}

// ClientCount reports how many websocket clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
