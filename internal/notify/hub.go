package notify

import (
	"log"
	"sync"
)

// Conn is the minimal connection surface the hub needs.  Production uses
// websocket connections; tests plug in fakes.
type Conn interface {
	Send(v any) error
	Close() error
}

// Hub tracks the connected dashboard clients and fans events out to all
// of them.  A client whose send fails is dropped on the spot; the
// dashboard reconnects on its own.
type Hub struct {
	mu      sync.Mutex
	clients map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]struct{})}
}

// Register adds a client and greets it with a connection event.
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("notify: cliente conectado (%d ativos)", n)

	if err := c.Send(NewEvent(EventConnection, "Conectado ao dashboard em tempo real", nil)); err != nil {
		h.Unregister(c)
	}
}

// Unregister removes a client and closes its connection.
func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		c.Close()
		log.Printf("notify: cliente desconectado (%d ativos)", n)
	}
}

// Broadcast sends an event to every connected client, pruning the ones
// whose connection is gone.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.Send(ev); err != nil {
			h.Unregister(c)
		}
	}
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
