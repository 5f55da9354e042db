package ws

import (
	"encoding/json"
	"sync"

	"memory_party/internal/logger"
	"memory_party/internal/metrics"
	"memory_party/internal/session"
)

// Hub tracks open connections and the room groups they are subscribed to.
// It implements session.Gateway and never calls back into the session layer,
// so rooms may use it while holding their own lock.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	groups  map[string]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]struct{}),
	}
}

var _ session.Gateway = (*Hub)(nil)

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	n := len(h.clients)
	h.mu.Unlock()

	metrics.ConnectionsActive.Set(float64(n))
}

// Unregister drops c from every group and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	cur, ok := h.clients[c.ID]
	if ok && cur == c {
		delete(h.clients, c.ID)
		for code, members := range h.groups {
			delete(members, c.ID)
			if len(members) == 0 {
				delete(h.groups, code)
			}
		}
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.ConnectionsActive.Set(float64(n))
}

func (h *Hub) Subscribe(code, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[code]
	if !ok {
		members = make(map[string]struct{})
		h.groups[code] = members
	}
	members[playerID] = struct{}{}
}

func (h *Hub) Unsubscribe(code, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[code]
	if !ok {
		return
	}
	delete(members, playerID)
	if len(members) == 0 {
		delete(h.groups, code)
	}
}

func (h *Hub) Broadcast(code string, ev session.Event) {
	msg, ok := encode(ev)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.groups[code] {
		if c, ok := h.clients[id]; ok {
			deliver(c, msg)
		}
	}
}

func (h *Hub) Send(playerID string, ev session.Event) {
	msg, ok := encode(ev)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[playerID]; ok {
		deliver(c, msg)
	}
}

// Len returns the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Members returns the player ids subscribed to code.
func (h *Hub) Members(code string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.groups[code]))
	for id := range h.groups[code] {
		out = append(out, id)
	}
	return out
}

// deliver must run under h.mu so that c.send cannot be closed underneath it.
func deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		metrics.MessagesDropped.WithLabelValues("slow_consumer").Inc()
		logger.Debug("dropping message for slow client", "player", c.ID)
	}
}

func encode(ev session.Event) ([]byte, bool) {
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to encode event", "type", ev.Type, "error", err)
		return nil, false
	}
	return msg, true
}
