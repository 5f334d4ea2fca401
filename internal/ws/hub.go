package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single dashboard WebSocket connection scoped to a store.
type Client struct {
	StoreID uint
	Send    chan []byte
	Hub     *Hub // set so Close() can unregister
	mu      sync.Mutex
	closed  bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// trySend drops the message when the client is closed or its buffer is full;
// a slow dashboard must never block reconciliation.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// Hub fans reconciliation outcomes out to the connected dashboard sessions of
// each store. One store can have multiple connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	byStore map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byStore: make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.byStore[c.StoreID] == nil {
		h.byStore[c.StoreID] = make(map[*Client]struct{})
	}
	h.byStore[c.StoreID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byStore[c.StoreID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byStore, c.StoreID)
		}
	}
}

func (h *Hub) BroadcastToStore(storeID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byStore[storeID]
	if m == nil {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
