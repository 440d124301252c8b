package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per store
	maxConnsPerStore = 8
	// Max total connections
	maxTotalConns = 10000
)

// OrderFeedHub maps storeID -> connected dashboard clients.
type OrderFeedHub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
	shutdown   chan struct{}
}

// NewOrderFeedHub creates a hub for live order delivery.
func NewOrderFeedHub() *OrderFeedHub {
	return &OrderFeedHub{
		conns:    make(map[uint]map[*Client]struct{}),
		shutdown: make(chan struct{}),
	}
}

// Register adds a connection for a store's dashboard. Returns the Client or
// an error when connection limits are exceeded.
func (h *OrderFeedHub) Register(storeID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[storeID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[storeID] = m
	}
	if len(m) >= maxConnsPerStore {
		return nil, errors.New("store connection limit reached")
	}

	client := newClient(h, conn, storeID)
	m[client] = struct{}{}
	h.totalConns++
	return client, nil
}

// Unregister removes a client from the hub.
func (h *OrderFeedHub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.conns[client.StoreID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
		}
		if len(m) == 0 {
			delete(h.conns, client.StoreID)
		}
	}
}

// Broadcast sends a message to every connection watching storeID.
func (h *OrderFeedHub) Broadcast(storeID uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.conns[storeID]; ok {
		for c := range clients {
			c.TrySend(message)
		}
	}
}

// ConnectionCount reports the number of active feed connections.
func (h *OrderFeedHub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConns
}

// StartWiring subscribes the hub to the notifier's Redis channels so order
// events published by any API instance reach every connected dashboard.
func (h *OrderFeedHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartOrderSubscriber(ctx, func(channel, payload string) {
		if !strings.HasPrefix(channel, "orders:store:") {
			log.Printf("invalid order feed channel: %s", channel)
			return
		}
		var storeID uint
		if _, err := fmt.Sscanf(channel, "orders:store:%d", &storeID); err != nil {
			log.Printf("invalid order feed channel: %s", channel)
			return
		}
		h.Broadcast(storeID, []byte(payload))
	})
}

// Shutdown gracefully closes all feed connections.
func (h *OrderFeedHub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	defer h.mu.Unlock()
	for storeID, clients := range h.conns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("failed to write close message for store %d: %v", storeID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for store %d: %v", storeID, err)
			}
		}
	}
	h.conns = make(map[uint]map[*Client]struct{})
	return nil
}
