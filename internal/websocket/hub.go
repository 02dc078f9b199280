// Package websocket pushes live leaderboards to spectators.
//
// Every score entry recomputes the round's leaderboard and hands the encoded JSON to the
// Hub, which fans it out to each connection watching that round. A single goroutine (Run)
// owns the connection registry and handles registration, removal and broadcasts through
// channels, so the registry itself never sees concurrent writes.
package websocket

import (
	"context"
	"log/slog"
	"sync"
)

// sendBuffer is how many leaderboard updates a viewer may fall behind before being dropped.
const sendBuffer = 16

// Client is one open connection watching a round.
type Client struct {
	RoundID string
	Send    chan []byte // closed by the Hub when the client is removed
}

// NewClient builds a client for roundID with a buffered outgoing queue.
func NewClient(roundID string) *Client {
	return &Client{RoundID: roundID, Send: make(chan []byte, sendBuffer)}
}

// Message is a payload for every client watching one round.
type Message struct {
	RoundID string
	Data    []byte
}

// Hub tracks connections per round and fans out leaderboard updates.
type Hub struct {
	clients map[string]map[*Client]struct{}

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns

	// mu guards clients for ClientCount; Run is the only writer.
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHub creates a Hub. Call Run in its own goroutine before registering clients.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes hub events until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for roundID, clients := range h.clients {
				for c := range clients {
					close(c.Send)
				}
				delete(h.clients, roundID)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.RoundID] == nil {
				h.clients[c.RoundID] = make(map[*Client]struct{})
			}
			h.clients[c.RoundID][c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for c := range h.clients[msg.RoundID] {
				select {
				case c.Send <- msg.Data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()

			// A viewer whose queue is full is dropped instead of stalling the round.
			for _, c := range slow {
				h.logger.Warn("dropping slow live viewer", slog.String("round_id", c.RoundID))
				h.remove(c)
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[c.RoundID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.Send)
	if len(clients) == 0 {
		delete(h.clients, c.RoundID)
	}
}

// BroadcastToRound queues data for every client watching roundID. It returns without
// sending once the hub has stopped.
func (h *Hub) BroadcastToRound(roundID string, data []byte) {
	select {
	case h.broadcast <- Message{RoundID: roundID, Data: data}:
	case <-h.done:
	}
}

// Register starts delivering a round's broadcasts to c. It reports false when the hub has
// stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister stops delivery to c and closes its Send channel. Unregistering a client that
// was already dropped, or after the hub stopped, is a no-op.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount is the number of open connections across all rounds.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}
