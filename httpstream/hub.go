// Package httpstream rebroadcasts a stream.Iterator[T] to many HTTP clients
// as Server-Sent Events.
package httpstream

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/iterflow/logging"
)

// Client represents one subscribed HTTP connection.
type Client struct {
	id       string
	metadata map[string]string
	events   chan []byte
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMetadata attaches a metadata key-value pair to the client.
func WithMetadata(key, value string) ClientOption {
	return func(c *Client) {
		if c.metadata == nil {
			c.metadata = make(map[string]string)
		}
		c.metadata[key] = value
	}
}

// NewClient creates a subscriber with a buffered event channel.
func NewClient(id string, opts ...ClientOption) *Client {
	c := &Client{
		id:       id,
		metadata: make(map[string]string),
		events:   make(chan []byte, 256),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ID() string                      { return c.id }
func (c *Client) Metadata() map[string]string     { return c.metadata }
func (c *Client) GetMetadata(key string) string   { return c.metadata[key] }
func (c *Client) Events() <-chan []byte            { return c.events }

// Send enqueues data for the client. It returns false and drops the event
// if the client's channel is full, rather than blocking the broadcaster on
// one slow reader.
func (c *Client) Send(data []byte) bool {
	select {
	case c.events <- data:
		return true
	default:
		logging.Warn("httpstream client channel full, dropping event", map[string]any{
			"client_id": c.id,
		})
		return false
	}
}

func (c *Client) close() { close(c.events) }

// Broadcaster lets callers publish to subscribed clients without depending
// on a concrete Hub.
type Broadcaster interface {
	BroadcastToPattern(pattern string, data []byte)
}

// Message is one broadcast sent to pattern-matching clients.
type Message struct {
	Pattern string
	Data    []byte
}

// Hub fans a single stream out to any number of subscribed HTTP clients.
// Clients register under an ID; broadcasts target clients whose ID matches
// a glob pattern, so a single stream can be partitioned (e.g. one client
// per tenant ID) without per-tenant hubs.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	stopped    bool
	mu         sync.RWMutex
}

var _ Broadcaster = (*Hub)(nil)

// NewHub creates an unstarted Hub. Call Run (typically from Component.Start)
// before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
	}
}

// Run is the Hub's single-goroutine event loop. It blocks until Stop is
// called; run it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			logging.Debug("httpstream client registered", map[string]any{
				"client_id":     client.id,
				"total_clients": len(h.clients),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.close()
			}
			h.mu.Unlock()
			logging.Debug("httpstream client unregistered", map[string]any{
				"client_id":     client.id,
				"total_clients": len(h.clients),
			})

		case msg := <-h.broadcast:
			h.broadcastWithPattern(msg.Pattern, msg.Data)
		}
	}
}

// Stop shuts the hub down, closing every registered client. Safe to call
// more than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.stopped = true
		close(h.done)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.close()
		delete(h.clients, id)
	}
}

// Register adds a client to the hub. Blocks until the hub's Run loop picks
// it up.
func (h *Hub) Register(client *Client) { h.register <- client }

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

// BroadcastToPattern queues data for delivery to every client whose ID
// matches the glob pattern (e.g. "tenant:*" or "tenant:abc123").
func (h *Hub) BroadcastToPattern(pattern string, data []byte) {
	h.broadcast <- &Message{Pattern: pattern, Data: data}
}

func (h *Hub) broadcastWithPattern(pattern string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	matched := 0
	for clientID, client := range h.clients {
		ok, err := filepath.Match(pattern, clientID)
		if err != nil {
			logging.Error("httpstream pattern match error", map[string]any{
				"pattern": pattern,
				"error":   err.Error(),
			})
			continue
		}
		if ok && client.Send(data) {
			matched++
		}
	}
	logging.Debug("httpstream broadcast", map[string]any{
		"pattern": pattern,
		"matched": matched,
		"total":   len(h.clients),
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ClientIDs returns the IDs of all connected clients.
func (h *Hub) ClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}
