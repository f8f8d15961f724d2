package websocket

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopgram/shopgram_backend/repositories"
)

// Define event types pushed to dashboard clients
const (
	EventConnected    = "connected"
	EventSubscribed   = "subscribed"
	EventUnsubscribed = "unsubscribed"
	EventSnapshot     = "snapshot"
	EventError        = "error"
)

// Event represents a message sent over WebSocket
type Event struct {
	Type       string      `json:"type"`
	Collection string      `json:"collection,omitempty"`
	ShopID     string      `json:"shopId,omitempty"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn

	send chan Event

	mu         sync.Mutex
	watcher    *shopWatcher
	generation int
	closed     bool
}

// Enqueue hands an event to the client's write loop. Events from a watcher
// that has since been replaced are dropped, as are events to a client whose
// buffer is full (the next snapshot supersedes them anyway).
func (c *Client) Enqueue(generation int, event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if generation != 0 && generation != c.generation {
		return
	}

	select {
	case c.send <- event:
	default:
		log.Printf("WebSocket client %s: send buffer full, dropping %s event", c.UserID.Hex(), event.Type)
	}
}

func (c *Client) writePump() {
	for event := range c.send {
		if err := c.Conn.WriteJSON(event); err != nil {
			return
		}
	}
}

// Hub maintains the set of active clients and their shop subscriptions
type Hub struct {
	db         *mongo.Database
	shops      *repositories.ShopRepository
	snapshots  SnapshotSource
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// SnapshotSource fetches the current state of each watched collection for a
// shop. Watchers re-read the full list on every change event so clients never
// have to apply partial diffs.
type SnapshotSource struct {
	Products    *repositories.ProductRepository
	Categories  *repositories.CategoryRepository
	Departments *repositories.DepartmentRepository
}

// NewHub creates a new Hub instance
func NewHub(db *mongo.Database, shops *repositories.ShopRepository, snapshots SnapshotSource) *Hub {
	return &Hub{
		db:         db,
		shops:      shops,
		snapshots:  snapshots,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.Unsubscribe(client)
				client.mu.Lock()
				client.closed = true
				client.mu.Unlock()
				close(client.send)
				client.Conn.Close()
			}
			h.mu.Unlock()
		}
	}
}

// Subscribe points the client's live feed at a shop, replacing any previous
// subscription. The caller must have verified shop ownership.
func (h *Hub) Subscribe(client *Client, shopID primitive.ObjectID) {
	client.mu.Lock()
	if client.watcher != nil {
		client.watcher.stop()
	}
	client.generation++
	watcher := newShopWatcher(h, client, shopID, client.generation)
	client.watcher = watcher
	client.mu.Unlock()

	watcher.start()
}

// Unsubscribe tears down the client's current shop subscription, if any.
func (h *Hub) Unsubscribe(client *Client) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.watcher != nil {
		client.watcher.stop()
		client.watcher = nil
		client.generation++
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
