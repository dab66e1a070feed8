package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ikkim/wishwall-backend/pkg/logger"
)

// Feed event types pushed to connected clients.
const (
	EventWishCreated    = "wish_created"
	EventWishUpdated    = "wish_updated"
	EventSupportChanged = "support_changed"
)

// FeedEvent is the wire shape of a live feed notification.
type FeedEvent struct {
	Type         string      `json:"type"`
	WishID       string      `json:"wish_id,omitempty"`
	SupportCount int         `json:"support_count,omitempty"`
	Wish         interface{} `json:"wish,omitempty"`
}

// Client is one websocket subscriber of the public feed. Viewers may be
// anonymous; the feed carries no viewer-specific data.
type Client struct {
	Hub  *Hub
	Conn *Conn
	Send chan []byte
}

// Hub fans feed events out to every connected client.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run processes registrations and broadcasts. Call once from a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Feed client connected", map[string]interface{}{
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Feed client disconnected", map[string]interface{}{
				"total_clients": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Send buffer full - drop the client asynchronously
					go h.Unregister(client)
					logger.Warn("Feed client send buffer full, disconnecting", nil)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish broadcasts a feed event to all clients. Events are best-effort:
// a full broadcast queue drops the event rather than blocking a request.
func (h *Hub) Publish(event FeedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal feed event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Feed broadcast channel full, event dropped", map[string]interface{}{
			"type": event.Type,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount returns the number of connected feed clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
