package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// TopicAdmins receives every ledger event.
const TopicAdmins = "admins"

// UserTopic is the private topic of one user.
func UserTopic(userID string) string { return "user:" + userID }

type publication struct {
	topics  []string
	payload []byte
}

type Hub struct {
	clients    map[*Client]bool
	publish    chan publication
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		publish:    make(chan publication, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger.With(zap.String("component", "ws")),
	}
}

// Run owns client membership until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("ws connected", zap.String("user_id", client.userID), zap.Int("total_clients", total))

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)

		case pub := <-h.publish:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				if c.subscribed(pub.topics) {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- pub.payload:
				default:
					h.remove(client)
				}
			}
			h.logger.Debug("ws publish", zap.Strings("topics", pub.topics), zap.Int("clients", len(targets)))
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.Debug("ws disconnected", zap.String("user_id", client.userID), zap.Int("total_clients", total))
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish delivers payload once to every client subscribed to any of topics.
func (h *Hub) Publish(payload []byte, topics ...string) {
	if h == nil || len(topics) == 0 {
		return
	}
	select {
	case h.publish <- publication{topics: topics, payload: payload}:
	default:
		h.logger.Warn("ws publish dropped", zap.String("reason", "buffer_full"))
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
