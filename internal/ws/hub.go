package ws

import (
	"encoding/json"
	"sync"

	"taskflow/internal/domain"
	"taskflow/internal/logger"
)

// Hub fans committed notifications out to every socket a user has open.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]bool)
	}
	h.clients[c.UserID][c] = true
	logger.Debug("ws client registered", "user_id", c.UserID)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
}

// Push implements service.Notifier. Slow clients are skipped rather than
// blocking the request path.
func (h *Hub) Push(userID int64, n *domain.Notification) {
	msg, err := json.Marshal(map[string]any{
		"type":         "notification",
		"notification": n,
	})
	if err != nil {
		logger.Error("ws marshal notification", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws send buffer full, dropping", "user_id", userID)
		}
	}
}
