package ws

import (
	"encoding/json"
	"sync"

	"fxportal/internal/domain"
	"fxportal/internal/logger"
)

// Hub tracks connected clients keyed by user id and fans account updates
// out to every session the user has open.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
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

type accountUpdate struct {
	Type    string                 `json:"type"`
	Account *domain.TradingAccount `json:"account"`
}

// AccountUpdated pushes a balance snapshot to every open session of the
// owning user. Slow clients are skipped rather than blocked on.
func (h *Hub) AccountUpdated(userID int64, account *domain.TradingAccount) {
	msg, err := json.Marshal(accountUpdate{Type: "account_update", Account: account})
	if err != nil {
		logger.Error("marshal account update", "error", err, "user_id", userID)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("dropping account update, client send buffer full", "user_id", userID)
		}
	}
}
