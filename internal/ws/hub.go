package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventDuelResolved   = "duel_resolved"
	EventLedgerAdjusted = "ledger_adjusted"
)

// writeWait bounds how long one slow client can hold the hub.
const writeWait = 5 * time.Second

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans scope events out to the websocket clients watching that scope.
type Hub struct {
	mu        sync.Mutex
	scopes    map[string]map[*websocket.Conn]bool
	writeWait time.Duration
	logger    *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		scopes:    make(map[string]map[*websocket.Conn]bool),
		writeWait: writeWait,
		logger:    logger.With("component", "ws"),
	}
}

func (h *Hub) AddConnection(scope string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.scopes[scope] == nil {
		h.scopes[scope] = make(map[*websocket.Conn]bool)
	}
	h.scopes[scope][conn] = true
	h.logger.Debug("client connected", "scope", scope, "total", len(h.scopes[scope]))
}

func (h *Hub) RemoveConnection(scope string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.scopes[scope]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.scopes, scope)
		}
		h.logger.Debug("client disconnected", "scope", scope)
	}
}

func (h *Hub) Subscribers(scope string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.scopes[scope])
}

// Broadcast holds the lock while writing; gorilla connections allow only one
// concurrent writer.
func (h *Hub) Broadcast(scope string, message WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.scopes[scope]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal event", "type", message.Type, "error", err)
		return
	}

	for conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("write event", "scope", scope, "error", err)
			conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.scopes, scope)
	}
}
