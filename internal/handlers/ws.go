package handlers

import (
	"log/slog"
	"net/http"

	"github.com/moeinovic/bassuli/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub    *ws.Hub
	logger *slog.Logger
}

func NewWSHandler(hub *ws.Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket stream of scope events
// @Description  Receives duel_resolved and ledger_adjusted events for the scope
// @Tags         websocket
// @Param        scope path string true "Scope"
// @Router       /ws/scope/{scope} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	scope := c.Param("scope")
	if scope == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid scope"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", "error", err)
		return
	}

	h.hub.AddConnection(scope, conn)
	defer h.hub.RemoveConnection(scope, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
