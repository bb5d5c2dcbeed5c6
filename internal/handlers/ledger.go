package handlers

import (
	"log/slog"
	"net/http"

	"github.com/moeinovic/bassuli/internal/middleware"
	"github.com/moeinovic/bassuli/internal/models"
	"github.com/moeinovic/bassuli/internal/services"
	"github.com/moeinovic/bassuli/internal/ws"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledger *services.StakeLedger
	hub    *ws.Hub
	logger *slog.Logger
}

func NewLedgerHandler(ledger *services.StakeLedger, hub *ws.Hub, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, hub: hub, logger: logger.With("component", "ledger_handler")}
}

type AdjustRequest struct {
	ParticipantID int64  `json:"participant_id" binding:"required" example:"42"`
	Name          string `json:"name" example:"Alice"`
	Amount        int    `json:"amount" binding:"required" example:"-3"`
}

// Adjust godoc
// @Summary      Adjust one participant's balance
// @Description  Single-party update; counts as an attempt like a duel does
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        scope path string true "Scope"
// @Param        request body AdjustRequest true "Adjustment"
// @Success      200 {object} services.DeltaResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/scopes/{scope}/adjust [post]
func (h *LedgerHandler) Adjust(c *gin.Context) {
	scope := c.Param("scope")

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.ledger.Adjust(scope, services.Delta{
		Participant: models.Participant{ID: req.ParticipantID, Name: req.Name},
		Amount:      req.Amount,
	})
	if err != nil {
		respondStoreError(c, h.logger, err)
		return
	}

	h.logger.Info("ledger adjusted", "operator", c.GetString(middleware.OperatorKey),
		"scope", scope, "participant", req.ParticipantID, "amount", req.Amount)
	h.hub.Broadcast(scope, ws.WSMessage{Type: ws.EventLedgerAdjusted, Data: res})
	c.JSON(http.StatusOK, res)
}
