package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/moeinovic/bassuli/internal/duel"
	"github.com/moeinovic/bassuli/internal/models"
	"github.com/moeinovic/bassuli/internal/ws"

	"github.com/gin-gonic/gin"
)

type DuelHandler struct {
	arbiter *duel.Arbiter
	rules   duel.Rules
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewDuelHandler(arbiter *duel.Arbiter, rules duel.Rules, hub *ws.Hub, logger *slog.Logger) *DuelHandler {
	return &DuelHandler{arbiter: arbiter, rules: rules, hub: hub, logger: logger.With("component", "duel_handler")}
}

type CreateDuelRequest struct {
	Scope       string `json:"scope" binding:"required,max=128" example:"chat:-1001"`
	InitiatorID int64  `json:"initiator_id" binding:"required" example:"42"`
	Stake       uint16 `json:"stake" binding:"required,min=1" example:"5"`
}

type CreateDuelResponse struct {
	Sufficient bool   `json:"sufficient"`
	Token      string `json:"token,omitempty" example:"btf:42:5:1234567"`
}

type AcceptDuelRequest struct {
	Scope        string `json:"scope" binding:"required,max=128" example:"chat:-1001"`
	Token        string `json:"token" binding:"required"`
	AcceptorID   int64  `json:"acceptor_id" binding:"required" example:"77"`
	AcceptorName string `json:"acceptor_name" example:"Bob"`
}

type ResolutionResponse struct {
	State   string        `json:"state" example:"resolved"`
	Reason  string        `json:"reason,omitempty"`
	Outcome *duel.Outcome `json:"outcome,omitempty"`
}

// CreateDuel godoc
// @Summary      Issue a duel invitation
// @Description  Checks the initiator's balance and returns a callback token when the stake is covered
// @Tags         duels
// @Accept       json
// @Produce      json
// @Param        X-Bot-API-Key header string true "Bot API Key"
// @Param        request body CreateDuelRequest true "Invitation data"
// @Success      201 {object} CreateDuelResponse
// @Success      200 {object} CreateDuelResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/duels [post]
func (h *DuelHandler) CreateDuel(c *gin.Context) {
	var req CreateDuelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ok, err := h.arbiter.CanInitiate(req.Scope, req.InitiatorID, req.Stake, h.rules)
	if err != nil {
		respondStoreError(c, h.logger, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, CreateDuelResponse{Sufficient: false})
		return
	}

	c.JSON(http.StatusCreated, CreateDuelResponse{
		Sufficient: true,
		Token:      h.arbiter.CreateInvitation(req.InitiatorID, req.Stake),
	})
}

// AcceptDuel godoc
// @Summary      Accept a duel invitation
// @Tags         duels
// @Accept       json
// @Produce      json
// @Param        X-Bot-API-Key header string true "Bot API Key"
// @Param        request body AcceptDuelRequest true "Acceptance data"
// @Success      200 {object} ResolutionResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ResolutionResponse
// @Failure      422 {object} ResolutionResponse
// @Router       /api/v1/duels/accept [post]
func (h *DuelHandler) AcceptDuel(c *gin.Context) {
	var req AcceptDuelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	acceptor := models.Participant{ID: req.AcceptorID, Name: req.AcceptorName}
	res, err := h.arbiter.Resolve(req.Scope, req.Token, acceptor, h.rules)
	var invalid *duel.InvalidTokenError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalid.Error()})
		return
	case err != nil:
		respondStoreError(c, h.logger, err)
		return
	}

	resp := ResolutionResponse{State: res.State.String(), Outcome: res.Outcome}
	if res.Rejected() {
		resp.Reason = res.Rejection.Error()
		c.JSON(rejectionStatus(res.State), resp)
		return
	}

	h.hub.Broadcast(req.Scope, ws.WSMessage{Type: ws.EventDuelResolved, Data: res.Outcome})
	c.JSON(http.StatusOK, resp)
}

func rejectionStatus(state duel.State) int {
	switch state {
	case duel.RejectedConcurrent, duel.RejectedSamePerson:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
