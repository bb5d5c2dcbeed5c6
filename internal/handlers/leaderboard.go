package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/moeinovic/bassuli/internal/models"
	"github.com/moeinovic/bassuli/internal/services"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	ranking  *services.RankingService
	ledger   *services.StakeLedger
	stats    *services.BattleStatsService
	pageSize int
	logger   *slog.Logger
}

func NewLeaderboardHandler(ranking *services.RankingService, ledger *services.StakeLedger, stats *services.BattleStatsService, pageSize int, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		ranking:  ranking,
		ledger:   ledger,
		stats:    stats,
		pageSize: pageSize,
		logger:   logger.With("component", "leaderboard_handler"),
	}
}

type LeaderboardResponse struct {
	Order   string         `json:"order" example:"best"`
	Page    int            `json:"page" example:"1"`
	Rows    []services.Row `json:"rows"`
	HasMore bool           `json:"has_more"`
}

type ParticipantResponse struct {
	Entry services.Row        `json:"entry"`
	Stats *models.BattleStats `json:"stats,omitempty"`
}

// GetLeaderboard godoc
// @Summary      Leaderboard of a scope
// @Tags         leaderboard
// @Produce      json
// @Param        scope path string true "Scope"
// @Param        order query string false "best or worst"
// @Param        page query int false "1-based page"
// @Success      200 {object} LeaderboardResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/scopes/{scope}/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	scope := c.Param("scope")

	order := c.DefaultQuery("order", "best")
	var ordering services.Ordering
	switch order {
	case "best":
		ordering = h.ranking.Best()
	case "worst":
		ordering = h.ranking.Worst()
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "order must be best or worst"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		return
	}

	rows, hasMore, err := h.ranking.Page(scope, (page-1)*h.pageSize, h.pageSize, ordering)
	switch {
	case errors.Is(err, services.ErrPaginationDisabled):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, services.ErrInvalidPage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		respondStoreError(c, h.logger, err)
		return
	}
	if rows == nil {
		rows = []services.Row{}
	}

	c.JSON(http.StatusOK, LeaderboardResponse{Order: order, Page: page, Rows: rows, HasMore: hasMore})
}

// GetParticipant godoc
// @Summary      Ledger entry of a participant
// @Tags         leaderboard
// @Produce      json
// @Param        scope path string true "Scope"
// @Param        id path int true "Participant ID"
// @Success      200 {object} ParticipantResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/scopes/{scope}/participants/{id} [get]
func (h *LeaderboardHandler) GetParticipant(c *gin.Context) {
	scope := c.Param("scope")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid participant id"})
		return
	}

	entry, err := h.ledger.Entry(scope, id)
	if errors.Is(err, services.ErrEntryNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		respondStoreError(c, h.logger, err)
		return
	}

	resp := ParticipantResponse{Entry: entry}
	if h.stats != nil {
		st, err := h.stats.Get(scope, id)
		if err != nil {
			h.logger.Warn("couldn't load battle stats", "scope", scope, "participant", id, "error", err)
		} else {
			resp.Stats = &st
		}
	}
	c.JSON(http.StatusOK, resp)
}
