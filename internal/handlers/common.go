package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/moeinovic/bassuli/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// respondStoreError hides infrastructure details from clients.
func respondStoreError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Error("request failed", "path", c.FullPath(), "error", err)
	if errors.Is(err, services.ErrStoreUnavailable) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
