package handlers

import (
	"net/http"

	"github.com/moeinovic/bassuli/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type OperatorTokenRequest struct {
	Operator string `json:"operator" binding:"required,min=3,max=100" example:"ops"`
}

type AuthResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// IssueOperatorToken godoc
// @Summary      Issue an operator token
// @Description  Exchanges the bot API key for a short-lived JWT accepted by admin endpoints
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Bot-API-Key header string true "Bot API Key"
// @Param        request body OperatorTokenRequest true "Operator"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/auth/operator-token [post]
func (h *AuthHandler) IssueOperatorToken(c *gin.Context) {
	var req OperatorTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.authService.GenerateToken(req.Operator)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token})
}
