package handlers

import (
	"net/http"

	"github.com/JException/mentee-hotline/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type VerifyRequest struct {
	Code string `json:"code" binding:"required" example:"483920"`
}

type VerifyResponse struct {
	Token       string                   `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	Participant *services.SessionContext `json:"participant"`
}

// Verify godoc
// @Summary      Verify an access code
// @Description  Resolve an access code into a session token and scope
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyRequest true "Access code"
// @Success      200 {object} VerifyResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.authService.Verify(req.Code)
	if err != nil {
		// Deliberately the same message for unknown codes and empty input.
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.authService.GenerateToken(session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{Token: token, Participant: session})
}
