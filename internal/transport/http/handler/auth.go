package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"yamdb-api/internal/app"
	"yamdb-api/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *app.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req app.SignUpInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req app.TokenInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.IssueToken(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}
