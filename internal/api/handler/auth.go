package handler

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/pkg/jwt"
	"github.com/qs3c/archive_bot_server/internal/pkg/response"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates the panel admin against the configured credentials.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if req.Username != h.cfg.Panel.AdminUsername {
		response.AuthError(c, "invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword(
		[]byte(h.cfg.Panel.AdminPasswordHash), []byte(req.Password)); err != nil {
		response.AuthError(c, "invalid username or password")
		return
	}

	token, err := jwt.GenerateToken(1, h.cfg.JWT.Secret, h.cfg.JWT.ExpireHours)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, loginResponse{Token: token})
}
