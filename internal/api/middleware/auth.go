package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/archive_bot_server/internal/pkg/jwt"
	"github.com/qs3c/archive_bot_server/internal/pkg/response"
)

const (
	AdminIDKey = "adminID"
)

// Auth validates the Bearer token on panel routes.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "missing credentials")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(AdminIDKey, claims.UserID)
		c.Next()
	}
}

// GetAdminID returns the authenticated admin id from the context.
func GetAdminID(c *gin.Context) (int64, bool) {
	adminID, exists := c.Get(AdminIDKey)
	if !exists {
		return 0, false
	}
	id, ok := adminID.(int64)
	return id, ok
}
