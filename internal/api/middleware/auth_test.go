package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/archive_bot_server/internal/pkg/jwt"
	"github.com/qs3c/archive_bot_server/internal/pkg/response"
)

const testSecret = "test-secret-key"

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	router := gin.New()
	router.Use(Auth(testSecret))
	router.GET("/protected", func(c *gin.Context) {
		adminID, _ := GetAdminID(c)
		response.Success(c, gin.H{"admin_id": adminID})
	})
	return router
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := jwt.GenerateToken(1, testSecret, 24)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"admin_id":1`)
}

func TestAuth_MissingHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"code":1001`)
}

func TestAuth_MalformedHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"code":1001`)
}

func TestAuth_InvalidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"code":1001`)
}

func TestAuth_WrongSecret(t *testing.T) {
	token, err := jwt.GenerateToken(1, "other-secret", 24)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"code":1001`)
}
