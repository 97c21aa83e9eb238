package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotsync/utils"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func adminRouter(adminEmail string) *gin.Engine {
	r := gin.New()
	r.GET("/admin",
		JWTAuthMiddleware(testSecret),
		AdminAuthMiddleware(adminEmail),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuthMiddleware(t *testing.T) {
	r := adminRouter("admin@example.com")

	t.Run("exact admin email passes", func(t *testing.T) {
		token, err := utils.GenerateToken(testSecret, "u1", "admin@example.com", time.Hour)
		require.NoError(t, err)
		w := doRequest(t, r, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("any other authenticated email is forbidden", func(t *testing.T) {
		token, err := utils.GenerateToken(testSecret, "u2", "user@example.com", time.Hour)
		require.NoError(t, err)
		w := doRequest(t, r, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("case differences do not match", func(t *testing.T) {
		token, err := utils.GenerateToken(testSecret, "u1", "Admin@Example.com", time.Hour)
		require.NoError(t, err)
		w := doRequest(t, r, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no token is unauthorized before the admin check", func(t *testing.T) {
		w := doRequest(t, r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unconfigured admin email fails closed", func(t *testing.T) {
		open := adminRouter("")
		token, err := utils.GenerateToken(testSecret, "u1", "", time.Hour)
		require.NoError(t, err)
		w := doRequest(t, open, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID"), "email": c.GetString("userEmail")})
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		token, err := utils.GenerateToken(testSecret, "u1", "user@example.com", time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userID":"u1"`)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := utils.GenerateToken(testSecret, "u1", "user@example.com", -time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := utils.GenerateToken("other-secret", "u1", "user@example.com", time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
