package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/auth"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/authz"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwt := auth.NewJWTService(config.JWTConfig{Secret: "test", ExpiryMinutes: 60})
	enforcer, err := authz.New()
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", Authenticate(jwt), Require(enforcer, "rides", "create"),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
		})
	return r, jwt
}

func TestAuthenticateMissingHeader(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestAuthenticateBadToken(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAllowsPermittedRole(t *testing.T) {
	r, jwt := testRouter(t)

	token, err := jwt.GenerateToken("user-1", "p@x.c", "passenger")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestRequireBlocksForbiddenRole(t *testing.T) {
	r, jwt := testRouter(t)

	// водителю нельзя создавать заказы
	token, err := jwt.GenerateToken("drv-1", "d@x.c", "driver")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHealthDegraded(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health(map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestHealthOK(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health(map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
