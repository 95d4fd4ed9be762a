package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/auth"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/authz"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/web"
)

// Authenticate проверяет Bearer токен и кладет user_id и user_role
// в контекст запроса
func Authenticate(jwt *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			web.Fail(c, http.StatusUnauthorized, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			web.Fail(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// Require пропускает запрос, только если роль пользователя имеет право
// action над resource. Проверка владения конкретным объектом остается
// за сервисом.
func Require(enforcer *authz.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		if !enforcer.Allowed(role, resource, action) {
			web.Fail(c, http.StatusForbidden, "operation not permitted for role "+role)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORS — упрощенный CORS для фронтенда
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, o := range allowedOrigins {
			if o == "*" || o == origin {
				c.Header("Access-Control-Allow-Origin", o)
				break
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
