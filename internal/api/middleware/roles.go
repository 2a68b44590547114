package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/api/respond"
	"taskhub/internal/model"
)

// RequireRoles rejects requests whose authenticated role is not in the
// allow-list. Must be registered after AuthMiddleware.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get("role")
		if !ok {
			respond.AbortError(c, http.StatusForbidden, "Forbidden.", nil)
			return
		}
		roleStr, _ := val.(string)
		role := model.Role(roleStr)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		respond.AbortError(c, http.StatusForbidden, "Forbidden.", nil)
	}
}
