package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskhub/internal/api/respond"
	"taskhub/internal/model"
	"taskhub/internal/pkg/metrics"
	"taskhub/internal/pkg/session"
)

type customClaims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// AuthMiddleware validates the bearer JWT, confirms it is the user's live
// token and stores userID and role in the context. Tokens issued before
// the user's latest login fail the session check and are rejected.
func AuthMiddleware(jwtSecret string, sessions *session.Store) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "invalid authorization header")
			return
		}

		tokenStr := parts[1]
		claims := &customClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "invalid token")
			return
		}

		if claims.Subject == "" || claims.ID == "" {
			unauthorized(c, "invalid token claims")
			return
		}

		uid, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			unauthorized(c, "invalid user id")
			return
		}

		live, err := sessions.Validate(c.Request.Context(), uint(uid), claims.ID)
		if err != nil {
			respond.AbortError(c, http.StatusInternalServerError, "session check failed", nil)
			return
		}
		if !live {
			unauthorized(c, "token revoked")
			return
		}

		c.Set("userID", int(uid))
		role := claims.Role
		if !role.Valid() {
			role = model.RoleUser
		}
		c.Set("role", string(role))
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	metrics.AuthFailuresTotal.Inc()
	respond.AbortError(c, http.StatusUnauthorized, message, nil)
}
