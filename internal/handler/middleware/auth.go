package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"meetslot/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxHostIDKey = "host_id"

// AuthMiddleware guards the host-facing management endpoints. Visitors never
// authenticate; slot listing and booking are public.
type AuthMiddleware struct {
	tokens *jwt.Service
}

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireHost() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxHostIDKey, claims.HostID)
		c.Next()
	}
}

func GetHostID(c *gin.Context) (uuid.UUID, bool) {
	hostID, exists := c.Get(ctxHostIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := hostID.(uuid.UUID)
	return id, ok
}
