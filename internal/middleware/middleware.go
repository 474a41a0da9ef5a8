package middleware

import (
	"net/http"
	"strings"

	"tasktrack/internal/auth"
	"tasktrack/internal/config"
	"tasktrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserKey is the gin context key holding the resolved caller identity.
const UserKey = "user"

// AuthMiddleware resolves the caller's identity from a bearer token. Requests
// without a valid identity get 401; nothing downstream runs unauthenticated.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if header == "" || !strings.HasPrefix(header, prefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			logger.Debug(ctx, "Missing or invalid Authorization header")
			c.Abort()
			return
		}
		secret := config.GetJWTSecret(ctx)
		if secret == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server misconfiguration"})
			c.Abort()
			return
		}
		userID, err := auth.VerifyToken(strings.TrimSpace(header[len(prefix):]), secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			logger.Debug(ctx, "Token verification failed", "error", err)
			c.Abort()
			return
		}
		c.Set(UserKey, userID)
		c.Next()
	}
}
