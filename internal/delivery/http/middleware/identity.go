package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller identity set by the upstream auth gateway.
const UserIDHeader = "X-User-ID"

// UserIDKey is the gin context key holding the caller identity.
const UserIDKey = "user_id"

// Identity copies the trusted caller identity header into the context.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader(UserIDHeader)); userID != "" {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// RequireUser rejects requests without a caller identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserIDKey) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Unauthorized",
			})
			return
		}
		c.Next()
	}
}
