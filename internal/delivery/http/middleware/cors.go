package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OriginAllowed reports whether a browser origin is in allowedOrigins.
// An empty list or "*" allows any origin.
func OriginAllowed(allowedOrigins ...string) func(origin string) bool {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(origin string) bool {
		if allowAll {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// CORS allows browser clients from allowedOrigins. An empty list or "*" allows any origin.
func CORS(allowedOrigins ...string) gin.HandlerFunc {
	originAllowed := OriginAllowed(allowedOrigins...)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if originAllowed(origin) {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, X-User-ID")
				c.Header("Access-Control-Expose-Headers", "X-Request-ID")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
