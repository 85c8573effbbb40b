package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type windowEntry struct {
	count     int
	timestamp time.Time
}

// RateLimiter enforces a fixed one-minute window of maxRequests per client IP.
// A non-positive maxRequests disables the limit.
func RateLimiter(maxRequests int) gin.HandlerFunc {
	if maxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var mu sync.Mutex
	clients := make(map[string]*windowEntry)
	lastSweep := time.Now()
	message := "Rate limit exceeded. Maximum " + strconv.Itoa(maxRequests) + " requests per minute."

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		// Sweep stale windows.
		if now.Sub(lastSweep) > 5*time.Minute {
			for k, e := range clients {
				if now.Sub(e.timestamp) > 2*time.Minute {
					delete(clients, k)
				}
			}
			lastSweep = now
		}

		entry, exists := clients[ip]
		if !exists || now.Sub(entry.timestamp) > time.Minute {
			clients[ip] = &windowEntry{count: 1, timestamp: now}
			mu.Unlock()
			c.Next()
			return
		}

		if entry.count >= maxRequests {
			retryAfter := time.Minute - now.Sub(entry.timestamp)
			mu.Unlock()
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": message,
			})
			return
		}

		entry.count++
		mu.Unlock()
		c.Next()
	}
}
