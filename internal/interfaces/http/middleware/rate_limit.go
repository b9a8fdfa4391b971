package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/config"
)

// RateLimit implements per-client fixed-window rate limiting. Counters
// live in process memory, matching the rest of the state model.
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	type window struct {
		count   int
		resetAt time.Time
	}

	var mu sync.Mutex
	windows := make(map[string]*window)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		now := time.Now()

		mu.Lock()
		w, ok := windows[clientIP]
		if !ok || now.After(w.resetAt) {
			w = &window{resetAt: now.Add(time.Minute)}
			windows[clientIP] = w
		}
		w.count++
		count := w.count
		resetAt := w.resetAt
		mu.Unlock()

		if count > cfg.Security.RateLimitPerMinute {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(time.Until(resetAt).Seconds()),
			})
			c.Abort()
			return
		}

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Security.RateLimitPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(cfg.Security.RateLimitPerMinute-count))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		c.Next()
	}
}
