package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimiter is a fixed-window counter per key. Windows reset lazily on
// the next request, so idle keys cost nothing.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	counts map[string]*windowCount
}

type windowCount struct {
	start time.Time
	n     int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		counts: make(map[string]*windowCount),
	}
}

func (r *rateLimiter) allow(key string) bool {
	if r == nil || r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	wc, ok := r.counts[key]
	if !ok || now.Sub(wc.start) >= r.window {
		r.counts[key] = &windowCount{start: now, n: 1}
		return true
	}
	wc.n++
	return wc.n <= r.limit
}

// AuthRateLimitMiddleware throttles credential endpoints per client IP
// to slow down brute forcing. A zero limit disables it.
func AuthRateLimitMiddleware(limit int) gin.HandlerFunc {
	limiter := newRateLimiter(limit, time.Minute)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
