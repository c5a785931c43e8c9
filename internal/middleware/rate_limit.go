package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/elkisser/the-cookie-box/internal/pkg/response"
)

type limiterPool struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newLimiterPool(rps float64, burst int) *limiterPool {
	return &limiterPool{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	limiter, ok := p.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(p.rps, p.burst)
		p.limiters[key] = limiter
	}
	return limiter
}

func rateLimit(pool *limiterPool, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !pool.get(key(c)).Allow() {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitByIP throttles anonymous traffic per client address.
func RateLimitByIP(rps float64, burst int) gin.HandlerFunc {
	pool := newLimiterPool(rps, burst)
	return rateLimit(pool, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByUser throttles per authenticated user, falling back to the
// client address for guests.
func RateLimitByUser(rps float64, burst int) gin.HandlerFunc {
	pool := newLimiterPool(rps, burst)
	return rateLimit(pool, func(c *gin.Context) string {
		if userID := c.GetString("user_id_validated"); userID != "" {
			return userID
		}
		return c.ClientIP()
	})
}
