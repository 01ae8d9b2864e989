package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/tradewire/signalgate/internal/config"
	"github.com/tradewire/signalgate/internal/model"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware applies a per-account token bucket. Must run after
// TokenAuthMiddleware.
func RateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	limit := rate.Limit(cfg.Rate.QPS)
	if limit == 0 {
		limit = rate.Inf
	}
	burst := cfg.Rate.Burst
	if burst == 0 {
		burst = 1
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		idVal, exists := c.Get(ContextIdentityKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		identity := idVal.(model.Identity)

		mu.Lock()
		limiter, ok := limiters[identity.AccountID]
		if !ok {
			limiter = rate.NewLimiter(limit, burst)
			limiters[identity.AccountID] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": "1s",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
