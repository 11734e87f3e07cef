package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-api/internal/handler"
)

type RateLimiterConfig struct {
	RPS   float64
	Burst int
	// IdleTTL drops the bucket of a client that has been quiet this long.
	IdleTTL time.Duration
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config   RateLimiterConfig
	limiters *cache.Cache
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		config:   config,
		limiters: cache.New(config.IdleTTL, config.IdleTTL),
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	if l, found := rl.limiters.Get(ip); found {
		rl.limiters.SetDefault(ip, l)
		return l.(*rate.Limiter)
	}
	l := rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)
	if err := rl.limiters.Add(ip, l, cache.DefaultExpiration); err != nil {
		// lost a race with another request from the same client
		if existing, found := rl.limiters.Get(ip); found {
			return existing.(*rate.Limiter)
		}
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.limiter(ip).Allow() {
			log.Ctx(c.Request.Context()).Warn().Str("client_ip", ip).Msg("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.NewErrorResponse("rate limit exceeded"))
			return
		}
		c.Next()
	}
}
