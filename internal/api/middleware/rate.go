package middleware

import (
	"net/http"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CodeRateLimited is the result code for throttled requests
const CodeRateLimited = "rate_limited"

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// DefaultRateLimitConfig returns the bridge's default limits.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		Burst:             100,
	}
}

// orDefault replaces non-positive limits with the defaults, so a zeroed
// setting never blocks every request.
func (cfg RateLimitConfig) orDefault() RateLimitConfig {
	def := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	return cfg
}

// RateLimit limits each caller, keyed by client IP and Origin. On a
// loopback bridge every caller shares an IP, so the Origin separates the
// embedded view from other local pages.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cfg = cfg.orDefault()
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(c *gin.Context) {
		key := c.ClientIP() + "|" + c.GetHeader("Origin")

		mu.Lock()
		limiter, exists := limiters[key]
		if !exists {
			limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
			limiters[key] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			abortLimited(c)
			return
		}
		c.Next()
	}
}

// GlobalRateLimit shares one limiter across every caller. The bridge puts
// it in front of the event channel to bound reconnect storms.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cfg = cfg.orDefault()
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			abortLimited(c)
			return
		}
		c.Next()
	}
}

func abortLimited(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, types.Failure(CodeRateLimited, nil))
}
