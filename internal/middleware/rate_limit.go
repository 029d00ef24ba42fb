package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/assessment-engine/config"
	"github.com/lshigami/assessment-engine/internal/dto"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(cfg *config.Config) *RateLimiter {
	perMinute := cfg.RateLimit.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 100
	}
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = perMinute
	}
	ttl := cfg.RateLimit.IdleTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     burst,
		idleTTL:   ttl,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// Idle visitors are evicted at most once per idleTTL.
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > rl.idleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.get(ip).Allow() {
			log.Warn().Str("client_ip", ip).Str("path", c.Request.URL.Path).Msg("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{Message: "Too many requests, please try again later."})
			return
		}
		c.Next()
	}
}
