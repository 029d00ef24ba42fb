package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/assessment-engine/config"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.RateLimit.RequestsPerMinute = 1
	cfg.RateLimit.Burst = 2

	r := gin.New()
	r.Use(NewRateLimiter(cfg).Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"), "limits are per client")
}

func TestRateLimiter_SweepsIdleVisitorsOncePerTTL(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimit.IdleTTL = 10 * time.Minute
	rl := NewRateLimiter(cfg)

	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := t0
	rl.now = func() time.Time { return clock }
	rl.lastSweep = t0

	rl.get("a")
	clock = t0.Add(time.Minute)
	rl.get("b")
	assert.Len(t, rl.visitors, 2)

	clock = t0.Add(9*time.Minute + 30*time.Second)
	rl.get("b")
	assert.Len(t, rl.visitors, 2)

	clock = t0.Add(11 * time.Minute)
	rl.get("c")
	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
	assert.Contains(t, rl.visitors, "c")
	assert.Equal(t, clock, rl.lastSweep)
}
