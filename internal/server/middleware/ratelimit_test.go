package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/chalkline/assistant-api/internal/server/middleware"
)

func limitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.NewRateLimiter(rps, burst, zap.NewNop()).Middleware())
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return engine
}

func pingAs(engine *gin.Engine, bearer string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitEnforced(t *testing.T) {
	engine := limitedRouter(0.001, 1)

	assert.Equal(t, http.StatusOK, pingAs(engine, "sk-alpha"))
	assert.Equal(t, http.StatusTooManyRequests, pingAs(engine, "sk-alpha"))
}

func TestRateLimitBucketsPerAPIKey(t *testing.T) {
	engine := limitedRouter(0.001, 1)

	// Exhausting one key's bucket must not touch another caller's,
	// even though both requests come from the same test client IP.
	assert.Equal(t, http.StatusOK, pingAs(engine, "sk-alpha"))
	assert.Equal(t, http.StatusTooManyRequests, pingAs(engine, "sk-alpha"))
	assert.Equal(t, http.StatusOK, pingAs(engine, "sk-beta"))
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	engine := limitedRouter(0.001, 1)

	assert.Equal(t, http.StatusOK, pingAs(engine, ""))
	assert.Equal(t, http.StatusTooManyRequests, pingAs(engine, ""))
}

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	engine := limitedRouter(0.001, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, pingAs(engine, "sk-alpha"))
	}
	assert.Equal(t, http.StatusTooManyRequests, pingAs(engine, "sk-alpha"))
}
