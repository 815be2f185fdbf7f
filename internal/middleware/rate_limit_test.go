package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/wod-analyzer/backend/internal/metrics"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimiter_IsAllowed(t *testing.T) {
	_, client := newTestRedis(t)
	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 2, KeyPrefix: "test"}, nil)
	ctx := context.Background()

	allowed, remaining, _, err := rl.IsAllowed(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	allowed, remaining, _, err = rl.IsAllowed(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, remaining, _, err = rl.IsAllowed(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	// other clients have their own budget
	allowed, _, _, err = rl.IsAllowed(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_KeysExpireWithWindow(t *testing.T) {
	mr, client := newTestRedis(t)
	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 1, KeyPrefix: "test"}, nil)

	_, _, _, err := rl.IsAllowed(context.Background(), "10.0.0.1")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))
}

func TestRateLimitMiddleware(t *testing.T) {
	_, client := newTestRedis(t)
	m := metrics.NewTestManager()
	rl := NewModelRateLimiter(client, 1, time.Minute, m)

	router := gin.New()
	router.POST("/analyze", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate limit exceeded")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterRateLimited))
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	mr, client := newTestRedis(t)
	rl := NewModelRateLimiter(client, 1, time.Minute, nil)
	mr.Close()

	router := gin.New()
	router.POST("/analyze", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "rate limit check failed", rr.Header().Get("X-RateLimit-Error"))
}

func TestRateLimitMiddleware_DisabledWithZeroLimit(t *testing.T) {
	_, client := newTestRedis(t)
	rl := NewModelRateLimiter(client, 0, time.Minute, nil)

	router := gin.New()
	router.POST("/analyze", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/analyze", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	}
}
