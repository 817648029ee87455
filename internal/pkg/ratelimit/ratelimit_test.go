package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisLimiterFixedWindow(t *testing.T) {
	mr, rdb := newRedis(t)
	l := NewRedisLimiter(rdb, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other clients have their own window.
	ok, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalLimiterBurst(t *testing.T) {
	l := NewLocalLimiter(2, time.Hour)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok)
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func serve(r http.Handler) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	r.ServeHTTP(w, req)
	return w.Code
}

func newEngine(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	_, rdb := newRedis(t)
	r := newEngine(Middleware(NewRedisLimiter(rdb, 1, time.Minute), NewLocalLimiter(100, time.Minute)))

	assert.Equal(t, http.StatusOK, serve(r))
	assert.Equal(t, http.StatusTooManyRequests, serve(r))
}

func TestMiddlewareFallsBackWhenRedisFails(t *testing.T) {
	r := newEngine(Middleware(brokenLimiter{}, NewLocalLimiter(1, time.Hour)))

	assert.Equal(t, http.StatusOK, serve(r))
	assert.Equal(t, http.StatusTooManyRequests, serve(r))
}

func TestMiddlewareRedisOutage(t *testing.T) {
	mr, rdb := newRedis(t)
	r := newEngine(Middleware(NewRedisLimiter(rdb, 1, time.Minute), NewLocalLimiter(5, time.Minute)))

	mr.Close()
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r))
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r))
}
