package middleware_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/internal/apperrors"
	"github.com/pageza/cookbook/backend/internal/metrics"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
)

func limitedRouter(rl *middleware.RateLimiter) *gin.Engine {
	r := newRouter()
	r.POST("/recipes", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func TestRateLimiterNilPassesThrough(t *testing.T) {
	var rl *middleware.RateLimiter
	r := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		w := testhelpers.PerformRequest(t, r, http.MethodPost, "/recipes", nil)
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	// Nothing listens on this port, every command errors.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	rl := middleware.NewRecipeCreationRateLimiter(client, 1, time.Minute, testhelpers.DiscardLogger())
	r := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		w := testhelpers.PerformRequest(t, r, http.MethodPost, "/recipes", nil)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiterRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := middleware.NewRecipeCreationRateLimiter(client, 2, time.Hour, testhelpers.DiscardLogger())
	r := limitedRouter(rl)
	before := promtest.ToFloat64(metrics.RateLimitRejects)

	for i := 0; i < 2; i++ {
		w := testhelpers.PerformRequest(t, r, http.MethodPost, "/recipes", nil)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := testhelpers.PerformRequest(t, r, http.MethodPost, "/recipes", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var resp middleware.ErrorResponse
	testhelpers.DecodeJSON(t, w, &resp)
	assert.Equal(t, apperrors.CodeRateLimited, resp.Code)
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.RateLimitRejects))

	// Other clients keep their own budget.
	allowed, remaining, _, err := rl.IsAllowed(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
}
