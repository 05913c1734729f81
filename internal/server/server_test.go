package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:             config.Test,
		ServerHost:      "127.0.0.1",
		ServerPort:      "0",
		ShutdownTimeout: time.Second,
		RateLimitCreate: 30,
		RateLimitWindow: time.Minute,
		CORSOrigins:     []string{"http://localhost:5173"},
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)

	srv := New(testConfig(), Deps{DB: db, Logger: testhelpers.DiscardLogger()})
	require.NotNil(t, srv)

	t.Run("health", func(t *testing.T) {
		w := testhelpers.PerformRequest(t, srv.Handler(), http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("ready", func(t *testing.T) {
		w := testhelpers.PerformRequest(t, srv.Handler(), http.MethodGet, "/ready", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
	})

	t.Run("recipes without redis", func(t *testing.T) {
		body := map[string]any{"name": "Soup", "cooking_time": 20, "ingredients": "water,salt", "description": "boil"}
		w := testhelpers.PerformRequest(t, srv.Handler(), http.MethodPost, "/recipes", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("metrics", func(t *testing.T) {
		w := testhelpers.PerformRequest(t, srv.Handler(), http.MethodGet, "/metrics", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "cookbook_http_requests_total"))
	})

	t.Run("unknown route", func(t *testing.T) {
		w := testhelpers.PerformRequest(t, srv.Handler(), http.MethodGet, "/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReadyWhenStorageDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)
	srv := New(testConfig(), Deps{DB: db, Logger: testhelpers.DiscardLogger()})

	require.NoError(t, database.Close(db))

	w := testhelpers.PerformRequest(t, srv.Handler(), http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStartAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)
	srv := New(testConfig(), Deps{DB: db, Logger: testhelpers.DiscardLogger()})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
