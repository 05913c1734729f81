package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/service"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Readiness answers 200 while storage pings and 503 otherwise.
func Readiness(ping Pinger, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			logger.Warn("readiness check failed", "request_id", middleware.GetRequestID(c), "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, recipes service.IRecipeService, limiter *middleware.RateLimiter, ping Pinger, logger *slog.Logger) {
	router.GET("/health", HealthCheck)
	router.GET("/ready", Readiness(ping, logger))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	NewRecipeHandler(recipes, limiter).RegisterRoutes(router)
}
