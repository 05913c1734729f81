package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/api"
	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/repository"
	"github.com/pageza/cookbook/backend/internal/service"
)

// Deps are the long lived resources the server is built on. Redis is optional.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Metrics(),
		middleware.ErrorHandler(logger),
		middleware.CORS(cfg.CORSOrigins),
	)

	var limiter *middleware.RateLimiter
	if deps.Redis != nil {
		limiter = middleware.NewRecipeCreationRateLimiter(deps.Redis, cfg.RateLimitCreate, cfg.RateLimitWindow, logger)
	} else {
		logger.Info("redis not configured, create rate limiting disabled")
	}

	recipes := service.NewRecipeService(repository.NewStore(deps.DB), logger)
	ping := func(ctx context.Context) error { return database.HealthCheck(ctx, deps.DB) }
	api.RegisterRoutes(router, recipes, limiter, ping, logger)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
