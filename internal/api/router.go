// Package api assembles the HTTP server.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/adamscao/userapi/internal/api/handlers"
	"github.com/adamscao/userapi/internal/api/middleware"
	"github.com/adamscao/userapi/internal/audit"
	"github.com/adamscao/userapi/internal/auth"
	"github.com/adamscao/userapi/internal/config"
	"github.com/adamscao/userapi/internal/db"
	"github.com/adamscao/userapi/internal/db/repository"
	"github.com/adamscao/userapi/internal/ratelimit"
)

// Registry registers and exposes metrics
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	logger     *zap.Logger
}

// NewServer creates a new API server. A nil limiter disables rate limiting.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	database *db.DB,
	limiter ratelimit.Limiter,
	registry Registry,
	version string,
) *Server {
	// Set Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(middleware.NewHTTPMetrics(registry)))

	// Repositories and services
	apiKeyRepo := repository.NewAPIKeyRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)
	recorder := audit.NewRecorder(repository.NewAuditRepository(database.DB), logger)

	authMetrics := auth.NewMetrics(registry)
	manager := auth.NewManager(apiKeyRepo, auth.WithLogger(logger), auth.WithMetrics(authMetrics))
	verifier := auth.NewVerifier(apiKeyRepo, auth.WithLogger(logger), auth.WithMetrics(authMetrics))

	// Create handlers
	apiKeyHandler := handlers.NewAPIKeyHandler(manager, recorder)
	userHandler := handlers.NewUserHandler(userRepo, recorder)
	healthHandler := handlers.NewHealthHandler(database, version, logger)

	requireKey := middleware.APIKeyAuth(verifier, recorder)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(middleware.RateLimit(limiter, logger))
	}
	{
		apiKeys := v1.Group("/api-keys")
		{
			// Creation is unauthenticated
			apiKeys.POST("", apiKeyHandler.Create)
			apiKeys.GET("", requireKey, apiKeyHandler.List)
			apiKeys.GET("/:id", requireKey, apiKeyHandler.Get)
			apiKeys.PUT("/:id", requireKey, apiKeyHandler.Update)
			apiKeys.DELETE("/:id", requireKey, apiKeyHandler.Delete)
		}

		users := v1.Group("/users")
		users.Use(requireKey)
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}
	}

	// Operational endpoints
	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         cfg.Server.ListenAddr,
			Handler:      router,
			ReadTimeout:  cfg.GetReadTimeout(),
			WriteTimeout: cfg.GetWriteTimeout(),
		},
		config: cfg,
		logger: logger,
	}
}

// Run serves HTTP until Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
