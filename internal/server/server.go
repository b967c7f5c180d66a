package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/api"
	"github.com/pageza/pantrychef/backend/internal/cache"
	"github.com/pageza/pantrychef/backend/internal/database"
	"github.com/pageza/pantrychef/backend/internal/metrics"
	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/repository"
	"github.com/pageza/pantrychef/backend/internal/router"
	"github.com/pageza/pantrychef/backend/internal/service"
)

const healthCheckTimeout = 2 * time.Second

// Dependencies are the external resources the server runs on.
type Dependencies struct {
	DB        *gorm.DB
	Cache     cache.Store
	Generator service.TextGenerator
	// Storage backs recipe sharing; nil disables it.
	Storage  service.ObjectStorage
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	cache  cache.Store
	sync   *service.SyncService
	logger *zap.Logger
}

// New wires repositories, services and handlers into a server.
func New(cfg *config.Config, deps Dependencies) *Server {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log := deps.Logger
	m := metrics.New(deps.Registry)
	localCache := cache.NewLocalCache(deps.Cache)

	products := repository.NewProductRepository(deps.DB)
	profiles := repository.NewDietaryProfileRepository(deps.DB)
	recipes := repository.NewRecipeRepository(deps.DB)
	users := repository.NewUserRepository(deps.DB)

	syncService := service.NewSyncService(products, profiles, localCache, log, m)
	authService := service.NewAuthService(users, deps.Cache, cfg.JWTSecret)
	recipeService := service.NewRecipeService(recipes, deps.Storage, log)
	generator := service.NewRecipeGenerator(deps.Generator, cfg.LLMProvider, log, m)
	generationService := service.NewGenerationService(syncService, generator)
	themeService := service.NewThemeService(localCache)

	s := &Server{
		db:     deps.DB,
		cache:  deps.Cache,
		sync:   syncService,
		logger: log,
	}

	var limiter *middleware.RateLimiter
	if cfg.GenerationRateLimit > 0 {
		limiter = middleware.NewRecipeGenerationRateLimiter(deps.Cache, cfg.GenerationRateLimit, cfg.GenerationRateWindow, log)
	}

	s.router = router.SetupRouter(router.Handlers{
		Auth:    api.NewAuthHandler(authService, syncService, cfg.Environment.IsProduction()),
		Pantry:  api.NewPantryHandler(syncService),
		Recipes: api.NewRecipeHandler(recipeService, generationService),
		Theme:   api.NewThemeHandler(themeService),
		Health:  s.health,
	}, authService, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
		Metrics:        m,
		RateLimiter:    limiter,
	})

	s.http = &http.Server{
		Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, drains in-flight ones and waits for
// pending dietary profile pushes.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.sync.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Shutdown deadline reached with profile pushes pending")
	}
	return err
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok", "cache": "ok"}
	code := http.StatusOK

	if err := database.HealthCheck(ctx, s.db); err != nil {
		s.logger.Warn("Database health check failed", zap.Error(err))
		status["status"], status["database"] = "unavailable", "unavailable"
		code = http.StatusServiceUnavailable
	}
	// A cache failure degrades the status without failing the check.
	if _, err := s.cache.Get(ctx, "health"); err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("Cache health check failed", zap.Error(err))
		status["cache"] = "unavailable"
		if code == http.StatusOK {
			status["status"] = "degraded"
		}
	}

	c.JSON(code, status)
}
