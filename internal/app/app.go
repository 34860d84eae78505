package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/collabhub/server/cmd/server/docs"

	ginadapter "github.com/collabhub/server/internal/adapter/inbound/gin"
	"github.com/collabhub/server/internal/infra/config"
	"github.com/collabhub/server/internal/utils/middleware"
)

// idempotencyTTL is how long replayable POST responses are kept.
const idempotencyTTL = 24 * time.Hour

// App represents the application.
type App struct {
	deps    *Dependencies
	router  *gin.Engine
	logger  *zap.Logger
	cleanup func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	app := &App{
		deps:    deps,
		logger:  deps.Logger,
		cleanup: cleanup,
	}
	app.router = app.setupRouter()
	app.registerRoutes()

	app.logger.Info("application initialized",
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("redis", deps.Redis != nil),
		zap.Bool("payment_gateway", cfg.Stripe.SecretKey != ""),
		zap.String("version", Version),
	)
	return app, nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.deps.Config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.deps.Metrics))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(a.deps.Config.Server.AllowedOrigins...)))

	r.GET("/health", a.deps.HealthHandler.Health)
	r.GET("/metrics", gin.WrapH(a.deps.Metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes registers the authenticated API routes.
func (a *App) registerRoutes() {
	cfg := a.deps.Config

	api := a.router.Group("/api/v1")
	api.Use(middleware.RequireAuth(a.deps.Tokens, a.deps.Staff))

	if a.deps.RateLimiter != nil && cfg.RateLimit.Enabled {
		rl := middleware.RateLimitByUser(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		rl.OnLimited = func(*gin.Context) { a.deps.Metrics.RecordRateLimited() }
		rl.Logger = a.logger
		api.Use(middleware.RateLimit(a.deps.RateLimiter, rl))
	}
	if a.deps.Redis != nil {
		api.Use(middleware.Idempotency(a.deps.Redis, middleware.IdempotencyConfig{
			TTL:    idempotencyTTL,
			Logger: a.logger,
		}))
	}

	ginadapter.RegisterCollaborationRoutes(api, a.deps.CollaborationHandler)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Stop releases database and cache connections.
func (a *App) Stop() {
	a.logger.Info("stopping application")
	if a.cleanup != nil {
		a.cleanup()
	}
	_ = a.logger.Sync()
}
