package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/collabhub/server/internal/domain/collaboration"

	// Inbound adapters
	ginadapter "github.com/collabhub/server/internal/adapter/inbound/gin"

	// Ports
	"github.com/collabhub/server/internal/port/inbound"
	"github.com/collabhub/server/internal/port/outbound"

	// Outbound adapters
	"github.com/collabhub/server/internal/adapter/outbound/memory"
	"github.com/collabhub/server/internal/adapter/outbound/paymentgateway"
	"github.com/collabhub/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/collabhub/server/internal/adapter/outbound/redis"
	"github.com/collabhub/server/internal/adapter/outbound/token"

	// Infrastructure
	"github.com/collabhub/server/internal/infra/config"
	"github.com/collabhub/server/internal/infra/events"
	"github.com/collabhub/server/internal/shared/cache"
	"github.com/collabhub/server/internal/shared/database"
	"github.com/collabhub/server/internal/shared/logger"

	// Utils
	"github.com/collabhub/server/internal/utils/metrics"
	"github.com/collabhub/server/internal/utils/middleware"
)

// Version is the build version reported by the health endpoint.
var Version = "dev"

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideMetrics,
)

// ProvideLogger creates the zap logger.
func ProvideLogger(cfg *config.Config) *zap.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideDatabase opens the Postgres connection. The memory driver needs none.
func ProvideDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	if cfg.Database.Driver == "memory" {
		return nil, func() {}, nil
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}
	}

	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional.
func ProvideRedisClient(cfg *config.Config, log *zap.Logger) (goredis.UniversalClient, func()) {
	if !cfg.Redis.Enabled() {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = cache.Close(client) }
}

// ProvideRateLimiter creates a rate limiter when Redis is available.
func ProvideRateLimiter(redis goredis.UniversalClient) outbound.RateLimiterPort {
	if redis == nil {
		return nil
	}
	return redisadapter.NewRateLimiter(redis)
}

// ProvideMetrics creates the metrics instance on its own registry.
func ProvideMetrics() *metrics.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New("collabhub", reg)
}

// ===== Auth Providers =====

// AuthSet provides token validation and the staff list.
var AuthSet = wire.NewSet(
	ProvideTokenManager,
	ProvideStaffList,
)

// ProvideTokenManager creates the JWT manager.
func ProvideTokenManager(cfg *config.Config) outbound.TokenPort {
	return token.NewJWTManager(&token.JWTConfig{
		Secret:            cfg.Auth.JWTSecret,
		Issuer:            cfg.Auth.Issuer,
		AccessTokenExpiry: cfg.Auth.AccessTokenExpiry,
	})
}

// ProvideStaffList creates the configured staff list.
func ProvideStaffList(cfg *config.Config) *middleware.StaffList {
	return middleware.NewStaffList(cfg.Platform.StaffUserIDs)
}

// ===== Collaboration Domain Providers =====

// CollaborationSet provides collaboration domain dependencies.
var CollaborationSet = wire.NewSet(
	ProvideCollaborationStore,
	ProvideUsageCounter,
	ProvideEventBus,
	ProvideNotifier,
	ProvidePaymentConfirmer,
	ProvideTransitionRecorder,
	ProvideCollaborationConfig,
	ProvidePlatformSettings,
	collaboration.NewCollaborationDomain,
)

// ProvideCollaborationStore selects the record store by database driver.
func ProvideCollaborationStore(db *gorm.DB) outbound.CollaborationDatabasePort {
	if db == nil {
		return memory.NewCollaborationStore()
	}
	return postgres.NewCollaborationAdapter(db)
}

// ProvideUsageCounter uses Redis when available.
func ProvideUsageCounter(redis goredis.UniversalClient) outbound.UsageCounterPort {
	if redis == nil {
		return memory.NewUsageCounter()
	}
	return redisadapter.NewUsageCounter(redis)
}

// ProvideEventBus creates the event bus with its notification handlers.
func ProvideEventBus(cfg *config.Config, redis goredis.UniversalClient, log *zap.Logger) *events.Bus {
	bus := events.NewBus(log)
	bus.Register(events.NewLogHandler(log))
	if redis != nil {
		bus.Register(redisadapter.NewNotificationPublisher(redis, cfg.Notify.RedisChannel))
	}
	return bus
}

// ProvideNotifier publishes notifications on the event bus.
func ProvideNotifier(bus *events.Bus) outbound.NotifierPort {
	return events.NewBusNotifier(bus)
}

// ProvidePaymentConfirmer creates the Stripe confirmer when a key is configured.
func ProvidePaymentConfirmer(cfg *config.Config, m *metrics.Metrics, log *zap.Logger) outbound.PaymentConfirmerPort {
	if cfg.Stripe.SecretKey == "" {
		return nil
	}
	return paymentgateway.NewStripeConfirmer(&paymentgateway.StripeConfig{
		SecretKey:        cfg.Stripe.SecretKey,
		FailureThreshold: cfg.Stripe.FailureThreshold,
		CircuitTimeout:   cfg.Stripe.CircuitTimeout,
	}, m, log)
}

// ProvideTransitionRecorder records transitions as metrics.
func ProvideTransitionRecorder(m *metrics.Metrics) collaboration.TransitionRecorder {
	return m
}

// ProvideCollaborationConfig creates the domain configuration.
func ProvideCollaborationConfig(cfg *config.Config) *collaboration.Config {
	c := collaboration.DefaultConfig()
	if cfg.Platform.CollabIDPrefix != "" {
		c.CollabIDPrefix = cfg.Platform.CollabIDPrefix
	}
	return c
}

// ProvidePlatformSettings creates the pricing settings passed with every actor.
func ProvidePlatformSettings(cfg *config.Config) collaboration.PlatformSettings {
	return collaboration.PlatformSettings{
		CommissionBps: cfg.Platform.CommissionBps,
		GSTBps:        cfg.Platform.GSTBps,
		ProcessingBps: cfg.Platform.ProcessingBps,
		Currency:      cfg.Platform.Currency,
	}
}

// ===== HTTP Handler Providers =====

// HandlerSet provides HTTP handlers.
var HandlerSet = wire.NewSet(
	ginadapter.NewCollaborationHandler,
	ProvideHealthHandler,
)

// ProvideHealthHandler creates the health handler.
func ProvideHealthHandler() inbound.HealthHttpPort {
	return ginadapter.NewHealthHandler(Version)
}

// ===== Master Set =====

// AppSet is the master provider set that includes all dependencies.
var AppSet = wire.NewSet(
	InfraSet,
	AuthSet,
	CollaborationSet,
	HandlerSet,
)
