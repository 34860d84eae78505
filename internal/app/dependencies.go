package app

import (
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/collabhub/server/internal/domain/collaboration"
	"github.com/collabhub/server/internal/infra/config"
	"github.com/collabhub/server/internal/infra/events"
	"github.com/collabhub/server/internal/port/inbound"
	"github.com/collabhub/server/internal/port/outbound"
	"github.com/collabhub/server/internal/utils/metrics"
	"github.com/collabhub/server/internal/utils/middleware"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       goredis.UniversalClient
	RateLimiter outbound.RateLimiterPort
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	EventBus    *events.Bus

	// Auth
	Tokens outbound.TokenPort
	Staff  *middleware.StaffList

	// Domains
	CollaborationDomain collaboration.CollaborationDomain

	// HTTP Handlers
	CollaborationHandler inbound.CollaborationHttpPort
	HealthHandler        inbound.HealthHttpPort
}
