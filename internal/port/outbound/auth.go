package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/collabhub/server/internal/model"
)

// TokenClaims are the identity claims carried by a bearer token.
type TokenClaims struct {
	UserID uuid.UUID
	Role   model.Role
	Name   string
}

// TokenPort defines bearer token operations.
type TokenPort interface {
	// GenerateAccessToken signs a token for the given claims.
	GenerateAccessToken(claims TokenClaims) (string, time.Time, error)

	// ValidateAccessToken verifies a token and returns its claims.
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// RateLimiterPort defines rate limiting operations.
type RateLimiterPort interface {
	// Allow records one request for key and reports whether it fits within limit per window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// GetRemaining returns remaining requests in the current window.
	GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
