package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
	apperrors "github.com/collabhub/server/internal/utils/errors"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID.
	UserIDKey = "user_id"
	// RoleKey is the context key for the account role.
	RoleKey = "role"
	// NameKey is the context key for the display name.
	NameKey = "name"
	// StaffKey is the context key for the staff flag.
	StaffKey = "staff"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*outbound.TokenClaims, error)
}

// Auth returns a middleware that validates bearer tokens and stores the caller
// identity in the context. Staff is derived from the role claim or the staff list.
// If optional is true, the middleware will not abort on missing/invalid tokens.
func Auth(validator TokenValidator, staff *StaffList, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			if !optional {
				abort(c, apperrors.Unauthorized("authorization header required"))
				return
			}
			c.Next()
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			if !optional {
				abort(c, apperrors.NewAppError("INVALID_TOKEN", "invalid or expired token", http.StatusUnauthorized, err))
				return
			}
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Set(NameKey, claims.Name)
		c.Set(StaffKey, claims.Role == model.RoleStaff || staff.Contains(claims.UserID))

		c.Next()
	}
}

// RequireAuth returns a middleware that requires a valid bearer token.
func RequireAuth(validator TokenValidator, staff *StaffList) gin.HandlerFunc {
	return Auth(validator, staff, false)
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
	}
	return ""
}

// GetUserID returns the user ID from context.
// Returns uuid.Nil if not found.
func GetUserID(c *gin.Context) uuid.UUID {
	if val, exists := c.Get(UserIDKey); exists {
		if userID, ok := val.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}

// GetRole returns the account role from context.
func GetRole(c *gin.Context) model.Role {
	if val, exists := c.Get(RoleKey); exists {
		if role, ok := val.(model.Role); ok {
			return role
		}
	}
	return ""
}

// GetName returns the display name from context.
func GetName(c *gin.Context) string {
	return c.GetString(NameKey)
}

// IsStaff reports whether the caller is platform staff.
func IsStaff(c *gin.Context) bool {
	return c.GetBool(StaffKey)
}

// IsAuthenticated returns true if the user is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != uuid.Nil
}

// abort writes the error envelope and stops the chain.
func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, err.ToResponse())
}
