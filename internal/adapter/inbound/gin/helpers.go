package gin

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/collabhub/server/internal/domain/collaboration"
	apperrors "github.com/collabhub/server/internal/utils/errors"
	"github.com/collabhub/server/internal/utils/middleware"
)

// actorFromContext builds the explicit caller context from the auth middleware values.
// It writes a 401 and returns false when the request is unauthenticated.
func actorFromContext(c *gin.Context, settings collaboration.PlatformSettings) (collaboration.Actor, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respondError(c, apperrors.Unauthorized(""))
		return collaboration.Actor{}, false
	}
	return collaboration.Actor{
		UserID:   userID,
		Role:     middleware.GetRole(c),
		Name:     middleware.GetName(c),
		Staff:    middleware.IsStaff(c),
		Settings: settings,
	}, true
}

// parseID parses the :id path parameter, writing a 400 on failure.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.BadRequest("invalid collaboration ID"))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperrors.BadRequest(err.Error()))
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON that accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, apperrors.BadRequest(err.Error()))
		return false
	}
	return true
}

// respondError writes the error envelope and aborts.
func respondError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, err.ToResponse())
}
