package gin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/collabhub/server/internal/domain/collaboration"
	"github.com/collabhub/server/internal/port/outbound"
	apperrors "github.com/collabhub/server/internal/utils/errors"
	"github.com/collabhub/server/internal/utils/middleware"
)

// toAppError maps domain errors onto the HTTP error envelope.
func toAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, collaboration.ErrNotFound):
		return apperrors.NotFound("collaboration").WithError(err)
	case errors.Is(err, collaboration.ErrInvalidTransition):
		return apperrors.Conflict("INVALID_TRANSITION", err.Error()).WithError(err)
	case errors.Is(err, collaboration.ErrMissingOffer):
		return apperrors.Conflict("MISSING_OFFER", err.Error()).WithError(err)
	case errors.Is(err, collaboration.ErrConcurrentModification):
		return apperrors.Conflict("CONFLICT", err.Error()).WithError(err)
	case errors.Is(err, collaboration.ErrPaymentNotConfirmed):
		return apperrors.NewAppError("PAYMENT_NOT_CONFIRMED", err.Error(), http.StatusUnprocessableEntity, err)
	case errors.Is(err, collaboration.ErrValidation):
		return apperrors.ValidationError(err.Error()).WithError(err)
	case errors.Is(err, collaboration.ErrUnauthorized):
		return apperrors.Forbidden(err.Error()).WithError(err)
	case errors.Is(err, outbound.ErrPaymentGatewayUnavailable):
		return apperrors.NewAppError("PAYMENT_GATEWAY_UNAVAILABLE", "payment gateway unavailable, try again later", http.StatusServiceUnavailable, err)
	default:
		return apperrors.Internal("internal server error", err)
	}
}

// handleError writes the mapped error and logs server-side failures.
func handleError(c *gin.Context, logger *zap.Logger, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	respondError(c, appErr)
}
