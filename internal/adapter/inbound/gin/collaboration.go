package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/collabhub/server/internal/domain/collaboration"
	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/inbound"
	apperrors "github.com/collabhub/server/internal/utils/errors"
	"github.com/collabhub/server/internal/utils/middleware"
)

// collaborationHandler implements inbound.CollaborationHttpPort.
type collaborationHandler struct {
	domain   collaboration.CollaborationDomain
	settings collaboration.PlatformSettings
	logger   *zap.Logger
}

// NewCollaborationHandler creates a new collaboration HTTP handler.
func NewCollaborationHandler(domain collaboration.CollaborationDomain, settings collaboration.PlatformSettings, logger *zap.Logger) inbound.CollaborationHttpPort {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &collaborationHandler{
		domain:   domain,
		settings: settings,
		logger:   logger.Named("http.collaboration"),
	}
}

// RegisterCollaborationRoutes registers collaboration routes.
func RegisterCollaborationRoutes(r *gin.RouterGroup, h inbound.CollaborationHttpPort) {
	collabs := r.Group("/collaborations")
	{
		collabs.POST("", h.Create)
		collabs.GET("", h.List)
		collabs.GET("/dashboard", h.Dashboard)
		collabs.GET("/:id", h.Get)

		collabs.POST("/:id/reject", h.Reject)
		collabs.POST("/:id/counter-offer", h.CounterOffer)
		collabs.POST("/:id/accept", h.AcceptOffer)

		collabs.POST("/:id/confirm-payment", h.ConfirmPayment)
		collabs.POST("/:id/start", h.StartWork)
		collabs.POST("/:id/submit", h.SubmitWork)
		collabs.POST("/:id/confirm-completion", h.ConfirmCompletion)
		collabs.POST("/:id/request-payout", h.RequestPayout)
		collabs.POST("/:id/dispute", h.RaiseDispute)
		collabs.POST("/:id/decide-dispute", h.DecideDispute)
	}

	staff := collabs.Group("", middleware.RequireStaff())
	{
		staff.POST("/:id/complete-payout", h.CompletePayout)
		staff.POST("/:id/review-dispute", h.ReviewDispute)
		staff.POST("/:id/resolve-refund", h.ResolveRefund)
	}
}

// transition is a domain call acting on one record.
type transition func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error)

// run resolves the actor and id, performs the transition and writes the record.
func (h *collaborationHandler) run(c *gin.Context, fn transition) {
	actor, ok := actorFromContext(c, h.settings)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	collab, err := fn(c, actor, id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, collab.ToResponse())
}

// Create godoc
//
//	@Summary		Open a collaboration
//	@Description	Opens a direct, campaign, ad-slot or banner collaboration with a counterparty.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	model.CreateCollaborationRequest	true	"Request body"
//	@Success		201	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations [post]
func (h *collaborationHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c, h.settings)
	if !ok {
		return
	}

	var req model.CreateCollaborationRequest
	if !bindJSON(c, &req) {
		return
	}

	collab, err := h.domain.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, collab.ToResponse())
}

// Get godoc
//
//	@Summary		Get a collaboration
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id} [get]
func (h *collaborationHandler) Get(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.Get(c.Request.Context(), actor, id)
	})
}

// List godoc
//
//	@Summary		List collaborations
//	@Description	Lists the caller's collaborations, optionally filtered by kind and status.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Produce		json
//	@Param			kind	query	string	false	"Collaboration kind"
//	@Param			status	query	string	false	"Collaboration status"
//	@Success		200	{object}	model.CollaborationListResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Router			/collaborations [get]
func (h *collaborationHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c, h.settings)
	if !ok {
		return
	}

	filter := &model.CollaborationFilter{}
	if s := c.Query("kind"); s != "" {
		kind := model.CollaborationKind(s)
		if !kind.IsValid() {
			respondError(c, apperrors.BadRequest("unknown kind "+s))
			return
		}
		filter.Kind = &kind
	}
	if s := c.Query("status"); s != "" {
		status := model.CollaborationStatus(s)
		if !collaboration.IsKnownStatus(status) {
			respondError(c, apperrors.BadRequest("unknown status "+s))
			return
		}
		filter.Status = &status
	}

	records, err := h.domain.List(c.Request.Context(), actor, filter)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	resp := model.CollaborationListResponse{
		Collaborations: make([]*model.CollaborationResponse, 0, len(records)),
		Total:          len(records),
	}
	for _, r := range records {
		resp.Collaborations = append(resp.Collaborations, r.ToResponse())
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
//
//	@Summary		Collaboration dashboard
//	@Description	Groups the caller's collaborations into pending, active and archived buckets.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	model.DashboardResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/dashboard [get]
func (h *collaborationHandler) Dashboard(c *gin.Context) {
	actor, ok := actorFromContext(c, h.settings)
	if !ok {
		return
	}

	dash, err := h.domain.Dashboard(c.Request.Context(), actor)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// --- Negotiation ---

// Reject godoc
//
//	@Summary		Reject a request or offer
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Param			request	body	model.ReasonRequest	false	"Request body"
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/reject [post]
func (h *collaborationHandler) Reject(c *gin.Context) {
	var req model.ReasonRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.Reject(c.Request.Context(), actor, id, req.Reason)
	})
}

// CounterOffer godoc
//
//	@Summary		Make a counter-offer
//	@Description	Amounts without a currency use the platform currency.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Param			request	body	model.CounterOfferRequest	true	"Request body"
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/counter-offer [post]
func (h *collaborationHandler) CounterOffer(c *gin.Context) {
	var req model.CounterOfferRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.CounterOffer(c.Request.Context(), actor, id, req.Amount)
	})
}

// AcceptOffer godoc
//
//	@Summary		Accept the open offer
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/accept [post]
func (h *collaborationHandler) AcceptOffer(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.AcceptOffer(c.Request.Context(), actor, id)
	})
}

// --- Execution ---

// ConfirmPayment godoc
//
//	@Summary		Confirm payment
//	@Description	With a payment gateway configured the reference is verified against the agreed amount; the confirmed flag is only honoured without a gateway.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Param			request	body	model.ConfirmPaymentRequest	true	"Request body"
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/confirm-payment [post]
func (h *collaborationHandler) ConfirmPayment(c *gin.Context) {
	var req model.ConfirmPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.ConfirmPayment(c.Request.Context(), actor, id, collaboration.PaymentConfirmation{
			Reference: req.Reference,
			Confirmed: req.Confirmed,
		})
	})
}

// StartWork godoc
//
//	@Summary		Start work
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/start [post]
func (h *collaborationHandler) StartWork(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.StartWork(c.Request.Context(), actor, id)
	})
}

// SubmitWork godoc
//
//	@Summary		Submit work
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/submit [post]
func (h *collaborationHandler) SubmitWork(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.SubmitWork(c.Request.Context(), actor, id)
	})
}

// ConfirmCompletion godoc
//
//	@Summary		Confirm completion
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/confirm-completion [post]
func (h *collaborationHandler) ConfirmCompletion(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.ConfirmCompletion(c.Request.Context(), actor, id)
	})
}

// RequestPayout godoc
//
//	@Summary		Request payout
//	@Description	Computes the settlement breakdown and marks the payout requested.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/request-payout [post]
func (h *collaborationHandler) RequestPayout(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.RequestPayout(c.Request.Context(), actor, id)
	})
}

// CompletePayout godoc
//
//	@Summary		Complete payout
//	@Description	Staff only.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/complete-payout [post]
func (h *collaborationHandler) CompletePayout(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.CompletePayout(c.Request.Context(), actor, id)
	})
}

// --- Disputes ---

// RaiseDispute godoc
//
//	@Summary		Raise a dispute
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Param			request	body	model.ReasonRequest	false	"Request body"
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/dispute [post]
func (h *collaborationHandler) RaiseDispute(c *gin.Context) {
	var req model.ReasonRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.RaiseDispute(c.Request.Context(), actor, id, req.Reason)
	})
}

// ReviewDispute godoc
//
//	@Summary		Review a dispute
//	@Description	Staff only.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/review-dispute [post]
func (h *collaborationHandler) ReviewDispute(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.ReviewDispute(c.Request.Context(), actor, id)
	})
}

// DecideDispute godoc
//
//	@Summary		Decide a dispute
//	@Description	The brand chooses between asking for a refund and keeping the work.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Param			request	body	model.DisputeDecisionRequest	true	"Request body"
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/decide-dispute [post]
func (h *collaborationHandler) DecideDispute(c *gin.Context) {
	var req model.DisputeDecisionRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.DecideDispute(c.Request.Context(), actor, id, req.Refund)
	})
}

// ResolveRefund godoc
//
//	@Summary		Resolve a refund request
//	@Description	Staff only.
//	@Tags			Collaboration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Collaboration ID"	format(uuid)
//	@Param			request	body	model.RefundResolutionRequest	true	"Request body"
//	@Success		200	{object}	model.CollaborationResponse
//	@Failure		400	{object}	apperrors.ErrorResponse
//	@Failure		401	{object}	apperrors.ErrorResponse
//	@Failure		403	{object}	apperrors.ErrorResponse
//	@Failure		404	{object}	apperrors.ErrorResponse
//	@Failure		409	{object}	apperrors.ErrorResponse
//	@Failure		422	{object}	apperrors.ErrorResponse
//	@Failure		429	{object}	apperrors.ErrorResponse
//	@Router			/collaborations/{id}/resolve-refund [post]
func (h *collaborationHandler) ResolveRefund(c *gin.Context) {
	var req model.RefundResolutionRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, func(c *gin.Context, actor collaboration.Actor, id uuid.UUID) (*model.Collaboration, error) {
		return h.domain.ResolveRefund(c.Request.Context(), actor, id, req.Approve)
	})
}

var _ inbound.CollaborationHttpPort = (*collaborationHandler)(nil)
