package collaboration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
	"github.com/collabhub/server/internal/utils/random"
	"github.com/collabhub/server/internal/utils/requestctx"
)

var tracer = otel.Tracer("github.com/collabhub/server/internal/domain/collaboration")

// PaymentConfirmation is the payment signal handed to ConfirmPayment. When a
// payment gateway is wired only Reference counts and the gateway decides;
// Confirmed is the manual signal used when no gateway is configured.
type PaymentConfirmation struct {
	Reference string
	Confirmed bool
}

// TransitionRecorder observes transition outcomes.
type TransitionRecorder interface {
	RecordTransition(kind, from, to, result string)
}

// CollaborationDomain defines the collaboration lifecycle operations.
type CollaborationDomain interface {
	// Queries
	Create(ctx context.Context, actor Actor, req *model.CreateCollaborationRequest) (*model.Collaboration, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error)
	List(ctx context.Context, actor Actor, filter *model.CollaborationFilter) ([]*model.Collaboration, error)
	Dashboard(ctx context.Context, actor Actor) (*model.DashboardResponse, error)

	// Negotiation
	Reject(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*model.Collaboration, error)
	CounterOffer(ctx context.Context, actor Actor, id uuid.UUID, amount model.Money) (*model.Collaboration, error)
	AcceptOffer(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error)

	// Execution
	ConfirmPayment(ctx context.Context, actor Actor, id uuid.UUID, confirmation PaymentConfirmation) (*model.Collaboration, error)
	StartWork(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error)
	SubmitWork(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error)
	ConfirmCompletion(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error)
	RequestPayout(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error)
	CompletePayout(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error)

	// Disputes
	RaiseDispute(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*model.Collaboration, error)
	ReviewDispute(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error)
	DecideDispute(ctx context.Context, actor Actor, id uuid.UUID, refund bool) (*model.Collaboration, error)
	ResolveRefund(ctx context.Context, actor Actor, id uuid.UUID, approve bool) (*model.Collaboration, error)
}

// collaborationDomain implements CollaborationDomain.
type collaborationDomain struct {
	store    outbound.CollaborationDatabasePort
	notifier outbound.NotifierPort
	payments outbound.PaymentConfirmerPort
	usage    outbound.UsageCounterPort
	recorder TransitionRecorder
	cfg      *Config
	logger   *zap.Logger
	newCode  func(length int) (string, error)
}

// NewCollaborationDomain creates a new collaboration domain service.
// payments, usage and recorder may be nil.
func NewCollaborationDomain(
	store outbound.CollaborationDatabasePort,
	notifier outbound.NotifierPort,
	payments outbound.PaymentConfirmerPort,
	usage outbound.UsageCounterPort,
	recorder TransitionRecorder,
	cfg *Config,
	logger *zap.Logger,
) CollaborationDomain {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.CollabIDRandomLength <= 0 {
		cfg.CollabIDRandomLength = DefaultConfig().CollabIDRandomLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &collaborationDomain{
		store:    store,
		notifier: notifier,
		payments: payments,
		usage:    usage,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger.Named("collaboration"),
		newCode:  random.UpperAlphaNum,
	}
}

// ===== Queries =====

func (d *collaborationDomain) Create(ctx context.Context, actor Actor, req *model.CreateCollaborationRequest) (*model.Collaboration, error) {
	ctx, span := tracer.Start(ctx, "collaboration.create")
	defer span.End()

	collab, err := d.buildRecord(actor, req)
	if err != nil {
		kind := ""
		if req != nil {
			kind = string(req.Kind)
		}
		d.record(kind, "", "", err)
		return nil, failSpan(span, err)
	}
	span.SetAttributes(attribute.String("collaboration.kind", string(collab.Kind)))

	if err := d.store.Create(ctx, collab); err != nil {
		d.record(string(collab.Kind), "", string(collab.Status), err)
		return nil, failSpan(span, fmt.Errorf("create collaboration: %w", err))
	}

	d.logger.Info("collaboration created",
		zap.String("id", collab.ID.String()),
		zap.String("collab_id", collab.CollabID),
		zap.String("kind", string(collab.Kind)),
		zap.String("status", string(collab.Status)),
		zap.String("actor", actor.UserID.String()),
		zap.String("request_id", requestctx.RequestID(ctx)),
	)
	d.record(string(collab.Kind), "", string(collab.Status), nil)
	d.incrementUsage(ctx, actor.UserID, outbound.UsageRequests)
	d.notify(ctx, outbound.NotifyRequestCreated, collab)

	return collab, nil
}

func (d *collaborationDomain) buildRecord(actor Actor, req *model.CreateCollaborationRequest) (*model.Collaboration, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, validationError("request is required")
	}
	adapter, err := AdapterFor(req.Kind)
	if err != nil {
		return nil, err
	}
	if actor.Role != adapter.InitiatorRole() {
		return nil, unauthorized("%s requests are opened by %s accounts", adapter.Kind(), adapter.InitiatorRole())
	}

	cp := req.Counterparty
	if cp.ID == uuid.Nil {
		return nil, validationError("counterparty id is required")
	}
	if cp.ID == actor.UserID {
		return nil, validationError("counterparty must be another account")
	}
	var proposed *model.Money
	if req.ProposedAmount != nil {
		if !req.ProposedAmount.IsPositive() {
			return nil, validationError("proposed amount must be positive")
		}
		m, err := actor.Settings.resolveAmount(*req.ProposedAmount)
		if err != nil {
			return nil, err
		}
		proposed = &m
	}

	now := time.Now()
	collabID, err := d.generateCollabID(now)
	if err != nil {
		return nil, err
	}
	collab := &model.Collaboration{
		ID:             uuid.New(),
		CollabID:       collabID,
		Kind:           adapter.Kind(),
		InitiatedBy:    actor.Role,
		Status:         adapter.InitialStatus(),
		ProposedAmount: proposed,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	self := model.Party{ID: actor.UserID, Role: actor.Role, Name: actor.Name, Avatar: actor.Avatar}
	if adapter.InitiatorRole() == adapter.RequesterRole() {
		collab.Requester = self
		collab.Fulfiller = model.Party{ID: cp.ID, Role: adapter.FulfillerRole(), Name: cp.Name, Avatar: cp.Avatar}
	} else {
		collab.Fulfiller = self
		collab.Requester = model.Party{ID: cp.ID, Role: adapter.RequesterRole(), Name: cp.Name, Avatar: cp.Avatar}
	}

	if err := adapter.ApplyRequest(collab, req); err != nil {
		return nil, err
	}
	return collab, nil
}

func (d *collaborationDomain) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error) {
	ctx, span := tracer.Start(ctx, "collaboration.get", trace.WithAttributes(attribute.String("collaboration.id", id.String())))
	defer span.End()

	if err := actor.validate(); err != nil {
		return nil, failSpan(span, err)
	}
	collab, err := d.load(ctx, id)
	if err != nil {
		return nil, failSpan(span, err)
	}
	if !actor.Staff && sideOf(collab, actor) == sideNone {
		return nil, failSpan(span, unauthorized("not a counterparty"))
	}
	return collab, nil
}

func (d *collaborationDomain) List(ctx context.Context, actor Actor, filter *model.CollaborationFilter) ([]*model.Collaboration, error) {
	ctx, span := tracer.Start(ctx, "collaboration.list")
	defer span.End()

	if err := actor.validate(); err != nil {
		return nil, failSpan(span, err)
	}
	if filter != nil && filter.Kind != nil && !filter.Kind.IsValid() {
		return nil, failSpan(span, validationError("unknown collaboration kind %q", *filter.Kind))
	}

	records, err := d.store.FindByParticipant(ctx, actor.UserID, filter)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("list collaborations: %w", err))
	}
	return records, nil
}

func (d *collaborationDomain) Dashboard(ctx context.Context, actor Actor) (*model.DashboardResponse, error) {
	records, err := d.List(ctx, actor, nil)
	if err != nil {
		return nil, err
	}
	buckets := Group(records, actor)
	return &buckets, nil
}

// ===== Negotiation =====

func (d *collaborationDomain) Reject(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "reject", func(s *step) (change, error) {
		if err := s.requireParty(); err != nil {
			return change{}, err
		}
		c := s.c
		switch {
		case c.Status == s.adapter.InitialStatus():
		case isOfferStatusOf(s.adapter, c.Status):
			if c.CurrentOffer != nil && c.CurrentOffer.OfferedBy == s.role {
				return change{}, invalidTransition("cannot reject your own offer")
			}
		default:
			return change{}, invalidTransition("cannot reject from %s", c.Status)
		}
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return change{}, validationError("rejection reason is required")
		}

		c.Status = model.StatusRejected
		c.RejectionReason = reason
		c.CurrentOffer = nil
		return change{
			columns: []string{"status", "rejection_reason", "current_offer"},
			event:   outbound.NotifyRejected,
		}, nil
	})
}

func (d *collaborationDomain) CounterOffer(ctx context.Context, actor Actor, id uuid.UUID, amount model.Money) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "counter_offer", func(s *step) (change, error) {
		if err := s.requireParty(); err != nil {
			return change{}, err
		}
		c := s.c
		switch {
		case c.Status == s.adapter.InitialStatus():
			if s.role == c.InitiatedBy {
				return change{}, invalidTransition("only the responder can make the first offer")
			}
		case isOfferStatusOf(s.adapter, c.Status):
			if c.CurrentOffer != nil && c.CurrentOffer.OfferedBy == s.role {
				return change{}, invalidTransition("cannot counter your own offer")
			}
		default:
			return change{}, invalidTransition("cannot make an offer from %s", c.Status)
		}
		if !amount.IsPositive() {
			return change{}, validationError("offer amount must be positive")
		}
		offer, err := s.actor.Settings.resolveAmount(amount)
		if err != nil {
			return change{}, err
		}
		if c.CurrentOffer != nil && c.CurrentOffer.Amount.Currency != offer.Currency {
			return change{}, validationError("offer must stay in %s", c.CurrentOffer.Amount.Currency)
		}

		target, _ := s.adapter.OfferStatus(s.role)
		c.Status = target
		c.CurrentOffer = &model.Offer{Amount: offer, OfferedBy: s.role}
		return change{
			columns: []string{"status", "current_offer"},
			event:   outbound.NotifyOfferMade,
		}, nil
	})
}

func (d *collaborationDomain) AcceptOffer(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "accept_offer", func(s *step) (change, error) {
		if err := s.requireParty(); err != nil {
			return change{}, err
		}
		c := s.c
		switch {
		case c.Status == s.adapter.InitialStatus():
			return change{}, ErrMissingOffer
		case isOfferStatusOf(s.adapter, c.Status):
		default:
			return change{}, invalidTransition("cannot accept from %s", c.Status)
		}
		if c.CurrentOffer == nil {
			return change{}, ErrMissingOffer
		}
		if c.CurrentOffer.OfferedBy == s.role {
			return change{}, invalidTransition("cannot accept your own offer")
		}

		final := c.CurrentOffer.Amount
		c.FinalAmount = &final
		c.CurrentOffer = nil
		c.Status = model.StatusAgreementReached
		return change{
			columns: []string{"status", "final_amount", "current_offer"},
			event:   outbound.NotifyOfferAccepted,
		}, nil
	})
}

// ===== Execution =====

func (d *collaborationDomain) ConfirmPayment(ctx context.Context, actor Actor, id uuid.UUID, confirmation PaymentConfirmation) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "confirm_payment", func(s *step) (change, error) {
		if s.side != sideRequester && !s.actor.Staff {
			return change{}, unauthorized("only the requester or staff can confirm payment")
		}
		c := s.c
		if c.Status != model.StatusAgreementReached {
			return change{}, invalidTransition("cannot confirm payment from %s", c.Status)
		}

		ref := strings.TrimSpace(confirmation.Reference)
		confirmed := confirmation.Confirmed
		if d.payments != nil {
			if ref == "" {
				return change{}, validationError("payment reference is required")
			}
			if c.FinalAmount == nil {
				return change{}, invalidTransition("no agreed amount to pay")
			}
			ok, err := d.payments.Confirm(ctx, outbound.PaymentCheck{
				Reference: ref,
				CollabID:  c.CollabID,
				Amount:    *c.FinalAmount,
			})
			if err != nil {
				return change{}, fmt.Errorf("confirm payment %s: %w", ref, err)
			}
			confirmed = ok
		}
		if !confirmed {
			return change{}, ErrPaymentNotConfirmed
		}

		c.Status = model.StatusInProgress
		c.PaymentStatus = model.PaymentStatusPaid
		c.PaymentReference = ref
		return change{
			columns: []string{"status", "payment_status", "payment_reference"},
			event:   outbound.NotifyPaymentConfirmed,
		}, nil
	})
}

func (d *collaborationDomain) StartWork(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "start_work", func(s *step) (change, error) {
		if err := s.requireSide(sideFulfiller); err != nil {
			return change{}, err
		}
		c := s.c
		if err := requirePaidWork(c); err != nil {
			return change{}, err
		}
		if c.WorkStatus == model.WorkStatusStarted {
			return change{}, invalidTransition("work already started")
		}

		c.WorkStatus = model.WorkStatusStarted
		return change{
			columns: []string{"work_status"},
			event:   outbound.NotifyWorkStarted,
		}, nil
	})
}

func (d *collaborationDomain) SubmitWork(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "submit_work", func(s *step) (change, error) {
		if err := s.requireSide(sideFulfiller); err != nil {
			return change{}, err
		}
		c := s.c
		if err := requirePaidWork(c); err != nil {
			return change{}, err
		}

		c.Status = model.StatusWorkSubmitted
		return change{
			columns: []string{"status"},
			event:   outbound.NotifyWorkSubmitted,
		}, nil
	})
}

func requirePaidWork(c *model.Collaboration) error {
	if c.Status != model.StatusInProgress {
		return invalidTransition("work is not in progress (status %s)", c.Status)
	}
	if c.PaymentStatus != model.PaymentStatusPaid {
		return invalidTransition("payment has not been confirmed")
	}
	return nil
}

func (d *collaborationDomain) ConfirmCompletion(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "confirm_completion", func(s *step) (change, error) {
		if err := s.requireSide(sideRequester); err != nil {
			return change{}, err
		}
		c := s.c
		if c.Status != model.StatusWorkSubmitted {
			return change{}, invalidTransition("cannot confirm completion from %s", c.Status)
		}

		c.Status = model.StatusCompleted
		return change{
			columns: []string{"status"},
			event:   outbound.NotifyCompleted,
			after: func(ctx context.Context, c *model.Collaboration) {
				d.incrementUsage(ctx, c.Requester.ID, outbound.UsageCompleted)
				d.incrementUsage(ctx, c.Fulfiller.ID, outbound.UsageCompleted)
			},
		}, nil
	})
}

func (d *collaborationDomain) RequestPayout(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "request_payout", func(s *step) (change, error) {
		if err := s.requireSide(sideFulfiller); err != nil {
			return change{}, err
		}
		c := s.c
		if c.Status != model.StatusCompleted {
			return change{}, invalidTransition("cannot request payout from %s", c.Status)
		}
		if c.PaymentStatus != model.PaymentStatusPaid {
			return change{}, invalidTransition("payout not available (payment status %q)", c.PaymentStatus)
		}
		if c.FinalAmount == nil {
			return change{}, invalidTransition("no agreed amount to pay out")
		}

		settlement := Settle(*c.FinalAmount, s.actor.Settings)
		c.Payout = &settlement
		c.PaymentStatus = model.PaymentStatusPayoutRequested
		return change{
			columns: []string{"payment_status", "payout"},
			event:   outbound.NotifyPayoutRequested,
		}, nil
	})
}

func (d *collaborationDomain) CompletePayout(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "complete_payout", func(s *step) (change, error) {
		if err := s.requireStaff(); err != nil {
			return change{}, err
		}
		c := s.c
		if c.Status != model.StatusCompleted || c.PaymentStatus != model.PaymentStatusPayoutRequested {
			return change{}, invalidTransition("no payout pending (status %s, payment status %q)", c.Status, c.PaymentStatus)
		}

		c.PaymentStatus = model.PaymentStatusPayoutComplete
		return change{
			columns: []string{"payment_status"},
			event:   outbound.NotifyPayoutCompleted,
		}, nil
	})
}

// ===== Disputes =====

func (d *collaborationDomain) RaiseDispute(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "raise_dispute", func(s *step) (change, error) {
		if err := s.requireParty(); err != nil {
			return change{}, err
		}
		c := s.c
		switch c.Status {
		case model.StatusInProgress, model.StatusWorkSubmitted:
		case model.StatusCompleted:
			if c.PaymentStatus == model.PaymentStatusPayoutComplete {
				return change{}, invalidTransition("payout already completed")
			}
		default:
			return change{}, invalidTransition("cannot dispute from %s", c.Status)
		}
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return change{}, validationError("dispute reason is required")
		}

		c.Status = model.StatusDisputed
		c.DisputeReason = reason
		c.DisputedBy = s.role
		return change{
			columns: []string{"status", "dispute_reason", "disputed_by"},
			event:   outbound.NotifyDisputeRaised,
		}, nil
	})
}

func (d *collaborationDomain) ReviewDispute(ctx context.Context, actor Actor, id uuid.UUID) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "review_dispute", func(s *step) (change, error) {
		if err := s.requireStaff(); err != nil {
			return change{}, err
		}
		if s.c.Status != model.StatusDisputed {
			return change{}, invalidTransition("cannot review dispute from %s", s.c.Status)
		}

		s.c.Status = model.StatusBrandDecisionPending
		return change{
			columns: []string{"status"},
			event:   outbound.NotifyDisputeReviewed,
		}, nil
	})
}

func (d *collaborationDomain) DecideDispute(ctx context.Context, actor Actor, id uuid.UUID, refund bool) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "decide_dispute", func(s *step) (change, error) {
		if err := s.requireSide(sideRequester); err != nil {
			return change{}, err
		}
		if s.c.Status != model.StatusBrandDecisionPending {
			return change{}, invalidTransition("cannot decide dispute from %s", s.c.Status)
		}

		if refund {
			s.c.Status = model.StatusRefundPendingAdminReview
		} else {
			s.c.Status = model.StatusCompleted
		}
		return change{
			columns: []string{"status"},
			event:   outbound.NotifyDisputeDecided,
		}, nil
	})
}

func (d *collaborationDomain) ResolveRefund(ctx context.Context, actor Actor, id uuid.UUID, approve bool) (*model.Collaboration, error) {
	return d.mutate(ctx, actor, id, "resolve_refund", func(s *step) (change, error) {
		if err := s.requireStaff(); err != nil {
			return change{}, err
		}
		c := s.c
		if c.Status != model.StatusRefundPendingAdminReview {
			return change{}, invalidTransition("cannot resolve refund from %s", c.Status)
		}

		if !approve {
			c.Status = model.StatusCompleted
			return change{
				columns: []string{"status"},
				event:   outbound.NotifyDisputeResolved,
			}, nil
		}
		c.Status = model.StatusRejected
		c.PaymentStatus = model.PaymentStatusRefunded
		return change{
			columns: []string{"status", "payment_status"},
			event:   outbound.NotifyDisputeResolved,
		}, nil
	})
}

// ===== Transition core =====

// step is the working state handed to a transition function. c is a private
// copy of the stored record and may be mutated freely.
type step struct {
	c       *model.Collaboration
	adapter Adapter
	actor   Actor
	side    side
	role    model.Role
}

func (s *step) requireParty() error {
	if s.side == sideNone {
		return unauthorized("not a counterparty")
	}
	return nil
}

func (s *step) requireSide(want side) error {
	if s.side != want {
		return unauthorized("only the %s can do this", roleOf(s.c, want))
	}
	return nil
}

func (s *step) requireStaff() error {
	if !s.actor.Staff {
		return unauthorized("staff privilege required")
	}
	return nil
}

// change describes what a successful transition wrote.
type change struct {
	columns []string
	event   outbound.NotificationEvent
	after   func(ctx context.Context, c *model.Collaboration)
}

type transitionFunc func(s *step) (change, error)

func (d *collaborationDomain) mutate(ctx context.Context, actor Actor, id uuid.UUID, op string, fn transitionFunc) (*model.Collaboration, error) {
	ctx, span := tracer.Start(ctx, "collaboration."+op, trace.WithAttributes(
		attribute.String("collaboration.id", id.String()),
		attribute.String("actor.role", string(actor.Role)),
	))
	defer span.End()

	if err := actor.validate(); err != nil {
		return nil, failSpan(span, err)
	}
	current, err := d.load(ctx, id)
	if err != nil {
		return nil, failSpan(span, err)
	}
	adapter, err := AdapterFor(current.Kind)
	if err != nil {
		return nil, failSpan(span, err)
	}

	next := current.Clone()
	st := &step{c: next, adapter: adapter, actor: actor, side: sideOf(current, actor)}
	st.role = roleOf(current, st.side)

	ch, err := fn(st)
	if err == nil {
		err = guard(current, next)
	}
	if err != nil {
		d.record(string(current.Kind), string(current.Status), string(current.Status), err)
		d.logger.Debug("collaboration transition refused",
			zap.String("op", op),
			zap.String("id", id.String()),
			zap.String("status", string(current.Status)),
			zap.Error(err),
		)
		return nil, failSpan(span, err)
	}

	next.Version = current.Version + 1
	next.UpdatedAt = time.Now()
	if err := d.store.Update(ctx, next, current.Version, ch.columns...); err != nil {
		if errors.Is(err, outbound.ErrVersionConflict) {
			err = fmt.Errorf("%w: %s", ErrConcurrentModification, current.CollabID)
		} else {
			err = fmt.Errorf("update collaboration: %w", err)
		}
		d.record(string(current.Kind), string(current.Status), string(next.Status), err)
		return nil, failSpan(span, err)
	}

	d.logger.Info("collaboration transition",
		zap.String("op", op),
		zap.String("id", next.ID.String()),
		zap.String("collab_id", next.CollabID),
		zap.String("kind", string(next.Kind)),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next.Status)),
		zap.String("actor", actor.UserID.String()),
		zap.String("request_id", requestctx.RequestID(ctx)),
	)
	span.SetAttributes(
		attribute.String("collaboration.from", string(current.Status)),
		attribute.String("collaboration.to", string(next.Status)),
	)
	d.record(string(next.Kind), string(current.Status), string(next.Status), nil)

	if ch.after != nil {
		ch.after(ctx, next)
	}
	if ch.event != "" {
		d.notify(ctx, ch.event, next)
	}
	return next, nil
}

// guard enforces the record invariants no transition may break.
func guard(before, after *model.Collaboration) error {
	if after.Status != before.Status && !CanTransition(before.Status, after.Status) {
		return invalidTransition("%s -> %s", before.Status, after.Status)
	}
	if after.PaymentStatus != before.PaymentStatus && !before.PaymentStatus.CanAdvanceTo(after.PaymentStatus) {
		return invalidTransition("payment %q -> %q", before.PaymentStatus, after.PaymentStatus)
	}
	if before.FinalAmount != nil && (after.FinalAmount == nil || !after.FinalAmount.Equals(*before.FinalAmount)) {
		return invalidTransition("final amount is immutable")
	}
	return nil
}

func (d *collaborationDomain) load(ctx context.Context, id uuid.UUID) (*model.Collaboration, error) {
	collab, err := d.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get collaboration: %w", err)
	}
	if collab == nil {
		return nil, ErrNotFound
	}
	return collab, nil
}

func (d *collaborationDomain) generateCollabID(now time.Time) (string, error) {
	code, err := d.newCode(d.cfg.CollabIDRandomLength)
	if err != nil {
		return "", fmt.Errorf("generate collab id: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", d.cfg.CollabIDPrefix, now.Format("20060102"), code), nil
}

func (d *collaborationDomain) notify(ctx context.Context, event outbound.NotificationEvent, collab *model.Collaboration) {
	if d.notifier == nil {
		return
	}
	d.notifier.Notify(ctx, event, collab.Clone())
}

func (d *collaborationDomain) incrementUsage(ctx context.Context, accountID uuid.UUID, metric string) {
	if d.usage == nil {
		return
	}
	if _, err := d.usage.Increment(ctx, accountID, metric); err != nil {
		d.logger.Warn("failed to increment usage counter",
			zap.String("account_id", accountID.String()),
			zap.String("metric", metric),
			zap.Error(err),
		)
	}
}

func (d *collaborationDomain) record(kind, from, to string, err error) {
	if d.recorder == nil {
		return
	}
	d.recorder.RecordTransition(kind, from, to, ResultOf(err))
}

// ResultOf classifies an operation outcome for metrics.
func ResultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrMissingOffer):
		return "missing_offer"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConcurrentModification):
		return "conflict"
	default:
		return "error"
	}
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
