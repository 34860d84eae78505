package outbound

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/collabhub/server/internal/model"
)

var (
	// ErrVersionConflict is returned by stores when the expected version no longer matches.
	ErrVersionConflict = errors.New("version conflict")

	// ErrPaymentGatewayUnavailable is returned when the gateway cannot be asked right now.
	ErrPaymentGatewayUnavailable = errors.New("payment gateway unavailable")
)

// CollaborationDatabasePort defines collaboration persistence operations.
type CollaborationDatabasePort interface {
	// Create inserts a new record. The store assigns the ID when it is nil.
	Create(ctx context.Context, collab *model.Collaboration) error

	// FindByID returns the record or nil when it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Collaboration, error)

	// FindByParticipant lists records where the user is requester or fulfiller.
	FindByParticipant(ctx context.Context, userID uuid.UUID, filter *model.CollaborationFilter) ([]*model.Collaboration, error)

	// Update writes only the named columns of collab, plus version and updated_at,
	// when the stored version equals expectedVersion. It returns ErrVersionConflict
	// when the record changed underneath the caller and leaves it untouched.
	Update(ctx context.Context, collab *model.Collaboration, expectedVersion int64, columns ...string) error
}

// NotificationEvent names a collaboration transition worth telling people about.
type NotificationEvent string

const (
	NotifyRequestCreated   NotificationEvent = "request_created"
	NotifyOfferMade        NotificationEvent = "offer_made"
	NotifyOfferAccepted    NotificationEvent = "offer_accepted"
	NotifyRejected         NotificationEvent = "rejected"
	NotifyPaymentConfirmed NotificationEvent = "payment_confirmed"
	NotifyWorkStarted      NotificationEvent = "work_started"
	NotifyWorkSubmitted    NotificationEvent = "work_submitted"
	NotifyCompleted        NotificationEvent = "completed"
	NotifyPayoutRequested  NotificationEvent = "payout_requested"
	NotifyPayoutCompleted  NotificationEvent = "payout_completed"
	NotifyDisputeRaised    NotificationEvent = "dispute_raised"
	NotifyDisputeReviewed  NotificationEvent = "dispute_reviewed"
	NotifyDisputeDecided   NotificationEvent = "dispute_decided"
	NotifyDisputeResolved  NotificationEvent = "dispute_resolved"
)

// NotifierPort dispatches fire-and-forget notifications after a successful transition.
// Delivery guarantees belong to the implementation.
type NotifierPort interface {
	Notify(ctx context.Context, event NotificationEvent, collab *model.Collaboration)
}

// PaymentCheck is the payment a collaboration expects: the gateway reference
// presented by the payer plus the tracking code and agreed amount it must match.
type PaymentCheck struct {
	Reference string
	CollabID  string
	Amount    model.Money
}

// PaymentConfirmerPort asks the payment gateway whether a payment settled
// for the expected collaboration and amount.
type PaymentConfirmerPort interface {
	Confirm(ctx context.Context, check PaymentCheck) (bool, error)
}

// Usage metrics tracked per account.
const (
	UsageRequests  = "requests"
	UsageCompleted = "completed"
)

// UsageCounterPort increments per-account usage counters.
type UsageCounterPort interface {
	Increment(ctx context.Context, accountID uuid.UUID, metric string) (int64, error)
	Get(ctx context.Context, accountID uuid.UUID, metric string) (int64, error)
}
