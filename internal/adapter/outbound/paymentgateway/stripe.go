package paymentgateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"

	"github.com/collabhub/server/internal/port/outbound"
)

// Gateway call outcomes reported to the recorder.
const (
	ResultConfirmed   = "confirmed"
	ResultUnconfirmed = "unconfirmed"
	ResultMismatch    = "mismatch"
	ResultError       = "error"
	ResultOpen        = "circuit_open"
)

// Recorder observes gateway call outcomes.
type Recorder interface {
	RecordGatewayRequest(result string)
}

// StripeConfig holds Stripe confirmer configuration.
type StripeConfig struct {
	SecretKey        string
	FailureThreshold uint32
	CircuitTimeout   time.Duration
}

// IntentFetcher loads a payment intent by ID.
type IntentFetcher func(ctx context.Context, id string) (*stripe.PaymentIntent, error)

// StripeConfirmer implements outbound.PaymentConfirmerPort by checking that
// the referenced PaymentIntent has succeeded. Calls go through a circuit breaker.
type StripeConfirmer struct {
	fetch    IntentFetcher
	breaker  *gobreaker.CircuitBreaker[*stripe.PaymentIntent]
	recorder Recorder
	logger   *zap.Logger
}

// NewStripeConfirmer creates a confirmer backed by the Stripe API.
func NewStripeConfirmer(cfg *StripeConfig, recorder Recorder, logger *zap.Logger) *StripeConfirmer {
	client := &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.SecretKey}
	fetch := func(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
		params := &stripe.PaymentIntentParams{}
		params.Context = ctx
		return client.Get(id, params)
	}
	return NewStripeConfirmerWithFetcher(cfg, fetch, recorder, logger)
}

// NewStripeConfirmerWithFetcher creates a confirmer around a custom fetcher.
func NewStripeConfirmerWithFetcher(cfg *StripeConfig, fetch IntentFetcher, recorder Recorder, logger *zap.Logger) *StripeConfirmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	timeout := cfg.CircuitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger = logger.Named("stripe")

	settings := gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Client errors such as an unknown intent say nothing about gateway health.
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("payment gateway circuit changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &StripeConfirmer{
		fetch:    fetch,
		breaker:  gobreaker.NewCircuitBreaker[*stripe.PaymentIntent](settings),
		recorder: recorder,
		logger:   logger,
	}
}

// MetadataCollabID is the PaymentIntent metadata key carrying the collaboration tracking code.
const MetadataCollabID = "collab_id"

// Confirm reports whether the PaymentIntent has succeeded for the expected
// collaboration and amount. Unknown or mismatched intents are unconfirmed.
func (s *StripeConfirmer) Confirm(ctx context.Context, check outbound.PaymentCheck) (bool, error) {
	intent, err := s.breaker.Execute(func() (*stripe.PaymentIntent, error) {
		return s.fetch(ctx, check.Reference)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		s.record(ResultOpen)
		return false, fmt.Errorf("%w: %v", outbound.ErrPaymentGatewayUnavailable, err)
	case err != nil && isClientError(err):
		s.logger.Info("payment intent rejected by gateway", zap.String("reference", check.Reference), zap.Error(err))
		s.record(ResultUnconfirmed)
		return false, nil
	case err != nil:
		s.record(ResultError)
		return false, fmt.Errorf("%w: %v", outbound.ErrPaymentGatewayUnavailable, err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		s.record(ResultUnconfirmed)
		return false, nil
	}
	if reason := mismatch(intent, check); reason != "" {
		s.logger.Warn("payment intent does not match collaboration",
			zap.String("reference", check.Reference),
			zap.String("collab_id", check.CollabID),
			zap.String("reason", reason),
		)
		s.record(ResultMismatch)
		return false, nil
	}
	s.record(ResultConfirmed)
	return true, nil
}

// mismatch returns why a succeeded intent cannot pay for the check, or "".
func mismatch(intent *stripe.PaymentIntent, check outbound.PaymentCheck) string {
	switch {
	case intent.Metadata[MetadataCollabID] != check.CollabID:
		return "collab_id"
	case !strings.EqualFold(string(intent.Currency), check.Amount.Currency):
		return "currency"
	case intent.Amount != check.Amount.Minor:
		return "amount"
	}
	return ""
}

// State returns the breaker state.
func (s *StripeConfirmer) State() gobreaker.State {
	return s.breaker.State()
}

func (s *StripeConfirmer) record(result string) {
	if s.recorder != nil {
		s.recorder.RecordGatewayRequest(result)
	}
}

// isClientError reports a 4xx answer from Stripe.
func isClientError(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.HTTPStatusCode >= http.StatusBadRequest && stripeErr.HTTPStatusCode < http.StatusInternalServerError
	}
	return false
}

var _ outbound.PaymentConfirmerPort = (*StripeConfirmer)(nil)
