package paymentgateway

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
)

var expected = outbound.PaymentCheck{
	Reference: "pi_1",
	CollabID:  "COL-20260101-ABCDE",
	Amount:    model.MustParseMoney("₹5000"),
}

// paidIntent returns a succeeded intent matching expected.
func paidIntent() *stripe.PaymentIntent {
	return &stripe.PaymentIntent{
		ID:       "pi_1",
		Status:   stripe.PaymentIntentStatusSucceeded,
		Amount:   500000,
		Currency: stripe.CurrencyINR,
		Metadata: map[string]string{MetadataCollabID: "COL-20260101-ABCDE"},
	}
}

func withIntent(mod func(*stripe.PaymentIntent)) *stripe.PaymentIntent {
	pi := paidIntent()
	mod(pi)
	return pi
}

type recorder struct {
	results []string
}

func (r *recorder) RecordGatewayRequest(result string) {
	r.results = append(r.results, result)
}

func fetcherWith(intent *stripe.PaymentIntent, err error) (IntentFetcher, *int) {
	calls := 0
	return func(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
		calls++
		return intent, err
	}, &calls
}

func TestStripeConfirmer_Confirm(t *testing.T) {
	tests := []struct {
		name    string
		intent  *stripe.PaymentIntent
		err     error
		want    bool
		wantErr error
		result  string
	}{
		{
			name:   "succeeded",
			intent: paidIntent(),
			want:   true,
			result: ResultConfirmed,
		},
		{
			name:   "still processing",
			intent: withIntent(func(pi *stripe.PaymentIntent) { pi.Status = stripe.PaymentIntentStatusProcessing }),
			result: ResultUnconfirmed,
		},
		{
			name:   "intent of another collaboration",
			intent: withIntent(func(pi *stripe.PaymentIntent) { pi.Metadata[MetadataCollabID] = "COL-20260101-ZZZZZ" }),
			result: ResultMismatch,
		},
		{
			name:   "intent without metadata",
			intent: withIntent(func(pi *stripe.PaymentIntent) { pi.Metadata = nil }),
			result: ResultMismatch,
		},
		{
			name:   "smaller amount",
			intent: withIntent(func(pi *stripe.PaymentIntent) { pi.Amount = 100 }),
			result: ResultMismatch,
		},
		{
			name:   "other currency",
			intent: withIntent(func(pi *stripe.PaymentIntent) { pi.Currency = stripe.CurrencyUSD }),
			result: ResultMismatch,
		},
		{
			name:   "unknown intent",
			err:    &stripe.Error{HTTPStatusCode: http.StatusNotFound, Code: stripe.ErrorCodeResourceMissing},
			result: ResultUnconfirmed,
		},
		{
			name:    "gateway down",
			err:     errors.New("connection reset"),
			wantErr: outbound.ErrPaymentGatewayUnavailable,
			result:  ResultError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			fetch, _ := fetcherWith(tt.intent, tt.err)
			c := NewStripeConfirmerWithFetcher(&StripeConfig{}, fetch, rec, zap.NewNop())

			got, err := c.Confirm(context.Background(), expected)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{tt.result}, rec.results)
		})
	}
}

func TestStripeConfirmer_CircuitOpens(t *testing.T) {
	rec := &recorder{}
	fetch, calls := fetcherWith(nil, errors.New("timeout"))
	c := NewStripeConfirmerWithFetcher(&StripeConfig{FailureThreshold: 2, CircuitTimeout: time.Minute}, fetch, rec, nil)

	for i := 0; i < 2; i++ {
		_, err := c.Confirm(context.Background(), expected)
		assert.ErrorIs(t, err, outbound.ErrPaymentGatewayUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	_, err := c.Confirm(context.Background(), expected)
	assert.ErrorIs(t, err, outbound.ErrPaymentGatewayUnavailable)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, []string{ResultError, ResultError, ResultOpen}, rec.results)
}

func TestStripeConfirmer_ClientErrorsKeepCircuitClosed(t *testing.T) {
	fetch, _ := fetcherWith(nil, &stripe.Error{HTTPStatusCode: http.StatusBadRequest})
	c := NewStripeConfirmerWithFetcher(&StripeConfig{FailureThreshold: 1}, fetch, nil, nil)

	for i := 0; i < 3; i++ {
		ok, err := c.Confirm(context.Background(), outbound.PaymentCheck{Reference: "bogus"})
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, gobreaker.StateClosed, c.State())
}
