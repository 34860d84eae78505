package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in       string
		minor    int64
		currency string
	}{
		{"₹5000", 500000, "INR"},
		{"$12.50", 1250, "USD"},
		{"€0.5", 50, "EUR"},
		{"5,000 INR", 500000, "INR"},
		{"750", 75000, "INR"},
		{"  £3  ", 300, "GBP"},
		{"10 usd", 1000, "USD"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMoney(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.minor, m.Minor)
			assert.Equal(t, tt.currency, m.Currency)
		})
	}
}

func TestParseMoney_Invalid(t *testing.T) {
	for _, in := range []string{
		"", "   ", "-5", "₹-5", "abc", "1.234", "₹", "1.2.3", "5.",
		"5.-1", "5.+9", "+5", "₹ 1e3", "0x10", "5.a",
		"₹200000000000000000", "92233720368547758.08", "99999999999999999999",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseMoney(in)
			assert.Error(t, err)
		})
	}
}

func TestParseMoney_Bounds(t *testing.T) {
	m, err := ParseMoney("92233720368547757.99")
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775799), m.Minor)
	assert.True(t, m.IsPositive())
}

func TestParseMoneyIn(t *testing.T) {
	m, err := ParseMoneyIn("750", "usd")
	require.NoError(t, err)
	assert.Equal(t, NewMoney(75000, "USD"), m)

	m, err = ParseMoneyIn("₹750", "USD")
	require.NoError(t, err)
	assert.Equal(t, "INR", m.Currency)

	m, err = ParseMoneyIn("750", "")
	require.NoError(t, err)
	assert.Empty(t, m.Currency)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "₹5000", NewMoney(500000, "INR").String())
	assert.Equal(t, "$12.50", NewMoney(1250, "usd").String())
	assert.Equal(t, "100.05 JPY", NewMoney(10005, "JPY").String())
}

func TestMoney_Predicates(t *testing.T) {
	a := NewMoney(1000, "inr")
	assert.True(t, a.Equals(NewMoney(1000, "INR")))
	assert.False(t, a.Equals(NewMoney(1000, "USD")))
	assert.True(t, a.IsPositive())
	assert.True(t, NewMoney(0, "").IsZero())
	assert.False(t, NewMoney(0, "").IsPositive())
}

func TestMoney_JSON(t *testing.T) {
	var req CounterOfferRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"₹5,000"}`), &req))
	assert.Equal(t, int64(500000), req.Amount.Minor)

	require.NoError(t, json.Unmarshal([]byte(`{"amount":1200}`), &req))
	assert.Equal(t, int64(120000), req.Amount.Minor)
	assert.Empty(t, req.Amount.Currency)

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"12.5 usd"}`), &req))
	assert.Equal(t, NewMoney(1250, "USD"), req.Amount)

	assert.Error(t, json.Unmarshal([]byte(`{"amount":true}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"-1"}`), &req))

	out, err := json.Marshal(NewMoney(1250, "USD"))
	require.NoError(t, err)
	assert.JSONEq(t, `"$12.50"`, string(out))
}

func TestPaymentStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, PaymentStatusNone.CanAdvanceTo(PaymentStatusPaid))
	assert.True(t, PaymentStatusPaid.CanAdvanceTo(PaymentStatusRefunded))
	assert.True(t, PaymentStatusPayoutRequested.CanAdvanceTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusPayoutComplete.CanAdvanceTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusRefunded.CanAdvanceTo(PaymentStatusPaid))
	assert.False(t, PaymentStatusNone.CanAdvanceTo(PaymentStatusPayoutComplete))
}
