package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultCurrency is used when an amount is given without a symbol or code.
const DefaultCurrency = "INR"

// currencySymbols maps display symbols to ISO 4217 codes.
var currencySymbols = map[string]string{
	"₹": "INR",
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
}

// symbolFor returns the display symbol for an ISO 4217 code.
func symbolFor(currency string) string {
	for sym, code := range currencySymbols {
		if code == currency {
			return sym
		}
	}
	return ""
}

// Money represents a monetary value with currency.
// It is an immutable value object; Minor is in the smallest currency unit.
type Money struct {
	Minor    int64
	Currency string
}

// NewMoney creates a new Money value object.
func NewMoney(minor int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Minor: minor, Currency: strings.ToUpper(currency)}
}

// maxMajor is the largest whole amount whose minor value fits in an int64.
const maxMajor = (math.MaxInt64 - 99) / 100

// ParseMoney parses display amounts such as "₹5000", "$12.50", "5,000 INR" or "750".
// Amounts without a symbol or code are in DefaultCurrency.
func ParseMoney(s string) (Money, error) {
	return ParseMoneyIn(s, DefaultCurrency)
}

// ParseMoneyIn is like ParseMoney but amounts without a symbol or code take
// fallback as their currency. An empty fallback leaves the currency unset.
func ParseMoneyIn(s, fallback string) (Money, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Money{}, fmt.Errorf("empty amount")
	}

	currency := ""
	for sym, code := range currencySymbols {
		if strings.HasPrefix(raw, sym) {
			currency = code
			raw = strings.TrimSpace(strings.TrimPrefix(raw, sym))
			break
		}
	}
	if currency == "" {
		if fields := strings.Fields(raw); len(fields) == 2 && len(fields[1]) == 3 {
			currency = fields[1]
			raw = fields[0]
		}
	}
	if currency == "" {
		currency = fallback
	}

	raw = strings.ReplaceAll(raw, ",", "")
	if strings.HasPrefix(raw, "-") {
		return Money{}, fmt.Errorf("negative amount: %q", s)
	}

	whole, frac, hasFrac := strings.Cut(raw, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return Money{}, fmt.Errorf("invalid amount: %q", s)
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (hasFrac && !isDigits(frac)) {
		return Money{}, fmt.Errorf("invalid amount: %q", s)
	}
	if len(frac) > 2 {
		return Money{}, fmt.Errorf("too many decimal places: %q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	major, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || major > maxMajor {
		return Money{}, fmt.Errorf("amount out of range: %q", s)
	}
	minor, _ := strconv.ParseInt(frac, 10, 64)

	return Money{Minor: major*100 + minor, Currency: strings.ToUpper(currency)}, nil
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParseMoney is like ParseMoney but panics on error. Intended for tests and constants.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.Minor == 0
}

// IsPositive returns true if the amount is positive.
func (m Money) IsPositive() bool {
	return m.Minor > 0
}

// Equals checks if two Money values are equal.
func (m Money) Equals(other Money) bool {
	return m.Minor == other.Minor && m.Currency == other.Currency
}

// String renders the amount for display, e.g. "₹5000" or "$12.50".
func (m Money) String() string {
	major := m.Minor / 100
	minor := m.Minor % 100
	if minor < 0 {
		minor = -minor
	}

	num := strconv.FormatInt(major, 10)
	if minor != 0 {
		num = fmt.Sprintf("%s.%02d", num, minor)
	}

	if sym := symbolFor(m.Currency); sym != "" {
		return sym + num
	}
	return num + " " + m.Currency
}

// MarshalJSON encodes the amount as its display string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a display string or a bare number of major units.
// Without a symbol or code the currency stays empty until the caller
// resolves it against the platform currency.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("amount must be a string or number")
		}
		s = n.String()
	}
	parsed, err := ParseMoneyIn(s, "")
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
