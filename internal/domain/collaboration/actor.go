package collaboration

import (
	"strings"

	"github.com/google/uuid"

	"github.com/collabhub/server/internal/model"
)

// PlatformSettings carries the platform configuration a transition may need.
type PlatformSettings struct {
	CommissionBps int64
	GSTBps        int64
	ProcessingBps int64
	Currency      string
}

// PlatformCurrency returns the configured currency code, DefaultCurrency when unset.
func (s PlatformSettings) PlatformCurrency() string {
	if s.Currency == "" {
		return model.DefaultCurrency
	}
	return strings.ToUpper(s.Currency)
}

// resolveAmount fills an unspecified currency with the platform currency and
// rejects amounts in any other currency.
func (s PlatformSettings) resolveAmount(m model.Money) (model.Money, error) {
	cur := s.PlatformCurrency()
	if m.Currency == "" {
		m.Currency = cur
	}
	if m.Currency != cur {
		return model.Money{}, validationError("amount must be in %s, got %s", cur, m.Currency)
	}
	return m, nil
}

// Actor is the request-scoped caller passed into every operation.
type Actor struct {
	UserID   uuid.UUID
	Role     model.Role
	Name     string
	Avatar   string
	Staff    bool
	Settings PlatformSettings
}

// side identifies which counterparty slot an actor occupies on a record.
type side int

const (
	sideNone side = iota
	sideRequester
	sideFulfiller
)

// sideOf matches the actor against the record by id and role.
func sideOf(c *model.Collaboration, a Actor) side {
	switch {
	case a.UserID == c.Requester.ID && a.Role == c.Requester.Role:
		return sideRequester
	case a.UserID == c.Fulfiller.ID && a.Role == c.Fulfiller.Role:
		return sideFulfiller
	}
	return sideNone
}

// roleOf returns the record role played by the given side.
func roleOf(c *model.Collaboration, s side) model.Role {
	switch s {
	case sideRequester:
		return c.Requester.Role
	case sideFulfiller:
		return c.Fulfiller.Role
	}
	return ""
}

func (a Actor) validate() error {
	if a.UserID == uuid.Nil {
		return unauthorized("caller identity is required")
	}
	return nil
}
