package collaboration

import (
	"errors"
	"fmt"
)

// Domain errors for collaboration lifecycle.
var (
	// ErrInvalidTransition is returned when an event is illegal for the current status.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnauthorized is returned when the caller is neither a counterparty nor staff.
	ErrUnauthorized = errors.New("caller is not allowed to act on this collaboration")

	// ErrMissingOffer is returned when accepting while no offer is open.
	ErrMissingOffer = errors.New("no offer to accept")

	// ErrValidation is returned when a required field is absent or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when the collaboration does not exist.
	ErrNotFound = errors.New("collaboration not found")

	// ErrConcurrentModification is returned when another write landed first.
	ErrConcurrentModification = errors.New("collaboration was modified concurrently")

	// ErrPaymentNotConfirmed is returned when the payment signal is negative.
	ErrPaymentNotConfirmed = fmt.Errorf("%w: payment not confirmed", ErrValidation)
)

func invalidTransition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func unauthorized(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, fmt.Sprintf(format, args...))
}
