package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidInput covers malformed options, empty datasets, unknown
	// field names, and non-finite values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData is returned when a compared group has fewer
	// than two observations.
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// ErrDegenerateVariance is returned when the standard error of the
	// mean difference is zero, so no meaningful test exists.
	ErrDegenerateVariance = errors.New("degenerate variance")
)

// Error constructors with context
func NewInvalidInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

func NewFieldError(field string, reason string) error {
	return fmt.Errorf("%w: field %q %s", ErrInvalidInput, field, reason)
}

func NewInsufficientDataError(group string, n int) error {
	return fmt.Errorf("%w: group %s has %d observation(s), need at least 2", ErrInsufficientData, group, n)
}

func NewDegenerateVarianceError() error {
	return fmt.Errorf("%w: zero standard error, all values identical", ErrDegenerateVariance)
}

// Error checking helpers
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsDegenerateVariance(err error) bool {
	return errors.Is(err, ErrDegenerateVariance)
}
