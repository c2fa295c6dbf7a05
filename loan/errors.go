/*
errors.go - Error types for schedule generation

ERROR CATEGORIES:
  1. Validation errors - Missing or out-of-range loan parameters
  2. Method errors - Unknown repayment method
  3. Store errors - Saved schedule lookups

All validation errors are returned before any computation starts, so a
caller never receives a partial schedule.

USAGE:
  if errors.Is(err, loan.ErrMissingParameters) {
      // ask the user for capital, interest and periods
  }

  var verr *loan.ValidationError
  if errors.As(err, &verr) {
      fmt.Println(verr.Field)
  }
*/
package loan

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingParameters is returned when capital, interest or periods
	// was never set on a Generator.
	ErrMissingParameters = errors.New("Missing parameters")

	// ErrZeroPeriods is returned when the period count is explicitly zero.
	ErrZeroPeriods = errors.New("Periods can't be 0")

	// ErrInvalidParameter is returned when a parameter is set but out of range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownMethod is returned when a repayment method name is not supported.
	ErrUnknownMethod = errors.New("unknown repayment method")

	// ErrScheduleNotFound is returned when a saved schedule doesn't exist.
	ErrScheduleNotFound = errors.New("schedule not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError is the single error kind raised by parameter checks.
type ValidationError struct {
	Field   string // "capital", "interest", "periods", "precision", "scale" or "" for several
	Message string
	Err     error // ErrMissingParameters, ErrZeroPeriods or ErrInvalidParameter
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: ErrInvalidParameter}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if err is a parameter validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return IsValidation(err) || errors.Is(err, ErrUnknownMethod)
}

// IsNotFound returns true if the error indicates a missing saved schedule.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScheduleNotFound)
}
