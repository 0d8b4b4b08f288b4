/*
errors.go - Centralized error types for the income engine

PURPOSE:
  All sentinel and structured errors in one place. Domain validation is
  reported as string lists (validate.go) because those messages go back
  to the conversational layer; these errors cover the store boundary and
  programmer-facing failures.

USAGE:
  if errors.Is(err, income.ErrRecordNotFound) {
      // 404 at the API layer
  }

SEE ALSO:
  - store.go: Uses these errors at the persistence boundary
  - validate.go: User-facing validation messages (not errors)
*/
package income

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRecordNotFound is returned when a referenced income record
	// does not exist in the store.
	ErrRecordNotFound = errors.New("income record not found")

	// ErrUnresolvedAmount is returned when an operation requires a
	// resolved amount and the candidate's resolution order is exhausted.
	// Reconciliation never returns this; it marks the candidate
	// incomplete and continues.
	ErrUnresolvedAmount = errors.New("candidate amount cannot be resolved")

	// ErrUnknownCountry is returned when no bonus catalog exists for a
	// country code.
	ErrUnknownCountry = errors.New("no statutory bonus catalog for country")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// RecordNotFoundError carries the missing record's identifier.
type RecordNotFoundError struct {
	ID RecordID
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("income record not found: %s", e.ID)
}

func (e *RecordNotFoundError) Unwrap() error { return ErrRecordNotFound }
