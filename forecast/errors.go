/*
errors.go - Centralized error types for the forecasting core

PURPOSE:
  All error types in one place. Callers distinguish validation failures
  (bad input, ledger unchanged) from missing data and internal faults via
  errors.Is and the helpers at the bottom.

NOTE ON ZERO DENOMINATORS:
  Division-by-zero states (zero sales, zero target percent) are NOT errors
  in this core. Percent computations return zero and required revenue is
  left nil; see budget.go.
*/
package forecast

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNegativeAmount is returned when a sales upsert carries a negative
	// amount. The ledger is left unchanged; amounts are never clamped.
	ErrNegativeAmount = errors.New("negative sales amount")

	// ErrInvalidKind is returned for a sales kind outside {actual, projected}.
	ErrInvalidKind = errors.New("invalid sales kind")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrUnknownRule is returned for an unrecognized autofill rule.
	ErrUnknownRule = errors.New("unknown autofill rule")

	// ErrLocationNotFound is returned when a referenced location doesn't exist.
	ErrLocationNotFound = errors.New("location not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AmountError reports a single invalid sales amount.
type AmountError struct {
	LocationID LocationID
	Date       Date
	Kind       SalesKind
	Amount     decimal.Decimal
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("invalid amount %s for %s %s on %s",
		e.Amount, e.LocationID, e.Kind, e.Date)
}

func (e *AmountError) Unwrap() error { return ErrNegativeAmount }

// KindError reports an unrecognized sales series.
type KindError struct {
	Kind SalesKind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("invalid sales kind %q", e.Kind)
}

func (e *KindError) Unwrap() error { return ErrInvalidKind }

// BatchEntryError ties a validation failure to its position in a bulk upsert.
type BatchEntryError struct {
	Index int
	Err   error
}

func (e *BatchEntryError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

func (e *BatchEntryError) Unwrap() error { return e.Err }

// BatchError rejects an entire bulk upsert. No entry was applied; Entries
// identifies every offending input.
type BatchError struct {
	Entries []*BatchEntryError
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("bulk upsert rejected: %d invalid entries", len(e.Entries))
}

func (e *BatchError) Unwrap() error {
	if len(e.Entries) > 0 {
		return e.Entries[0].Err
	}
	return nil
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid caller input.
func IsValidation(err error) bool {
	var batch *BatchError
	return errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrUnknownRule) ||
		errors.As(err, &batch)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLocationNotFound)
}
