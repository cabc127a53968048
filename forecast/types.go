/*
Package forecast is the timeframe and labor-budget forecasting core.

PURPOSE:
  This package turns a period selector plus raw scheduling data into labor
  cost aggregates, budget-compliance metrics, projected-sales autofill, and
  historical trends. It is a computation library: the surrounding system
  owns shift/employee/location CRUD and presentation, and reaches this core
  only through the interfaces in store.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift:            A scheduled block of work (read-only input)
  - Employee:         Partial view carrying wage data
  - SalesEntry:       A dated, typed (actual/projected) sales amount
  - BudgetThresholds: Per-location labor-percent gates

DESIGN PRINCIPLES:
  1. Precision: money, hours, and percentages use decimal.Decimal
  2. Purity: aggregation is side-effect-free over materialized inputs;
     the sales ledger is the only stateful component
  3. Explicit periods: every computation takes a Period value, never an
     ambient "current period"

SEE ALSO:
  - timeframe.go: Preset -> Period derivation and stepping
  - labor.go:     Hours/cost aggregation
  - budget.go:    Threshold classification
*/
package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type LocationID string
type ShiftID string

// =============================================================================
// SHIFT - Scheduled work, owned by the scheduling subsystem
// =============================================================================

// Shift is a scheduled block of work. Invariant (owned by the scheduler,
// assumed here): End is after Start.
type Shift struct {
	ID         ShiftID
	EmployeeID EmployeeID
	Start      time.Time
	End        time.Time
	Position   string
}

// Hours returns the shift length in hours, fractional allowed.
func (s Shift) Hours() decimal.Decimal {
	return decimal.NewFromFloat(s.End.Sub(s.Start).Hours())
}

// Day returns the calendar date the shift starts on. Range containment is
// decided by this date, inclusive of the full end day.
func (s Shift) Day() Date {
	return DateOf(s.Start)
}

// =============================================================================
// EMPLOYEE - Partial view used for wage resolution
// =============================================================================

// WageEntry is a position-specific rate override effective from a date.
type WageEntry struct {
	Position      string
	Rate          decimal.Decimal
	EffectiveDate Date
}

type Employee struct {
	ID                 EmployeeID
	Name               string
	BaseHourlyRate     decimal.Decimal
	OvertimeMultiplier decimal.Decimal // >= 1
	WageHistory        []WageEntry
	LocationIDs        []LocationID
}

// =============================================================================
// SALES - Dated, typed amounts per location
// =============================================================================

type SalesKind string

const (
	SalesActual    SalesKind = "actual"
	SalesProjected SalesKind = "projected"
)

// ValidKind reports whether k is a known sales series.
func ValidKind(k SalesKind) bool {
	return k == SalesActual || k == SalesProjected
}

// SalesEntry is one amount on one date in one series. At most one entry
// exists per (location, date, kind); upserts enforce the uniqueness.
type SalesEntry struct {
	ID         string
	LocationID LocationID
	Date       Date
	Amount     decimal.Decimal // non-negative
	Kind       SalesKind
}

// SalesUpsert is the write shape for ledger upserts; the ledger assigns or
// preserves entry IDs.
type SalesUpsert struct {
	LocationID LocationID
	Date       Date
	Kind       SalesKind
	Amount     decimal.Decimal
}

// =============================================================================
// LOCATION BUDGET CONFIG
// =============================================================================

// BudgetThresholds are the per-location labor-percent gates. A defaulted
// MaxPercent is a normal configured value, not a sentinel: a location whose
// max was defaulted to target+5 classifies identically to one configured
// with that exact value.
type BudgetThresholds struct {
	TargetPercent  decimal.Decimal
	WarningPercent decimal.Decimal
	MaxPercent     decimal.Decimal
}

var defaultMaxMargin = decimal.NewFromInt(5)

// NewBudgetThresholds applies the config defaults: warning falls back to the
// target, max to target+5 percentage points.
func NewBudgetThresholds(target decimal.Decimal, warning, max *decimal.Decimal) BudgetThresholds {
	t := BudgetThresholds{
		TargetPercent:  target,
		WarningPercent: target,
		MaxPercent:     target.Add(defaultMaxMargin),
	}
	if warning != nil {
		t.WarningPercent = *warning
	}
	if max != nil {
		t.MaxPercent = *max
	}
	return t
}

// Location is the partial view this core needs: identity plus thresholds.
type Location struct {
	ID         LocationID
	Name       string
	Thresholds BudgetThresholds
}
