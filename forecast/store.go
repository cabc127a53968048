/*
store.go - Persistence interfaces for the forecasting core

PURPOSE:
  Defines the boundary between the computation core and storage. The core
  owns exactly one stateful collection (sales entries); shifts, employees,
  and locations are read-only views onto collaborator-owned records.

UNIQUENESS CONTRACT:
  At most one sales entry exists per (location, date, kind). Put replaces
  the matching entry or creates one; PutBatch applies a batch atomically,
  never partially. Concurrent writers to the same key must not interleave
  partial updates; last-writer-wins is acceptable.

IMPLEMENTATIONS:
  - store/sqlite:        production persistence
  - forecast/store:      in-memory, for tests and dev
*/
package forecast

import "context"

// =============================================================================
// SALES STORE - The only stateful collection in the core
// =============================================================================

// SalesStore persists sales entries keyed by (location, date, kind).
type SalesStore interface {
	// Get returns the unique entry for the key, or nil when absent.
	Get(ctx context.Context, locationID LocationID, date Date, kind SalesKind) (*SalesEntry, error)

	// LoadRange returns entries of one kind with date in [from, to],
	// ordered by date.
	LoadRange(ctx context.Context, locationID LocationID, from, to Date, kind SalesKind) ([]SalesEntry, error)

	// Put creates or replaces the entry for (LocationID, Date, Kind).
	Put(ctx context.Context, entry SalesEntry) error

	// PutBatch applies all entries atomically. Either every entry lands
	// or none do.
	PutBatch(ctx context.Context, entries []SalesEntry) error
}

// =============================================================================
// DIRECTORY - Read-only views onto collaborator-owned records
// =============================================================================

// Directory exposes the scheduling subsystem's records to the core.
// Implementations materialize snapshots; aggregation never writes here.
type Directory interface {
	// Location returns a location with its budget thresholds, or
	// ErrLocationNotFound.
	Location(ctx context.Context, id LocationID) (*Location, error)

	// Employees returns the employees assigned to a location, wage
	// history included.
	Employees(ctx context.Context, locationID LocationID) ([]Employee, error)

	// Shifts returns shifts at a location whose start date lies in
	// [from, to].
	Shifts(ctx context.Context, locationID LocationID, from, to Date) ([]Shift, error)
}
