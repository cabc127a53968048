/*
ledger.go - Sales ledger over a SalesStore

PURPOSE:
  The SalesLedger maintains the two parallel sales series (actual and
  projected) per location. It validates writes, keeps entry IDs stable
  across upserts, and totals ranges for the budget evaluator.

VALIDATION:
  - Amounts must be >= 0. Negative input is a validation error, never a
    silent clamp; the ledger is left unchanged.
  - Bulk upserts are all-or-nothing: every entry is validated before any
    write, and a BatchError identifies each offending entry by index.

UPSERT SEMANTICS:
  At most one entry per (location, date, kind). Upserting an existing key
  replaces the amount and preserves the entry ID; a new key gets a fresh
  UUID. Entries are never auto-deleted.

SEE ALSO:
  - store.go:      SalesStore interface
  - projection.go: Reads historical actuals through this ledger
*/
package forecast

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// SALES LEDGER
// =============================================================================

type SalesLedger struct {
	Store SalesStore
}

func NewSalesLedger(store SalesStore) *SalesLedger {
	return &SalesLedger{Store: store}
}

// Get returns the entry for (location, date, kind), or nil when absent.
func (l *SalesLedger) Get(ctx context.Context, locationID LocationID, date Date, kind SalesKind) (*SalesEntry, error) {
	return l.Store.Get(ctx, locationID, date, kind)
}

// Entries returns one series over a period, ordered by date.
func (l *SalesLedger) Entries(ctx context.Context, locationID LocationID, period Period, kind SalesKind) ([]SalesEntry, error) {
	return l.Store.LoadRange(ctx, locationID, period.Start, period.End, kind)
}

// RangeTotal sums one series over a period; zero when no entries exist.
func (l *SalesLedger) RangeTotal(ctx context.Context, locationID LocationID, period Period, kind SalesKind) (decimal.Decimal, error) {
	entries, err := l.Entries(ctx, locationID, period, kind)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// Upsert creates or replaces the unique entry for the upsert's key.
func (l *SalesLedger) Upsert(ctx context.Context, up SalesUpsert) (SalesEntry, error) {
	if err := validateUpsert(up); err != nil {
		return SalesEntry{}, err
	}
	entry, err := l.resolve(ctx, up)
	if err != nil {
		return SalesEntry{}, err
	}
	if err := l.Store.Put(ctx, entry); err != nil {
		return SalesEntry{}, err
	}
	return entry, nil
}

// BulkUpsert applies the upserts as one atomic batch. If any entry fails
// validation, none are applied and the returned BatchError identifies every
// offending entry.
func (l *SalesLedger) BulkUpsert(ctx context.Context, ups []SalesUpsert) ([]SalesEntry, error) {
	var invalid []*BatchEntryError
	for i, up := range ups {
		if err := validateUpsert(up); err != nil {
			invalid = append(invalid, &BatchEntryError{Index: i, Err: err})
		}
	}
	if len(invalid) > 0 {
		return nil, &BatchError{Entries: invalid}
	}

	entries := make([]SalesEntry, 0, len(ups))
	for _, up := range ups {
		entry, err := l.resolve(ctx, up)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := l.Store.PutBatch(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// resolve keeps IDs stable: a key already in the store keeps its entry ID.
func (l *SalesLedger) resolve(ctx context.Context, up SalesUpsert) (SalesEntry, error) {
	existing, err := l.Store.Get(ctx, up.LocationID, up.Date, up.Kind)
	if err != nil {
		return SalesEntry{}, err
	}
	id := uuid.NewString()
	if existing != nil {
		id = existing.ID
	}
	return SalesEntry{
		ID:         id,
		LocationID: up.LocationID,
		Date:       up.Date,
		Amount:     up.Amount,
		Kind:       up.Kind,
	}, nil
}

func validateUpsert(up SalesUpsert) error {
	if !ValidKind(up.Kind) {
		return &KindError{Kind: up.Kind}
	}
	if up.Amount.IsNegative() {
		return &AmountError{
			LocationID: up.LocationID,
			Date:       up.Date,
			Kind:       up.Kind,
			Amount:     up.Amount,
		}
	}
	return nil
}
