/*
projection.go - Projected-sales autofill

PURPOSE:
  Generates the projected sales series for a period from historical actuals,
  using one of three estimation rules with a defined fallback chain. The
  result is a pre-commit map for user confirmation; committing it through
  SalesLedger.BulkUpsert is the caller's job. Autofill only reads.

RULES:
  historical_average: mean of actual sales on the same weekday across the
      preceding 8 same-length windows; when that weekday has no history,
      (8-window average total) / 7.
  last_week: the actual entry exactly 7 days earlier; absent, the weekday
      average; absent that too, 0.
  last_year: the actual entry exactly 52 weeks (364 days) earlier; same
      fallback chain as last_week.

ADJUSTMENT:
  Each rule carries an explicit AdjustmentPercent instead of an "_adj" name
  suffix. The final amount is multiplied by (1 + adjustment/100) and rounded
  to the nearest whole currency unit.
*/
package forecast

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RULES
// =============================================================================

type AutofillRule string

const (
	RuleHistoricalAverage AutofillRule = "historical_average"
	RuleLastWeek          AutofillRule = "last_week"
	RuleLastYear          AutofillRule = "last_year"
)

// historyWindows is how many trailing same-length windows feed the
// weekday averages.
const historyWindows = 8

const daysPerWeek = 7

// AutofillRequest selects a rule and the period to fill. AdjustmentPercent
// is additive: 10 means +10%, -5 means -5%, zero means no adjustment.
type AutofillRequest struct {
	LocationID        LocationID
	Period            Period
	Rule              AutofillRule
	AdjustmentPercent decimal.Decimal
}

// =============================================================================
// AUTOFILL ENGINE
// =============================================================================

// AutofillEngine computes projected amounts per date. It reads historical
// actuals through the ledger and mutates nothing.
type AutofillEngine struct {
	Ledger *SalesLedger
}

func NewAutofillEngine(ledger *SalesLedger) *AutofillEngine {
	return &AutofillEngine{Ledger: ledger}
}

// Autofill returns one projected amount per date in the request's period,
// rounded to whole currency units.
func (e *AutofillEngine) Autofill(ctx context.Context, req AutofillRequest) (map[Date]decimal.Decimal, error) {
	switch req.Rule {
	case RuleHistoricalAverage, RuleLastWeek, RuleLastYear:
	default:
		return nil, ErrUnknownRule
	}

	hist, err := e.loadHistory(ctx, req.LocationID, req.Period)
	if err != nil {
		return nil, err
	}

	factor := decimal.NewFromInt(1).Add(req.AdjustmentPercent.Div(hundred))
	result := make(map[Date]decimal.Decimal, req.Period.Len())

	for _, day := range req.Period.Days() {
		var amount decimal.Decimal
		switch req.Rule {
		case RuleHistoricalAverage:
			amount = hist.weekdayOrFallback(day.Weekday())
		case RuleLastWeek:
			amount, err = e.lookupOr(ctx, req.LocationID, day.AddDays(-daysPerWeek), hist, day.Weekday())
		case RuleLastYear:
			amount, err = e.lookupOr(ctx, req.LocationID, day.AddDays(-52*daysPerWeek), hist, day.Weekday())
		}
		if err != nil {
			return nil, err
		}
		result[day] = amount.Mul(factor).Round(0)
	}
	return result, nil
}

// lookupOr returns the actual entry on the lookup date, falling back to the
// weekday-average chain when none exists.
func (e *AutofillEngine) lookupOr(ctx context.Context, locationID LocationID, lookup Date, hist salesHistory, weekday time.Weekday) (decimal.Decimal, error) {
	entry, err := e.Ledger.Get(ctx, locationID, lookup, SalesActual)
	if err != nil {
		return decimal.Zero, err
	}
	if entry != nil {
		return entry.Amount, nil
	}
	return hist.weekdayOrFallback(weekday), nil
}

// =============================================================================
// HISTORY WINDOW
// =============================================================================

// salesHistory summarizes actual sales over the trailing history window.
type salesHistory struct {
	weekdaySum   map[time.Weekday]decimal.Decimal
	weekdayCount map[time.Weekday]int
	total        decimal.Decimal
}

// loadHistory reads the 8 same-length windows immediately preceding the
// period and groups actual amounts by weekday.
func (e *AutofillEngine) loadHistory(ctx context.Context, locationID LocationID, period Period) (salesHistory, error) {
	hist := salesHistory{
		weekdaySum:   make(map[time.Weekday]decimal.Decimal),
		weekdayCount: make(map[time.Weekday]int),
		total:        decimal.Zero,
	}

	window := Period{
		Start: period.Start.AddDays(-historyWindows * period.Len()),
		End:   period.Start.AddDays(-1),
	}
	entries, err := e.Ledger.Entries(ctx, locationID, window, SalesActual)
	if err != nil {
		return salesHistory{}, err
	}

	for _, entry := range entries {
		wd := entry.Date.Weekday()
		hist.weekdaySum[wd] = hist.weekdaySum[wd].Add(entry.Amount)
		hist.weekdayCount[wd]++
		hist.total = hist.total.Add(entry.Amount)
	}
	return hist, nil
}

// weekdayOrFallback returns the mean for one weekday; with no history for
// that weekday, the average window total spread over a week; with no
// history at all, zero.
func (h salesHistory) weekdayOrFallback(wd time.Weekday) decimal.Decimal {
	if n := h.weekdayCount[wd]; n > 0 {
		return h.weekdaySum[wd].Div(decimal.NewFromInt(int64(n)))
	}
	if h.total.IsZero() {
		return decimal.Zero
	}
	return h.total.
		Div(decimal.NewFromInt(historyWindows)).
		Div(decimal.NewFromInt(daysPerWeek))
}
