/*
wage.go - Effective hourly rate resolution

PURPOSE:
  Resolves the hourly rate that applies to a specific shift. Employees carry
  a base rate plus position-specific overrides with effective dates; the
  applicable override is the most recent one whose effective date is not
  after the shift's date.

DETERMINISM:
  EffectiveRate is pure. It is invoked once per shift during aggregation and
  never caches across calls; callers may memoize if they need to, but the
  contract is the function of (employee, position, date) alone.
*/
package forecast

import (
	"github.com/shopspring/decimal"
)

// EffectiveRate returns the hourly rate for the employee working the given
// position on the given date. Overrides apply most-recent-match: the wage
// entry for that position with the latest effective date <= onDate wins.
// With no matching entry, the base hourly rate applies.
func EffectiveRate(emp Employee, position string, onDate Date) decimal.Decimal {
	rate := emp.BaseHourlyRate
	var best Date
	found := false

	for _, w := range emp.WageHistory {
		if w.Position != position || w.EffectiveDate.After(onDate) {
			continue
		}
		if !found || w.EffectiveDate.After(best) {
			best = w.EffectiveDate
			rate = w.Rate
			found = true
		}
	}
	return rate
}
