/*
timeframe.go - Period presets, range derivation, and stepping

PURPOSE:
  Converts a human-meaningful period selector ("this week", "this quarter")
  plus a reference date into a concrete [start, end] date range, and steps
  the reference date forward/backward by exactly one period unit.

KEY RULES:
  daily:       start = end = reference date
  weekly:      ISO week (Monday..Sunday) containing the reference date
  biweekly:    the 14-day window ending on that ISO week's Sunday
  semimonthly: [1st, 15th] when day <= 15, else [16th, end of month]
  monthly:     calendar month
  quarterly:   calendar quarter
  annually:    calendar year
  custom:      caller-supplied start/end; never derived

FALLBACK:
  An unknown preset is NOT fatal: RangeFor degrades to the identity range
  (start = end = reference date) and Step to the identity step. The UI keeps
  working with a one-day window instead of crashing on a stale selector.

STEPPING:
  Step moves the reference date, not the range. Monthly/quarterly/annual
  steps anchor on the period start so that RangeFor(Step(d)) always lands in
  the adjacent period regardless of day-of-month overflow. Semimonthly
  stepping crosses month boundaries: "next" from the first half lands on
  day 16, from the second half on day 1 of the following month.

SEE ALSO:
  - trend.go: Steps backward through N periods for history
  - time.go: Date arithmetic used here
*/
package forecast

import (
	"fmt"
)

// =============================================================================
// PRESET - Named period-length policy
// =============================================================================

type Preset string

const (
	PresetDaily       Preset = "daily"
	PresetWeekly      Preset = "weekly"
	PresetBiweekly    Preset = "biweekly"
	PresetSemimonthly Preset = "semimonthly"
	PresetMonthly     Preset = "monthly"
	PresetQuarterly   Preset = "quarterly"
	PresetAnnually    Preset = "annually"
	PresetCustom      Preset = "custom"
)

// Direction moves a reference date one period backward or forward.
type Direction int

const (
	StepPrev Direction = -1
	StepNext Direction = 1
)

// =============================================================================
// PERIOD - Concrete date range derived from a preset
// =============================================================================

// Period is the time boundary every aggregation runs over. It is a derived
// value: recomputed whenever the preset or reference date changes, and
// passed explicitly into every core function. Only custom periods carry
// user-chosen boundaries.
type Period struct {
	Start Date
	End   Date
}

// NewPeriod builds a caller-supplied (custom) period.
func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// Contains returns true if the date lies within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every date in the period, in order.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Len returns the period length in days (inclusive).
func (p Period) Len() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Previous returns the same-length period immediately before this one.
// Used for custom periods, where there is no preset to step by.
func (p Period) Previous() Period {
	duration := DaysBetween(p.Start, p.End)
	newEnd := p.Start.AddDays(-1)
	return Period{Start: newEnd.AddDays(-duration), End: newEnd}
}

// Next returns the same-length period immediately after this one.
func (p Period) Next() Period {
	duration := DaysBetween(p.Start, p.End)
	newStart := p.End.AddDays(1)
	return Period{Start: newStart, End: newStart.AddDays(duration)}
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// RANGE DERIVATION
// =============================================================================

// RangeFor returns the period of the given preset containing the reference
// date. Custom and unknown presets fall back to the identity range.
func RangeFor(preset Preset, ref Date) Period {
	switch preset {
	case PresetDaily:
		return Period{Start: ref, End: ref}

	case PresetWeekly:
		monday := ref.MondayOfWeek()
		return Period{Start: monday, End: monday.AddDays(6)}

	case PresetBiweekly:
		// 14-day window ending on this ISO week's Sunday.
		monday := ref.MondayOfWeek()
		return Period{Start: monday.AddDays(-7), End: monday.AddDays(6)}

	case PresetSemimonthly:
		if ref.Day() <= 15 {
			return Period{
				Start: NewDate(ref.Year(), ref.Month(), 1),
				End:   NewDate(ref.Year(), ref.Month(), 15),
			}
		}
		return Period{
			Start: NewDate(ref.Year(), ref.Month(), 16),
			End:   EndOfMonth(ref.Year(), ref.Month()),
		}

	case PresetMonthly:
		return Period{
			Start: StartOfMonth(ref.Year(), ref.Month()),
			End:   EndOfMonth(ref.Year(), ref.Month()),
		}

	case PresetQuarterly:
		qStart := StartOfMonth(ref.Year(), QuarterStartMonth(ref.Month()))
		return Period{Start: qStart, End: qStart.AddMonths(3).AddDays(-1)}

	case PresetAnnually:
		return Period{Start: StartOfYear(ref.Year()), End: EndOfYear(ref.Year())}

	default:
		// Custom ranges are caller-supplied; unknown presets degrade the
		// same way rather than failing.
		return Period{Start: ref, End: ref}
	}
}

// Step moves the reference date by one period unit in the given direction.
// Custom and unknown presets are identity steps.
func Step(preset Preset, ref Date, dir Direction) Date {
	n := int(dir)
	switch preset {
	case PresetDaily:
		return ref.AddDays(n)

	case PresetWeekly:
		return ref.AddDays(7 * n)

	case PresetBiweekly:
		return ref.AddDays(14 * n)

	case PresetSemimonthly:
		return stepSemimonthly(ref, dir)

	case PresetMonthly:
		return StartOfMonth(ref.Year(), ref.Month()).AddMonths(n)

	case PresetQuarterly:
		return StartOfMonth(ref.Year(), QuarterStartMonth(ref.Month())).AddMonths(3 * n)

	case PresetAnnually:
		return StartOfYear(ref.Year() + n)

	default:
		return ref
	}
}

// stepSemimonthly mirrors the half-month boundary rule from RangeFor:
// next from the first half lands on day 16 of the same month; from the
// second half on day 1 of the following month. Prev is symmetric.
func stepSemimonthly(ref Date, dir Direction) Date {
	firstHalf := ref.Day() <= 15
	if dir == StepNext {
		if firstHalf {
			return NewDate(ref.Year(), ref.Month(), 16)
		}
		return StartOfMonth(ref.Year(), ref.Month()).AddMonths(1)
	}
	if firstHalf {
		prev := StartOfMonth(ref.Year(), ref.Month()).AddMonths(-1)
		return NewDate(prev.Year(), prev.Month(), 16)
	}
	return StartOfMonth(ref.Year(), ref.Month())
}

// =============================================================================
// LABEL FORMATTING
// =============================================================================

// FormatRange renders a period as a human-readable label. Same-month ranges
// do not repeat the month at the start boundary; cross-year ranges carry the
// year on both sides; the annual preset prints just the year; daily prints a
// single full date.
func FormatRange(preset Preset, p Period) string {
	if preset == PresetAnnually {
		return fmt.Sprintf("%d", p.Start.Year())
	}
	if preset == PresetDaily || p.Start.Equal(p.End) {
		return p.Start.Time.Format("Jan 2, 2006")
	}
	if p.Start.Year() != p.End.Year() {
		return p.Start.Time.Format("Jan 2, 2006") + " - " + p.End.Time.Format("Jan 2, 2006")
	}
	if p.Start.Month() == p.End.Month() {
		return fmt.Sprintf("%s %d-%d, %d",
			p.Start.Time.Format("Jan"), p.Start.Day(), p.End.Day(), p.Start.Year())
	}
	return p.Start.Time.Format("Jan 2") + " - " + p.End.Time.Format("Jan 2, 2006")
}
