/*
timeframe_test.go - Range derivation and stepping behavior

ORGANIZATION:
  1. Range containment - every preset's range contains its reference date
  2. Preset-specific boundaries - semimonthly halves, quarters, ISO weeks
  3. Stepping - step is its own inverse at the range level
  4. Fallback - unknown presets degrade to identity, never fail
  5. Labels - human-readable range formatting
*/
package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/labor-engine/forecast"
)

var calendarPresets = []forecast.Preset{
	forecast.PresetDaily,
	forecast.PresetWeekly,
	forecast.PresetBiweekly,
	forecast.PresetSemimonthly,
	forecast.PresetMonthly,
	forecast.PresetQuarterly,
	forecast.PresetAnnually,
}

func TestRangeFor_ContainsReferenceDate(t *testing.T) {
	// GIVEN: a spread of reference dates including month and year edges
	refs := []forecast.Date{
		forecast.NewDate(2026, time.March, 10),
		forecast.NewDate(2026, time.January, 1),
		forecast.NewDate(2025, time.December, 31),
		forecast.NewDate(2026, time.February, 15),
		forecast.NewDate(2026, time.February, 16),
		forecast.NewDate(2024, time.February, 29), // leap day
	}

	// THEN: rangeFor(preset, d).start <= d <= rangeFor(preset, d).end
	for _, preset := range calendarPresets {
		for _, ref := range refs {
			p := forecast.RangeFor(preset, ref)
			assert.True(t, p.Contains(ref),
				"%s range %s should contain %s", preset, p, ref)
		}
	}
}

func TestRangeFor_Weekly_ISOWeekMondayStart(t *testing.T) {
	// GIVEN: Wednesday March 11 2026
	ref := forecast.NewDate(2026, time.March, 11)

	p := forecast.RangeFor(forecast.PresetWeekly, ref)

	assert.Equal(t, forecast.NewDate(2026, time.March, 9), p.Start, "should start on Monday")
	assert.Equal(t, forecast.NewDate(2026, time.March, 15), p.End, "should end on Sunday")
	assert.Equal(t, time.Monday, p.Start.Weekday())
	assert.Equal(t, time.Sunday, p.End.Weekday())
}

func TestRangeFor_Weekly_SundayBelongsToClosingWeek(t *testing.T) {
	// Sunday closes the ISO week; it must not start a new one.
	sunday := forecast.NewDate(2026, time.March, 15)

	p := forecast.RangeFor(forecast.PresetWeekly, sunday)

	assert.Equal(t, forecast.NewDate(2026, time.March, 9), p.Start)
	assert.Equal(t, sunday, p.End)
}

func TestRangeFor_Biweekly_EndsOnCurrentWeekSunday(t *testing.T) {
	// GIVEN: Wednesday March 11 2026 (ISO week Mar 9 - Mar 15)
	ref := forecast.NewDate(2026, time.March, 11)

	p := forecast.RangeFor(forecast.PresetBiweekly, ref)

	// THEN: 14-day window ending on that week's Sunday
	assert.Equal(t, forecast.NewDate(2026, time.March, 2), p.Start)
	assert.Equal(t, forecast.NewDate(2026, time.March, 15), p.End)
	assert.Equal(t, 14, p.Len())
}

func TestRangeFor_Semimonthly_Halves(t *testing.T) {
	// Day 10 of March -> [Mar 1, Mar 15]
	first := forecast.RangeFor(forecast.PresetSemimonthly, forecast.NewDate(2026, time.March, 10))
	assert.Equal(t, forecast.NewDate(2026, time.March, 1), first.Start)
	assert.Equal(t, forecast.NewDate(2026, time.March, 15), first.End)

	// Day 20 of March -> [Mar 16, Mar 31]
	second := forecast.RangeFor(forecast.PresetSemimonthly, forecast.NewDate(2026, time.March, 20))
	assert.Equal(t, forecast.NewDate(2026, time.March, 16), second.Start)
	assert.Equal(t, forecast.NewDate(2026, time.March, 31), second.End)

	// February's second half ends on the 28th (or 29th in leap years)
	feb := forecast.RangeFor(forecast.PresetSemimonthly, forecast.NewDate(2026, time.February, 20))
	assert.Equal(t, forecast.NewDate(2026, time.February, 28), feb.End)
	febLeap := forecast.RangeFor(forecast.PresetSemimonthly, forecast.NewDate(2024, time.February, 20))
	assert.Equal(t, forecast.NewDate(2024, time.February, 29), febLeap.End)
}

func TestRangeFor_Quarterly(t *testing.T) {
	// May 15 -> [Apr 1, Jun 30]
	p := forecast.RangeFor(forecast.PresetQuarterly, forecast.NewDate(2026, time.May, 15))
	assert.Equal(t, forecast.NewDate(2026, time.April, 1), p.Start)
	assert.Equal(t, forecast.NewDate(2026, time.June, 30), p.End)
}

func TestRangeFor_Annually(t *testing.T) {
	p := forecast.RangeFor(forecast.PresetAnnually, forecast.NewDate(2026, time.July, 4))
	assert.Equal(t, forecast.NewDate(2026, time.January, 1), p.Start)
	assert.Equal(t, forecast.NewDate(2026, time.December, 31), p.End)
}

func TestRangeFor_UnknownPreset_IdentityFallback(t *testing.T) {
	// An unknown preset is recovered locally, not fatal.
	ref := forecast.NewDate(2026, time.March, 10)
	p := forecast.RangeFor(forecast.Preset("fortnightly-ish"), ref)
	assert.Equal(t, forecast.Period{Start: ref, End: ref}, p)
	assert.Equal(t, ref, forecast.Step(forecast.Preset("fortnightly-ish"), ref, forecast.StepNext))
}

func TestStep_IsOwnInverse_AtRangeLevel(t *testing.T) {
	// For non-boundary dates: rangeFor(step(step(d, next), prev)) == rangeFor(d)
	ref := forecast.NewDate(2026, time.March, 10)

	for _, preset := range calendarPresets {
		forward := forecast.Step(preset, ref, forecast.StepNext)
		back := forecast.Step(preset, forward, forecast.StepPrev)

		assert.Equal(t, forecast.RangeFor(preset, ref), forecast.RangeFor(preset, back),
			"%s: stepping next then prev should land in the original range", preset)
	}
}

func TestStep_Semimonthly_CrossesMonthBoundaries(t *testing.T) {
	// Next from the first half lands on day 16 of the same month.
	next := forecast.Step(forecast.PresetSemimonthly, forecast.NewDate(2026, time.March, 10), forecast.StepNext)
	assert.Equal(t, forecast.NewDate(2026, time.March, 16), next)

	// Next from the second half lands on day 1 of the following month.
	next = forecast.Step(forecast.PresetSemimonthly, forecast.NewDate(2026, time.March, 20), forecast.StepNext)
	assert.Equal(t, forecast.NewDate(2026, time.April, 1), next)

	// Prev from the first half lands on day 16 of the previous month.
	prev := forecast.Step(forecast.PresetSemimonthly, forecast.NewDate(2026, time.March, 10), forecast.StepPrev)
	assert.Equal(t, forecast.NewDate(2026, time.February, 16), prev)

	// Prev from the second half lands on day 1 of the same month.
	prev = forecast.Step(forecast.PresetSemimonthly, forecast.NewDate(2026, time.March, 20), forecast.StepPrev)
	assert.Equal(t, forecast.NewDate(2026, time.March, 1), prev)

	// Year boundary both ways.
	next = forecast.Step(forecast.PresetSemimonthly, forecast.NewDate(2025, time.December, 20), forecast.StepNext)
	assert.Equal(t, forecast.NewDate(2026, time.January, 1), next)
	prev = forecast.Step(forecast.PresetSemimonthly, forecast.NewDate(2026, time.January, 10), forecast.StepPrev)
	assert.Equal(t, forecast.NewDate(2025, time.December, 16), prev)
}

func TestStep_Monthly_SurvivesShortMonths(t *testing.T) {
	// Jan 31 stepped next must land in February, not skip to March.
	next := forecast.Step(forecast.PresetMonthly, forecast.NewDate(2026, time.January, 31), forecast.StepNext)
	p := forecast.RangeFor(forecast.PresetMonthly, next)
	assert.Equal(t, time.February, p.Start.Month())
}

func TestPeriod_PreviousNext_AreContiguous(t *testing.T) {
	custom := forecast.Period{
		Start: forecast.NewDate(2026, time.March, 5),
		End:   forecast.NewDate(2026, time.March, 14),
	}

	prev := custom.Previous()
	assert.Equal(t, custom.Len(), prev.Len())
	assert.Equal(t, custom.Start.AddDays(-1), prev.End)

	next := custom.Next()
	assert.Equal(t, custom.Len(), next.Len())
	assert.Equal(t, custom.End.AddDays(1), next.Start)
}

func TestNewPeriod_RejectsReversedBounds(t *testing.T) {
	_, err := forecast.NewPeriod(
		forecast.NewDate(2026, time.March, 10),
		forecast.NewDate(2026, time.March, 9),
	)
	assert.ErrorIs(t, err, forecast.ErrInvalidPeriod)
}

func TestFormatRange_Labels(t *testing.T) {
	tests := []struct {
		name   string
		preset forecast.Preset
		period forecast.Period
		want   string
	}{
		{
			name:   "daily prints a single full date",
			preset: forecast.PresetDaily,
			period: forecast.Period{Start: forecast.NewDate(2026, time.March, 10), End: forecast.NewDate(2026, time.March, 10)},
			want:   "Mar 10, 2026",
		},
		{
			name:   "same month does not repeat the month",
			preset: forecast.PresetSemimonthly,
			period: forecast.Period{Start: forecast.NewDate(2026, time.March, 1), End: forecast.NewDate(2026, time.March, 15)},
			want:   "Mar 1-15, 2026",
		},
		{
			name:   "same year prints year once",
			preset: forecast.PresetQuarterly,
			period: forecast.Period{Start: forecast.NewDate(2026, time.April, 1), End: forecast.NewDate(2026, time.June, 30)},
			want:   "Apr 1 - Jun 30, 2026",
		},
		{
			name:   "cross year prints year at both boundaries",
			preset: forecast.PresetWeekly,
			period: forecast.Period{Start: forecast.NewDate(2025, time.December, 29), End: forecast.NewDate(2026, time.January, 4)},
			want:   "Dec 29, 2025 - Jan 4, 2026",
		},
		{
			name:   "annual prints just the year",
			preset: forecast.PresetAnnually,
			period: forecast.Period{Start: forecast.NewDate(2026, time.January, 1), End: forecast.NewDate(2026, time.December, 31)},
			want:   "2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, forecast.FormatRange(tt.preset, tt.period))
		})
	}
}
