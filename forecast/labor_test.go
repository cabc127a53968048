package forecast_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/labor-engine/forecast"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func shiftOn(id string, emp string, year int, month time.Month, day, fromHour, toHour int, position string) forecast.Shift {
	return forecast.Shift{
		ID:         forecast.ShiftID(id),
		EmployeeID: forecast.EmployeeID(emp),
		Start:      time.Date(year, month, day, fromHour, 0, 0, 0, time.UTC),
		End:        time.Date(year, month, day, toHour, 0, 0, 0, time.UTC),
		Position:   position,
	}
}

func baseEmployee(id string, rate float64) forecast.Employee {
	return forecast.Employee{
		ID:                 forecast.EmployeeID(id),
		BaseHourlyRate:     money(rate),
		OvertimeMultiplier: decimal.NewFromInt(1),
	}
}

func marchWeek() forecast.Period {
	return forecast.Period{
		Start: forecast.NewDate(2026, time.March, 9),
		End:   forecast.NewDate(2026, time.March, 15),
	}
}

// =============================================================================
// WAGE RESOLUTION
// =============================================================================

func TestEffectiveRate_MostRecentMatchWins(t *testing.T) {
	// GIVEN: base rate $15, position wage $18 effective 2024-01-01,
	// then $19 effective 2024-06-01
	emp := baseEmployee("emp-1", 15)
	emp.WageHistory = []forecast.WageEntry{
		{Position: "cook", Rate: money(18), EffectiveDate: forecast.NewDate(2024, time.January, 1)},
		{Position: "cook", Rate: money(19), EffectiveDate: forecast.NewDate(2024, time.June, 1)},
	}

	// Before the first effective date: base rate applies
	rate := forecast.EffectiveRate(emp, "cook", forecast.NewDate(2023, time.December, 31))
	assert.True(t, rate.Equal(money(15)), "got %s", rate)

	// Between the two entries: the first applies
	rate = forecast.EffectiveRate(emp, "cook", forecast.NewDate(2024, time.February, 1))
	assert.True(t, rate.Equal(money(18)), "got %s", rate)

	// After the second: the most recent applies
	rate = forecast.EffectiveRate(emp, "cook", forecast.NewDate(2024, time.July, 1))
	assert.True(t, rate.Equal(money(19)), "got %s", rate)

	// The entry's effective date itself counts (<=, not <)
	rate = forecast.EffectiveRate(emp, "cook", forecast.NewDate(2024, time.June, 1))
	assert.True(t, rate.Equal(money(19)), "got %s", rate)
}

func TestEffectiveRate_OtherPositionFallsBackToBase(t *testing.T) {
	emp := baseEmployee("emp-1", 15)
	emp.WageHistory = []forecast.WageEntry{
		{Position: "cook", Rate: money(18), EffectiveDate: forecast.NewDate(2024, time.January, 1)},
	}

	rate := forecast.EffectiveRate(emp, "server", forecast.NewDate(2024, time.July, 1))
	assert.True(t, rate.Equal(money(15)), "got %s", rate)
}

// =============================================================================
// LABOR AGGREGATION
// =============================================================================

func TestAggregate_SingleShift(t *testing.T) {
	// GIVEN: one 9:00-17:00 shift at an effective rate of $20/h
	shifts := []forecast.Shift{shiftOn("s1", "emp-1", 2026, time.March, 10, 9, 17, "cook")}
	employees := []forecast.Employee{baseEmployee("emp-1", 20)}

	summary := forecast.Aggregate(shifts, employees, marchWeek())

	// THEN: 8 hours, $160
	assert.True(t, summary.TotalHours.Equal(money(8)), "hours %s", summary.TotalHours)
	assert.True(t, summary.TotalCost.Equal(money(160)), "cost %s", summary.TotalCost)
	assert.Equal(t, 1, summary.ShiftCount)
}

func TestAggregate_GroupsByEmployeeInFirstSeenOrder(t *testing.T) {
	shifts := []forecast.Shift{
		shiftOn("s1", "emp-b", 2026, time.March, 10, 9, 17, "cook"),
		shiftOn("s2", "emp-a", 2026, time.March, 11, 9, 13, "cook"),
		shiftOn("s3", "emp-b", 2026, time.March, 12, 10, 14, "cook"),
	}
	employees := []forecast.Employee{
		baseEmployee("emp-a", 10),
		baseEmployee("emp-b", 20),
	}

	summary := forecast.Aggregate(shifts, employees, marchWeek())

	require.Len(t, summary.PerEmployee, 2)
	assert.Equal(t, forecast.EmployeeID("emp-b"), summary.PerEmployee[0].EmployeeID,
		"first-seen employee leads")
	assert.Equal(t, forecast.EmployeeID("emp-a"), summary.PerEmployee[1].EmployeeID)

	b, ok := summary.Employee("emp-b")
	require.True(t, ok)
	assert.True(t, b.Hours.Equal(money(12)), "emp-b hours %s", b.Hours)
	assert.True(t, b.Cost.Equal(money(240)), "emp-b cost %s", b.Cost)

	assert.Equal(t, 3, summary.ShiftCount)
	assert.True(t, summary.TotalCost.Equal(money(280)), "total %s", summary.TotalCost)
}

func TestAggregate_RangeContainmentByStartDate(t *testing.T) {
	// Shifts on the period's first and last day count; the day after does not.
	period := marchWeek()
	shifts := []forecast.Shift{
		shiftOn("s1", "emp-1", 2026, time.March, 9, 9, 17, "cook"),  // start boundary
		shiftOn("s2", "emp-1", 2026, time.March, 15, 9, 17, "cook"), // end boundary, inclusive
		shiftOn("s3", "emp-1", 2026, time.March, 16, 9, 17, "cook"), // outside
	}
	employees := []forecast.Employee{baseEmployee("emp-1", 10)}

	summary := forecast.Aggregate(shifts, employees, period)

	assert.Equal(t, 2, summary.ShiftCount)
	assert.True(t, summary.TotalHours.Equal(money(16)), "hours %s", summary.TotalHours)
}

func TestAggregate_OrphanedShiftSkipped(t *testing.T) {
	// A shift referencing an unknown employee is dropped, not an error.
	shifts := []forecast.Shift{
		shiftOn("s1", "emp-ghost", 2026, time.March, 10, 9, 17, "cook"),
		shiftOn("s2", "emp-1", 2026, time.March, 10, 9, 13, "cook"),
	}
	employees := []forecast.Employee{baseEmployee("emp-1", 10)}

	summary := forecast.Aggregate(shifts, employees, marchWeek())

	assert.Equal(t, 1, summary.ShiftCount)
	_, ok := summary.Employee("emp-ghost")
	assert.False(t, ok, "orphaned employee must not appear")
}

func TestAggregate_NoMatchingShifts_EmptyPerEmployee(t *testing.T) {
	employees := []forecast.Employee{baseEmployee("emp-1", 10)}

	summary := forecast.Aggregate(nil, employees, marchWeek())

	assert.Empty(t, summary.PerEmployee, "zero-shift employees are absent, not zero entries")
	assert.True(t, summary.TotalCost.IsZero())
}

func TestAggregate_UsesWageEffectiveOnShiftDate(t *testing.T) {
	// Same position, rate changes mid-week: each shift resolves on its own date.
	emp := baseEmployee("emp-1", 15)
	emp.WageHistory = []forecast.WageEntry{
		{Position: "cook", Rate: money(18), EffectiveDate: forecast.NewDate(2026, time.March, 12)},
	}
	shifts := []forecast.Shift{
		shiftOn("s1", "emp-1", 2026, time.March, 10, 9, 17, "cook"), // 8h x $15
		shiftOn("s2", "emp-1", 2026, time.March, 13, 9, 17, "cook"), // 8h x $18
	}

	summary := forecast.Aggregate(shifts, []forecast.Employee{emp}, marchWeek())

	assert.True(t, summary.TotalCost.Equal(money(264)), "cost %s", summary.TotalCost)
}

func TestShift_FractionalHours(t *testing.T) {
	shift := forecast.Shift{
		Start: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 10, 13, 30, 0, 0, time.UTC),
	}
	assert.True(t, shift.Hours().Equal(money(4.5)), "hours %s", shift.Hours())
}
