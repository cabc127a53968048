/*
labor.go - Scheduled labor aggregation

PURPOSE:
  Sums scheduled hours and cost over a period for a set of employees,
  grouped by employee. This is the labor half of every budget metric.

CONTRACT:
  - A shift counts when its START date falls inside the period (inclusive
    of the full end day) and its employee is in the supplied set.
  - Cost = hours x EffectiveRate(employee, position, shift start date).
  - Employees with no matching shifts do not appear in PerEmployee.
  - PerEmployee order is first-seen shift order; presentation sorting
    (top-N by cost, etc.) belongs to the caller.
  - Shifts referencing an unknown employee are orphaned data and are
    skipped, not errors.
*/
package forecast

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// LABOR SUMMARY
// =============================================================================

// EmployeeLabor is one employee's share of a labor summary.
type EmployeeLabor struct {
	EmployeeID EmployeeID
	Hours      decimal.Decimal
	Cost       decimal.Decimal
}

// LaborSummary is the aggregate of scheduled labor over a period.
type LaborSummary struct {
	Period     Period
	TotalHours decimal.Decimal
	TotalCost  decimal.Decimal
	ShiftCount int

	// PerEmployee holds only employees with at least one matching shift,
	// in the order their first shift was seen.
	PerEmployee []EmployeeLabor
}

// Employee looks up one employee's row in the summary.
func (ls LaborSummary) Employee(id EmployeeID) (EmployeeLabor, bool) {
	for _, el := range ls.PerEmployee {
		if el.EmployeeID == id {
			return el, true
		}
	}
	return EmployeeLabor{}, false
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate sums scheduled hours and cost for the shifts whose start date
// lies in the period and whose employee is present in employees.
func Aggregate(shifts []Shift, employees []Employee, period Period) LaborSummary {
	byID := make(map[EmployeeID]*Employee, len(employees))
	for i := range employees {
		byID[employees[i].ID] = &employees[i]
	}

	summary := LaborSummary{
		Period:     period,
		TotalHours: decimal.Zero,
		TotalCost:  decimal.Zero,
	}
	rowIndex := make(map[EmployeeID]int)

	for _, shift := range shifts {
		if !period.Contains(shift.Day()) {
			continue
		}
		emp, ok := byID[shift.EmployeeID]
		if !ok {
			// Orphaned shift: employee not in the supplied set.
			continue
		}

		hours := shift.Hours()
		cost := hours.Mul(EffectiveRate(*emp, shift.Position, shift.Day()))

		summary.TotalHours = summary.TotalHours.Add(hours)
		summary.TotalCost = summary.TotalCost.Add(cost)
		summary.ShiftCount++

		i, seen := rowIndex[shift.EmployeeID]
		if !seen {
			rowIndex[shift.EmployeeID] = len(summary.PerEmployee)
			summary.PerEmployee = append(summary.PerEmployee, EmployeeLabor{
				EmployeeID: shift.EmployeeID,
				Hours:      hours,
				Cost:       cost,
			})
			continue
		}
		summary.PerEmployee[i].Hours = summary.PerEmployee[i].Hours.Add(hours)
		summary.PerEmployee[i].Cost = summary.PerEmployee[i].Cost.Add(cost)
	}

	return summary
}
