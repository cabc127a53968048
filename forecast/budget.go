/*
budget.go - Labor-budget compliance metrics

PURPOSE:
  Combines aggregated labor cost with sales totals into percentage metrics
  and a status classification against per-location thresholds.

EFFECTIVE SALES:
  The denominator is actual sales when present (> 0), otherwise projected.
  All three percentages (actual-, projected-, and effective-based) are
  exposed, since consumers compare them side by side.

ZERO DENOMINATORS:
  A percent over zero or negative sales is 0, not an error. Required
  revenue is nil when the target percent is not positive. Callers check for
  these states instead of catching exceptions.

CLASSIFICATION (first match wins):
  1. over_budget_max  when effective percent >= MaxPercent
  2. over_target      when over_budget_max OR diff > 2 points
  3. indeterminate    when there is no sales basis at all
  4. under_target     when diff < -5 points
  5. on_target        otherwise

  Under/on-target only classify against a positive sales basis: with no
  sales data, diff degenerates to -target and would misread as under.
*/
package forecast

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUS
// =============================================================================

type BudgetStatus string

const (
	BudgetOverMax       BudgetStatus = "over_budget_max"
	BudgetOverTarget    BudgetStatus = "over_target"
	BudgetUnderTarget   BudgetStatus = "under_target"
	BudgetOnTarget      BudgetStatus = "on_target"
	BudgetIndeterminate BudgetStatus = "indeterminate"
)

var (
	hundred         = decimal.NewFromInt(100)
	overTargetBand  = decimal.NewFromInt(2)
	underTargetBand = decimal.NewFromInt(-5)
)

// =============================================================================
// EVALUATION
// =============================================================================

// BudgetInput is everything the evaluator needs for one period.
type BudgetInput struct {
	LaborCost      decimal.Decimal
	SalesActual    decimal.Decimal
	SalesProjected decimal.Decimal
	Thresholds     BudgetThresholds
}

// BudgetReport carries every metric downstream consumers compare.
type BudgetReport struct {
	EffectiveSales decimal.Decimal
	UsingProjected bool

	// Labor percent over each sales basis. Zero when the basis is <= 0.
	LaborPercentActual    decimal.Decimal
	LaborPercentProjected decimal.Decimal
	LaborPercentEffective decimal.Decimal

	// Diff is the effective percent minus the target, in points.
	Diff decimal.Decimal

	// OverTarget includes every OverBudgetMax state.
	OverBudgetMax bool
	OverTarget    bool

	Status BudgetStatus

	// RequiredRevenue is the sales needed to hit the target percent with
	// this labor cost. Nil when the target percent is not positive.
	RequiredRevenue *decimal.Decimal
}

// EvaluateBudget computes compliance metrics for one period.
func EvaluateBudget(in BudgetInput) BudgetReport {
	effective := in.SalesActual
	usingProjected := false
	if !in.SalesActual.IsPositive() && in.SalesProjected.IsPositive() {
		effective = in.SalesProjected
		usingProjected = true
	}

	report := BudgetReport{
		EffectiveSales:        effective,
		UsingProjected:        usingProjected,
		LaborPercentActual:    LaborPercent(in.LaborCost, in.SalesActual),
		LaborPercentProjected: LaborPercent(in.LaborCost, in.SalesProjected),
		LaborPercentEffective: LaborPercent(in.LaborCost, effective),
	}
	report.Diff = report.LaborPercentEffective.Sub(in.Thresholds.TargetPercent)

	report.OverBudgetMax = report.LaborPercentEffective.GreaterThanOrEqual(in.Thresholds.MaxPercent)
	report.OverTarget = report.OverBudgetMax || report.Diff.GreaterThan(overTargetBand)

	switch {
	case report.OverBudgetMax:
		report.Status = BudgetOverMax
	case report.OverTarget:
		report.Status = BudgetOverTarget
	case !effective.IsPositive():
		report.Status = BudgetIndeterminate
	case report.Diff.LessThan(underTargetBand):
		report.Status = BudgetUnderTarget
	default:
		report.Status = BudgetOnTarget
	}

	if in.Thresholds.TargetPercent.IsPositive() {
		required := in.LaborCost.Mul(hundred).Div(in.Thresholds.TargetPercent)
		report.RequiredRevenue = &required
	}
	return report
}

// LaborPercent returns 100 x cost / sales, or zero when sales is not
// positive. Never divides by zero.
func LaborPercent(laborCost, sales decimal.Decimal) decimal.Decimal {
	if !sales.IsPositive() {
		return decimal.Zero
	}
	return laborCost.Mul(hundred).Div(sales)
}
