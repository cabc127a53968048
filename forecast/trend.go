/*
trend.go - N-period historical trend with forecast accuracy

PURPOSE:
  Repeats the range + aggregation + evaluation pipeline over the periods
  strictly preceding the current one and scores how well the projected
  series predicted the actuals.

ACCURACY:
  accuracy = round(100 x actual / projected), defined only when both totals
  are positive. Absence of a comparable forecast is nil, never 0%: a period
  with actual sales but no projection is not a 0%-accurate forecast.
*/
package forecast

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TREND POINTS
// =============================================================================

// TrendPoint summarizes one historical period.
type TrendPoint struct {
	Period         Period
	PeriodStart    Date
	ActualTotal    decimal.Decimal
	ProjectedTotal decimal.Decimal
	LaborCost      decimal.Decimal

	// LaborPercent uses the effective sales basis, matching the evaluator.
	LaborPercent decimal.Decimal

	// Accuracy is nil when either total is not positive.
	Accuracy *decimal.Decimal
}

// TrendInput names the current period and the materialized inputs the
// per-period aggregation needs.
type TrendInput struct {
	LocationID  LocationID
	Preset      Preset
	Current     Period
	PeriodsBack int
	Shifts      []Shift
	Employees   []Employee
	Thresholds  BudgetThresholds
}

// =============================================================================
// TREND ANALYZER
// =============================================================================

type TrendAnalyzer struct {
	Ledger *SalesLedger
}

func NewTrendAnalyzer(ledger *SalesLedger) *TrendAnalyzer {
	return &TrendAnalyzer{Ledger: ledger}
}

// History returns PeriodsBack consecutive periods strictly preceding the
// current one, most recent first. Custom (and unknown) presets step by the
// current period's length, since there is no calendar unit to step by.
func (t *TrendAnalyzer) History(ctx context.Context, in TrendInput) ([]TrendPoint, error) {
	points := make([]TrendPoint, 0, in.PeriodsBack)

	ref := in.Current.Start
	period := in.Current
	for i := 0; i < in.PeriodsBack; i++ {
		if stepped := Step(in.Preset, ref, StepPrev); !stepped.Equal(ref) {
			ref = stepped
			period = RangeFor(in.Preset, ref)
		} else {
			period = period.Previous()
		}

		point, err := t.analyze(ctx, in, period)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

func (t *TrendAnalyzer) analyze(ctx context.Context, in TrendInput, period Period) (TrendPoint, error) {
	actual, err := t.Ledger.RangeTotal(ctx, in.LocationID, period, SalesActual)
	if err != nil {
		return TrendPoint{}, err
	}
	projected, err := t.Ledger.RangeTotal(ctx, in.LocationID, period, SalesProjected)
	if err != nil {
		return TrendPoint{}, err
	}

	labor := Aggregate(in.Shifts, in.Employees, period)
	report := EvaluateBudget(BudgetInput{
		LaborCost:      labor.TotalCost,
		SalesActual:    actual,
		SalesProjected: projected,
		Thresholds:     in.Thresholds,
	})

	point := TrendPoint{
		Period:         period,
		PeriodStart:    period.Start,
		ActualTotal:    actual,
		ProjectedTotal: projected,
		LaborCost:      labor.TotalCost,
		LaborPercent:   report.LaborPercentEffective,
	}
	if actual.IsPositive() && projected.IsPositive() {
		accuracy := actual.Mul(hundred).Div(projected).Round(0)
		point.Accuracy = &accuracy
	}
	return point, nil
}
