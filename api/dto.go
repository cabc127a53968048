/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the internal domain
  model (decimal.Decimal, Date) from the wire contract (float64, ISO-8601
  strings).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request structs carry go-playground/validator tags, checked in handlers
  before anything touches the domain. Domain invariants (non-negative sales
  amounts, batch atomicity) are still enforced by the ledger itself.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/labor-engine/forecast"
)

// =============================================================================
// TIMEFRAME
// =============================================================================

// RangeDTO is the derived period plus the stepper references the UI needs
// for prev/next navigation.
type RangeDTO struct {
	Preset  string `json:"preset"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Label   string `json:"label"`
	PrevRef string `json:"prev_ref"`
	NextRef string `json:"next_ref"`
}

// =============================================================================
// LOCATIONS
// =============================================================================

type LocationDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	TargetPercent  float64 `json:"target_percent"`
	WarningPercent float64 `json:"warning_percent"`
	MaxPercent     float64 `json:"max_percent"`
}

type CreateLocationRequest struct {
	ID             string   `json:"id"`
	Name           string   `json:"name" validate:"required"`
	TargetPercent  float64  `json:"target_percent" validate:"required,gt=0,lte=100"`
	WarningPercent *float64 `json:"warning_percent,omitempty" validate:"omitempty,gt=0,lte=100"`
	MaxPercent     *float64 `json:"max_percent,omitempty" validate:"omitempty,gt=0,lte=100"`
}

func locationDTO(loc forecast.Location) LocationDTO {
	return LocationDTO{
		ID:             string(loc.ID),
		Name:           loc.Name,
		TargetPercent:  loc.Thresholds.TargetPercent.InexactFloat64(),
		WarningPercent: loc.Thresholds.WarningPercent.InexactFloat64(),
		MaxPercent:     loc.Thresholds.MaxPercent.InexactFloat64(),
	}
}

// =============================================================================
// EMPLOYEES AND SHIFTS
// =============================================================================

type WageEntryDTO struct {
	Position      string  `json:"position" validate:"required"`
	Rate          float64 `json:"rate" validate:"gte=0"`
	EffectiveDate string  `json:"effective_date" validate:"required,datetime=2006-01-02"`
}

type EmployeeDTO struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	BaseHourlyRate     float64        `json:"base_hourly_rate"`
	OvertimeMultiplier float64        `json:"overtime_multiplier"`
	WageHistory        []WageEntryDTO `json:"wage_history,omitempty"`
	LocationIDs        []string       `json:"location_ids"`
}

type CreateEmployeeRequest struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name" validate:"required"`
	BaseHourlyRate     float64        `json:"base_hourly_rate" validate:"gte=0"`
	OvertimeMultiplier float64        `json:"overtime_multiplier" validate:"omitempty,gte=1"`
	WageHistory        []WageEntryDTO `json:"wage_history,omitempty" validate:"omitempty,dive"`
	LocationIDs        []string       `json:"location_ids" validate:"required,min=1"`
}

type ShiftDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Position   string `json:"position"`
}

type CreateShiftRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id" validate:"required"`
	LocationID string `json:"location_id" validate:"required"`
	Start      string `json:"start" validate:"required"`
	End        string `json:"end" validate:"required"`
	Position   string `json:"position" validate:"required"`
}

// =============================================================================
// SALES
// =============================================================================

type SalesEntryDTO struct {
	ID         string  `json:"id"`
	LocationID string  `json:"location_id"`
	Date       string  `json:"date"`
	Kind       string  `json:"kind"`
	Amount     float64 `json:"amount"`
}

// UpsertSalesRequest deliberately leaves the amount unconstrained here: the
// ledger owns the non-negative invariant and its rejection is surfaced as a
// validation error.
type UpsertSalesRequest struct {
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Kind   string  `json:"kind" validate:"required,oneof=actual projected"`
	Amount float64 `json:"amount"`
}

type BulkSalesRequest struct {
	Entries []UpsertSalesRequest `json:"entries" validate:"required,min=1,dive"`
}

func salesEntryDTO(entry forecast.SalesEntry) SalesEntryDTO {
	return SalesEntryDTO{
		ID:         entry.ID,
		LocationID: string(entry.LocationID),
		Date:       entry.Date.String(),
		Kind:       string(entry.Kind),
		Amount:     entry.Amount.InexactFloat64(),
	}
}

// =============================================================================
// BUDGET METRICS
// =============================================================================

type EmployeeLaborDTO struct {
	EmployeeID string  `json:"employee_id"`
	Hours      float64 `json:"hours"`
	Cost       float64 `json:"cost"`
}

type LaborSummaryDTO struct {
	TotalHours  float64            `json:"total_hours"`
	TotalCost   float64            `json:"total_cost"`
	ShiftCount  int                `json:"shift_count"`
	PerEmployee []EmployeeLaborDTO `json:"per_employee"`
}

type BudgetReportDTO struct {
	EffectiveSales        float64  `json:"effective_sales"`
	UsingProjected        bool     `json:"using_projected"`
	LaborPercentActual    float64  `json:"labor_percent_actual"`
	LaborPercentProjected float64  `json:"labor_percent_projected"`
	LaborPercentEffective float64  `json:"labor_percent_effective"`
	Diff                  float64  `json:"diff"`
	OverBudgetMax         bool     `json:"over_budget_max"`
	OverTarget            bool     `json:"over_target"`
	Status                string   `json:"status"`
	RequiredRevenue       *float64 `json:"required_revenue,omitempty"`
}

type BudgetResponse struct {
	Range  RangeDTO        `json:"range"`
	Labor  LaborSummaryDTO `json:"labor"`
	Report BudgetReportDTO `json:"report"`
}

func laborSummaryDTO(ls forecast.LaborSummary) LaborSummaryDTO {
	dto := LaborSummaryDTO{
		TotalHours:  ls.TotalHours.InexactFloat64(),
		TotalCost:   ls.TotalCost.InexactFloat64(),
		ShiftCount:  ls.ShiftCount,
		PerEmployee: []EmployeeLaborDTO{},
	}
	for _, el := range ls.PerEmployee {
		dto.PerEmployee = append(dto.PerEmployee, EmployeeLaborDTO{
			EmployeeID: string(el.EmployeeID),
			Hours:      el.Hours.InexactFloat64(),
			Cost:       el.Cost.InexactFloat64(),
		})
	}
	return dto
}

func budgetReportDTO(r forecast.BudgetReport) BudgetReportDTO {
	dto := BudgetReportDTO{
		EffectiveSales:        r.EffectiveSales.InexactFloat64(),
		UsingProjected:        r.UsingProjected,
		LaborPercentActual:    r.LaborPercentActual.InexactFloat64(),
		LaborPercentProjected: r.LaborPercentProjected.InexactFloat64(),
		LaborPercentEffective: r.LaborPercentEffective.InexactFloat64(),
		Diff:                  r.Diff.InexactFloat64(),
		OverBudgetMax:         r.OverBudgetMax,
		OverTarget:            r.OverTarget,
		Status:                string(r.Status),
	}
	if r.RequiredRevenue != nil {
		required := r.RequiredRevenue.InexactFloat64()
		dto.RequiredRevenue = &required
	}
	return dto
}

// =============================================================================
// AUTOFILL AND TREND
// =============================================================================

type AutofillRequestDTO struct {
	Start             string  `json:"start" validate:"required,datetime=2006-01-02"`
	End               string  `json:"end" validate:"required,datetime=2006-01-02"`
	Rule              string  `json:"rule" validate:"required,oneof=historical_average last_week last_year"`
	AdjustmentPercent float64 `json:"adjustment_percent"`
	Commit            bool    `json:"commit"`
}

type AutofillResponse struct {
	Amounts   map[string]float64 `json:"amounts"`
	Committed bool               `json:"committed"`
}

type TrendPointDTO struct {
	PeriodStart    string   `json:"period_start"`
	PeriodEnd      string   `json:"period_end"`
	ActualTotal    float64  `json:"actual_total"`
	ProjectedTotal float64  `json:"projected_total"`
	LaborCost      float64  `json:"labor_cost"`
	LaborPercent   float64  `json:"labor_percent"`
	Accuracy       *float64 `json:"accuracy,omitempty"`
}

func trendPointDTO(p forecast.TrendPoint) TrendPointDTO {
	dto := TrendPointDTO{
		PeriodStart:    p.Period.Start.String(),
		PeriodEnd:      p.Period.End.String(),
		ActualTotal:    p.ActualTotal.InexactFloat64(),
		ProjectedTotal: p.ProjectedTotal.InexactFloat64(),
		LaborCost:      p.LaborCost.InexactFloat64(),
		LaborPercent:   p.LaborPercent.InexactFloat64(),
	}
	if p.Accuracy != nil {
		accuracy := p.Accuracy.InexactFloat64()
		dto.Accuracy = &accuracy
	}
	return dto
}

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}
