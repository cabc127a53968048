/*
handlers.go - HTTP API handlers for the labor-budget forecasting engine

PURPOSE:
  Exposes the forecasting core via REST. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Timeframe:
    GET    /api/range                       Derive a period from preset+ref

  Locations:
    GET    /api/locations                   List locations
    POST   /api/locations                   Create/update a location
    GET    /api/locations/{id}/budget       Period budget metrics
    GET    /api/locations/{id}/sales        Sales entries in a range
    PUT    /api/locations/{id}/sales        Upsert one sales entry
    POST   /api/locations/{id}/sales/bulk   Atomic bulk upsert
    POST   /api/locations/{id}/autofill     Projected-sales autofill
    GET    /api/locations/{id}/trend        N-period history

  Scheduling inputs (thin CRUD feeding the engine):
    GET    /api/employees?location=         List employees at a location
    POST   /api/employees                   Create/update an employee
    GET    /api/shifts?location=&start=&end= List shifts
    POST   /api/shifts                      Create/update a shift

ERROR HANDLING:
  - 400: validation errors (bad preset dates, negative amounts, bad rules)
  - 404: unknown location
  - 500: storage faults, logged via zap

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/labor-engine/forecast"
	"github.com/warp/labor-engine/store/sqlite"
)

// defaultTrendPeriods is the history depth when the client doesn't ask for one.
const defaultTrendPeriods = 8

// maxTrendPeriods caps history depth so a stray query can't walk back years
// of per-period aggregation.
const maxTrendPeriods = 52

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Ledger   *forecast.SalesLedger
	Autofill *forecast.AutofillEngine
	Trend    *forecast.TrendAnalyzer
	Log      *zap.Logger

	// DefaultPreset applies when a period query names none.
	DefaultPreset forecast.Preset

	validate *validator.Validate
}

// NewHandler wires the engine components over one store.
func NewHandler(store *sqlite.Store, log *zap.Logger) *Handler {
	ledger := forecast.NewSalesLedger(store)
	return &Handler{
		Store:         store,
		Ledger:        ledger,
		Autofill:      forecast.NewAutofillEngine(ledger),
		Trend:         forecast.NewTrendAnalyzer(ledger),
		Log:           log,
		DefaultPreset: forecast.PresetWeekly,
		validate:      validator.New(),
	}
}

// =============================================================================
// TIMEFRAME HANDLERS
// =============================================================================

// GetRange derives a period from ?preset=&ref= (or ?start=&end= for custom)
// and returns it with its label and prev/next stepper references.
func (h *Handler) GetRange(w http.ResponseWriter, r *http.Request) {
	preset, period, ref, err := h.periodFromQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, rangeDTO(preset, period, ref))
}

func rangeDTO(preset forecast.Preset, period forecast.Period, ref forecast.Date) RangeDTO {
	return RangeDTO{
		Preset:  string(preset),
		Start:   period.Start.String(),
		End:     period.End.String(),
		Label:   forecast.FormatRange(preset, period),
		PrevRef: forecast.Step(preset, ref, forecast.StepPrev).String(),
		NextRef: forecast.Step(preset, ref, forecast.StepNext).String(),
	}
}

// periodFromQuery resolves the period selector common to the metric
// endpoints. A custom preset requires explicit start/end.
func (h *Handler) periodFromQuery(r *http.Request) (forecast.Preset, forecast.Period, forecast.Date, error) {
	q := r.URL.Query()

	preset := forecast.Preset(q.Get("preset"))
	if preset == "" {
		preset = h.DefaultPreset
	}

	ref := forecast.Today()
	if s := q.Get("ref"); s != "" {
		parsed, err := forecast.ParseDate(s)
		if err != nil {
			return "", forecast.Period{}, forecast.Date{}, badRequestError{"invalid ref date"}
		}
		ref = parsed
	}

	if preset == forecast.PresetCustom {
		start, err := forecast.ParseDate(q.Get("start"))
		if err != nil {
			return "", forecast.Period{}, forecast.Date{}, badRequestError{"custom preset requires a valid start date"}
		}
		end, err := forecast.ParseDate(q.Get("end"))
		if err != nil {
			return "", forecast.Period{}, forecast.Date{}, badRequestError{"custom preset requires a valid end date"}
		}
		period, err := forecast.NewPeriod(start, end)
		if err != nil {
			return "", forecast.Period{}, forecast.Date{}, err
		}
		return preset, period, start, nil
	}

	return preset, forecast.RangeFor(preset, ref), ref, nil
}

// =============================================================================
// LOCATION HANDLERS
// =============================================================================

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Store.ListLocations(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]LocationDTO, 0, len(locations))
	for _, loc := range locations {
		dtos = append(dtos, locationDTO(loc))
	}
	h.respondJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	loc := forecast.Location{
		ID:   forecast.LocationID(id),
		Name: req.Name,
		Thresholds: forecast.NewBudgetThresholds(
			decimal.NewFromFloat(req.TargetPercent),
			decimalPtr(req.WarningPercent),
			decimalPtr(req.MaxPercent),
		),
	}
	if err := h.Store.SaveLocation(r.Context(), loc); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, locationDTO(loc))
}

// GetBudget runs the full pipeline for one location and period: labor
// aggregation, sales totals, and threshold classification.
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locationID := forecast.LocationID(chi.URLParam(r, "id"))

	preset, period, ref, err := h.periodFromQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	location, err := h.Store.Location(ctx, locationID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	labor, err := h.aggregateLabor(r, locationID, period)
	if err != nil {
		h.respondError(w, err)
		return
	}

	actual, err := h.Ledger.RangeTotal(ctx, locationID, period, forecast.SalesActual)
	if err != nil {
		h.respondError(w, err)
		return
	}
	projected, err := h.Ledger.RangeTotal(ctx, locationID, period, forecast.SalesProjected)
	if err != nil {
		h.respondError(w, err)
		return
	}

	report := forecast.EvaluateBudget(forecast.BudgetInput{
		LaborCost:      labor.TotalCost,
		SalesActual:    actual,
		SalesProjected: projected,
		Thresholds:     location.Thresholds,
	})

	h.respondJSON(w, http.StatusOK, BudgetResponse{
		Range:  rangeDTO(preset, period, ref),
		Labor:  laborSummaryDTO(labor),
		Report: budgetReportDTO(report),
	})
}

func (h *Handler) aggregateLabor(r *http.Request, locationID forecast.LocationID, period forecast.Period) (forecast.LaborSummary, error) {
	ctx := r.Context()
	shifts, err := h.Store.Shifts(ctx, locationID, period.Start, period.End)
	if err != nil {
		return forecast.LaborSummary{}, err
	}
	employees, err := h.Store.Employees(ctx, locationID)
	if err != nil {
		return forecast.LaborSummary{}, err
	}
	return forecast.Aggregate(shifts, employees, period), nil
}

// =============================================================================
// SALES HANDLERS
// =============================================================================

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	locationID := forecast.LocationID(chi.URLParam(r, "id"))

	_, period, _, err := h.periodFromQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	kind := forecast.SalesKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = forecast.SalesActual
	}
	if !forecast.ValidKind(kind) {
		h.respondError(w, &forecast.KindError{Kind: kind})
		return
	}

	entries, err := h.Ledger.Entries(r.Context(), locationID, period, kind)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]SalesEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, salesEntryDTO(entry))
	}
	h.respondJSON(w, http.StatusOK, dtos)
}

func (h *Handler) UpsertSales(w http.ResponseWriter, r *http.Request) {
	locationID := forecast.LocationID(chi.URLParam(r, "id"))

	var req UpsertSalesRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	up, err := salesUpsert(locationID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	entry, err := h.Ledger.Upsert(r.Context(), up)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, salesEntryDTO(entry))
}

func (h *Handler) BulkUpsertSales(w http.ResponseWriter, r *http.Request) {
	locationID := forecast.LocationID(chi.URLParam(r, "id"))

	var req BulkSalesRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	ups := make([]forecast.SalesUpsert, 0, len(req.Entries))
	for _, e := range req.Entries {
		up, err := salesUpsert(locationID, e)
		if err != nil {
			h.respondError(w, err)
			return
		}
		ups = append(ups, up)
	}

	entries, err := h.Ledger.BulkUpsert(r.Context(), ups)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]SalesEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, salesEntryDTO(entry))
	}
	h.respondJSON(w, http.StatusOK, dtos)
}

func salesUpsert(locationID forecast.LocationID, req UpsertSalesRequest) (forecast.SalesUpsert, error) {
	date, err := forecast.ParseDate(req.Date)
	if err != nil {
		return forecast.SalesUpsert{}, badRequestError{"invalid date"}
	}
	return forecast.SalesUpsert{
		LocationID: locationID,
		Date:       date,
		Kind:       forecast.SalesKind(req.Kind),
		Amount:     decimal.NewFromFloat(req.Amount),
	}, nil
}

// =============================================================================
// AUTOFILL HANDLER
// =============================================================================

// RunAutofill previews projected sales for a period and, when commit is
// set, applies the result through the ledger's atomic bulk upsert.
func (h *Handler) RunAutofill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locationID := forecast.LocationID(chi.URLParam(r, "id"))

	var req AutofillRequestDTO
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	start, err := forecast.ParseDate(req.Start)
	if err != nil {
		h.respondError(w, badRequestError{"invalid start date"})
		return
	}
	end, err := forecast.ParseDate(req.End)
	if err != nil {
		h.respondError(w, badRequestError{"invalid end date"})
		return
	}
	period, err := forecast.NewPeriod(start, end)
	if err != nil {
		h.respondError(w, err)
		return
	}

	amounts, err := h.Autofill.Autofill(ctx, forecast.AutofillRequest{
		LocationID:        locationID,
		Period:            period,
		Rule:              forecast.AutofillRule(req.Rule),
		AdjustmentPercent: decimal.NewFromFloat(req.AdjustmentPercent),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	if req.Commit {
		ups := make([]forecast.SalesUpsert, 0, len(amounts))
		for date, amount := range amounts {
			ups = append(ups, forecast.SalesUpsert{
				LocationID: locationID,
				Date:       date,
				Kind:       forecast.SalesProjected,
				Amount:     amount,
			})
		}
		if _, err := h.Ledger.BulkUpsert(ctx, ups); err != nil {
			h.respondError(w, err)
			return
		}
	}

	resp := AutofillResponse{Amounts: make(map[string]float64, len(amounts)), Committed: req.Commit}
	for date, amount := range amounts {
		resp.Amounts[date.String()] = amount.InexactFloat64()
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// =============================================================================
// TREND HANDLER
// =============================================================================

func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locationID := forecast.LocationID(chi.URLParam(r, "id"))

	preset, period, _, err := h.periodFromQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	periodsBack := defaultTrendPeriods
	if s := r.URL.Query().Get("periods"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			h.respondError(w, badRequestError{"periods must be a positive integer"})
			return
		}
		periodsBack = n
	}
	if periodsBack > maxTrendPeriods {
		periodsBack = maxTrendPeriods
	}

	location, err := h.Store.Location(ctx, locationID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	// One directory read covers the whole lookback; per-period containment
	// happens inside the aggregator.
	historyStart := period.Start.AddDays(-(periodsBack + 1) * period.Len() * 2)
	shifts, err := h.Store.Shifts(ctx, locationID, historyStart, period.End)
	if err != nil {
		h.respondError(w, err)
		return
	}
	employees, err := h.Store.Employees(ctx, locationID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	points, err := h.Trend.History(ctx, forecast.TrendInput{
		LocationID:  locationID,
		Preset:      preset,
		Current:     period,
		PeriodsBack: periodsBack,
		Shifts:      shifts,
		Employees:   employees,
		Thresholds:  location.Thresholds,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]TrendPointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, trendPointDTO(p))
	}
	h.respondJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EMPLOYEE AND SHIFT HANDLERS (thin CRUD feeding the engine)
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	locationID := forecast.LocationID(r.URL.Query().Get("location"))
	if locationID == "" {
		h.respondError(w, badRequestError{"location query parameter is required"})
		return
	}
	employees, err := h.Store.Employees(r.Context(), locationID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, emp := range employees {
		dto := EmployeeDTO{
			ID:                 string(emp.ID),
			Name:               emp.Name,
			BaseHourlyRate:     emp.BaseHourlyRate.InexactFloat64(),
			OvertimeMultiplier: emp.OvertimeMultiplier.InexactFloat64(),
		}
		for _, id := range emp.LocationIDs {
			dto.LocationIDs = append(dto.LocationIDs, string(id))
		}
		for _, wage := range emp.WageHistory {
			dto.WageHistory = append(dto.WageHistory, WageEntryDTO{
				Position:      wage.Position,
				Rate:          wage.Rate.InexactFloat64(),
				EffectiveDate: wage.EffectiveDate.String(),
			})
		}
		dtos = append(dtos, dto)
	}
	h.respondJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	multiplier := req.OvertimeMultiplier
	if multiplier == 0 {
		multiplier = 1
	}
	emp := forecast.Employee{
		ID:                 forecast.EmployeeID(id),
		Name:               req.Name,
		BaseHourlyRate:     decimal.NewFromFloat(req.BaseHourlyRate),
		OvertimeMultiplier: decimal.NewFromFloat(multiplier),
	}
	for _, locID := range req.LocationIDs {
		emp.LocationIDs = append(emp.LocationIDs, forecast.LocationID(locID))
	}
	for _, wage := range req.WageHistory {
		effective, err := forecast.ParseDate(wage.EffectiveDate)
		if err != nil {
			h.respondError(w, badRequestError{"invalid wage effective date"})
			return
		}
		emp.WageHistory = append(emp.WageHistory, forecast.WageEntry{
			Position:      wage.Position,
			Rate:          decimal.NewFromFloat(wage.Rate),
			EffectiveDate: effective,
		})
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	locationID := forecast.LocationID(r.URL.Query().Get("location"))
	if locationID == "" {
		h.respondError(w, badRequestError{"location query parameter is required"})
		return
	}
	_, period, _, err := h.periodFromQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	shifts, err := h.Store.Shifts(r.Context(), locationID, period.Start, period.End)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]ShiftDTO, 0, len(shifts))
	for _, s := range shifts {
		dtos = append(dtos, ShiftDTO{
			ID:         string(s.ID),
			EmployeeID: string(s.EmployeeID),
			Start:      s.Start.UTC().Format(time.RFC3339),
			End:        s.End.UTC().Format(time.RFC3339),
			Position:   s.Position,
		})
	}
	h.respondJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		h.respondError(w, badRequestError{"invalid start timestamp"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		h.respondError(w, badRequestError{"invalid end timestamp"})
		return
	}
	if !end.After(start) {
		h.respondError(w, badRequestError{"shift end must be after start"})
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	shift := forecast.Shift{
		ID:         forecast.ShiftID(id),
		EmployeeID: forecast.EmployeeID(req.EmployeeID),
		Start:      start,
		End:        end,
		Position:   req.Position,
	}
	if err := h.Store.SaveShift(r.Context(), forecast.LocationID(req.LocationID), shift); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// =============================================================================
// HELPERS
// =============================================================================

// badRequestError marks caller mistakes that never reach the domain.
type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string { return e.msg }

func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequestError{"invalid JSON body"}
	}
	if err := h.validate.Struct(v); err != nil {
		return badRequestError{err.Error()}
	}
	return nil
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case isBadRequest(err) || forecast.IsValidation(err):
		status = http.StatusBadRequest
	case forecast.IsNotFound(err):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
		h.Log.Error("request failed", zap.Error(err))
	}
	h.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func isBadRequest(err error) bool {
	_, ok := err.(badRequestError)
	return ok
}
