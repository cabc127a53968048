/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements forecast.SalesStore and forecast.Directory, plus the thin
  record CRUD the HTTP layer uses to feed the engine (locations, employees,
  wage history, shifts).

UNIQUENESS ENFORCEMENT:
  sales_entries carries UNIQUE(location_id, date, kind). Upserts go through
  INSERT ... ON CONFLICT DO UPDATE, so the at-most-one-entry-per-key
  invariant holds at the database level, not just in application code.

ATOMIC BATCHES:
  PutBatch runs inside a single database transaction: either every entry of
  a bulk upsert lands or none do.

KEY TABLES:
  locations:     budget thresholds per location
  employees:     base rate + overtime multiplier
  wage_history:  position-specific rate overrides with effective dates
  shifts:        scheduled work (read-only to the core)
  sales_entries: the actual/projected sales series

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  one writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/labor.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := forecast.NewSalesLedger(store)

SEE ALSO:
  - forecast/store.go: Interface definitions
  - forecast/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/labor-engine/forecast"
)

// Store implements forecast.SalesStore and forecast.Directory over SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		target_percent TEXT NOT NULL,
		warning_percent TEXT NOT NULL,
		max_percent TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		base_hourly_rate TEXT NOT NULL,
		overtime_multiplier TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employee_locations (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		location_id TEXT NOT NULL,
		PRIMARY KEY (employee_id, location_id)
	);

	CREATE TABLE IF NOT EXISTS wage_history (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		position TEXT NOT NULL,
		rate TEXT NOT NULL,
		effective_date TEXT NOT NULL,
		PRIMARY KEY (employee_id, position, effective_date)
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		location_id TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		position TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_location_start
		ON shifts(location_id, start_at);

	CREATE TABLE IF NOT EXISTS sales_entries (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		date TEXT NOT NULL,
		kind TEXT NOT NULL,
		amount TEXT NOT NULL,
		UNIQUE(location_id, date, kind)
	);

	-- Range totals per series (hot path)
	CREATE INDEX IF NOT EXISTS idx_sales_location_kind_date
		ON sales_entries(location_id, kind, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SALES STORE
// =============================================================================

func (s *Store) Get(ctx context.Context, locationID forecast.LocationID, date forecast.Date, kind forecast.SalesKind) (*forecast.SalesEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, location_id, date, kind, amount
		FROM sales_entries
		WHERE location_id = ? AND date = ? AND kind = ?`,
		string(locationID), date.String(), string(kind))

	entry, err := scanSalesEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Store) LoadRange(ctx context.Context, locationID forecast.LocationID, from, to forecast.Date, kind forecast.SalesKind) ([]forecast.SalesEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, date, kind, amount
		FROM sales_entries
		WHERE location_id = ? AND kind = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		string(locationID), string(kind), from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []forecast.SalesEntry
	for rows.Next() {
		entry, err := scanSalesEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

const upsertSalesSQL = `
	INSERT INTO sales_entries (id, location_id, date, kind, amount)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(location_id, date, kind)
	DO UPDATE SET amount = excluded.amount`

func (s *Store) Put(ctx context.Context, entry forecast.SalesEntry) error {
	_, err := s.db.ExecContext(ctx, upsertSalesSQL,
		entry.ID, string(entry.LocationID), entry.Date.String(),
		string(entry.Kind), entry.Amount.String())
	return err
}

func (s *Store) PutBatch(ctx context.Context, entries []forecast.SalesEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSalesSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx,
			entry.ID, string(entry.LocationID), entry.Date.String(),
			string(entry.Kind), entry.Amount.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSalesEntry(row rowScanner) (*forecast.SalesEntry, error) {
	var (
		entry                     forecast.SalesEntry
		locID, date, kind, amount string
	)
	if err := row.Scan(&entry.ID, &locID, &date, &kind, &amount); err != nil {
		return nil, err
	}
	d, err := forecast.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("corrupt sales date %q: %w", date, err)
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt sales amount %q: %w", amount, err)
	}
	entry.LocationID = forecast.LocationID(locID)
	entry.Date = d
	entry.Kind = forecast.SalesKind(kind)
	entry.Amount = amt
	return &entry, nil
}

// =============================================================================
// DIRECTORY - Locations
// =============================================================================

func (s *Store) SaveLocation(ctx context.Context, loc forecast.Location) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, name, target_percent, warning_percent, max_percent)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			target_percent = excluded.target_percent,
			warning_percent = excluded.warning_percent,
			max_percent = excluded.max_percent`,
		string(loc.ID), loc.Name,
		loc.Thresholds.TargetPercent.String(),
		loc.Thresholds.WarningPercent.String(),
		loc.Thresholds.MaxPercent.String())
	return err
}

func (s *Store) Location(ctx context.Context, id forecast.LocationID) (*forecast.Location, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, target_percent, warning_percent, max_percent
		FROM locations WHERE id = ?`, string(id))

	loc, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, forecast.ErrLocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *Store) ListLocations(ctx context.Context) ([]forecast.Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, target_percent, warning_percent, max_percent
		FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []forecast.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *loc)
	}
	return locations, rows.Err()
}

func scanLocation(row rowScanner) (*forecast.Location, error) {
	var (
		id, name             string
		target, warning, max string
	)
	if err := row.Scan(&id, &name, &target, &warning, &max); err != nil {
		return nil, err
	}
	t, err := decimal.NewFromString(target)
	if err != nil {
		return nil, fmt.Errorf("corrupt target percent %q: %w", target, err)
	}
	w, err := decimal.NewFromString(warning)
	if err != nil {
		return nil, fmt.Errorf("corrupt warning percent %q: %w", warning, err)
	}
	m, err := decimal.NewFromString(max)
	if err != nil {
		return nil, fmt.Errorf("corrupt max percent %q: %w", max, err)
	}
	return &forecast.Location{
		ID:   forecast.LocationID(id),
		Name: name,
		Thresholds: forecast.BudgetThresholds{
			TargetPercent:  t,
			WarningPercent: w,
			MaxPercent:     m,
		},
	}, nil
}

// =============================================================================
// DIRECTORY - Employees and wage history
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, emp forecast.Employee) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO employees (id, name, base_hourly_rate, overtime_multiplier)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			base_hourly_rate = excluded.base_hourly_rate,
			overtime_multiplier = excluded.overtime_multiplier`,
		string(emp.ID), emp.Name, emp.BaseHourlyRate.String(),
		emp.OvertimeMultiplier.String()); err != nil {
		return err
	}

	// Wage history and location links are replaced wholesale; the employee
	// record is the source of truth for both.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM wage_history WHERE employee_id = ?`, string(emp.ID)); err != nil {
		return err
	}
	for _, w := range emp.WageHistory {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO wage_history (employee_id, position, rate, effective_date)
			VALUES (?, ?, ?, ?)`,
			string(emp.ID), w.Position, w.Rate.String(), w.EffectiveDate.String()); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM employee_locations WHERE employee_id = ?`, string(emp.ID)); err != nil {
		return err
	}
	for _, locID := range emp.LocationIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO employee_locations (employee_id, location_id)
			VALUES (?, ?)`, string(emp.ID), string(locID)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) Employees(ctx context.Context, locationID forecast.LocationID) ([]forecast.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, e.base_hourly_rate, e.overtime_multiplier
		FROM employees e
		JOIN employee_locations el ON el.employee_id = e.id
		WHERE el.location_id = ?
		ORDER BY e.id`, string(locationID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []forecast.Employee
	for rows.Next() {
		var id, name, rate, multiplier string
		if err := rows.Scan(&id, &name, &rate, &multiplier); err != nil {
			return nil, err
		}
		base, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("corrupt base rate %q: %w", rate, err)
		}
		mult, err := decimal.NewFromString(multiplier)
		if err != nil {
			return nil, fmt.Errorf("corrupt overtime multiplier %q: %w", multiplier, err)
		}
		employees = append(employees, forecast.Employee{
			ID:                 forecast.EmployeeID(id),
			Name:               name,
			BaseHourlyRate:     base,
			OvertimeMultiplier: mult,
			LocationIDs:        []forecast.LocationID{locationID},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range employees {
		history, err := s.wageHistory(ctx, employees[i].ID)
		if err != nil {
			return nil, err
		}
		employees[i].WageHistory = history
	}
	return employees, nil
}

func (s *Store) wageHistory(ctx context.Context, employeeID forecast.EmployeeID) ([]forecast.WageEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, rate, effective_date
		FROM wage_history
		WHERE employee_id = ?
		ORDER BY effective_date`, string(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []forecast.WageEntry
	for rows.Next() {
		var position, rate, effective string
		if err := rows.Scan(&position, &rate, &effective); err != nil {
			return nil, err
		}
		r, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("corrupt wage rate %q: %w", rate, err)
		}
		d, err := forecast.ParseDate(effective)
		if err != nil {
			return nil, fmt.Errorf("corrupt effective date %q: %w", effective, err)
		}
		history = append(history, forecast.WageEntry{
			Position:      position,
			Rate:          r,
			EffectiveDate: d,
		})
	}
	return history, rows.Err()
}

// =============================================================================
// DIRECTORY - Shifts
// =============================================================================

func (s *Store) SaveShift(ctx context.Context, locationID forecast.LocationID, shift forecast.Shift) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, employee_id, location_id, start_at, end_at, position)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			location_id = excluded.location_id,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			position = excluded.position`,
		string(shift.ID), string(shift.EmployeeID), string(locationID),
		shift.Start.UTC().Format(time.RFC3339), shift.End.UTC().Format(time.RFC3339),
		shift.Position)
	return err
}

func (s *Store) Shifts(ctx context.Context, locationID forecast.LocationID, from, to forecast.Date) ([]forecast.Shift, error) {
	// start_at is RFC3339: a date-prefix comparison covers the full end day.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, start_at, end_at, position
		FROM shifts
		WHERE location_id = ? AND start_at >= ? AND start_at < ?
		ORDER BY start_at`,
		string(locationID), from.String(), to.AddDays(1).String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []forecast.Shift
	for rows.Next() {
		var id, employeeID, startAt, endAt, position string
		if err := rows.Scan(&id, &employeeID, &startAt, &endAt, &position); err != nil {
			return nil, err
		}
		start, err := time.Parse(time.RFC3339, startAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt shift start %q: %w", startAt, err)
		}
		end, err := time.Parse(time.RFC3339, endAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt shift end %q: %w", endAt, err)
		}
		shifts = append(shifts, forecast.Shift{
			ID:         forecast.ShiftID(id),
			EmployeeID: forecast.EmployeeID(employeeID),
			Start:      start,
			End:        end,
			Position:   position,
		})
	}
	return shifts, rows.Err()
}
