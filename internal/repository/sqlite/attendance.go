package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
)

type ledgerRepository struct {
	store *Store
}

func NewLedgerRepository(store *Store) attendance.LedgerRepository {
	return &ledgerRepository{store: store}
}

const recordColumns = `id, employee_id, mode, action, ts, late, shift_type, method,
	   location_name, location_address, location_latitude, location_longitude,
	   confidence, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (attendance.Record, error) {
	var rec attendance.Record
	var shiftType *string
	var locName, locAddress *string
	var locLat, locLng *float64

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Mode, &rec.Action, &rec.Timestamp,
		&rec.Late, &shiftType, &rec.Method,
		&locName, &locAddress, &locLat, &locLng,
		&rec.Confidence, &rec.CreatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	if shiftType != nil {
		shift := attendance.ShiftType(*shiftType)
		rec.ShiftType = &shift
	}
	if locName != nil {
		rec.Location = &attendance.Location{Name: *locName}
		if locAddress != nil {
			rec.Location.Address = *locAddress
		}
		if locLat != nil {
			rec.Location.Latitude = *locLat
		}
		if locLng != nil {
			rec.Location.Longitude = *locLng
		}
	}
	return rec, nil
}

// GetLast implements attendance.LedgerRepository.
func (r *ledgerRepository) GetLast(ctx context.Context, employeeID string, mode attendance.Mode) (*attendance.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = ? AND mode = ?
		ORDER BY ts DESC, created_at DESC
		LIMIT 1
	`

	rec, err := scanRecord(r.store.db.QueryRowContext(ctx, query, employeeID, mode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last attendance record: %w", err)
	}

	return &rec, nil
}

// ConditionalAppend implements attendance.LedgerRepository. Same guarded
// insert and prev_id chain as the postgres backend; sqlite spells the
// null-safe comparison with IS instead of IS NOT DISTINCT FROM. The single
// write connection already serializes appends, so the unique constraint on
// (employee_id, mode, prev_id) is belt and suspenders here.
func (r *ledgerRepository) ConditionalAppend(ctx context.Context, expectedLast *attendance.Record, rec attendance.Record) (attendance.Record, error) {
	var expectedID *string
	if expectedLast != nil {
		expectedID = &expectedLast.ID
	}

	var shiftType *string
	if rec.ShiftType != nil {
		s := string(*rec.ShiftType)
		shiftType = &s
	}
	var locName, locAddress *string
	var locLat, locLng *float64
	if rec.Location != nil {
		locName = &rec.Location.Name
		if rec.Location.Address != "" {
			locAddress = &rec.Location.Address
		}
		locLat = &rec.Location.Latitude
		locLng = &rec.Location.Longitude
	}

	rec.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO attendance_records (
			id, employee_id, mode, action, ts, late, shift_type, method,
			location_name, location_address, location_latitude, location_longitude,
			confidence, prev_id, created_at
		)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, ''), ?
		WHERE (
			SELECT id FROM attendance_records
			WHERE employee_id = ? AND mode = ?
			ORDER BY ts DESC, created_at DESC
			LIMIT 1
		) IS ?
	`

	result, err := r.store.db.ExecContext(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.Mode,
		rec.Action,
		rec.Timestamp,
		rec.Late,
		shiftType,
		rec.Method,
		locName,
		locAddress,
		locLat,
		locLng,
		rec.Confidence,
		expectedID,
		rec.CreatedAt,
		rec.EmployeeID,
		rec.Mode,
		expectedID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return attendance.Record{}, attendance.ErrLedgerConflict
		}
		return attendance.Record{}, fmt.Errorf("failed to append attendance record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to append attendance record: %w", err)
	}
	if affected == 0 {
		return attendance.Record{}, attendance.ErrLedgerConflict
	}

	return rec, nil
}

// List implements attendance.LedgerRepository.
func (r *ledgerRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	baseWhere := "1 = 1"
	args := []interface{}{}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += " AND employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.Mode != nil && *filter.Mode != "" {
		baseWhere += " AND mode = ?"
		args = append(args, *filter.Mode)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += " AND date(ts) >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += " AND date(ts) <= ?"
		args = append(args, *filter.EndDate)
	}

	countQuery := "SELECT COUNT(*) FROM attendance_records WHERE " + baseWhere
	var total int64
	if err := r.store.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE %s
		ORDER BY ts %s
		LIMIT ? OFFSET ?
	`, baseWhere, sortOrder)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := r.store.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// ListByRange implements attendance.LedgerRepository.
func (r *ledgerRepository) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE ts >= ? AND ts < ?
		ORDER BY ts ASC, created_at ASC
	`

	rows, err := r.store.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records by range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}
