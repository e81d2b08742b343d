package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) attendance.LedgerRepository {
	return &ledgerRepository{db: db}
}

const recordColumns = `id, employee_id, mode, action, ts, late, shift_type, method,
	   location_name, location_address, location_latitude, location_longitude,
	   confidence, created_at`

// scanRecord reads one record row. The location columns are nullable as a
// group; a non-null name marks the group as present.
func scanRecord(row pgx.Row) (attendance.Record, error) {
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
		WHERE employee_id = $1 AND mode = $2
		ORDER BY ts DESC, created_at DESC
		LIMIT 1
	`

	rec, err := scanRecord(r.db.QueryRow(ctx, query, employeeID, mode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last attendance record: %w", err)
	}

	return &rec, nil
}

// ConditionalAppend implements attendance.LedgerRepository. Two layers reject
// a stale expectation: the guarded SELECT re-reads the stream head, and the
// unique constraint on (employee_id, mode, prev_id) stops the race the guard
// cannot see under READ COMMITTED, where two concurrent statements snapshot
// the same head and both pass the guard. The loser's insert then collides on
// prev_id and surfaces as ErrLedgerConflict.
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

	query := `
		INSERT INTO attendance_records (
			id, employee_id, mode, action, ts, late, shift_type, method,
			location_name, location_address, location_latitude, location_longitude,
			confidence, prev_id
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14, '')
		WHERE (
			SELECT id FROM attendance_records
			WHERE employee_id = $2 AND mode = $3
			ORDER BY ts DESC, created_at DESC
			LIMIT 1
		) IS NOT DISTINCT FROM $14
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
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
	).Scan(&rec.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrLedgerConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Record{}, attendance.ErrLedgerConflict
		}
		return attendance.Record{}, fmt.Errorf("failed to append attendance record: %w", err)
	}

	return rec, nil
}

// List implements attendance.LedgerRepository.
func (r *ledgerRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Mode != nil && *filter.Mode != "" {
		baseWhere += fmt.Sprintf(" AND mode = $%d", argIdx)
		args = append(args, *filter.Mode)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND ts::date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND ts::date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendance_records WHERE " + baseWhere
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
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
		LIMIT $%d OFFSET $%d
	`, baseWhere, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
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
		WHERE ts >= $1 AND ts < $2
		ORDER BY ts ASC, created_at ASC
	`

	rows, err := r.db.Query(ctx, query, from, to)
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
