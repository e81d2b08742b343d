package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/metrics"
	"github.com/google/uuid"
)

// maxAppendRetries bounds how often a scan is re-resolved after losing a
// conditional append race to another kiosk.
const maxAppendRetries = 3

type AttendanceServiceImpl struct {
	ledger    attendance.LedgerRepository
	employees employee.EmployeeRepository
	favorites location.FavoriteRepository
	clock     clock.Clock
	policy    attendance.Policy
	metrics   *metrics.Metrics
}

func NewAttendanceService(
	ledger attendance.LedgerRepository,
	employees employee.EmployeeRepository,
	favorites location.FavoriteRepository,
	clk clock.Clock,
	policy attendance.Policy,
	m *metrics.Metrics,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		ledger:    ledger,
		employees: employees,
		favorites: favorites,
		clock:     clk,
		policy:    policy,
		metrics:   m,
	}
}

// ResolveAndCommit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ResolveAndCommit(ctx context.Context, req attendance.ScanRequest) (attendance.RecordResponse, error) {
	// Latency is measured on the real clock; the injected clock only feeds
	// policy decisions.
	start := time.Now()
	defer func() {
		s.metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	}()

	if err := req.Validate(); err != nil {
		s.metrics.RejectionsTotal.WithLabelValues("validation").Inc()
		return attendance.RecordResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			s.metrics.RejectionsTotal.WithLabelValues("employee_not_found").Inc()
		}
		return attendance.RecordResponse{}, err
	}
	if !emp.Active {
		s.metrics.RejectionsTotal.WithLabelValues("employee_inactive").Inc()
		return attendance.RecordResponse{}, employee.ErrEmployeeInactive
	}

	scan := req.ToScan(s.clock.Now())

	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		last, err := s.ledger.GetLast(ctx, scan.EmployeeID, scan.Mode)
		if err != nil {
			return attendance.RecordResponse{}, err
		}

		// A kiosk that lost the race may now trail the winning record.
		// Clamp forward so the stream stays monotonic per (employee, mode).
		if last != nil && scan.Time.Before(last.Timestamp) {
			scan.Time = last.Timestamp
		}

		rec, err := attendance.Resolve(s.policy, scan, last)
		if err != nil {
			var earlyErr *attendance.EarlyCheckoutError
			if errors.As(err, &earlyErr) {
				s.metrics.RejectionsTotal.WithLabelValues("early_checkout").Inc()
			}
			return attendance.RecordResponse{}, err
		}
		rec.ID = uuid.NewString()

		committed, err := s.ledger.ConditionalAppend(ctx, last, rec)
		if err != nil {
			if errors.Is(err, attendance.ErrLedgerConflict) {
				s.metrics.ConflictRetries.Inc()
				continue
			}
			return attendance.RecordResponse{}, err
		}

		s.metrics.ScansTotal.WithLabelValues(string(committed.Mode), string(committed.Action)).Inc()
		s.recordFavoriteUse(ctx, req, committed)

		return attendance.NewRecordResponse(committed), nil
	}

	return attendance.RecordResponse{}, fmt.Errorf("conditional append retries exhausted: %w", attendance.ErrLedgerConflict)
}

// recordFavoriteUse bumps the picked favorite's counter after a checkout that
// carried one. Failures are logged and ignored; the record is already
// committed.
func (s *AttendanceServiceImpl) recordFavoriteUse(ctx context.Context, req attendance.ScanRequest, committed attendance.Record) {
	if req.Location == nil || req.Location.FavoriteID == nil || committed.Location == nil {
		return
	}
	if err := s.favorites.RecordUse(ctx, *req.Location.FavoriteID); err != nil {
		slog.Warn("Failed to record favorite location use", "favorite_id", *req.Location.FavoriteID, "error", err)
	}
}

// CurrentStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CurrentStatus(ctx context.Context, employeeID string, mode attendance.Mode) (attendance.StatusResponse, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return attendance.StatusResponse{}, err
	}

	last, err := s.ledger.GetLast(ctx, employeeID, mode)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	resp := attendance.StatusResponse{
		EmployeeID: employeeID,
		Mode:       string(mode),
		Status:     attendance.StatusNeverSeen,
	}
	if last == nil {
		return resp, nil
	}

	resp.Status = string(last.Action)
	ts := last.Timestamp.Format(time.RFC3339)
	resp.LastTimestamp = &ts
	resp.Late = last.Late
	if last.ShiftType != nil {
		shift := string(*last.ShiftType)
		resp.ShiftType = &shift
	}

	return resp, nil
}

// ListRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewRecordResponse(rec))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}, nil
}
