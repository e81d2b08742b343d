package attendance

import (
	"context"
)

// AttendanceService is the decision surface exposed to scan front ends.
type AttendanceService interface {
	// ResolveAndCommit turns a scan into a committed attendance record, or
	// the policy rejection that applies. Concurrency conflicts are retried
	// internally and never surfaced unless retries are exhausted.
	ResolveAndCommit(ctx context.Context, req ScanRequest) (RecordResponse, error)

	// CurrentStatus is a read-only projection of an employee's state in one
	// mode, used by UIs to render state without side effects.
	CurrentStatus(ctx context.Context, employeeID string, mode Mode) (StatusResponse, error)

	// ListRecords retrieves records with filters and pagination.
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)
}
