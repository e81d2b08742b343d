package attendance

import (
	"context"
	"time"
)

// LedgerRepository is the append-only record store shared by all kiosks.
// Records are never updated or deleted; corrections happen as new records.
type LedgerRepository interface {
	// GetLast returns the most recent record for (employeeID, mode), or nil
	// when the employee has never had an event in that mode.
	GetLast(ctx context.Context, employeeID string, mode Mode) (*Record, error)

	// ConditionalAppend persists rec only if the ledger still shows
	// expectedLast (nil for an empty stream) as the newest record for
	// (rec.EmployeeID, rec.Mode). Returns ErrLedgerConflict otherwise.
	// This is the seam that keeps concurrent kiosks from breaking the
	// IN/OUT alternation.
	ConditionalAppend(ctx context.Context, expectedLast *Record, rec Record) (Record, error)

	// List retrieves records with filters and pagination, newest first.
	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)

	// ListByRange returns all records with from <= timestamp < to, in
	// timestamp order. Used by the reporting read path.
	ListByRange(ctx context.Context, from, to time.Time) ([]Record, error)
}
