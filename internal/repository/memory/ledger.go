package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
)

// LedgerRepository is an in-memory ledger for development and tests. Streams
// are keyed by employee and mode; the conditional append holds the lock for
// the compare and the write, so it gives the same guarantee as the SQL
// backends.
type LedgerRepository struct {
	mu      sync.RWMutex
	streams map[string][]attendance.Record
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		streams: make(map[string][]attendance.Record),
	}
}

func streamKey(employeeID string, mode attendance.Mode) string {
	return employeeID + "|" + string(mode)
}

// GetLast implements attendance.LedgerRepository.
func (r *LedgerRepository) GetLast(_ context.Context, employeeID string, mode attendance.Mode) (*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stream := r.streams[streamKey(employeeID, mode)]
	if len(stream) == 0 {
		return nil, nil
	}

	last := stream[len(stream)-1]
	return &last, nil
}

// ConditionalAppend implements attendance.LedgerRepository.
func (r *LedgerRepository) ConditionalAppend(_ context.Context, expectedLast *attendance.Record, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := streamKey(rec.EmployeeID, rec.Mode)
	stream := r.streams[key]

	var lastID *string
	if len(stream) > 0 {
		lastID = &stream[len(stream)-1].ID
	}
	var expectedID *string
	if expectedLast != nil {
		expectedID = &expectedLast.ID
	}

	if (lastID == nil) != (expectedID == nil) {
		return attendance.Record{}, attendance.ErrLedgerConflict
	}
	if lastID != nil && *lastID != *expectedID {
		return attendance.Record{}, attendance.ErrLedgerConflict
	}

	rec.CreatedAt = time.Now().UTC()
	r.streams[key] = append(stream, rec)

	return rec, nil
}

// List implements attendance.LedgerRepository.
func (r *LedgerRepository) List(_ context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []attendance.Record
	for _, stream := range r.streams {
		for _, rec := range stream {
			if filter.EmployeeID != nil && *filter.EmployeeID != "" && rec.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.Mode != nil && *filter.Mode != "" && string(rec.Mode) != *filter.Mode {
				continue
			}
			day := rec.Timestamp.Format("2006-01-02")
			if filter.StartDate != nil && *filter.StartDate != "" && day < *filter.StartDate {
				continue
			}
			if filter.EndDate != nil && *filter.EndDate != "" && day > *filter.EndDate {
				continue
			}
			matched = append(matched, rec)
		}
	}

	asc := strings.ToLower(filter.SortOrder) == "asc"
	sort.Slice(matched, func(i, j int) bool {
		if asc {
			return matched[i].Timestamp.Before(matched[j].Timestamp)
		}
		return matched[j].Timestamp.Before(matched[i].Timestamp)
	})

	total := int64(len(matched))

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

// ListByRange implements attendance.LedgerRepository.
func (r *LedgerRepository) ListByRange(_ context.Context, from, to time.Time) ([]attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []attendance.Record
	for _, stream := range r.streams {
		for _, rec := range stream {
			if rec.Timestamp.Before(from) || !rec.Timestamp.Before(to) {
				continue
			}
			matched = append(matched, rec)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})

	return matched, nil
}
