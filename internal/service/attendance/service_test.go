package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-core-go/internal/repository/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service   attendance.AttendanceService
	ledger    *memory.LedgerRepository
	employees *memory.EmployeeRepository
	favorites *memory.FavoriteRepository
	clock     *clock.Fake
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	ledger := memory.NewLedgerRepository()
	employees := memory.NewEmployeeRepository()
	favorites := memory.NewFavoriteRepository()
	fake := clock.NewFake(mustParse(t, "2026-03-02T07:45:00Z"))

	policy := attendance.DefaultPolicy()
	policy.Timezone = time.UTC

	service := NewAttendanceService(
		ledger, employees, favorites, fake, policy,
		metrics.New(prometheus.NewRegistry()),
	)

	_, err := employees.Create(context.Background(), employee.Employee{
		EmployeeID: "EMP-001",
		Name:       "Ayu Lestari",
		Active:     true,
	})
	require.NoError(t, err)

	return &serviceFixture{
		service:   service,
		ledger:    ledger,
		employees: employees,
		favorites: favorites,
		clock:     fake,
	}
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func clockRequest() attendance.ScanRequest {
	return attendance.ScanRequest{
		EmployeeID: "EMP-001",
		Mode:       "CLOCK",
		Method:     "FACE",
	}
}

func TestResolveAndCommitClockDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 07:45 clock-in: on time, early shift.
	resp, err := f.service.ResolveAndCommit(ctx, clockRequest())
	require.NoError(t, err)
	assert.Equal(t, "IN", resp.Action)
	require.NotNil(t, resp.Late)
	assert.False(t, *resp.Late)
	require.NotNil(t, resp.ShiftType)
	assert.Equal(t, "EARLY", *resp.ShiftType)

	// 16:30 clock-out: rejected, early shift threshold is 17:00.
	f.clock.Set(mustParse(t, "2026-03-02T16:30:00Z"))
	_, err = f.service.ResolveAndCommit(ctx, clockRequest())
	var earlyErr *attendance.EarlyCheckoutError
	require.ErrorAs(t, err, &earlyErr)
	assert.Equal(t, "17:00", earlyErr.Threshold.String())

	// The rejected scan must not have written anything.
	status, err := f.service.CurrentStatus(ctx, "EMP-001", attendance.ModeClock)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusIn, status.Status)

	// 17:05 clock-out: allowed.
	f.clock.Set(mustParse(t, "2026-03-02T17:05:00Z"))
	resp, err = f.service.ResolveAndCommit(ctx, clockRequest())
	require.NoError(t, err)
	assert.Equal(t, "OUT", resp.Action)
	require.NotNil(t, resp.ShiftType)
	assert.Equal(t, "EARLY", *resp.ShiftType)
}

func TestResolveAndCommitLateClockIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.Set(mustParse(t, "2026-03-02T08:30:00Z"))
	resp, err := f.service.ResolveAndCommit(ctx, clockRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Late)
	assert.True(t, *resp.Late)
	require.NotNil(t, resp.ShiftType)
	assert.Equal(t, "REGULAR", *resp.ShiftType)

	// A regular shift cannot leave at 17:05.
	f.clock.Set(mustParse(t, "2026-03-02T17:05:00Z"))
	_, err = f.service.ResolveAndCommit(ctx, clockRequest())
	var earlyErr *attendance.EarlyCheckoutError
	require.ErrorAs(t, err, &earlyErr)
	assert.Equal(t, "17:15", earlyErr.Threshold.String())

	f.clock.Set(mustParse(t, "2026-03-02T17:15:00Z"))
	resp, err = f.service.ResolveAndCommit(ctx, clockRequest())
	require.NoError(t, err)
	assert.Equal(t, "OUT", resp.Action)
}

func TestResolveAndCommitCheckToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fav, err := f.favorites.Create(ctx, location.Favorite{
		ID:        "fav-1",
		Name:      "Client Office",
		Latitude:  -6.2,
		Longitude: 106.8,
	})
	require.NoError(t, err)

	req := attendance.ScanRequest{
		EmployeeID: "EMP-001",
		Mode:       "CHECK",
		Method:     "QR",
	}

	resp, err := f.service.ResolveAndCommit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "IN", resp.Action)
	assert.Nil(t, resp.Late)
	assert.Nil(t, resp.ShiftType)

	// Checkout a minute later with a favorite attached.
	f.clock.Advance(time.Minute)
	req.Location = &attendance.LocationPayload{
		FavoriteID: &fav.ID,
		Name:       fav.Name,
		Latitude:   fav.Latitude,
		Longitude:  fav.Longitude,
	}
	resp, err = f.service.ResolveAndCommit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "OUT", resp.Action)
	require.NotNil(t, resp.Location)
	assert.Equal(t, "Client Office", resp.Location.Name)

	favorites, err := f.favorites.List(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, 1, favorites[0].UseCount)
}

func TestResolveAndCommitRejectsUnknownAndInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := clockRequest()
	req.EmployeeID = "EMP-404"
	_, err := f.service.ResolveAndCommit(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	require.NoError(t, f.employees.Deactivate(ctx, "EMP-001"))
	_, err = f.service.ResolveAndCommit(ctx, clockRequest())
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestResolveAndCommitValidation(t *testing.T) {
	f := newFixture(t)

	req := clockRequest()
	req.Mode = "BREAK"

	_, err := f.service.ResolveAndCommit(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode")
}

// conflictLedger fails the first n conditional appends, then delegates.
type conflictLedger struct {
	attendance.LedgerRepository
	remaining int
}

func (c *conflictLedger) ConditionalAppend(ctx context.Context, expectedLast *attendance.Record, rec attendance.Record) (attendance.Record, error) {
	if c.remaining > 0 {
		c.remaining--
		return attendance.Record{}, attendance.ErrLedgerConflict
	}
	return c.LedgerRepository.ConditionalAppend(ctx, expectedLast, rec)
}

func TestResolveAndCommitRetriesConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	policy := attendance.DefaultPolicy()
	policy.Timezone = time.UTC
	service := NewAttendanceService(
		&conflictLedger{LedgerRepository: f.ledger, remaining: 2},
		f.employees, f.favorites, f.clock, policy,
		metrics.New(prometheus.NewRegistry()),
	)

	resp, err := service.ResolveAndCommit(ctx, clockRequest())
	require.NoError(t, err)
	assert.Equal(t, "IN", resp.Action)
}

func TestResolveAndCommitConflictExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	policy := attendance.DefaultPolicy()
	policy.Timezone = time.UTC
	service := NewAttendanceService(
		&conflictLedger{LedgerRepository: f.ledger, remaining: 10},
		f.employees, f.favorites, f.clock, policy,
		metrics.New(prometheus.NewRegistry()),
	)

	_, err := service.ResolveAndCommit(ctx, clockRequest())
	assert.ErrorIs(t, err, attendance.ErrLedgerConflict)
}

func TestResolveDurationUsesWallClock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registry := prometheus.NewRegistry()
	policy := attendance.DefaultPolicy()
	policy.Timezone = time.UTC
	service := NewAttendanceService(
		f.ledger, f.employees, f.favorites, f.clock, policy,
		metrics.New(registry),
	)

	_, err := service.ResolveAndCommit(ctx, clockRequest())
	require.NoError(t, err)

	// The fake clock sits at a fixed instant far from the wall clock. The
	// latency histogram must not see that gap, only the real elapsed time.
	families, err := registry.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range families {
		if mf.GetName() != "attendance_resolve_duration_seconds" {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		hist := mf.GetMetric()[0].GetHistogram()
		require.NotNil(t, hist)
		assert.Equal(t, uint64(1), hist.GetSampleCount())
		assert.Less(t, hist.GetSampleSum(), 60.0)
		assert.GreaterOrEqual(t, hist.GetSampleSum(), 0.0)
	}
	require.True(t, found, "resolve duration histogram not registered")
}

func TestCurrentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, err := f.service.CurrentStatus(ctx, "EMP-001", attendance.ModeClock)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusNeverSeen, status.Status)
	assert.Nil(t, status.LastTimestamp)

	_, err = f.service.ResolveAndCommit(ctx, clockRequest())
	require.NoError(t, err)

	status, err = f.service.CurrentStatus(ctx, "EMP-001", attendance.ModeClock)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusIn, status.Status)
	require.NotNil(t, status.LastTimestamp)
	require.NotNil(t, status.ShiftType)
	assert.Equal(t, "EARLY", *status.ShiftType)

	// The CHECK stream is independent and still empty.
	status, err = f.service.CurrentStatus(ctx, "EMP-001", attendance.ModeCheck)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusNeverSeen, status.Status)

	_, err = f.service.CurrentStatus(ctx, "EMP-404", attendance.ModeClock)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestListRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ResolveAndCommit(ctx, clockRequest())
	require.NoError(t, err)

	f.clock.Set(mustParse(t, "2026-03-02T17:05:00Z"))
	_, err = f.service.ResolveAndCommit(ctx, clockRequest())
	require.NoError(t, err)

	resp, err := f.service.ListRecords(ctx, attendance.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Records, 2)
	// Default sort is newest first.
	assert.Equal(t, "OUT", resp.Records[0].Action)

	mode := "CHECK"
	resp, err = f.service.ListRecords(ctx, attendance.RecordFilter{Mode: &mode})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.TotalCount)
	assert.Empty(t, resp.Records)

	resp, err = f.service.ListRecords(ctx, attendance.RecordFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 2, resp.TotalPages)
	require.Len(t, resp.Records, 1)
}
