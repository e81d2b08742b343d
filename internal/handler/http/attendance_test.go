package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/config"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-core-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-core-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/attendance-core-go/internal/service/employee"
	locationService "github.com/cmlabs-hris/attendance-core-go/internal/service/location"
	reportService "github.com/cmlabs-hris/attendance-core-go/internal/service/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testKioskKey  = "shared-kiosk-key"
	testJWTSecret = "test-secret-key-for-jwt"
)

type routerFixture struct {
	router http.Handler
	clock  *clock.Fake
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctx := context.Background()

	keyHash, err := bcrypt.GenerateFromPassword([]byte(testKioskKey), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.Expiration = "1h"
	cfg.Kiosk.KeyHash = string(keyHash)

	ledger := memory.NewLedgerRepository()
	employees := memory.NewEmployeeRepository()
	favorites := memory.NewFavoriteRepository()
	fake := clock.NewFake(mustParse(t, "2026-03-02T07:45:00Z"))

	policy := attendance.DefaultPolicy()
	policy.Timezone = time.UTC

	_, err = employees.Create(ctx, employee.Employee{
		EmployeeID: "EMP-001",
		Name:       "Ayu Lestari",
		Active:     true,
	})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiration)

	attendanceSvc := attendanceService.NewAttendanceService(
		ledger, employees, favorites, fake, policy, metrics.New(registry),
	)
	employeeSvc := employeeService.NewEmployeeService(employees)
	locationSvc := locationService.NewLocationService(favorites)
	reportSvc := reportService.NewReportService(ledger, employees, fake, policy)

	router := NewRouter(
		cfg,
		jwtService,
		registry,
		NewAuthHandler(jwtService, cfg.Kiosk.KeyHash),
		NewAttendanceHandler(attendanceSvc),
		NewEmployeeHandler(employeeSvc),
		NewLocationHandler(locationSvc),
		NewReportHandler(reportSvc),
	)

	return &routerFixture{router: router, clock: fake}
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *routerFixture) login(t *testing.T) string {
	t.Helper()

	rr := f.do(t, http.MethodPost, "/api/v1/auth/kiosk", "", map[string]string{
		"kiosk_id": "kiosk-lobby-1",
		"key":      testKioskKey,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data KioskLoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestKioskLogin(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("valid key returns a token", func(t *testing.T) {
		token := f.login(t)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong key is unauthorized", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/auth/kiosk", "", map[string]string{
			"kiosk_id": "kiosk-lobby-1",
			"key":      "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/api/v1/auth/kiosk", "", map[string]string{})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestScanRequiresKioskToken(t *testing.T) {
	f := newRouterFixture(t)

	rr := f.do(t, http.MethodPost, "/api/v1/attendance/scan", "", map[string]string{
		"employee_id": "EMP-001",
		"mode":        "CLOCK",
		"method":      "MANUAL",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestScanEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	scanBody := map[string]string{
		"employee_id": "EMP-001",
		"mode":        "CLOCK",
		"method":      "MANUAL",
	}

	// Clock in at 07:45.
	rr := f.do(t, http.MethodPost, "/api/v1/attendance/scan", token, scanBody)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Data attendance.RecordResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "IN", created.Data.Action)
	require.NotNil(t, created.Data.ShiftType)
	assert.Equal(t, "EARLY", *created.Data.ShiftType)

	// 16:30 clock-out is rejected with the threshold in the details.
	f.clock.Set(mustParse(t, "2026-03-02T16:30:00Z"))
	rr = f.do(t, http.MethodPost, "/api/v1/attendance/scan", token, scanBody)
	require.Equal(t, http.StatusConflict, rr.Code)

	var conflict struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &conflict))
	assert.Equal(t, "17:00", conflict.Error.Details["earliest_allowed"])
	assert.Equal(t, "EARLY", conflict.Error.Details["shift_type"])

	// 17:05 clock-out lands.
	f.clock.Set(mustParse(t, "2026-03-02T17:05:00Z"))
	rr = f.do(t, http.MethodPost, "/api/v1/attendance/scan", token, scanBody)
	require.Equal(t, http.StatusCreated, rr.Code)

	// Unknown employee is a 404.
	rr = f.do(t, http.MethodPost, "/api/v1/attendance/scan", token, map[string]string{
		"employee_id": "EMP-404",
		"mode":        "CLOCK",
		"method":      "MANUAL",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Bad mode is a validation error.
	rr = f.do(t, http.MethodPost, "/api/v1/attendance/scan", token, map[string]string{
		"employee_id": "EMP-001",
		"mode":        "BREAK",
		"method":      "MANUAL",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestStatusAndListEndpoints(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rr := f.do(t, http.MethodGet, "/api/v1/attendance/status/EMP-001", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var status struct {
		Data attendance.StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, "NEVER_SEEN", status.Data.Status)

	rr = f.do(t, http.MethodPost, "/api/v1/attendance/scan", token, map[string]string{
		"employee_id": "EMP-001",
		"mode":        "CHECK",
		"method":      "QR",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/v1/attendance/status/EMP-001?mode=check", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, "IN", status.Data.Status)

	rr = f.do(t, http.MethodGet, "/api/v1/attendance/records?mode=CHECK", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list struct {
		Data []attendance.RecordResponse `json:"data"`
		Meta struct {
			TotalItems int64 `json:"total_items"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Meta.TotalItems)
	require.Len(t, list.Data, 1)

	rr = f.do(t, http.MethodGet, "/api/v1/attendance/status/EMP-001?mode=BREAK", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEmployeeEndpoints(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rr := f.do(t, http.MethodPost, "/api/v1/employees/", token, map[string]string{
		"employee_id": "EMP-002",
		"name":        "Budi Santoso",
		"department":  "Operations",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	// Duplicate id conflicts.
	rr = f.do(t, http.MethodPost, "/api/v1/employees/", token, map[string]string{
		"employee_id": "EMP-002",
		"name":        "Budi Santoso",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/v1/employees/", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodDelete, "/api/v1/employees/EMP-002", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodDelete, "/api/v1/employees/EMP-404", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLocationEndpoints(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rr := f.do(t, http.MethodPost, "/api/v1/locations/favorites", token, map[string]interface{}{
		"name":      "Client Office",
		"latitude":  -6.2,
		"longitude": 106.8,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	rr = f.do(t, http.MethodGet, "/api/v1/locations/favorites", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodDelete, "/api/v1/locations/favorites/"+created.Data.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// Out-of-range coordinates fail validation.
	rr = f.do(t, http.MethodPost, "/api/v1/locations/favorites", token, map[string]interface{}{
		"name":     "Broken",
		"latitude": 120.0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestReportEndpoints(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t)

	rr := f.do(t, http.MethodPost, "/api/v1/attendance/scan", token, map[string]string{
		"employee_id": "EMP-001",
		"mode":        "CLOCK",
		"method":      "MANUAL",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/v1/reports/daily?date=2026-03-02", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var daily struct {
		Data struct {
			Date      string `json:"date"`
			Employees []struct {
				EmployeeID  string `json:"employee_id"`
				ClockStatus string `json:"clock_status"`
			} `json:"employees"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &daily))
	require.Len(t, daily.Data.Employees, 1)
	assert.Equal(t, "IN", daily.Data.Employees[0].ClockStatus)

	rr = f.do(t, http.MethodGet, "/api/v1/reports/statistics?days=7", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/v1/reports/daily?date=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
