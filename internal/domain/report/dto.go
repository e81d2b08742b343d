package report

import (
	"context"
)

type ReportService interface {
	// DailySummary aggregates one local calendar day per employee.
	DailySummary(ctx context.Context, dateLocal string) (DailySummaryResponse, error)

	// Statistics aggregates distinct-employee attendance over the past N days.
	Statistics(ctx context.Context, days int) (StatisticsResponse, error)
}

// EmployeeDaySummary is one employee's day as seen by the CLOCK and CHECK
// streams: shift bounds from CLOCK, last presence state from CHECK.
type EmployeeDaySummary struct {
	EmployeeID   string   `json:"employee_id"`
	Name         string   `json:"name"`
	ClockStatus  string   `json:"clock_status"` // IN, OUT, NEVER_SEEN
	CheckStatus  string   `json:"check_status"` // IN, OUT, NEVER_SEEN
	ClockInTime  *string  `json:"clock_in_time,omitempty"`
	ClockOutTime *string  `json:"clock_out_time,omitempty"`
	Late         *bool    `json:"late,omitempty"`
	ShiftType    *string  `json:"shift_type,omitempty"`
	WorkedHours  *float64 `json:"worked_hours,omitempty"`
}

type DailySummaryResponse struct {
	Date      string               `json:"date"`
	Employees []EmployeeDaySummary `json:"employees"`
}

type StatisticsResponse struct {
	Days                   int            `json:"days"`
	TotalEmployees         int            `json:"total_employees"`
	AverageDailyAttendance float64        `json:"average_daily_attendance"`
	AttendanceRatePercent  float64        `json:"attendance_rate_percent"`
	DailyCounts            map[string]int `json:"daily_counts"`
	LateCounts             map[string]int `json:"late_counts"`
}
