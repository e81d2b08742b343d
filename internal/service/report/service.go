package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/clock"
)

type ReportServiceImpl struct {
	ledger    attendance.LedgerRepository
	employees employee.EmployeeRepository
	clock     clock.Clock
	policy    attendance.Policy
}

func NewReportService(
	ledger attendance.LedgerRepository,
	employees employee.EmployeeRepository,
	clk clock.Clock,
	policy attendance.Policy,
) report.ReportService {
	return &ReportServiceImpl{
		ledger:    ledger,
		employees: employees,
		clock:     clk,
		policy:    policy,
	}
}

// DailySummary implements report.ReportService.
func (s *ReportServiceImpl) DailySummary(ctx context.Context, dateLocal string) (report.DailySummaryResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", dateLocal, s.policy.Timezone)
	if err != nil {
		return report.DailySummaryResponse{}, fmt.Errorf("invalid date %q: %w", dateLocal, err)
	}

	records, err := s.ledger.ListByRange(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return report.DailySummaryResponse{}, err
	}

	employees, err := s.employees.List(ctx)
	if err != nil {
		return report.DailySummaryResponse{}, err
	}

	// Records come back in ascending timestamp order, so per stream the last
	// seen record wins.
	byEmployee := make(map[string][]attendance.Record)
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}

	summaries := make([]report.EmployeeDaySummary, 0, len(employees))
	for _, emp := range employees {
		summaries = append(summaries, summarizeDay(emp, byEmployee[emp.EmployeeID]))
	}

	return report.DailySummaryResponse{
		Date:      dateLocal,
		Employees: summaries,
	}, nil
}

func summarizeDay(emp employee.Employee, records []attendance.Record) report.EmployeeDaySummary {
	summary := report.EmployeeDaySummary{
		EmployeeID:  emp.EmployeeID,
		Name:        emp.Name,
		ClockStatus: attendance.StatusNeverSeen,
		CheckStatus: attendance.StatusNeverSeen,
	}

	var clockIn, clockOut *time.Time
	for _, rec := range records {
		switch rec.Mode {
		case attendance.ModeClock:
			summary.ClockStatus = string(rec.Action)
			if rec.Action == attendance.ActionIn {
				if clockIn == nil {
					t := rec.Timestamp
					clockIn = &t
				}
				summary.Late = rec.Late
			} else {
				t := rec.Timestamp
				clockOut = &t
			}
			if rec.ShiftType != nil {
				shift := string(*rec.ShiftType)
				summary.ShiftType = &shift
			}
		case attendance.ModeCheck:
			summary.CheckStatus = string(rec.Action)
		}
	}

	if clockIn != nil {
		in := clockIn.Format(time.RFC3339)
		summary.ClockInTime = &in
	}
	if clockOut != nil {
		out := clockOut.Format(time.RFC3339)
		summary.ClockOutTime = &out
	}
	if clockIn != nil && clockOut != nil && clockOut.After(*clockIn) {
		hours := clockOut.Sub(*clockIn).Hours()
		summary.WorkedHours = &hours
	}

	return summary
}

// Statistics implements report.ReportService.
func (s *ReportServiceImpl) Statistics(ctx context.Context, days int) (report.StatisticsResponse, error) {
	if days <= 0 {
		days = 7
	}

	now := s.clock.Now().In(s.policy.Timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.policy.Timezone)
	from := today.AddDate(0, 0, -(days - 1))
	to := today.AddDate(0, 0, 1)

	records, err := s.ledger.ListByRange(ctx, from, to)
	if err != nil {
		return report.StatisticsResponse{}, err
	}

	employees, err := s.employees.List(ctx)
	if err != nil {
		return report.StatisticsResponse{}, err
	}

	activeCount := 0
	for _, emp := range employees {
		if emp.Active {
			activeCount++
		}
	}

	// A day counts one employee once, on their first clock-in.
	seen := make(map[string]map[string]bool)
	dailyCounts := make(map[string]int)
	lateCounts := make(map[string]int)
	for _, rec := range records {
		if rec.Mode != attendance.ModeClock || rec.Action != attendance.ActionIn {
			continue
		}
		day := rec.Timestamp.In(s.policy.Timezone).Format("2006-01-02")
		if seen[day] == nil {
			seen[day] = make(map[string]bool)
		}
		if seen[day][rec.EmployeeID] {
			continue
		}
		seen[day][rec.EmployeeID] = true
		dailyCounts[day]++
		if rec.Late != nil && *rec.Late {
			lateCounts[day]++
		}
	}

	// Every day in the window appears, present or not.
	dayKeys := make([]string, 0, days)
	for d := 0; d < days; d++ {
		key := from.AddDate(0, 0, d).Format("2006-01-02")
		dayKeys = append(dayKeys, key)
		if _, ok := dailyCounts[key]; !ok {
			dailyCounts[key] = 0
		}
	}
	sort.Strings(dayKeys)

	total := 0
	for _, key := range dayKeys {
		total += dailyCounts[key]
	}
	average := float64(total) / float64(days)

	rate := 0.0
	if activeCount > 0 {
		rate = average / float64(activeCount) * 100
	}

	return report.StatisticsResponse{
		Days:                   days,
		TotalEmployees:         activeCount,
		AverageDailyAttendance: average,
		AttendanceRatePercent:  rate,
		DailyCounts:            dailyCounts,
		LateCounts:             lateCounts,
	}, nil
}
