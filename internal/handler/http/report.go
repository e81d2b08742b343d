package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-core-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/validator"
)

type ReportHandler interface {
	DailySummary(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// DailySummary implements ReportHandler. Defaults to today when no date is
// given.
func (h *reportHandlerImpl) DailySummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, valid := validator.IsValidDate(date); !valid {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
		return
	}

	result, err := h.reportService.DailySummary(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Statistics implements ReportHandler.
func (h *reportHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r.URL.Query().Get("days"))
	if days < 0 || days > 365 {
		response.BadRequest(w, "days must be between 1 and 365", nil)
		return
	}

	result, err := h.reportService.Statistics(r.Context(), days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
