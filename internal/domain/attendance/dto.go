package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-core-go/internal/pkg/validator"
)

// ========================================
// SCAN DTOs
// ========================================

type LocationPayload struct {
	FavoriteID *string `json:"favorite_id,omitempty"`
	Name       string  `json:"name"`
	Address    string  `json:"address,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// ScanRequest carries one capture event from a kiosk front end.
type ScanRequest struct {
	EmployeeID string           `json:"employee_id"`
	Mode       string           `json:"mode"`   // CLOCK, CHECK
	Method     string           `json:"method"` // FACE, QR, MANUAL
	Location   *LocationPayload `json:"location,omitempty"`
	Confidence *float64         `json:"confidence,omitempty"` // FACE only
}

func (r *ScanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	r.Mode = strings.ToUpper(strings.TrimSpace(r.Mode))
	if !Mode(r.Mode).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "mode",
			Message: "mode must be one of: CLOCK, CHECK",
		})
	}

	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if !Method(r.Method).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of: FACE, QR, MANUAL",
		})
	}

	if r.Confidence != nil {
		if Method(r.Method) != MethodFace {
			errs = append(errs, validator.ValidationError{
				Field:   "confidence",
				Message: "confidence is only accepted for the FACE method",
			})
		} else if *r.Confidence < 0 || *r.Confidence > 1 {
			errs = append(errs, validator.ValidationError{
				Field:   "confidence",
				Message: "confidence must be between 0 and 1",
			})
		}
	}

	if r.Location != nil {
		if validator.IsEmpty(r.Location.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "location.name",
				Message: "location name is required when a location is supplied",
			})
		}
		if r.Location.Latitude < -90 || r.Location.Latitude > 90 {
			errs = append(errs, validator.ValidationError{
				Field:   "location.latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if r.Location.Longitude < -180 || r.Location.Longitude > 180 {
			errs = append(errs, validator.ValidationError{
				Field:   "location.longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToScan builds the resolver input for this request at the given instant.
func (r *ScanRequest) ToScan(at time.Time) Scan {
	scan := Scan{
		EmployeeID: r.EmployeeID,
		Mode:       Mode(r.Mode),
		Method:     Method(r.Method),
		Time:       at,
		Confidence: r.Confidence,
	}
	if r.Location != nil {
		scan.Location = &Location{
			Name:      r.Location.Name,
			Address:   r.Location.Address,
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
		}
	}
	return scan
}

// ========================================
// RECORD DTOs
// ========================================

type RecordResponse struct {
	ID         string           `json:"id"`
	EmployeeID string           `json:"employee_id"`
	Mode       string           `json:"mode"`
	Action     string           `json:"action"`
	Timestamp  string           `json:"timestamp"`
	Late       *bool            `json:"late,omitempty"`
	ShiftType  *string          `json:"shift_type,omitempty"`
	Method     string           `json:"method"`
	Location   *LocationPayload `json:"location,omitempty"`
	Confidence *float64         `json:"confidence,omitempty"`
	CreatedAt  string           `json:"created_at"`
}

func NewRecordResponse(rec Record) RecordResponse {
	resp := RecordResponse{
		ID:         rec.ID,
		EmployeeID: rec.EmployeeID,
		Mode:       string(rec.Mode),
		Action:     string(rec.Action),
		Timestamp:  rec.Timestamp.Format(time.RFC3339),
		Late:       rec.Late,
		Method:     string(rec.Method),
		Confidence: rec.Confidence,
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.ShiftType != nil {
		shift := string(*rec.ShiftType)
		resp.ShiftType = &shift
	}
	if rec.Location != nil {
		resp.Location = &LocationPayload{
			Name:      rec.Location.Name,
			Address:   rec.Location.Address,
			Latitude:  rec.Location.Latitude,
			Longitude: rec.Location.Longitude,
		}
	}
	return resp
}

// ========================================
// STATUS DTOs
// ========================================

// Status values reported by CurrentStatus.
const (
	StatusIn        = "IN"
	StatusOut       = "OUT"
	StatusNeverSeen = "NEVER_SEEN"
)

type StatusResponse struct {
	EmployeeID    string  `json:"employee_id"`
	Mode          string  `json:"mode"`
	Status        string  `json:"status"` // IN, OUT, NEVER_SEEN
	LastTimestamp *string `json:"last_timestamp,omitempty"`
	Late          *bool   `json:"late,omitempty"`
	ShiftType     *string `json:"shift_type,omitempty"`
}

// ========================================
// LIST DTOs
// ========================================

type RecordFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Mode       *string `json:"mode,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Mode != nil && *f.Mode != "" {
		upper := strings.ToUpper(*f.Mode)
		f.Mode = &upper
		if !Mode(upper).Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "mode",
				Message: "mode must be one of: CLOCK, CHECK",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
