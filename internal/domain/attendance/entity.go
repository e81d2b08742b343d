package attendance

import (
	"time"
)

// Mode selects which of the two independent record streams a scan belongs to.
// CLOCK tracks work shifts and carries lateness/duration policy; CHECK is a
// lightweight presence toggle with no time policy.
type Mode string

const (
	ModeClock Mode = "CLOCK"
	ModeCheck Mode = "CHECK"
)

func (m Mode) Valid() bool {
	return m == ModeClock || m == ModeCheck
}

type Action string

const (
	ActionIn  Action = "IN"
	ActionOut Action = "OUT"
)

func (a Action) Valid() bool {
	return a == ActionIn || a == ActionOut
}

// ShiftType is derived once at clock-in and copied onto the paired clock-out,
// so the checkout policy for a shift is fixed even if config changes intraday.
type ShiftType string

const (
	ShiftEarly   ShiftType = "EARLY"
	ShiftRegular ShiftType = "REGULAR"
)

// Method records how the scan was captured. Provenance only, never policy.
type Method string

const (
	MethodFace   Method = "FACE"
	MethodQR     Method = "QR"
	MethodManual Method = "MANUAL"
)

func (m Method) Valid() bool {
	return m == MethodFace || m == MethodQR || m == MethodManual
}

// Location is the optional place attached to a CHECK-mode checkout.
type Location struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
}

// Record is a single immutable attendance event. Records for a given
// (employee, mode) stream strictly alternate IN, OUT, IN, OUT in timestamp
// order; the resolver is the sole enforcer of that alternation.
type Record struct {
	ID         string
	EmployeeID string
	Mode       Mode
	Action     Action
	Timestamp  time.Time
	Late       *bool      // CLOCK clock-in only
	ShiftType  *ShiftType // CLOCK records only
	Method     Method
	Location   *Location // CHECK checkout only
	Confidence *float64  // FACE method only
	CreatedAt  time.Time
}
