package attendance

import (
	"fmt"
	"time"
)

// Scan is a single capture event handed over by a scan front end. The front
// end guarantees EmployeeID refers to a known employee and that Method and
// Confidence were validated before reaching the resolver.
type Scan struct {
	EmployeeID string
	Mode       Mode
	Method     Method
	Time       time.Time
	Location   *Location
	Confidence *float64
}

// Resolve computes the next legal record for a scan given the most recent
// record of the same (employee, mode) stream, or returns the rejection that
// applies. last is nil when the employee has never had an event in this mode.
//
// Resolve is a pure function of its inputs: it performs no I/O and reads no
// global state, so concurrent kiosks can run it freely. Serialization of the
// outcome is the ledger writer's job.
func Resolve(policy Policy, scan Scan, last *Record) (Record, error) {
	if last != nil {
		if last.EmployeeID != scan.EmployeeID || last.Mode != scan.Mode {
			return Record{}, fmt.Errorf("%w: last record belongs to (%s, %s), scan is (%s, %s)",
				ErrLedgerIntegrity, last.EmployeeID, last.Mode, scan.EmployeeID, scan.Mode)
		}
		if !last.Action.Valid() {
			return Record{}, fmt.Errorf("%w: unknown action %q on record %s",
				ErrLedgerIntegrity, last.Action, last.ID)
		}
	}

	switch scan.Mode {
	case ModeClock:
		return resolveClock(policy, scan, last)
	case ModeCheck:
		return resolveCheck(scan, last), nil
	default:
		return Record{}, fmt.Errorf("unsupported attendance mode %q", scan.Mode)
	}
}

func resolveClock(policy Policy, scan Scan, last *Record) (Record, error) {
	localTime := TimeOfDayFrom(scan.Time.In(policy.Timezone))

	if last == nil || last.Action == ActionOut {
		// Clock-in. Never rejected: an employee is always allowed in, even
		// late. Lateness is informational only.
		late := !localTime.Before(policy.LateCutoff)
		shift := ShiftEarly
		if late {
			shift = ShiftRegular
		}
		return Record{
			EmployeeID: scan.EmployeeID,
			Mode:       ModeClock,
			Action:     ActionIn,
			Timestamp:  scan.Time,
			Late:       &late,
			ShiftType:  &shift,
			Method:     scan.Method,
			Confidence: scan.Confidence,
		}, nil
	}

	// Clock-out. The threshold comes from the paired clock-in's shift type,
	// and only local time-of-day is compared: a clock-in left open overnight
	// is still closable the next day once the time-of-day threshold is met.
	if last.ShiftType == nil {
		return Record{}, fmt.Errorf("%w: open clock-in %s has no shift type",
			ErrLedgerIntegrity, last.ID)
	}
	threshold := policy.MinClockOut(*last.ShiftType)
	if localTime.Before(threshold) {
		return Record{}, &EarlyCheckoutError{Shift: *last.ShiftType, Threshold: threshold}
	}

	shift := *last.ShiftType
	return Record{
		EmployeeID: scan.EmployeeID,
		Mode:       ModeClock,
		Action:     ActionOut,
		Timestamp:  scan.Time,
		ShiftType:  &shift,
		Method:     scan.Method,
		Confidence: scan.Confidence,
	}, nil
}

// resolveCheck toggles presence with no time restriction and no lateness.
// A location may ride along on checkout; its absence never blocks anything.
func resolveCheck(scan Scan, last *Record) Record {
	rec := Record{
		EmployeeID: scan.EmployeeID,
		Mode:       ModeCheck,
		Action:     ActionIn,
		Timestamp:  scan.Time,
		Method:     scan.Method,
		Confidence: scan.Confidence,
	}
	if last != nil && last.Action == ActionIn {
		rec.Action = ActionOut
		rec.Location = scan.Location
	}
	return rec
}
