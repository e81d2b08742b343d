package attendance

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date, used for the policy
// thresholds. All threshold comparisons in this package work on local
// time-of-day only; the calendar date is never compared.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (24-hour).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// TimeOfDayFrom extracts the time-of-day from an instant, in that instant's
// location. Seconds are truncated, so a 07:59:59 scan still counts as before
// a 08:00 cutoff.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Minutes() < u.Minutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Policy holds the static thresholds applied by the resolver. It is read-only
// for the duration of a single scan resolution.
type Policy struct {
	// LateCutoff is the local time-of-day at/after which a CLOCK clock-in is
	// flagged late. Lateness is informational only and never blocks entry.
	LateCutoff TimeOfDay

	// EarlyShiftMinClockOut is the earliest allowed clock-out for an EARLY
	// shift (clock-in strictly before the late cutoff).
	EarlyShiftMinClockOut TimeOfDay

	// RegularShiftMinClockOut is the earliest allowed clock-out for a REGULAR
	// shift (clock-in at/after the late cutoff).
	RegularShiftMinClockOut TimeOfDay

	// Timezone is the deployment's local timezone. Scan instants are
	// normalized into it before any threshold comparison.
	Timezone *time.Location
}

// DefaultPolicy returns the stock thresholds: late after 08:00, early shift
// out from 17:00, regular shift out from 17:15.
func DefaultPolicy() Policy {
	return Policy{
		LateCutoff:              TimeOfDay{Hour: 8},
		EarlyShiftMinClockOut:   TimeOfDay{Hour: 17},
		RegularShiftMinClockOut: TimeOfDay{Hour: 17, Minute: 15},
		Timezone:                time.Local,
	}
}

// MinClockOut returns the minimum checkout time for a shift type.
func (p Policy) MinClockOut(shift ShiftType) TimeOfDay {
	if shift == ShiftEarly {
		return p.EarlyShiftMinClockOut
	}
	return p.RegularShiftMinClockOut
}
