package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// ErrLedgerConflict means the ledger's last record changed between read
	// and append. The service retries the whole cycle; it only surfaces when
	// retries are exhausted.
	ErrLedgerConflict = errors.New("attendance ledger changed during resolution")

	// ErrLedgerIntegrity means the stored record stream violates the IN/OUT
	// alternation contract. This indicates a writer bypassed the conditional
	// append; it is never repaired by guessing.
	ErrLedgerIntegrity = errors.New("attendance ledger integrity violation")

	ErrRecordNotFound = errors.New("attendance record not found")
)

// EarlyCheckoutError rejects a CLOCK clock-out attempted before the shift's
// minimum checkout time. It is the only policy rejection in the system: the
// employee stays clocked in and no record is written.
type EarlyCheckoutError struct {
	Shift     ShiftType
	Threshold TimeOfDay
}

func (e *EarlyCheckoutError) Error() string {
	return fmt.Sprintf("cannot clock out before %s (%s shift)", e.Threshold, e.Shift)
}
