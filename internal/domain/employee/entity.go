package employee

import (
	"time"
)

// Employee is a directory entry. EmployeeID is the scan identifier handed
// over by the capture front ends; it is unique and immutable.
type Employee struct {
	EmployeeID string
	Name       string
	Department string
	Active     bool
	CreatedAt  time.Time
}
