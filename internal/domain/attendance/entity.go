package attendance

import (
	"context"
	"time"
)

// Record is one attendance row per employee per calendar day. ClockIn and
// ClockOut hold the raw time-of-day text from the store; a nil ClockIn means
// the employee was absent that day. WorkHours is the recorded worked duration
// in hours for present days.
type Record struct {
	ID               int64
	EmployeeID       int64
	Date             time.Time
	ClockIn          *string
	ClockOut         *string
	WorkHours        *float64
	JustifiedAbsence bool
}

// Repository reads attendance records from the platform store.
type Repository interface {
	// ListSince returns records on or after the cutoff date, ordered by
	// employee then date, optionally filtered to one employee.
	ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]Record, error)
}
