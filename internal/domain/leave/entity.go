package leave

import (
	"context"
	"time"
)

// Request status values.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// TypeSick is the leave type counted into the sick-leave ratio.
const TypeSick = "SICK"

// Request is a leave request with an inclusive date span.
type Request struct {
	ID         int64
	EmployeeID int64
	Type       string
	StartDate  time.Time
	EndDate    time.Time
	Status     string
}

// Days returns the inclusive span length in days, floored at zero.
func (r Request) Days() int {
	d := int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
	if d < 0 {
		return 0
	}
	return d
}

// Repository reads leave requests from the platform store.
type Repository interface {
	// ListSince returns requests starting on or after the cutoff date,
	// optionally filtered to one employee.
	ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]Request, error)
}
