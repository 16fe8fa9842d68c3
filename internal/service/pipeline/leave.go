package pipeline

import (
	"context"
	"fmt"

	"github.com/tactic-hr/insights-backend-go/internal/domain/leave"
)

// LeaveFeatures aggregates trailing-window leave requests into one vector per
// active employee. Employees without requests get an all-zero row rather than
// being omitted. Pass a nil employeeID for all active employees.
func (p *Pipeline) LeaveFeatures(ctx context.Context, employeeID *int64) ([]Vector, error) {
	requests, err := p.leaves.ListSince(ctx, p.cutoff(), employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave data: %w", err)
	}
	employees, err := p.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if len(requests) == 0 || len(employees) == 0 {
		return nil, nil
	}

	byEmployee := make(map[int64][]leave.Request)
	for _, req := range requests {
		byEmployee[req.EmployeeID] = append(byEmployee[req.EmployeeID], req)
	}

	ids := make([]int64, 0, len(employees))
	if employeeID != nil {
		ids = append(ids, *employeeID)
	} else {
		for _, e := range employees {
			ids = append(ids, e.ID)
		}
	}

	features := make([]Vector, 0, len(ids))
	for _, id := range ids {
		features = append(features, leaveVector(id, byEmployee[id]))
	}

	return features, nil
}

func leaveVector(employeeID int64, reqs []leave.Request) Vector {
	total := len(reqs)
	if total == 0 {
		return Vector{EmployeeID: employeeID, Values: map[string]float64{
			"total_leave_requests": 0,
			"total_leave_days":     0,
			"sick_leave_ratio":     0,
			"approved_ratio":       0,
			"rejected_ratio":       0,
			"avg_leave_duration":   0,
			"leave_frequency":      0,
		}}
	}

	approvedDays := 0
	approvedCount := 0
	rejectedCount := 0
	sickCount := 0
	durationSum := 0
	for _, r := range reqs {
		durationSum += r.Days()
		switch r.Status {
		case leave.StatusApproved:
			approvedCount++
			approvedDays += r.Days()
		case leave.StatusRejected:
			rejectedCount++
		}
		if r.Type == leave.TypeSick {
			sickCount++
		}
	}

	return Vector{EmployeeID: employeeID, Values: map[string]float64{
		"total_leave_requests": float64(total),
		"total_leave_days":     float64(approvedDays),
		"sick_leave_ratio":     ratio(float64(sickCount), float64(total)),
		"approved_ratio":       ratio(float64(approvedCount), float64(total)),
		"rejected_ratio":       ratio(float64(rejectedCount), float64(total)),
		"avg_leave_duration":   ratio(float64(durationSum), float64(total)),
		// Raw request count over the window.
		"leave_frequency": float64(total),
	}}
}
