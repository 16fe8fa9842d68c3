package pipeline

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tactic-hr/insights-backend-go/internal/domain/attendance"
	"github.com/tactic-hr/insights-backend-go/internal/domain/leave"
)

// Sequence is one sliding-window training sample for the forecaster:
// SequenceLength daily rows of 7 channels paired with the presence flags of
// the following ForecastHorizon days.
//
// Channels per day: presence flag, normalized hours, lateness flag,
// normalized weekday, on-leave flag, month sine, month cosine.
type Sequence struct {
	Input  [][]float64
	Target []float64
}

// AttendanceSequences builds every valid sliding window per employee.
// Employees with fewer than windowLength+ForecastHorizon daily rows are
// skipped entirely.
func (p *Pipeline) AttendanceSequences(ctx context.Context, windowLength int) (map[int64][]Sequence, error) {
	records, err := p.attendance.ListSince(ctx, p.cutoff(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance data: %w", err)
	}
	employees, err := p.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if len(records) == 0 || len(employees) == 0 {
		return map[int64][]Sequence{}, nil
	}

	requests, err := p.leaves.ListSince(ctx, p.cutoff(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load leave data: %w", err)
	}
	leaveDates := approvedLeaveDates(requests)

	byEmployee := make(map[int64][]attendance.Record)
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}

	sequences := make(map[int64][]Sequence)
	for _, e := range employees {
		recs := byEmployee[e.ID]
		if len(recs) < windowLength+ForecastHorizon {
			continue
		}

		sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })

		daily := make([][]float64, len(recs))
		for i, rec := range recs {
			daily[i] = dailyFeatures(rec, leaveDates[e.ID])
		}

		var seqs []Sequence
		for i := 0; i+windowLength+ForecastHorizon <= len(daily); i++ {
			target := make([]float64, ForecastHorizon)
			for j := 0; j < ForecastHorizon; j++ {
				target[j] = daily[i+windowLength+j][0]
			}
			seqs = append(seqs, Sequence{
				Input:  daily[i : i+windowLength],
				Target: target,
			})
		}
		if len(seqs) > 0 {
			sequences[e.ID] = seqs
		}
	}

	return sequences, nil
}

func dailyFeatures(rec attendance.Record, onLeaveDates map[time.Time]bool) []float64 {
	wasPresent := 0.0
	if rec.ClockIn != nil {
		wasPresent = 1.0
	}

	hours := 0.0
	if rec.WorkHours != nil {
		hours = *rec.WorkHours / 12.0
		if hours > 1 {
			hours = 1
		}
	}

	wasLate := 0.0
	if isLate(rec.ClockIn) {
		wasLate = 1.0
	}

	onLeave := 0.0
	if onLeaveDates[dateKey(rec.Date)] {
		onLeave = 1.0
	}

	month := float64(rec.Date.Month())
	return []float64{
		wasPresent,
		hours,
		wasLate,
		float64(weekdayIndex(rec.Date)) / 4.0,
		onLeave,
		math.Sin(2 * math.Pi * month / 12.0),
		math.Cos(2 * math.Pi * month / 12.0),
	}
}

// approvedLeaveDates expands approved requests into per-employee calendar
// day sets.
func approvedLeaveDates(requests []leave.Request) map[int64]map[time.Time]bool {
	dates := make(map[int64]map[time.Time]bool)
	for _, req := range requests {
		if req.Status != leave.StatusApproved {
			continue
		}
		if dates[req.EmployeeID] == nil {
			dates[req.EmployeeID] = make(map[time.Time]bool)
		}
		for d := dateKey(req.StartDate); !d.After(dateKey(req.EndDate)); d = d.AddDate(0, 0, 1) {
			dates[req.EmployeeID][d] = true
		}
	}
	return dates
}
