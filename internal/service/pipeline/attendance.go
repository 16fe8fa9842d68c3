package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/tactic-hr/insights-backend-go/internal/domain/attendance"
)

// AttendanceFeatures aggregates the trailing-window attendance records into
// one vector per employee. Employees without any record in the window are
// omitted. Pass a nil employeeID for all active employees.
func (p *Pipeline) AttendanceFeatures(ctx context.Context, employeeID *int64) ([]Vector, error) {
	records, err := p.attendance.ListSince(ctx, p.cutoff(), employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance data: %w", err)
	}
	employees, err := p.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if len(records) == 0 || len(employees) == 0 {
		return nil, nil
	}

	byEmployee := make(map[int64][]attendance.Record)
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}

	ids := make([]int64, 0, len(employees))
	if employeeID != nil {
		ids = append(ids, *employeeID)
	} else {
		for _, e := range employees {
			ids = append(ids, e.ID)
		}
	}

	var features []Vector
	for _, id := range ids {
		recs := byEmployee[id]
		if len(recs) == 0 {
			continue
		}
		features = append(features, attendanceVector(id, recs))
	}

	return features, nil
}

func attendanceVector(employeeID int64, recs []attendance.Record) Vector {
	totalDays := len(recs)
	presentDays := 0
	for _, r := range recs {
		if r.ClockIn != nil {
			presentDays++
		}
	}
	absentDays := totalDays - presentDays

	// Hours, lateness, and overtime only consider days with a recorded
	// worked duration.
	var hoursSum float64
	hoursDays := 0
	lateCount := 0
	earlyCount := 0
	overtimeDays := 0
	for _, r := range recs {
		if r.WorkHours == nil {
			continue
		}
		hoursSum += *r.WorkHours
		hoursDays++
		if isLate(r.ClockIn) {
			lateCount++
		}
		if r.ClockOut != nil && isEarlyDeparture(r.ClockOut) {
			earlyCount++
		}
		if *r.WorkHours > 8 {
			overtimeDays++
		}
	}

	justifiedCount := 0
	for _, r := range recs {
		if r.JustifiedAbsence {
			justifiedCount++
		}
	}

	values := map[string]float64{
		"total_days":              float64(totalDays),
		"present_days":            float64(presentDays),
		"absent_days":             float64(absentDays),
		"presence_rate":           ratio(float64(presentDays), float64(totalDays)),
		"avg_hours_worked":        ratio(hoursSum, float64(hoursDays)),
		"late_rate":               ratio(float64(lateCount), float64(presentDays)),
		"early_departure_rate":    ratio(float64(earlyCount), float64(presentDays)),
		"justified_absence_ratio": ratio(float64(justifiedCount), float64(absentDays)),
		"overtime_ratio":          ratio(float64(overtimeDays), float64(presentDays)),
		"max_attendance_streak":   float64(longestPresentStreak(recs)),
	}

	// Weekday absence rates, Monday through Friday, each computed only over
	// the days that exist for that weekday.
	for dow := 0; dow < 5; dow++ {
		dowTotal, dowAbsent := 0, 0
		for _, r := range recs {
			if weekdayIndex(r.Date) != dow {
				continue
			}
			dowTotal++
			if r.ClockIn == nil {
				dowAbsent++
			}
		}
		values[fmt.Sprintf("dow_%d_absence_rate", dow)] = ratio(float64(dowAbsent), float64(dowTotal))
	}

	return Vector{EmployeeID: employeeID, Values: values}
}

// longestPresentStreak is the longest run of consecutive present days in
// date order.
func longestPresentStreak(recs []attendance.Record) int {
	sorted := make([]attendance.Record, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	maxStreak, current := 0, 0
	for _, r := range sorted {
		if r.ClockIn != nil {
			current++
			if current > maxStreak {
				maxStreak = current
			}
		} else {
			current = 0
		}
	}
	return maxStreak
}
