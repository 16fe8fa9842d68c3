package pipeline

import (
	"strings"
	"time"

	"github.com/tactic-hr/insights-backend-go/internal/domain/attendance"
	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/domain/job"
	"github.com/tactic-hr/insights-backend-go/internal/domain/leave"
)

const (
	// SequenceLength is the number of daily rows fed to the forecaster.
	SequenceLength = 30
	// ForecastHorizon is the number of days the forecaster predicts ahead.
	ForecastHorizon = 7
)

// Vector is a named feature mapping for one employee (or one employee against
// one job post). Vectors are rebuilt on demand from raw records and never
// persisted.
type Vector struct {
	EmployeeID int64
	Values     map[string]float64
}

// Get returns the value for key, 0 when the key is absent.
func (v Vector) Get(key string) float64 {
	return v.Values[key]
}

// Matrix extracts the given columns from vectors into row-major form.
// Absent keys read as 0, preserving the engineer-declared column order.
func Matrix(vectors []Vector, cols []string) [][]float64 {
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = v.Get(c)
		}
		rows[i] = row
	}
	return rows
}

// Pipeline turns raw operational records into feature vectors and temporal
// sequences for the scoring models.
type Pipeline struct {
	employees  employee.Repository
	attendance attendance.Repository
	leaves     leave.Repository
	jobs       job.Repository

	windowMonths int
	now          func() time.Time
}

func New(employees employee.Repository, att attendance.Repository, leaves leave.Repository, jobs job.Repository, windowMonths int) *Pipeline {
	return &Pipeline{
		employees:    employees,
		attendance:   att,
		leaves:       leaves,
		jobs:         jobs,
		windowMonths: windowMonths,
		now:          time.Now,
	}
}

// cutoff is the start of the trailing feature window.
func (p *Pipeline) cutoff() time.Time {
	return p.now().AddDate(0, 0, -p.windowMonths*30)
}

// parseClock parses a raw "HH:MM" or "HH:MM:SS" time-of-day value. Malformed
// values report ok=false; callers fall back to the conservative default
// instead of failing the feature build.
func parseClock(raw string) (hour, minute int, ok bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}

// isLate reports whether a clock-in value is after 08:30. Malformed values
// count as not late.
func isLate(clockIn *string) bool {
	if clockIn == nil {
		return false
	}
	h, m, ok := parseClock(*clockIn)
	if !ok {
		return false
	}
	return h > 8 || (h == 8 && m > 30)
}

// isEarlyDeparture reports whether a clock-out value is before 17:00.
// Malformed values count as not early.
func isEarlyDeparture(clockOut *string) bool {
	if clockOut == nil {
		return false
	}
	h, _, ok := parseClock(*clockOut)
	if !ok {
		return false
	}
	return h < 17
}

// weekdayIndex maps a date to 0=Monday .. 6=Sunday.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// dateKey normalizes a timestamp to its calendar day.
func dateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ratio returns num/den, 0 under a zero denominator.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
