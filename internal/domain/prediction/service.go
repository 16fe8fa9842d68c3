package prediction

import "context"

type PredictionService interface {
	// PredictAttendance returns the 7-business-day forecast for one employee.
	PredictAttendance(ctx context.Context, employeeID int64) (*AttendanceForecast, error)

	// PredictAttendanceAll returns per-employee risk summaries, highest risk
	// first. Employees without enough history are silently skipped.
	PredictAttendanceAll(ctx context.Context) ([]AttendanceSummary, error)

	// GetPerformanceScore returns the score, grade, and breakdown for one
	// employee.
	GetPerformanceScore(ctx context.Context, employeeID int64) (*PerformanceResult, error)

	// GetPerformanceAll returns scores for all active employees, best first.
	GetPerformanceAll(ctx context.Context) ([]PerformanceResult, error)

	// GetDashboardKPIs aggregates both signals concurrently. A failure in
	// one section is reported inside that section, not as a request error.
	GetDashboardKPIs(ctx context.Context) (*DashboardKPIs, error)
}
