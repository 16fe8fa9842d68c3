package prediction

import "time"

// Risk bucket thresholds over absence probability.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskLevel buckets an absence probability: low < 0.3, medium < 0.6, else high.
func RiskLevel(absenceProb float64) string {
	switch {
	case absenceProb < 0.3:
		return RiskLow
	case absenceProb < 0.6:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Grade maps a 0-100 performance score to a letter grade.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 65:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// DailyForecast is one day of an attendance forecast.
type DailyForecast struct {
	Date                string  `json:"date"`
	DayName             string  `json:"day_name"`
	PresenceProbability float64 `json:"presence_probability"`
	AbsenceProbability  float64 `json:"absence_probability"`
	RiskLevel           string  `json:"risk_level"`
}

// AttendanceForecast is the 7-business-day forecast for one employee.
type AttendanceForecast struct {
	EmployeeID     int64           `json:"employee_id"`
	EmployeeCode   string          `json:"employee_code"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Predictions    []DailyForecast `json:"predictions"`
	AvgAbsenceRisk float64         `json:"avg_absence_risk"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// AttendanceSummary is the per-employee row of a bulk forecast, sorted by risk.
type AttendanceSummary struct {
	EmployeeID         int64   `json:"employee_id"`
	EmployeeCode       string  `json:"employee_code"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	AvgAbsenceRisk     float64 `json:"avg_absence_risk"`
	RiskLevel          string  `json:"risk_level"`
	NextDayAbsenceProb float64 `json:"next_day_absence_prob"`
}

// PerformanceBreakdown is the human-readable decomposition behind a score.
type PerformanceBreakdown struct {
	AttendanceRate float64 `json:"attendance_rate"`
	AvgHoursWorked float64 `json:"avg_hours_worked"`
	LateRate       float64 `json:"late_rate"`
	SkillCount     int     `json:"skill_count"`
	AvgSkillLevel  float64 `json:"avg_skill_level"`
	TenureMonths   float64 `json:"tenure_months"`
	OvertimeRatio  float64 `json:"overtime_ratio"`
}

// PerformanceResult is one employee's score, grade, and breakdown.
type PerformanceResult struct {
	EmployeeID       int64                 `json:"employee_id"`
	EmployeeCode     string                `json:"employee_code"`
	FirstName        string                `json:"first_name"`
	LastName         string                `json:"last_name"`
	PerformanceScore float64               `json:"performance_score"`
	Grade            string                `json:"grade"`
	Breakdown        *PerformanceBreakdown `json:"breakdown,omitempty"`
	AttendanceRate   float64               `json:"attendance_rate"`
	SkillCount       int                   `json:"skill_count"`
	GeneratedAt      *time.Time            `json:"generated_at,omitempty"`
}

// AttendanceKPIs aggregates bulk forecasts for the dashboard. Error is set
// instead of the numbers when that sub-aggregation failed.
type AttendanceKPIs struct {
	PredictedAbsenceRate float64             `json:"predicted_absence_rate"`
	HighRiskEmployees    int                 `json:"high_risk_employees"`
	MediumRiskEmployees  int                 `json:"medium_risk_employees"`
	TotalAnalyzed        int                 `json:"total_analyzed"`
	TopAtRisk            []AttendanceSummary `json:"top_at_risk,omitempty"`
	Error                string              `json:"error,omitempty"`
}

// PerformanceKPIs aggregates bulk performance scores for the dashboard.
type PerformanceKPIs struct {
	AvgPerformance    float64             `json:"avg_performance"`
	MinPerformance    float64             `json:"min_performance"`
	MaxPerformance    float64             `json:"max_performance"`
	TotalScored       int                 `json:"total_scored"`
	GradeDistribution map[string]int      `json:"grade_distribution,omitempty"`
	TopPerformers     []PerformanceResult `json:"top_performers,omitempty"`
	NeedsImprovement  []PerformanceResult `json:"needs_improvement,omitempty"`
	Error             string              `json:"error,omitempty"`
}

// DashboardKPIs combines both prediction signals. A failure in one section
// never blanks out the other.
type DashboardKPIs struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Attendance  *AttendanceKPIs  `json:"attendance_predictions,omitempty"`
	Performance *PerformanceKPIs `json:"performance_scores,omitempty"`
}
