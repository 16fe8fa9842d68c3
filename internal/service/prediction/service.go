package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/domain/prediction"
	"github.com/tactic-hr/insights-backend-go/internal/model"
	"github.com/tactic-hr/insights-backend-go/internal/service/pipeline"
)

type PredictionServiceImpl struct {
	employees  employee.Repository
	pipeline   *pipeline.Pipeline
	forecaster *model.AttendanceForecaster
	scorer     *model.PerformanceScorer
	logger     *slog.Logger

	now func() time.Time
}

func NewPredictionService(employees employee.Repository, p *pipeline.Pipeline, forecaster *model.AttendanceForecaster, scorer *model.PerformanceScorer, logger *slog.Logger) prediction.PredictionService {
	return &PredictionServiceImpl{
		employees:  employees,
		pipeline:   p,
		forecaster: forecaster,
		scorer:     scorer,
		logger:     logger,
		now:        time.Now,
	}
}

// PredictAttendance forecasts the next seven business days for one
// employee from their most recent attendance window.
func (s *PredictionServiceImpl) PredictAttendance(ctx context.Context, employeeID int64) (*prediction.AttendanceForecast, error) {
	if !s.forecaster.Trained() {
		return nil, model.ErrNotTrained
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	sequences, err := s.pipeline.AttendanceSequences(ctx, pipeline.SequenceLength)
	if err != nil {
		return nil, err
	}
	seqs, ok := sequences[employeeID]
	if !ok {
		return nil, fmt.Errorf("%w: employee %d", prediction.ErrInsufficientHistory, employeeID)
	}

	probs, err := s.forecaster.Predict(seqs[len(seqs)-1].Input)
	if err != nil {
		return nil, err
	}

	today := s.now()
	forecast := make([]prediction.DailyForecast, 0, len(probs))
	totalAbsence := 0.0
	for i, presenceProb := range probs {
		date := today.AddDate(0, 0, i+1)
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}

		absenceProb := 1.0 - presenceProb
		totalAbsence += absenceProb
		forecast = append(forecast, prediction.DailyForecast{
			Date:                date.Format("2006-01-02"),
			DayName:             date.Weekday().String(),
			PresenceProbability: round(presenceProb, 4),
			AbsenceProbability:  round(absenceProb, 4),
			RiskLevel:           prediction.RiskLevel(absenceProb),
		})
	}

	return &prediction.AttendanceForecast{
		EmployeeID:     emp.ID,
		EmployeeCode:   emp.Code,
		FirstName:      emp.FirstName,
		LastName:       emp.LastName,
		Predictions:    forecast,
		AvgAbsenceRisk: round(totalAbsence/float64(len(probs)), 4),
		GeneratedAt:    s.now(),
	}, nil
}

// PredictAttendanceAll forecasts every employee with enough history and
// returns summaries sorted by risk, highest first.
func (s *PredictionServiceImpl) PredictAttendanceAll(ctx context.Context) ([]prediction.AttendanceSummary, error) {
	if !s.forecaster.Trained() {
		return nil, model.ErrNotTrained
	}

	sequences, err := s.pipeline.AttendanceSequences(ctx, pipeline.SequenceLength)
	if err != nil {
		return nil, err
	}
	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	results := []prediction.AttendanceSummary{}
	for _, emp := range employees {
		seqs, ok := sequences[emp.ID]
		if !ok {
			continue
		}

		probs, err := s.forecaster.Predict(seqs[len(seqs)-1].Input)
		if err != nil {
			s.logger.Warn("attendance forecast failed",
				slog.Int64("employee_id", emp.ID), slog.Any("error", err))
			continue
		}

		totalAbsence := 0.0
		for _, p := range probs {
			totalAbsence += 1.0 - p
		}
		avgRisk := totalAbsence / float64(len(probs))

		results = append(results, prediction.AttendanceSummary{
			EmployeeID:         emp.ID,
			EmployeeCode:       emp.Code,
			FirstName:          emp.FirstName,
			LastName:           emp.LastName,
			AvgAbsenceRisk:     round(avgRisk, 4),
			RiskLevel:          prediction.RiskLevel(avgRisk),
			NextDayAbsenceProb: round(1.0-probs[0], 4),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AvgAbsenceRisk > results[j].AvgAbsenceRisk
	})
	return results, nil
}

// GetPerformanceScore scores one employee and explains the inputs behind
// the number.
func (s *PredictionServiceImpl) GetPerformanceScore(ctx context.Context, employeeID int64) (*prediction.PerformanceResult, error) {
	if !s.scorer.Trained() {
		return nil, model.ErrNotTrained
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	vectors, err := s.pipeline.EmployeeFeatures(ctx)
	if err != nil {
		return nil, err
	}
	var vec *pipeline.Vector
	for i := range vectors {
		if vectors[i].EmployeeID == employeeID {
			vec = &vectors[i]
			break
		}
	}
	if vec == nil {
		return nil, employee.ErrEmployeeNotFound
	}

	scores, err := s.scorer.PredictScores([][]float64{model.PerformanceFeatures(vec.Get)})
	if err != nil {
		return nil, err
	}
	score := scores[0]

	generatedAt := s.now()
	return &prediction.PerformanceResult{
		EmployeeID:       emp.ID,
		EmployeeCode:     emp.Code,
		FirstName:        emp.FirstName,
		LastName:         emp.LastName,
		PerformanceScore: round(score, 2),
		Grade:            prediction.Grade(score),
		Breakdown: &prediction.PerformanceBreakdown{
			AttendanceRate: round(vec.Get("presence_rate")*100, 1),
			AvgHoursWorked: round(vec.Get("avg_hours_worked"), 1),
			LateRate:       round(vec.Get("late_rate")*100, 1),
			SkillCount:     int(vec.Get("skill_count")),
			AvgSkillLevel:  round(vec.Get("avg_skill_level"), 1),
			TenureMonths:   math.Round(vec.Get("tenure_months")),
			OvertimeRatio:  round(vec.Get("overtime_ratio")*100, 1),
		},
		AttendanceRate: round(vec.Get("presence_rate")*100, 1),
		SkillCount:     int(vec.Get("skill_count")),
		GeneratedAt:    &generatedAt,
	}, nil
}

// GetPerformanceAll scores every active employee, best first.
func (s *PredictionServiceImpl) GetPerformanceAll(ctx context.Context) ([]prediction.PerformanceResult, error) {
	if !s.scorer.Trained() {
		return nil, model.ErrNotTrained
	}

	vectors, err := s.pipeline.EmployeeFeatures(ctx)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return []prediction.PerformanceResult{}, nil
	}

	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		rows[i] = model.PerformanceFeatures(v.Get)
	}
	scores, err := s.scorer.PredictScores(rows)
	if err != nil {
		return nil, err
	}

	index, err := s.employeeIndex(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]prediction.PerformanceResult, 0, len(vectors))
	for i, v := range vectors {
		emp := index[v.EmployeeID]
		results = append(results, prediction.PerformanceResult{
			EmployeeID:       v.EmployeeID,
			EmployeeCode:     emp.Code,
			FirstName:        emp.FirstName,
			LastName:         emp.LastName,
			PerformanceScore: round(scores[i], 2),
			Grade:            prediction.Grade(scores[i]),
			AttendanceRate:   round(v.Get("presence_rate")*100, 1),
			SkillCount:       int(v.Get("skill_count")),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PerformanceScore > results[j].PerformanceScore
	})
	return results, nil
}

// GetDashboardKPIs aggregates both signals concurrently. Each section
// captures its own failure so one untrained model never hides the other
// section's numbers.
func (s *PredictionServiceImpl) GetDashboardKPIs(ctx context.Context) (*prediction.DashboardKPIs, error) {
	kpis := &prediction.DashboardKPIs{GeneratedAt: s.now()}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		forecasts, err := s.PredictAttendanceAll(gCtx)
		if err != nil {
			s.logger.Warn("attendance predictions unavailable", slog.Any("error", err))
			kpis.Attendance = &prediction.AttendanceKPIs{Error: err.Error()}
			return nil
		}
		if len(forecasts) == 0 {
			return nil
		}

		totalRisk := 0.0
		high, medium := 0, 0
		for _, f := range forecasts {
			totalRisk += f.AvgAbsenceRisk
			switch f.RiskLevel {
			case prediction.RiskHigh:
				high++
			case prediction.RiskMedium:
				medium++
			}
		}
		kpis.Attendance = &prediction.AttendanceKPIs{
			PredictedAbsenceRate: round(totalRisk/float64(len(forecasts))*100, 1),
			HighRiskEmployees:    high,
			MediumRiskEmployees:  medium,
			TotalAnalyzed:        len(forecasts),
			TopAtRisk:            head(forecasts, 5),
		}
		return nil
	})

	g.Go(func() error {
		results, err := s.GetPerformanceAll(gCtx)
		if err != nil {
			s.logger.Warn("performance scores unavailable", slog.Any("error", err))
			kpis.Performance = &prediction.PerformanceKPIs{Error: err.Error()}
			return nil
		}
		if len(results) == 0 {
			return nil
		}

		total := 0.0
		minScore, maxScore := math.Inf(1), math.Inf(-1)
		distribution := map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "F": 0}
		for _, r := range results {
			total += r.PerformanceScore
			minScore = math.Min(minScore, r.PerformanceScore)
			maxScore = math.Max(maxScore, r.PerformanceScore)
			distribution[r.Grade]++
		}

		needsImprovement := []prediction.PerformanceResult{}
		if len(results) >= 5 {
			for i := len(results) - 1; i >= len(results)-5; i-- {
				needsImprovement = append(needsImprovement, results[i])
			}
		}

		kpis.Performance = &prediction.PerformanceKPIs{
			AvgPerformance:    round(total/float64(len(results)), 1),
			MinPerformance:    round(minScore, 1),
			MaxPerformance:    round(maxScore, 1),
			TotalScored:       len(results),
			GradeDistribution: distribution,
			TopPerformers:     head(results, 5),
			NeedsImprovement:  needsImprovement,
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return kpis, nil
}

func (s *PredictionServiceImpl) employeeIndex(ctx context.Context) (map[int64]employee.Employee, error) {
	list, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[int64]employee.Employee, len(list))
	for _, e := range list {
		idx[e.ID] = e
	}
	return idx, nil
}

func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	return items[:n]
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
