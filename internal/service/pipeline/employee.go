package pipeline

import (
	"context"
	"fmt"

	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
)

// EmployeeFeatures left-merges attendance aggregates, leave aggregates, skill
// aggregates, and tenure into one composite vector per active employee.
// Missing merge results fill to zero, never null.
func (p *Pipeline) EmployeeFeatures(ctx context.Context) ([]Vector, error) {
	employees, err := p.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if len(employees) == 0 {
		return nil, nil
	}

	attFeatures, err := p.AttendanceFeatures(ctx, nil)
	if err != nil {
		return nil, err
	}
	leaveFeatures, err := p.LeaveFeatures(ctx, nil)
	if err != nil {
		return nil, err
	}
	skills, err := p.employees.ListSkills(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee skills: %w", err)
	}

	attByID := indexByEmployee(attFeatures)
	leaveByID := indexByEmployee(leaveFeatures)
	skillsByID := make(map[int64][]employee.Skill)
	for _, s := range skills {
		skillsByID[s.EmployeeID] = append(skillsByID[s.EmployeeID], s)
	}

	now := p.now()
	features := make([]Vector, 0, len(employees))
	for _, e := range employees {
		values := map[string]float64{}

		if att, ok := attByID[e.ID]; ok {
			for k, v := range att.Values {
				values[k] = v
			}
		}
		if lv, ok := leaveByID[e.ID]; ok {
			for k, v := range lv.Values {
				values[k] = v
			}
		}

		held := skillsByID[e.ID]
		values["skill_count"] = float64(len(held))
		if len(held) > 0 {
			sum, max := 0, 0
			for _, s := range held {
				sum += s.Level
				if s.Level > max {
					max = s.Level
				}
			}
			values["avg_skill_level"] = float64(sum) / float64(len(held))
			values["max_skill_level"] = float64(max)
		} else {
			values["avg_skill_level"] = 0
			values["max_skill_level"] = 0
		}

		tenure := 0.0
		if e.HireDate != nil {
			tenure = now.Sub(*e.HireDate).Hours() / 24 / 30
			if tenure < 0 {
				tenure = 0
			}
		}
		values["tenure_months"] = tenure

		features = append(features, Vector{EmployeeID: e.ID, Values: values})
	}

	return features, nil
}

func indexByEmployee(vectors []Vector) map[int64]Vector {
	m := make(map[int64]Vector, len(vectors))
	for _, v := range vectors {
		m[v.EmployeeID] = v
	}
	return m
}
