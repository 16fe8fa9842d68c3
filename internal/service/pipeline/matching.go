package pipeline

import (
	"context"
	"fmt"

	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
)

// MatchingFeatures builds one vector per active employee against a job
// post's required-skill set.
func (p *Pipeline) MatchingFeatures(ctx context.Context, jobPostID int64) ([]Vector, error) {
	employees, err := p.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if len(employees) == 0 {
		return nil, nil
	}

	required, err := p.jobs.ListRequiredSkills(ctx, jobPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job post skills: %w", err)
	}
	allSkills, err := p.employees.ListSkills(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee skills: %w", err)
	}
	attFeatures, err := p.AttendanceFeatures(ctx, nil)
	if err != nil {
		return nil, err
	}
	leaveFeatures, err := p.LeaveFeatures(ctx, nil)
	if err != nil {
		return nil, err
	}

	heldByEmployee := make(map[int64]map[int64]int)
	for _, s := range allSkills {
		if heldByEmployee[s.EmployeeID] == nil {
			heldByEmployee[s.EmployeeID] = make(map[int64]int)
		}
		heldByEmployee[s.EmployeeID][s.SkillID] = s.Level
	}
	attByID := indexByEmployee(attFeatures)
	leaveByID := indexByEmployee(leaveFeatures)

	now := p.now()
	features := make([]Vector, 0, len(employees))
	for _, e := range employees {
		overlapRatio, avgGap, weightedMatch := 0.0, 1.0, 0.0
		if len(required) > 0 && len(allSkills) > 0 {
			held := heldByEmployee[e.ID]

			overlap := 0
			var gapSum float64
			gapCount := 0
			var matchSum float64
			for _, req := range required {
				level, has := held[req.SkillID]
				if has {
					overlap++
					gap := float64(req.RequiredLevel-level) / 5.0
					if gap < 0 {
						gap = 0
					}
					gapSum += gap
					gapCount++

					if req.RequiredLevel > 0 {
						m := float64(level) / float64(req.RequiredLevel)
						if m > 1 {
							m = 1
						}
						matchSum += m
					} else {
						matchSum += 1
					}
				}
			}

			overlapRatio = float64(overlap) / float64(len(required))
			if gapCount > 0 {
				avgGap = gapSum / float64(gapCount)
			}
			weightedMatch = matchSum / float64(len(required))
		}

		attendanceScore := 0.0
		if att, ok := attByID[e.ID]; ok {
			attendanceScore = att.Get("presence_rate")
		}

		leaveLoad := 0.0
		if lv, ok := leaveByID[e.ID]; ok {
			leaveLoad = lv.Get("total_leave_days") / 30.0
			if leaveLoad > 1 {
				leaveLoad = 1
			}
		}

		tenure := 0.0
		if e.HireDate != nil {
			tenure = now.Sub(*e.HireDate).Hours() / 24 / 365
			if tenure < 0 {
				tenure = 0
			}
		}

		features = append(features, Vector{EmployeeID: e.ID, Values: map[string]float64{
			"skill_overlap_ratio":  overlapRatio,
			"avg_skill_gap":        avgGap,
			"weighted_skill_match": weightedMatch,
			"attendance_score":     attendanceScore,
			"leave_load":           leaveLoad,
			"tenure_years":         tenure,
			"availability":         availabilityValue(e.Status),
		}})
	}

	return features, nil
}

// availabilityValue encodes contract status: available 1.0, assigned 0.5,
// on leave 0.0.
func availabilityValue(status string) float64 {
	switch status {
	case employee.StatusAvailable:
		return 1.0
	case employee.StatusAssigned:
		return 0.5
	default:
		return 0.0
	}
}
