package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/domain/job"
	"github.com/tactic-hr/insights-backend-go/internal/domain/matching"
	"github.com/tactic-hr/insights-backend-go/internal/model"
	"github.com/tactic-hr/insights-backend-go/internal/service/pipeline"
)

// Rule engine component weights. Each component scores 0-100 before
// weighting, so the final score stays on the same scale.
const (
	skillWeight        = 0.60
	experienceWeight   = 0.20
	availabilityWeight = 0.10
	workloadWeight     = 0.10
)

type MatchingServiceImpl struct {
	employees employee.Repository
	jobs      job.Repository
	pipeline  *pipeline.Pipeline
	matcher   *model.CandidateMatcher

	now func() time.Time
}

func NewMatchingService(employees employee.Repository, jobs job.Repository, p *pipeline.Pipeline, matcher *model.CandidateMatcher) matching.MatchingService {
	return &MatchingServiceImpl{
		employees: employees,
		jobs:      jobs,
		pipeline:  p,
		matcher:   matcher,
		now:       time.Now,
	}
}

// MatchCandidates ranks candidates with the learned matcher when one is
// trained, otherwise with a weighted blend of the same features. The
// response is tagged with whichever path produced the scores.
func (s *MatchingServiceImpl) MatchCandidates(ctx context.Context, jobPostID int64) (*matching.MatchResult, error) {
	post, err := s.jobs.GetByID(ctx, jobPostID)
	if err != nil {
		return nil, err
	}

	vectors, err := s.pipeline.MatchingFeatures(ctx, jobPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to build matching features: %w", err)
	}

	result := &matching.MatchResult{
		JobPostID:       jobPostID,
		JobPostTitle:    post.Title,
		Recommendations: []matching.Recommendation{},
		ModelUsed:       matching.ModelNone,
		GeneratedAt:     s.now(),
	}
	if len(vectors) == 0 {
		return result, nil
	}

	var scores []float64
	if s.matcher.Trained() {
		rows := make([][]float64, len(vectors))
		for i, v := range vectors {
			rows[i] = model.MatchingFeatures(v.Get)
		}
		scores, err = s.matcher.PredictScores(rows)
		if err != nil {
			return nil, err
		}
		result.ModelUsed = matching.ModelNeuralNetwork
	} else {
		scores = fallbackScores(vectors)
		result.ModelUsed = matching.ModelRuleFallback
	}

	employees, err := s.candidateIndex(ctx)
	if err != nil {
		return nil, err
	}
	skillsByEmployee, err := s.skillIndex(ctx)
	if err != nil {
		return nil, err
	}
	required, err := s.jobs.ListRequiredSkills(ctx, jobPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load required skills: %w", err)
	}

	for i, v := range vectors {
		if scores[i] <= 0 {
			continue
		}
		cand, ok := employees[v.EmployeeID]
		if !ok {
			continue
		}

		held := skillsByEmployee[v.EmployeeID]
		matched, missing := buildSkillDetails(required, held)

		result.Recommendations = append(result.Recommendations, matching.Recommendation{
			EmployeeID:   cand.ID,
			EmployeeCode: cand.Code,
			FirstName:    cand.FirstName,
			LastName:     cand.LastName,
			Email:        cand.Email,
			Score:        round(scores[i], 2),
			Details: matching.ModelDetails{
				SkillOverlapRatio:  round(v.Get("skill_overlap_ratio")*100, 1),
				WeightedSkillMatch: round(v.Get("weighted_skill_match")*100, 1),
				AttendanceScore:    round(v.Get("attendance_score")*100, 1),
				TenureYears:        round(v.Get("tenure_years"), 1),
				Availability:       v.Get("availability"),
				MatchingSkills:     matched,
				MissingSkills:      missing,
			},
		})
	}

	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].Score > result.Recommendations[j].Score
	})
	result.TotalCandidates = len(result.Recommendations)
	return result, nil
}

// MatchCandidatesRule scores every candidate with the deterministic rule
// engine: skill match 60%, experience 20%, availability 10%, workload 10%.
func (s *MatchingServiceImpl) MatchCandidatesRule(ctx context.Context, jobPostID int64) (*matching.RuleMatchResult, error) {
	post, err := s.jobs.GetByID(ctx, jobPostID)
	if err != nil {
		return nil, err
	}
	required, err := s.jobs.ListRequiredSkills(ctx, jobPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load required skills: %w", err)
	}
	candidates, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	skillsByEmployee, err := s.skillIndex(ctx)
	if err != nil {
		return nil, err
	}

	result := &matching.RuleMatchResult{
		JobPostID:       jobPostID,
		JobPostTitle:    post.Title,
		Recommendations: []matching.RuleRecommendation{},
		GeneratedAt:     s.now(),
	}

	teamCounts := map[int64]int{}
	for _, cand := range candidates {
		held := skillsByEmployee[cand.ID]

		skillScore, matched, missing := skillMatchScore(required, held)
		expScore, years := experienceScore(cand.HireDate, s.now())
		availScore := availabilityScore(cand.Status)

		teamMembers := 0
		if cand.TeamID != nil {
			n, ok := teamCounts[*cand.TeamID]
			if !ok {
				n, err = s.employees.CountTeamMembers(ctx, *cand.TeamID)
				if err != nil {
					return nil, fmt.Errorf("failed to count team members: %w", err)
				}
				teamCounts[*cand.TeamID] = n
			}
			teamMembers = n
		}
		wlScore := workloadScore(teamMembers)

		score := skillScore*skillWeight + expScore*experienceWeight +
			availScore*availabilityWeight + wlScore*workloadWeight
		if score <= 0 {
			continue
		}

		result.Recommendations = append(result.Recommendations, matching.RuleRecommendation{
			EmployeeID:   cand.ID,
			EmployeeCode: cand.Code,
			FirstName:    cand.FirstName,
			LastName:     cand.LastName,
			Email:        cand.Email,
			Score:        round(score, 2),
			Details: matching.RuleDetails{
				SkillMatchPercent:  round(skillScore, 2),
				ExperienceScore:    round(expScore, 2),
				AvailabilityScore:  round(availScore, 2),
				WorkloadScore:      round(wlScore, 2),
				YearsExperience:    round(years, 1),
				MatchingSkills:     matched,
				MissingSkills:      missing,
				TeamCurrentMembers: teamMembers,
			},
		})
	}

	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].Score > result.Recommendations[j].Score
	})
	result.TotalCandidates = len(result.Recommendations)
	return result, nil
}

func (s *MatchingServiceImpl) candidateIndex(ctx context.Context) (map[int64]employee.Employee, error) {
	list, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	idx := make(map[int64]employee.Employee, len(list))
	for _, e := range list {
		idx[e.ID] = e
	}
	return idx, nil
}

func (s *MatchingServiceImpl) skillIndex(ctx context.Context) (map[int64]map[int64]int, error) {
	skills, err := s.employees.ListSkills(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee skills: %w", err)
	}
	idx := make(map[int64]map[int64]int)
	for _, sk := range skills {
		if idx[sk.EmployeeID] == nil {
			idx[sk.EmployeeID] = map[int64]int{}
		}
		idx[sk.EmployeeID][sk.SkillID] = sk.Level
	}
	return idx, nil
}

// fallbackScores blends the raw matching features into 0-100 scores when no
// trained matcher is available.
func fallbackScores(vectors []pipeline.Vector) []float64 {
	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		scores[i] = v.Get("weighted_skill_match")*60 +
			math.Min(v.Get("tenure_years")/10, 1)*20 +
			v.Get("availability")*10 +
			v.Get("attendance_score")*10
	}
	return scores
}

// skillMatchScore averages per-skill coverage: a held skill at or above the
// required level counts 100, below it counts proportionally, a missing
// skill counts 0. No requirements means a perfect score.
func skillMatchScore(required []job.RequiredSkill, held map[int64]int) (float64, []matching.SkillDetail, []matching.SkillDetail) {
	matched, missing := buildSkillDetails(required, held)
	if len(required) == 0 {
		return 100.0, matched, missing
	}

	total := 0.0
	for _, d := range matched {
		if d.Match {
			total += 100
		} else {
			total += float64(d.CandidateLevel) / float64(d.RequiredLevel) * 100
		}
	}
	return total / float64(len(required)), matched, missing
}

func buildSkillDetails(required []job.RequiredSkill, held map[int64]int) (matched, missing []matching.SkillDetail) {
	matched = []matching.SkillDetail{}
	missing = []matching.SkillDetail{}
	for _, req := range required {
		detail := matching.SkillDetail{
			SkillID:       req.SkillID,
			Name:          req.Name,
			RequiredLevel: req.RequiredLevel,
		}
		if level, ok := held[req.SkillID]; ok {
			detail.CandidateLevel = level
			detail.Match = level >= req.RequiredLevel
			matched = append(matched, detail)
		} else {
			missing = append(missing, detail)
		}
	}
	return matched, missing
}

// experienceScore scales linearly with tenure and caps at ten years.
func experienceScore(hireDate *time.Time, now time.Time) (score, years float64) {
	if hireDate == nil {
		return 0, 0
	}
	years = now.Sub(*hireDate).Hours() / 24 / 365.25
	if years < 0 {
		years = 0
	}
	if years >= 10 {
		return 100, years
	}
	return years / 10 * 100, years
}

func availabilityScore(status string) float64 {
	switch status {
	case employee.StatusAvailable:
		return 100
	case employee.StatusAssigned:
		return 50
	case employee.StatusOnLeave:
		return 0
	default:
		return 50
	}
}

// workloadScore favors larger teams, where one more assignment spreads
// thinner. Employees without a team count as fully available.
func workloadScore(teamMembers int) float64 {
	switch {
	case teamMembers >= 10:
		return 100
	case teamMembers >= 5:
		return 80
	case teamMembers >= 3:
		return 60
	case teamMembers >= 1:
		return 40
	default:
		return 100
	}
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
