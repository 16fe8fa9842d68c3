package matching

import "time"

// Which scorer produced a match result.
const (
	ModelNeuralNetwork = "neural_network"
	ModelRuleFallback  = "rule_based_fallback"
	ModelNone          = "none"
)

// MatchRequest is the body of both matching endpoints.
type MatchRequest struct {
	JobPostID int64 `json:"job_post_id"`
}

// SkillDetail describes one required skill against a candidate's level.
type SkillDetail struct {
	SkillID        int64  `json:"skill_id"`
	Name           string `json:"name"`
	RequiredLevel  int    `json:"required_level"`
	CandidateLevel int    `json:"candidate_level"`
	Match          bool   `json:"match"`
}

// ModelDetails is the score breakdown for the learned matcher and its
// feature-level fallback. Percent fields are pre-scaled to 0-100.
type ModelDetails struct {
	SkillOverlapRatio  float64       `json:"skill_overlap_ratio"`
	WeightedSkillMatch float64       `json:"weighted_skill_match"`
	AttendanceScore    float64       `json:"attendance_score"`
	TenureYears        float64       `json:"tenure_years"`
	Availability       float64       `json:"availability"`
	MatchingSkills     []SkillDetail `json:"matching_skills"`
	MissingSkills      []SkillDetail `json:"missing_skills"`
}

// Recommendation is one ranked candidate from the learned matcher.
type Recommendation struct {
	EmployeeID   int64        `json:"employee_id"`
	EmployeeCode string       `json:"employee_code"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Email        string       `json:"email"`
	Score        float64      `json:"score"`
	Details      ModelDetails `json:"details"`
}

// MatchResult is the learned-matcher response, tagged with which scoring
// path produced it.
type MatchResult struct {
	JobPostID       int64            `json:"job_post_id"`
	JobPostTitle    string           `json:"job_post_title"`
	TotalCandidates int              `json:"total_candidates"`
	Recommendations []Recommendation `json:"recommendations"`
	ModelUsed       string           `json:"model_used"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// RuleDetails is the score breakdown for the deterministic rule engine.
type RuleDetails struct {
	SkillMatchPercent  float64       `json:"skill_match_percentage"`
	ExperienceScore    float64       `json:"experience_score"`
	AvailabilityScore  float64       `json:"availability_score"`
	WorkloadScore      float64       `json:"workload_score"`
	YearsExperience    float64       `json:"years_experience"`
	MatchingSkills     []SkillDetail `json:"matching_skills"`
	MissingSkills      []SkillDetail `json:"missing_skills"`
	TeamCurrentMembers int           `json:"team_current_members"`
}

// RuleRecommendation is one ranked candidate from the rule engine.
type RuleRecommendation struct {
	EmployeeID   int64       `json:"employee_id"`
	EmployeeCode string      `json:"employee_code"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	Score        float64     `json:"score"`
	Details      RuleDetails `json:"details"`
}

// RuleMatchResult is the deterministic production scoring response.
type RuleMatchResult struct {
	JobPostID       int64                `json:"job_post_id"`
	JobPostTitle    string               `json:"job_post_title"`
	TotalCandidates int                  `json:"total_candidates"`
	Recommendations []RuleRecommendation `json:"recommendations"`
	GeneratedAt     time.Time            `json:"generated_at"`
}
