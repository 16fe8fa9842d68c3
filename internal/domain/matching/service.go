package matching

import "context"

type MatchingService interface {
	// MatchCandidates ranks candidates for a job post with the learned
	// matcher, falling back to weighted feature scoring when no trained
	// model is available.
	MatchCandidates(ctx context.Context, jobPostID int64) (*MatchResult, error)

	// MatchCandidatesRule ranks candidates with the deterministic rule
	// engine only.
	MatchCandidatesRule(ctx context.Context, jobPostID int64) (*RuleMatchResult, error)
}
