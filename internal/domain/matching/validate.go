package matching

import "github.com/tactic-hr/insights-backend-go/internal/pkg/validator"

func (r *MatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.JobPostID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "job_post_id",
			Message: "job_post_id is required and must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
