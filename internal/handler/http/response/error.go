package response

import (
	"errors"
	"net/http"

	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/domain/job"
	"github.com/tactic-hr/insights-backend-go/internal/domain/prediction"
	"github.com/tactic-hr/insights-backend-go/internal/domain/training"
	"github.com/tactic-hr/insights-backend-go/internal/model"
	"github.com/tactic-hr/insights-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Lookup errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, job.ErrJobPostNotFound):
		NotFound(w, "Job post not found")
	case errors.Is(err, prediction.ErrInsufficientHistory):
		NotFound(w, "Not enough attendance history for this employee")

	// Model lifecycle errors
	case errors.Is(err, model.ErrNotTrained):
		ServiceUnavailable(w, "Model is not trained yet")
	case errors.Is(err, training.ErrTrainingInProgress):
		Conflict(w, "Training already in progress")
	case errors.Is(err, training.ErrUnknownModelKind):
		BadRequest(w, "Unknown model kind", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
