package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tactic-hr/insights-backend-go/internal/domain/training"
	"github.com/tactic-hr/insights-backend-go/internal/handler/http/response"
	"github.com/tactic-hr/insights-backend-go/internal/pkg/validator"
)

var validModelKinds = []string{
	training.KindAttendance,
	training.KindPerformance,
	training.KindMatching,
	training.KindAll,
}

type TrainingHandler interface {
	// Train triggers training for one model kind or all of them
	Train(w http.ResponseWriter, r *http.Request)
	// Status returns the last run per model plus the in-progress flag
	Status(w http.ResponseWriter, r *http.Request)
}

type trainingHandlerImpl struct {
	trainingService training.TrainingService
}

func NewTrainingHandler(trainingService training.TrainingService) TrainingHandler {
	return &trainingHandlerImpl{trainingService: trainingService}
}

// Train handles POST /train/{model}
func (h *trainingHandlerImpl) Train(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "model")
	if !validator.IsInSlice(kind, validModelKinds) {
		response.HandleError(w, validator.ValidationErrors{{
			Field:   "model",
			Message: "must be one of: attendance, performance, matching, all",
		}})
		return
	}

	if kind == training.KindAll {
		summary, err := h.trainingService.TrainAll(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.SuccessWithMessage(w, "Training completed", summary)
		return
	}

	run, err := h.trainingService.TrainModel(r.Context(), kind)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Training completed", run)
}

// Status handles GET /train/status
func (h *trainingHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.trainingService.Status())
}
