package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tactic-hr/insights-backend-go/internal/domain/prediction"
	"github.com/tactic-hr/insights-backend-go/internal/handler/http/response"
)

type PredictionHandler interface {
	// GetAttendanceAll returns risk summaries for every employee
	GetAttendanceAll(w http.ResponseWriter, r *http.Request)
	// GetAttendanceByID returns the 7-day forecast for one employee
	GetAttendanceByID(w http.ResponseWriter, r *http.Request)
	// GetPerformanceAll returns scores for every employee
	GetPerformanceAll(w http.ResponseWriter, r *http.Request)
	// GetPerformanceByID returns score, grade, and breakdown for one employee
	GetPerformanceByID(w http.ResponseWriter, r *http.Request)
	// GetDashboardKPIs returns both aggregated signals
	GetDashboardKPIs(w http.ResponseWriter, r *http.Request)
}

type predictionHandlerImpl struct {
	predictionService prediction.PredictionService
}

func NewPredictionHandler(predictionService prediction.PredictionService) PredictionHandler {
	return &predictionHandlerImpl{predictionService: predictionService}
}

// GetAttendanceAll handles GET /predictions/attendance
func (h *predictionHandlerImpl) GetAttendanceAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.predictionService.PredictAttendanceAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetAttendanceByID handles GET /predictions/attendance/{id}
func (h *predictionHandlerImpl) GetAttendanceByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	result, err := h.predictionService.PredictAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPerformanceAll handles GET /predictions/performance
func (h *predictionHandlerImpl) GetPerformanceAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.predictionService.GetPerformanceAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPerformanceByID handles GET /predictions/performance/{id}
func (h *predictionHandlerImpl) GetPerformanceByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	result, err := h.predictionService.GetPerformanceScore(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDashboardKPIs handles GET /predictions/dashboard-kpis
func (h *predictionHandlerImpl) GetDashboardKPIs(w http.ResponseWriter, r *http.Request) {
	result, err := h.predictionService.GetDashboardKPIs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
