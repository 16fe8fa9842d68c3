package http

import (
	"encoding/json"
	"net/http"

	"github.com/tactic-hr/insights-backend-go/internal/domain/matching"
	"github.com/tactic-hr/insights-backend-go/internal/handler/http/response"
)

type MatchingHandler interface {
	// Match ranks candidates with the learned matcher (or its fallback)
	Match(w http.ResponseWriter, r *http.Request)
	// MatchRule ranks candidates with the deterministic rule engine
	MatchRule(w http.ResponseWriter, r *http.Request)
}

type matchingHandlerImpl struct {
	matchingService matching.MatchingService
}

func NewMatchingHandler(matchingService matching.MatchingService) MatchingHandler {
	return &matchingHandlerImpl{matchingService: matchingService}
}

// Match handles POST /match
func (h *matchingHandlerImpl) Match(w http.ResponseWriter, r *http.Request) {
	var req matching.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.matchingService.MatchCandidates(r.Context(), req.JobPostID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MatchRule handles POST /match/rule
func (h *matchingHandlerImpl) MatchRule(w http.ResponseWriter, r *http.Request) {
	var req matching.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.matchingService.MatchCandidatesRule(r.Context(), req.JobPostID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
