package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactic-hr/insights-backend-go/internal/domain/matching"
	"github.com/tactic-hr/insights-backend-go/internal/domain/prediction"
	"github.com/tactic-hr/insights-backend-go/internal/domain/training"
	"github.com/tactic-hr/insights-backend-go/internal/handler/http/response"
	"github.com/tactic-hr/insights-backend-go/internal/model"
)

type fakePredictionService struct {
	forecast    *prediction.AttendanceForecast
	performance *prediction.PerformanceResult
	err         error
}

func (f *fakePredictionService) PredictAttendance(ctx context.Context, employeeID int64) (*prediction.AttendanceForecast, error) {
	return f.forecast, f.err
}

func (f *fakePredictionService) PredictAttendanceAll(ctx context.Context) ([]prediction.AttendanceSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []prediction.AttendanceSummary{}, nil
}

func (f *fakePredictionService) GetPerformanceScore(ctx context.Context, employeeID int64) (*prediction.PerformanceResult, error) {
	return f.performance, f.err
}

func (f *fakePredictionService) GetPerformanceAll(ctx context.Context) ([]prediction.PerformanceResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []prediction.PerformanceResult{}, nil
}

func (f *fakePredictionService) GetDashboardKPIs(ctx context.Context) (*prediction.DashboardKPIs, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &prediction.DashboardKPIs{GeneratedAt: time.Now()}, nil
}

type fakeMatchingService struct {
	result *matching.MatchResult
	rule   *matching.RuleMatchResult
	err    error
}

func (f *fakeMatchingService) MatchCandidates(ctx context.Context, jobPostID int64) (*matching.MatchResult, error) {
	return f.result, f.err
}

func (f *fakeMatchingService) MatchCandidatesRule(ctx context.Context, jobPostID int64) (*matching.RuleMatchResult, error) {
	return f.rule, f.err
}

type fakeTrainingService struct {
	run     *training.Run
	summary *training.Summary
	err     error
}

func (f *fakeTrainingService) TrainModel(ctx context.Context, kind string) (*training.Run, error) {
	return f.run, f.err
}

func (f *fakeTrainingService) TrainAll(ctx context.Context) (*training.Summary, error) {
	return f.summary, f.err
}

func (f *fakeTrainingService) Status() training.Status {
	return training.Status{Models: map[string]training.Run{}, LastChecked: time.Now()}
}

func newTestRouter(pred prediction.PredictionService, match matching.MatchingService, train training.TrainingService) http.Handler {
	return NewRouter(
		NewPredictionHandler(pred),
		NewMatchingHandler(match),
		NewTrainingHandler(train),
	)
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestMatchEndpoint_InvalidBody(t *testing.T) {
	router := newTestRouter(&fakePredictionService{}, &fakeMatchingService{}, &fakeTrainingService{})

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/match", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "BAD_REQUEST", envelope.Error.Code)
}

func TestMatchEndpoint_MissingJobPostID(t *testing.T) {
	router := newTestRouter(&fakePredictionService{}, &fakeMatchingService{}, &fakeTrainingService{})

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/match", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Details, "job_post_id")
}

func TestMatchEndpoint_Success(t *testing.T) {
	match := &fakeMatchingService{result: &matching.MatchResult{
		JobPostID:       7,
		JobPostTitle:    "Backend Engineer",
		Recommendations: []matching.Recommendation{},
		ModelUsed:       matching.ModelRuleFallback,
		GeneratedAt:     time.Now(),
	}}
	router := newTestRouter(&fakePredictionService{}, match, &fakeTrainingService{})

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/match", `{"job_post_id": 7}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}

func TestMatchRuleEndpoint_Success(t *testing.T) {
	match := &fakeMatchingService{rule: &matching.RuleMatchResult{
		JobPostID:       7,
		Recommendations: []matching.RuleRecommendation{},
		GeneratedAt:     time.Now(),
	}}
	router := newTestRouter(&fakePredictionService{}, match, &fakeTrainingService{})

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/match/rule", `{"job_post_id": 7}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}

func TestAttendanceByID_InvalidID(t *testing.T) {
	router := newTestRouter(&fakePredictionService{}, &fakeMatchingService{}, &fakeTrainingService{})

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/predictions/attendance/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", envelope.Error.Code)
}

func TestAttendanceByID_ModelNotTrained(t *testing.T) {
	pred := &fakePredictionService{err: model.ErrNotTrained}
	router := newTestRouter(pred, &fakeMatchingService{}, &fakeTrainingService{})

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/predictions/attendance/1", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", envelope.Error.Code)
}

func TestPerformanceByID_Success(t *testing.T) {
	pred := &fakePredictionService{performance: &prediction.PerformanceResult{
		EmployeeID:       1,
		PerformanceScore: 83.5,
		Grade:            "B",
	}}
	router := newTestRouter(pred, &fakeMatchingService{}, &fakeTrainingService{})

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/predictions/performance/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}

func TestTrainEndpoint_InvalidKind(t *testing.T) {
	router := newTestRouter(&fakePredictionService{}, &fakeMatchingService{}, &fakeTrainingService{})

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/train/linear-regression", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Details, "model")
}

func TestTrainEndpoint_Conflict(t *testing.T) {
	train := &fakeTrainingService{err: training.ErrTrainingInProgress}
	router := newTestRouter(&fakePredictionService{}, &fakeMatchingService{}, train)

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/train/attendance", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestTrainEndpoint_SingleModel(t *testing.T) {
	train := &fakeTrainingService{run: &training.Run{
		ID:     "run-1",
		Model:  model.KindAttendance,
		Status: training.StatusSuccess,
	}}
	router := newTestRouter(&fakePredictionService{}, &fakeMatchingService{}, train)

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/train/attendance", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Training completed", envelope.Message)
}

func TestTrainEndpoint_All(t *testing.T) {
	train := &fakeTrainingService{summary: &training.Summary{CompletedAt: time.Now()}}
	router := newTestRouter(&fakePredictionService{}, &fakeMatchingService{}, train)

	rec, envelope := doRequest(t, router, http.MethodPost, "/api/v1/train/all", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}

func TestTrainStatusEndpoint(t *testing.T) {
	router := newTestRouter(&fakePredictionService{}, &fakeMatchingService{}, &fakeTrainingService{})

	rec, envelope := doRequest(t, router, http.MethodGet, "/api/v1/train/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}
