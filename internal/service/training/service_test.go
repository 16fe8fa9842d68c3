package training

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactic-hr/insights-backend-go/internal/domain/attendance"
	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/domain/job"
	"github.com/tactic-hr/insights-backend-go/internal/domain/leave"
	"github.com/tactic-hr/insights-backend-go/internal/domain/training"
	"github.com/tactic-hr/insights-backend-go/internal/model"
	"github.com/tactic-hr/insights-backend-go/internal/service/pipeline"
)

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListSkills(ctx context.Context, employeeID *int64) ([]employee.Skill, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) CountTeamMembers(ctx context.Context, teamID int64) (int, error) {
	return 0, nil
}

type fakeAttendanceRepo struct{}

func (f *fakeAttendanceRepo) ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]attendance.Record, error) {
	return nil, nil
}

type fakeLeaveRepo struct{}

func (f *fakeLeaveRepo) ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]leave.Request, error) {
	return nil, nil
}

type fakeJobRepo struct {
	posts []job.Post
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id int64) (job.Post, error) {
	return job.Post{}, job.ErrJobPostNotFound
}

func (f *fakeJobRepo) ListPublished(ctx context.Context, limit int) ([]job.Post, error) {
	if len(f.posts) > limit {
		return f.posts[:limit], nil
	}
	return f.posts, nil
}

func (f *fakeJobRepo) ListRequiredSkills(ctx context.Context, jobPostID int64) ([]job.RequiredSkill, error) {
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, emp *fakeEmployeeRepo, jobs *fakeJobRepo) *TrainingServiceImpl {
	t.Helper()
	registry, err := model.NewRegistry(t.TempDir(), discardLogger())
	require.NoError(t, err)
	p := pipeline.New(emp, &fakeAttendanceRepo{}, &fakeLeaveRepo{}, jobs, 6)
	return &TrainingServiceImpl{
		pipeline: p,
		registry: registry,
		jobs:     jobs,
		logger:   discardLogger(),
		history:  make(map[string]training.Run),
		now:      time.Now,
	}
}

func TestTrainModel_UnknownKind(t *testing.T) {
	svc := newTestService(t, &fakeEmployeeRepo{}, &fakeJobRepo{})
	_, err := svc.TrainModel(context.Background(), "bogus")
	assert.ErrorIs(t, err, training.ErrUnknownModelKind)
}

func TestTrainModel_SkipsWithoutData(t *testing.T) {
	svc := newTestService(t, &fakeEmployeeRepo{}, &fakeJobRepo{})

	run, err := svc.TrainModel(context.Background(), training.KindAttendance)
	require.NoError(t, err)
	assert.Equal(t, training.StatusSkipped, run.Status)
	assert.Equal(t, "no attendance sequences available for training", run.Reason)
	assert.Equal(t, model.KindAttendance, run.Model)
	assert.NotEmpty(t, run.ID)
}

func TestTrainModel_MatchingSkipsWithoutPosts(t *testing.T) {
	svc := newTestService(t, &fakeEmployeeRepo{}, &fakeJobRepo{})

	run, err := svc.TrainModel(context.Background(), training.KindMatching)
	require.NoError(t, err)
	assert.Equal(t, training.StatusSkipped, run.Status)
	assert.Equal(t, "no published job posts available for training", run.Reason)
}

func TestTrainModel_MatchingSkipsWithoutFeatures(t *testing.T) {
	jobs := &fakeJobRepo{posts: []job.Post{{ID: 1, Status: job.StatusPublished}}}
	svc := newTestService(t, &fakeEmployeeRepo{}, jobs)

	run, err := svc.TrainModel(context.Background(), training.KindMatching)
	require.NoError(t, err)
	assert.Equal(t, training.StatusSkipped, run.Status)
	assert.Equal(t, "no matching features could be computed", run.Reason)
}

func TestTrainModel_RejectsConcurrentTraining(t *testing.T) {
	svc := newTestService(t, &fakeEmployeeRepo{}, &fakeJobRepo{})
	svc.inProgress.Store(true)

	_, err := svc.TrainModel(context.Background(), training.KindPerformance)
	assert.ErrorIs(t, err, training.ErrTrainingInProgress)

	_, err = svc.TrainAll(context.Background())
	assert.ErrorIs(t, err, training.ErrTrainingInProgress)

	svc.inProgress.Store(false)
	run, err := svc.TrainModel(context.Background(), training.KindPerformance)
	require.NoError(t, err)
	assert.Equal(t, training.StatusSkipped, run.Status)
}

func TestTrainAll_AllSkippedOnEmptyData(t *testing.T) {
	svc := newTestService(t, &fakeEmployeeRepo{}, &fakeJobRepo{})

	summary, err := svc.TrainAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, training.StatusSkipped, summary.Attendance.Status)
	assert.Equal(t, training.StatusSkipped, summary.Performance.Status)
	assert.Equal(t, training.StatusSkipped, summary.Matching.Status)
	assert.Equal(t, "no employee data available for training", summary.Performance.Reason)
	assert.False(t, summary.CompletedAt.IsZero())
}

func TestStatus_ReflectsHistory(t *testing.T) {
	svc := newTestService(t, &fakeEmployeeRepo{}, &fakeJobRepo{})

	status := svc.Status()
	assert.False(t, status.InProgress)
	assert.Empty(t, status.Models)

	_, err := svc.TrainAll(context.Background())
	require.NoError(t, err)

	status = svc.Status()
	require.Len(t, status.Models, 3)
	assert.Contains(t, status.Models, model.KindAttendance)
	assert.Contains(t, status.Models, model.KindPerformance)
	assert.Contains(t, status.Models, model.KindMatching)
	assert.False(t, status.InProgress)
}

func TestRoundSeconds(t *testing.T) {
	assert.Equal(t, 1.5, roundSeconds(1500*time.Millisecond))
	assert.Equal(t, 0.0, roundSeconds(400*time.Microsecond))
}
