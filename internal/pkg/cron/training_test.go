package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactic-hr/insights-backend-go/internal/domain/training"
)

type fakeTrainingService struct {
	calls int
	err   error
}

func (f *fakeTrainingService) TrainModel(ctx context.Context, kind string) (*training.Run, error) {
	return nil, training.ErrUnknownModelKind
}

func (f *fakeTrainingService) TrainAll(ctx context.Context) (*training.Summary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &training.Summary{CompletedAt: time.Now()}, nil
}

func (f *fakeTrainingService) Status() training.Status {
	return training.Status{}
}

func TestRetrainModels_SkipsOutsideWindow(t *testing.T) {
	now := time.Now().UTC()
	svc := &fakeTrainingService{}
	jobs := NewTrainingJobs(svc, now.Weekday(), (now.Hour()+2)%24)

	require.NoError(t, jobs.RetrainModels(context.Background()))
	assert.Equal(t, 0, svc.calls)
}

func TestRetrainModels_RunsOncePerWindow(t *testing.T) {
	now := time.Now().UTC()
	svc := &fakeTrainingService{}
	jobs := NewTrainingJobs(svc, now.Weekday(), now.Hour())

	require.NoError(t, jobs.RetrainModels(context.Background()))
	assert.Equal(t, 1, svc.calls)

	// A second tick inside the same window is deduplicated.
	require.NoError(t, jobs.RetrainModels(context.Background()))
	assert.Equal(t, 1, svc.calls)
}

func TestRetrainModels_InProgressIsNotAnError(t *testing.T) {
	now := time.Now().UTC()
	svc := &fakeTrainingService{err: training.ErrTrainingInProgress}
	jobs := NewTrainingJobs(svc, now.Weekday(), now.Hour())

	assert.NoError(t, jobs.RetrainModels(context.Background()))
	assert.Equal(t, 1, svc.calls)
}

func TestRetrainModels_PropagatesFailures(t *testing.T) {
	now := time.Now().UTC()
	svc := &fakeTrainingService{err: errors.New("db down")}
	jobs := NewTrainingJobs(svc, now.Weekday(), now.Hour())

	err := jobs.RetrainModels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrain models")
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	ran := false
	s.AddJob("noop", time.Hour, func(ctx context.Context) error {
		ran = true
		return nil
	})
	s.RunOnce(context.Background())
	assert.True(t, ran)
}
