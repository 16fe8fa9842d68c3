package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tactic-hr/insights-backend-go/internal/domain/training"
)

type TrainingJobs struct {
	trainingSvc training.TrainingService
	weekday     time.Weekday
	hour        int

	mu      sync.Mutex
	lastRun time.Time
}

func NewTrainingJobs(trainingSvc training.TrainingService, weekday time.Weekday, hour int) *TrainingJobs {
	return &TrainingJobs{
		trainingSvc: trainingSvc,
		weekday:     weekday,
		hour:        hour,
	}
}

func (j *TrainingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("weekly_model_retraining", 1*time.Hour, j.RetrainModels)
}

// RetrainModels retrains every model once per configured weekly slot. The
// job ticks hourly and gates itself on the wall clock, so a restart inside
// the slot cannot trigger a second pass.
func (j *TrainingJobs) RetrainModels(ctx context.Context) error {
	now := time.Now().UTC()
	if now.Weekday() != j.weekday || now.Hour() != j.hour {
		return nil
	}

	j.mu.Lock()
	if !j.lastRun.IsZero() && now.Sub(j.lastRun) < 2*time.Hour {
		j.mu.Unlock()
		return nil
	}
	j.lastRun = now
	j.mu.Unlock()

	slog.Info("Cron: Starting weekly model retraining")

	summary, err := j.trainingSvc.TrainAll(ctx)
	if err != nil {
		if errors.Is(err, training.ErrTrainingInProgress) {
			slog.Warn("Cron: Retraining skipped, a training run is already in progress")
			return nil
		}
		return fmt.Errorf("failed to retrain models: %w", err)
	}

	slog.Info("Cron: Weekly retraining completed",
		"total_duration_seconds", summary.TotalDurationSeconds)
	return nil
}
