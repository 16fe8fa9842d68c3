package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tactic-hr/insights-backend-go/internal/domain/job"
	"github.com/tactic-hr/insights-backend-go/internal/domain/training"
	"github.com/tactic-hr/insights-backend-go/internal/model"
	"github.com/tactic-hr/insights-backend-go/internal/service/pipeline"
)

// maxTrainingJobPosts bounds how many published posts feed the matcher's
// training set.
const maxTrainingJobPosts = 10

type TrainingServiceImpl struct {
	pipeline *pipeline.Pipeline
	registry *model.Registry
	jobs     job.Repository
	logger   *slog.Logger

	inProgress atomic.Bool

	mu      sync.RWMutex
	history map[string]training.Run

	now func() time.Time
}

func NewTrainingService(p *pipeline.Pipeline, registry *model.Registry, jobs job.Repository, logger *slog.Logger) training.TrainingService {
	return &TrainingServiceImpl{
		pipeline: p,
		registry: registry,
		jobs:     jobs,
		logger:   logger,
		history:  make(map[string]training.Run),
		now:      time.Now,
	}
}

// TrainModel trains one model kind under the exclusion guard. The first
// caller wins; concurrent callers get ErrTrainingInProgress.
func (s *TrainingServiceImpl) TrainModel(ctx context.Context, kind string) (*training.Run, error) {
	var train func(context.Context) training.Run
	switch kind {
	case training.KindAttendance:
		train = s.trainAttendance
	case training.KindPerformance:
		train = s.trainPerformance
	case training.KindMatching:
		train = s.trainMatching
	default:
		return nil, fmt.Errorf("%w: %q", training.ErrUnknownModelKind, kind)
	}

	if !s.inProgress.CompareAndSwap(false, true) {
		return nil, training.ErrTrainingInProgress
	}
	defer s.inProgress.Store(false)

	run := train(ctx)
	return &run, nil
}

// TrainAll trains every model sequentially under a single exclusion window.
func (s *TrainingServiceImpl) TrainAll(ctx context.Context) (*training.Summary, error) {
	if !s.inProgress.CompareAndSwap(false, true) {
		return nil, training.ErrTrainingInProgress
	}
	defer s.inProgress.Store(false)

	start := s.now()
	summary := &training.Summary{
		Attendance:  s.trainAttendance(ctx),
		Performance: s.trainPerformance(ctx),
		Matching:    s.trainMatching(ctx),
	}
	summary.TotalDurationSeconds = roundSeconds(s.now().Sub(start))
	summary.CompletedAt = s.now()

	s.logger.Info("all models trained",
		slog.Float64("total_duration_seconds", summary.TotalDurationSeconds))
	return summary, nil
}

func (s *TrainingServiceImpl) Status() training.Status {
	s.mu.RLock()
	models := make(map[string]training.Run, len(s.history))
	for k, v := range s.history {
		models[k] = v
	}
	s.mu.RUnlock()

	return training.Status{
		InProgress:  s.inProgress.Load(),
		Models:      models,
		LastChecked: s.now(),
	}
}

func (s *TrainingServiceImpl) trainAttendance(ctx context.Context) training.Run {
	s.logger.Info("training attendance model")
	start := s.now()

	sequences, err := s.pipeline.AttendanceSequences(ctx, pipeline.SequenceLength)
	if err != nil {
		return s.record(model.KindAttendance, s.failed(model.KindAttendance, start, err))
	}
	if len(sequences) == 0 {
		return s.record(model.KindAttendance,
			s.skipped(model.KindAttendance, start, "no attendance sequences available for training"))
	}

	var inputs [][][]float64
	var targets [][]float64
	for _, seqs := range sequences {
		for _, seq := range seqs {
			inputs = append(inputs, seq.Input)
			targets = append(targets, seq.Target)
		}
	}
	s.logger.Info("built attendance sequences",
		slog.Int("employees", len(sequences)), slog.Int("samples", len(inputs)))

	metrics, err := s.registry.Attendance().Train(inputs, targets, model.TrainConfig{})
	return s.record(model.KindAttendance, s.outcome(model.KindAttendance, start, metrics, err))
}

func (s *TrainingServiceImpl) trainPerformance(ctx context.Context) training.Run {
	s.logger.Info("training performance model")
	start := s.now()

	vectors, err := s.pipeline.EmployeeFeatures(ctx)
	if err != nil {
		return s.record(model.KindPerformance, s.failed(model.KindPerformance, start, err))
	}
	labels, err := s.pipeline.PerformanceLabels(ctx)
	if err != nil {
		return s.record(model.KindPerformance, s.failed(model.KindPerformance, start, err))
	}
	if len(vectors) == 0 || len(labels) == 0 {
		return s.record(model.KindPerformance,
			s.skipped(model.KindPerformance, start, "no employee data available for training"))
	}

	labelByEmployee := make(map[int64]float64, len(labels))
	for _, l := range labels {
		labelByEmployee[l.EmployeeID] = l.Value
	}

	var features [][]float64
	var values []float64
	for _, v := range vectors {
		label, ok := labelByEmployee[v.EmployeeID]
		if !ok {
			continue
		}
		features = append(features, model.PerformanceFeatures(v.Get))
		values = append(values, label)
	}
	s.logger.Info("built performance features", slog.Int("samples", len(features)))

	metrics, err := s.registry.Performance().Train(features, values, model.TrainConfig{})
	return s.record(model.KindPerformance, s.outcome(model.KindPerformance, start, metrics, err))
}

func (s *TrainingServiceImpl) trainMatching(ctx context.Context) training.Run {
	s.logger.Info("training matching model")
	start := s.now()

	posts, err := s.jobs.ListPublished(ctx, maxTrainingJobPosts)
	if err != nil {
		return s.record(model.KindMatching, s.failed(model.KindMatching, start, err))
	}
	if len(posts) == 0 {
		return s.record(model.KindMatching,
			s.skipped(model.KindMatching, start, "no published job posts available for training"))
	}

	var features [][]float64
	for _, post := range posts {
		vectors, err := s.pipeline.MatchingFeatures(ctx, post.ID)
		if err != nil {
			return s.record(model.KindMatching, s.failed(model.KindMatching, start, err))
		}
		for _, v := range vectors {
			features = append(features, model.MatchingFeatures(v.Get))
		}
	}
	if len(features) == 0 {
		return s.record(model.KindMatching,
			s.skipped(model.KindMatching, start, "no matching features could be computed"))
	}
	s.logger.Info("built matching features",
		slog.Int("job_posts", len(posts)), slog.Int("samples", len(features)))

	metrics, err := s.registry.Matching().Train(features, model.TrainConfig{})
	return s.record(model.KindMatching, s.outcome(model.KindMatching, start, metrics, err))
}

// outcome folds a model training result into a run. Data-starvation errors
// are soft: the run is marked skipped rather than failed so a thin tenant
// does not alarm on every schedule.
func (s *TrainingServiceImpl) outcome(kind string, start time.Time, metrics *training.Metrics, err error) training.Run {
	if err != nil {
		if errors.Is(err, model.ErrEmptyDataset) || errors.Is(err, model.ErrTooFewSamples) {
			return s.skipped(kind, start, err.Error())
		}
		return s.failed(kind, start, err)
	}
	return training.Run{
		ID:              uuid.NewString(),
		Model:           kind,
		Status:          training.StatusSuccess,
		Metrics:         metrics,
		DurationSeconds: roundSeconds(s.now().Sub(start)),
		TrainedAt:       s.now(),
	}
}

func (s *TrainingServiceImpl) skipped(kind string, start time.Time, reason string) training.Run {
	s.logger.Warn("model training skipped", slog.String("model", kind), slog.String("reason", reason))
	return training.Run{
		ID:              uuid.NewString(),
		Model:           kind,
		Status:          training.StatusSkipped,
		Reason:          reason,
		DurationSeconds: roundSeconds(s.now().Sub(start)),
		TrainedAt:       s.now(),
	}
}

func (s *TrainingServiceImpl) failed(kind string, start time.Time, err error) training.Run {
	s.logger.Error("model training failed", slog.String("model", kind), slog.Any("error", err))
	return training.Run{
		ID:              uuid.NewString(),
		Model:           kind,
		Status:          training.StatusFailed,
		Reason:          err.Error(),
		DurationSeconds: roundSeconds(s.now().Sub(start)),
		TrainedAt:       s.now(),
	}
}

func (s *TrainingServiceImpl) record(kind string, run training.Run) training.Run {
	s.mu.Lock()
	s.history[kind] = run
	s.mu.Unlock()

	if run.Status == training.StatusSuccess {
		s.logger.Info("model trained",
			slog.String("model", kind),
			slog.Float64("duration_seconds", run.DurationSeconds))
	}
	return run
}

func roundSeconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000.0
}
