package model

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/tactic-hr/insights-backend-go/internal/domain/training"
	"github.com/tactic-hr/insights-backend-go/internal/model/neural"
)

const KindPerformance = "performance_ffn"

const (
	performanceDropout     = 0.3
	performanceWeightDecay = 1e-4
	performanceMinSamples  = 5
)

// PerformanceFeatureColumns lists the scorer inputs in model order.
var PerformanceFeatureColumns = []string{
	"presence_rate",
	"avg_hours_worked",
	"late_rate",
	"leave_frequency",
	"sick_leave_ratio",
	"skill_count",
	"avg_skill_level",
	"tenure_months",
	"overtime_ratio",
}

// Divisors bringing the unbounded columns into [0, 1]. The remaining
// columns are already rates.
var performanceNorm = map[string]float64{
	"avg_hours_worked": 12.0,
	"leave_frequency":  10.0,
	"skill_count":      10.0,
	"avg_skill_level":  5.0,
	"tenure_months":    60.0,
}

// PerformanceFeatures assembles the raw input row from a feature lookup.
func PerformanceFeatures(get func(string) float64) []float64 {
	row := make([]float64, len(PerformanceFeatureColumns))
	for i, col := range PerformanceFeatureColumns {
		row[i] = get(col)
	}
	return row
}

func normalizePerformance(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, col := range PerformanceFeatureColumns {
		v := row[i]
		if factor, ok := performanceNorm[col]; ok {
			v = clip01(v / factor)
		}
		out[i] = v
	}
	return out
}

func newPerformanceNet(rng *rand.Rand) *neural.Sequential {
	return &neural.Sequential{Layers: []neural.Layer{
		neural.NewDense(len(PerformanceFeatureColumns), 64, rng),
		neural.NewBatchNorm(64),
		&neural.ReLU{},
		neural.NewDropout(performanceDropout, rng),
		neural.NewDense(64, 32, rng),
		neural.NewBatchNorm(32),
		&neural.ReLU{},
		neural.NewDropout(performanceDropout, rng),
		neural.NewDense(32, 16, rng),
		&neural.ReLU{},
		neural.NewDense(16, 1, rng),
		&neural.Sigmoid{},
	}}
}

// stackTensors collects every tensor a feed-forward stack needs to restore
// itself, including the batch-norm running statistics that the optimizer
// never touches.
func stackTensors(s *neural.Sequential) []*mat.Dense {
	var ts []*mat.Dense
	for _, l := range s.Layers {
		switch layer := l.(type) {
		case *neural.Dense:
			ts = append(ts, layer.W, layer.B)
		case *neural.BatchNorm:
			ts = append(ts, layer.Gamma, layer.Beta, layer.RunningMean, layer.RunningVar)
		}
	}
	return ts
}

func loadStack(s *neural.Sequential, ts []*mat.Dense) error {
	want := stackTensors(s)
	if len(ts) != len(want) {
		return fmt.Errorf("artifact has %d tensors, want %d", len(ts), len(want))
	}
	for k, t := range ts {
		wr, wc := want[k].Dims()
		if r, c := t.Dims(); r != wr || c != wc {
			return fmt.Errorf("artifact tensor %d is %dx%d, want %dx%d", k, r, c, wr, wc)
		}
		want[k].Copy(t)
	}
	return nil
}

// PerformanceScorer maps nine employee features onto a 0-100 performance
// score through a feed-forward network with batch normalization.
type PerformanceScorer struct {
	store *ArtifactStore

	mu      sync.RWMutex
	net     *neural.Sequential
	trained bool
}

func NewPerformanceScorer(store *ArtifactStore) *PerformanceScorer {
	return &PerformanceScorer{store: store}
}

func (s *PerformanceScorer) Trained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trained
}

func (s *PerformanceScorer) Load() error {
	ts, err := s.store.Load(KindPerformance)
	if err != nil {
		return err
	}
	net := newPerformanceNet(rand.New(rand.NewSource(1)))
	if err := loadStack(net, ts); err != nil {
		return err
	}
	s.mu.Lock()
	s.net = net
	s.trained = true
	s.mu.Unlock()
	return nil
}

// PredictScores scores a batch of raw feature rows, returning one 0-100
// score per row.
func (s *PerformanceScorer) PredictScores(features [][]float64) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.trained {
		return nil, ErrNotTrained
	}

	x := mat.NewDense(len(features), len(PerformanceFeatureColumns), nil)
	for i, row := range features {
		for j, v := range normalizePerformance(row) {
			x.Set(i, j, v)
		}
	}
	out := s.net.Forward(x, false)

	scores := make([]float64, len(features))
	for i := range scores {
		scores[i] = clip01(out.At(i, 0)) * 100
	}
	return scores, nil
}

// Train fits the scorer on labeled feature rows. Labels are 0-100 scores.
// Batches of fewer than two samples are skipped because batch
// normalization cannot compute statistics from them.
func (s *PerformanceScorer) Train(features [][]float64, labels []float64, cfg TrainConfig) (*training.Metrics, error) {
	if len(features) == 0 {
		return nil, ErrEmptyDataset
	}
	if len(features) < performanceMinSamples {
		return nil, fmt.Errorf("%w: %d samples, need %d", ErrTooFewSamples, len(features), performanceMinSamples)
	}
	cfg = cfg.withDefaults(100, 16, 0.001)
	rng := cfg.rng()

	normalized := make([][]float64, len(features))
	targets := make([][]float64, len(features))
	for i, row := range features {
		normalized[i] = normalizePerformance(row)
		targets[i] = []float64{labels[i] / 100.0}
	}

	idx := shuffled(len(normalized), rng)
	split := max(int(0.8*float64(len(normalized))), 1)
	trainIdx, testIdx := idx[:split], idx[split:]

	net := newPerformanceNet(rng)
	opt := neural.NewAdam(cfg.LearningRate, performanceWeightDecay)

	var finalTrain, finalTest, mae float64
	best := math.Inf(1)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })

		epochLoss := 0.0
		batches := 0
		for start := 0; start < len(trainIdx); start += cfg.BatchSize {
			batchIdx := trainIdx[start:min(start+cfg.BatchSize, len(trainIdx))]
			if len(batchIdx) < 2 {
				continue
			}

			x := rowMatrixAt(normalized, batchIdx)
			y := rowMatrixAt(targets, batchIdx)

			pred := net.Forward(x, true)
			loss, grad := neural.MSE(pred, y)
			net.Backward(grad)
			opt.Step(net.Params(), net.Grads())

			epochLoss += loss
			batches++
		}
		finalTrain = epochLoss / float64(max(batches, 1))

		if len(testIdx) >= 2 {
			x := rowMatrixAt(normalized, testIdx)
			y := rowMatrixAt(targets, testIdx)
			pred := net.Forward(x, false)
			finalTest, _ = neural.MSE(pred, y)
			mae = meanAbsError(pred, y) * 100
		} else {
			finalTest = finalTrain
			mae = 0
		}

		if finalTest < best {
			best = finalTest
			if err := s.store.Save(KindPerformance, stackTensors(net)); err != nil {
				return nil, err
			}
		}
	}

	s.mu.Lock()
	s.net = net
	s.trained = true
	s.mu.Unlock()

	return &training.Metrics{
		Model:          KindPerformance,
		Epochs:         cfg.Epochs,
		TrainSamples:   len(trainIdx),
		TestSamples:    len(testIdx),
		FinalTrainLoss: finalTrain,
		FinalTestLoss:  finalTest,
		BestTestLoss:   best,
		MAE:            mae,
	}, nil
}

func meanAbsError(pred, target *mat.Dense) float64 {
	rows, cols := pred.Dims()
	if rows == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sum += math.Abs(pred.At(i, j) - target.At(i, j))
		}
	}
	return sum / float64(rows*cols)
}
