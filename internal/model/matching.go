package model

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/tactic-hr/insights-backend-go/internal/domain/training"
	"github.com/tactic-hr/insights-backend-go/internal/model/neural"
)

const KindMatching = "matching_nn"

const (
	matchingDropout     = 0.2
	matchingWeightDecay = 1e-4
	matchingLabelNoise  = 0.05
)

// MatchingFeatureColumns lists the matcher inputs in model order.
var MatchingFeatureColumns = []string{
	"skill_overlap_ratio",
	"avg_skill_gap",
	"weighted_skill_match",
	"attendance_score",
	"leave_load",
	"tenure_years",
	"availability",
}

// MatchingFeatures assembles the raw input row from a feature lookup.
func MatchingFeatures(get func(string) float64) []float64 {
	row := make([]float64, len(MatchingFeatureColumns))
	for i, col := range MatchingFeatureColumns {
		row[i] = get(col)
	}
	return row
}

// normalizeMatching caps tenure at ten years and inverts the two columns
// where lower raw values mean a better candidate.
func normalizeMatching(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, col := range MatchingFeatureColumns {
		v := row[i]
		switch col {
		case "tenure_years":
			v = clip01(v / 10.0)
		case "avg_skill_gap", "leave_load":
			v = 1.0 - clip01(v)
		}
		out[i] = v
	}
	return out
}

func newMatchingNet(rng *rand.Rand) *neural.Sequential {
	return &neural.Sequential{Layers: []neural.Layer{
		neural.NewDense(len(MatchingFeatureColumns), 64, rng),
		&neural.ReLU{},
		neural.NewDropout(matchingDropout, rng),
		neural.NewDense(64, 32, rng),
		&neural.ReLU{},
		neural.NewDropout(matchingDropout, rng),
		neural.NewDense(32, 16, rng),
		&neural.ReLU{},
		neural.NewDense(16, 1, rng),
		&neural.Sigmoid{},
	}}
}

// CandidateMatcher scores how well an employee profile fits a job post.
// It is trained on pseudo-labels derived from a weighted feature blend, so
// the network learns a smoothed, nonlinear version of the heuristic.
type CandidateMatcher struct {
	store *ArtifactStore

	mu      sync.RWMutex
	net     *neural.Sequential
	trained bool
}

func NewCandidateMatcher(store *ArtifactStore) *CandidateMatcher {
	return &CandidateMatcher{store: store}
}

func (m *CandidateMatcher) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

func (m *CandidateMatcher) Load() error {
	ts, err := m.store.Load(KindMatching)
	if err != nil {
		return err
	}
	net := newMatchingNet(rand.New(rand.NewSource(1)))
	if err := loadStack(net, ts); err != nil {
		return err
	}
	m.mu.Lock()
	m.net = net
	m.trained = true
	m.mu.Unlock()
	return nil
}

// PredictScores scores a batch of raw feature rows, returning one 0-100
// match score per row.
func (m *CandidateMatcher) PredictScores(features [][]float64) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.trained {
		return nil, ErrNotTrained
	}

	x := mat.NewDense(len(features), len(MatchingFeatureColumns), nil)
	for i, row := range features {
		for j, v := range normalizeMatching(row) {
			x.Set(i, j, v)
		}
	}
	out := m.net.Forward(x, false)

	scores := make([]float64, len(features))
	for i := range scores {
		scores[i] = clip01(out.At(i, 0)) * 100
	}
	return scores, nil
}

// pseudoLabel blends the dominant normalized features into a soft target:
// skill match 50%, attendance 20%, tenure 15%, availability 15%, plus a
// little gaussian noise for generalization.
func pseudoLabel(normalized []float64, rng *rand.Rand) float64 {
	var skill, attendance, tenure, availability float64
	for i, col := range MatchingFeatureColumns {
		switch col {
		case "weighted_skill_match":
			skill = normalized[i]
		case "attendance_score":
			attendance = normalized[i]
		case "tenure_years":
			tenure = normalized[i]
		case "availability":
			availability = normalized[i]
		}
	}
	label := skill*0.50 + attendance*0.20 + tenure*0.15 + availability*0.15
	return clip01(label + rng.NormFloat64()*matchingLabelNoise)
}

// Train fits the matcher on candidate feature rows gathered across job
// posts, generating its own training targets.
func (m *CandidateMatcher) Train(features [][]float64, cfg TrainConfig) (*training.Metrics, error) {
	if len(features) == 0 {
		return nil, ErrEmptyDataset
	}
	cfg = cfg.withDefaults(80, 16, 0.001)
	rng := cfg.rng()

	normalized := make([][]float64, len(features))
	targets := make([][]float64, len(features))
	for i, row := range features {
		normalized[i] = normalizeMatching(row)
		targets[i] = []float64{pseudoLabel(normalized[i], rng)}
	}

	idx := shuffled(len(normalized), rng)
	split := max(int(0.8*float64(len(normalized))), 1)
	trainIdx, testIdx := idx[:split], idx[split:]

	net := newMatchingNet(rng)
	opt := neural.NewAdam(cfg.LearningRate, matchingWeightDecay)

	var finalTrain, finalTest float64
	best := math.Inf(1)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })

		epochLoss := 0.0
		batches := 0
		for start := 0; start < len(trainIdx); start += cfg.BatchSize {
			batchIdx := trainIdx[start:min(start+cfg.BatchSize, len(trainIdx))]

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

		if len(testIdx) > 0 {
			x := rowMatrixAt(normalized, testIdx)
			y := rowMatrixAt(targets, testIdx)
			pred := net.Forward(x, false)
			finalTest, _ = neural.MSE(pred, y)
		} else {
			finalTest = finalTrain
		}

		if finalTest < best {
			best = finalTest
			if err := m.store.Save(KindMatching, stackTensors(net)); err != nil {
				return nil, err
			}
		}
	}

	m.mu.Lock()
	m.net = net
	m.trained = true
	m.mu.Unlock()

	return &training.Metrics{
		Model:          KindMatching,
		Epochs:         cfg.Epochs,
		TrainSamples:   len(trainIdx),
		TestSamples:    len(testIdx),
		FinalTrainLoss: finalTrain,
		FinalTestLoss:  finalTest,
		BestTestLoss:   best,
	}, nil
}
