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

const KindAttendance = "attendance_lstm"

const (
	attendanceInputSize  = 7
	attendanceHiddenSize = 64
	attendanceHeadSize   = 32
	attendanceOutputSize = 7
	attendanceDropout    = 0.3
	attendanceClipNorm   = 1.0
)

// attendanceNet is two stacked LSTM layers followed by a small dense head
// that emits seven presence probabilities. Dropout regularizes the head
// only; the recurrent stack carries no per-timestep mask, so inserting
// Dropout between the LSTM layers would reuse one mask across all steps.
type attendanceNet struct {
	lstm1 *neural.LSTM
	lstm2 *neural.LSTM
	head  *neural.Sequential
}

func newAttendanceNet(rng *rand.Rand) *attendanceNet {
	return &attendanceNet{
		lstm1: neural.NewLSTM(attendanceInputSize, attendanceHiddenSize, rng),
		lstm2: neural.NewLSTM(attendanceHiddenSize, attendanceHiddenSize, rng),
		head: &neural.Sequential{Layers: []neural.Layer{
			neural.NewDense(attendanceHiddenSize, attendanceHeadSize, rng),
			&neural.ReLU{},
			neural.NewDropout(attendanceDropout, rng),
			neural.NewDense(attendanceHeadSize, attendanceOutputSize, rng),
			&neural.Sigmoid{},
		}},
	}
}

func (n *attendanceNet) forward(xs []*mat.Dense, train bool) *mat.Dense {
	hs := n.lstm1.ForwardSeq(xs, train)
	hs = n.lstm2.ForwardSeq(hs, train)
	return n.head.Forward(hs[len(hs)-1], train)
}

// backward pushes the head gradient into the final hidden state and runs
// backpropagation through time over both recurrent layers.
func (n *attendanceNet) backward(grad *mat.Dense, steps, batch int) {
	dLast := n.head.Backward(grad)
	dhs := make([]*mat.Dense, steps)
	for t := range dhs {
		dhs[t] = mat.NewDense(batch, attendanceHiddenSize, nil)
	}
	dhs[steps-1] = dLast
	n.lstm1.BackwardSeq(n.lstm2.BackwardSeq(dhs))
}

func (n *attendanceNet) params() []*mat.Dense {
	params := append([]*mat.Dense{}, n.lstm1.Params()...)
	params = append(params, n.lstm2.Params()...)
	return append(params, n.head.Params()...)
}

func (n *attendanceNet) grads() []*mat.Dense {
	grads := append([]*mat.Dense{}, n.lstm1.Grads()...)
	grads = append(grads, n.lstm2.Grads()...)
	return append(grads, n.head.Grads()...)
}

func (n *attendanceNet) tensors() []*mat.Dense { return n.params() }

func loadAttendanceNet(ts []*mat.Dense) (*attendanceNet, error) {
	net := newAttendanceNet(rand.New(rand.NewSource(1)))
	want := net.params()
	if len(ts) != len(want) {
		return nil, fmt.Errorf("artifact has %d tensors, want %d", len(ts), len(want))
	}
	for k, t := range ts {
		wr, wc := want[k].Dims()
		if r, c := t.Dims(); r != wr || c != wc {
			return nil, fmt.Errorf("artifact tensor %d is %dx%d, want %dx%d", k, r, c, wr, wc)
		}
		want[k].Copy(t)
	}
	return net, nil
}

// AttendanceForecaster predicts, per employee, the probability of presence
// for each of the next seven days from a sliding window of daily features.
type AttendanceForecaster struct {
	store *ArtifactStore

	mu      sync.RWMutex
	net     *attendanceNet
	trained bool
}

func NewAttendanceForecaster(store *ArtifactStore) *AttendanceForecaster {
	return &AttendanceForecaster{store: store}
}

func (f *AttendanceForecaster) Trained() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.trained
}

// Load replaces the in-memory weights with the persisted artifact.
func (f *AttendanceForecaster) Load() error {
	ts, err := f.store.Load(KindAttendance)
	if err != nil {
		return err
	}
	net, err := loadAttendanceNet(ts)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.net = net
	f.trained = true
	f.mu.Unlock()
	return nil
}

// Predict returns the presence probability for each of the next seven days
// given the most recent window of daily features.
func (f *AttendanceForecaster) Predict(window [][]float64) ([]float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.trained {
		return nil, ErrNotTrained
	}

	xs := stepMatricesAt([][][]float64{window}, []int{0})
	out := f.net.forward(xs, false)
	probs := make([]float64, attendanceOutputSize)
	for j := range probs {
		probs[j] = out.At(0, j)
	}
	return probs, nil
}

// Train fits a fresh network on all sliding windows, checkpointing to disk
// whenever the test loss improves, and swaps the result in at the end.
func (f *AttendanceForecaster) Train(inputs [][][]float64, targets [][]float64, cfg TrainConfig) (*training.Metrics, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyDataset
	}
	cfg = cfg.withDefaults(50, 32, 0.001)
	rng := cfg.rng()

	idx := shuffled(len(inputs), rng)
	split := int(0.8 * float64(len(inputs)))
	if split == 0 {
		split = len(inputs)
	}
	trainIdx, testIdx := idx[:split], idx[split:]

	net := newAttendanceNet(rng)
	opt := neural.NewAdam(cfg.LearningRate, 0)

	var finalTrain, finalTest, accuracy float64
	best := math.Inf(1)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })

		epochLoss := 0.0
		batches := 0
		for start := 0; start < len(trainIdx); start += cfg.BatchSize {
			batchIdx := trainIdx[start:min(start+cfg.BatchSize, len(trainIdx))]

			xs := stepMatricesAt(inputs, batchIdx)
			y := rowMatrixAt(targets, batchIdx)

			pred := net.forward(xs, true)
			loss, grad := neural.BCE(pred, y)
			net.backward(grad, len(xs), len(batchIdx))

			grads := net.grads()
			neural.ClipGradNorm(grads, attendanceClipNorm)
			opt.Step(net.params(), grads)

			epochLoss += loss
			batches++
		}
		finalTrain = epochLoss / float64(max(batches, 1))

		if len(testIdx) > 0 {
			xs := stepMatricesAt(inputs, testIdx)
			y := rowMatrixAt(targets, testIdx)
			pred := net.forward(xs, false)
			finalTest, _ = neural.BCE(pred, y)
			accuracy = thresholdAccuracy(pred, y)
		} else {
			finalTest = finalTrain
		}

		if finalTest < best {
			best = finalTest
			if err := f.store.Save(KindAttendance, net.tensors()); err != nil {
				return nil, err
			}
		}
	}

	f.mu.Lock()
	f.net = net
	f.trained = true
	f.mu.Unlock()

	return &training.Metrics{
		Model:          KindAttendance,
		Epochs:         cfg.Epochs,
		TrainSamples:   len(trainIdx),
		TestSamples:    len(testIdx),
		FinalTrainLoss: finalTrain,
		FinalTestLoss:  finalTest,
		BestTestLoss:   best,
		Accuracy:       accuracy,
	}, nil
}

// stepMatricesAt reassembles the selected samples into one batch matrix per
// timestep, the layout the recurrent layers consume.
func stepMatricesAt(inputs [][][]float64, idx []int) []*mat.Dense {
	steps := len(inputs[idx[0]])
	features := len(inputs[idx[0]][0])
	xs := make([]*mat.Dense, steps)
	for t := 0; t < steps; t++ {
		m := mat.NewDense(len(idx), features, nil)
		for b, id := range idx {
			for k := 0; k < features; k++ {
				m.Set(b, k, inputs[id][t][k])
			}
		}
		xs[t] = m
	}
	return xs
}

func rowMatrixAt(rows [][]float64, idx []int) *mat.Dense {
	cols := len(rows[idx[0]])
	m := mat.NewDense(len(idx), cols, nil)
	for b, id := range idx {
		for j := 0; j < cols; j++ {
			m.Set(b, j, rows[id][j])
		}
	}
	return m
}

// thresholdAccuracy is the fraction of predictions on the right side of 0.5.
func thresholdAccuracy(pred, target *mat.Dense) float64 {
	rows, cols := pred.Dims()
	if rows == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			p := 0.0
			if pred.At(i, j) > 0.5 {
				p = 1.0
			}
			if p == target.At(i, j) {
				correct++
			}
		}
	}
	return float64(correct) / float64(rows*cols)
}
