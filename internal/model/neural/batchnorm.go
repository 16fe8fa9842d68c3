package neural

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	batchNormEps      = 1e-5
	batchNormMomentum = 0.1
)

// BatchNorm normalizes each feature column over the batch. Running
// statistics are tracked during training and used at inference time, so
// they must be persisted alongside the learned scale and shift.
type BatchNorm struct {
	Gamma *mat.Dense
	Beta  *mat.Dense

	RunningMean *mat.Dense
	RunningVar  *mat.Dense

	dGamma *mat.Dense
	dBeta  *mat.Dense

	x       *mat.Dense
	xhat    *mat.Dense
	mean    []float64
	invStd  []float64
}

func NewBatchNorm(features int) *BatchNorm {
	gamma := mat.NewDense(1, features, nil)
	runningVar := mat.NewDense(1, features, nil)
	for j := 0; j < features; j++ {
		gamma.Set(0, j, 1.0)
		runningVar.Set(0, j, 1.0)
	}
	return &BatchNorm{
		Gamma:       gamma,
		Beta:        mat.NewDense(1, features, nil),
		RunningMean: mat.NewDense(1, features, nil),
		RunningVar:  runningVar,
		dGamma:      mat.NewDense(1, features, nil),
		dBeta:       mat.NewDense(1, features, nil),
	}
}

func (b *BatchNorm) Forward(x *mat.Dense, train bool) *mat.Dense {
	rows, cols := x.Dims()
	y := mat.NewDense(rows, cols, nil)

	if !train {
		for j := 0; j < cols; j++ {
			mean := b.RunningMean.At(0, j)
			invStd := 1.0 / math.Sqrt(b.RunningVar.At(0, j)+batchNormEps)
			for i := 0; i < rows; i++ {
				xhat := (x.At(i, j) - mean) * invStd
				y.Set(i, j, xhat*b.Gamma.At(0, j)+b.Beta.At(0, j))
			}
		}
		return y
	}

	b.x = x
	b.xhat = mat.NewDense(rows, cols, nil)
	b.mean = make([]float64, cols)
	b.invStd = make([]float64, cols)

	n := float64(rows)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += x.At(i, j)
		}
		mean := sum / n

		variance := 0.0
		for i := 0; i < rows; i++ {
			diff := x.At(i, j) - mean
			variance += diff * diff
		}
		variance /= n

		invStd := 1.0 / math.Sqrt(variance+batchNormEps)
		b.mean[j] = mean
		b.invStd[j] = invStd

		b.RunningMean.Set(0, j, (1-batchNormMomentum)*b.RunningMean.At(0, j)+batchNormMomentum*mean)
		b.RunningVar.Set(0, j, (1-batchNormMomentum)*b.RunningVar.At(0, j)+batchNormMomentum*variance)

		for i := 0; i < rows; i++ {
			xhat := (x.At(i, j) - mean) * invStd
			b.xhat.Set(i, j, xhat)
			y.Set(i, j, xhat*b.Gamma.At(0, j)+b.Beta.At(0, j))
		}
	}
	return y
}

func (b *BatchNorm) Backward(grad *mat.Dense) *mat.Dense {
	rows, cols := grad.Dims()
	n := float64(rows)
	dx := mat.NewDense(rows, cols, nil)

	for j := 0; j < cols; j++ {
		sumGrad := 0.0
		sumGradXhat := 0.0
		for i := 0; i < rows; i++ {
			sumGrad += grad.At(i, j)
			sumGradXhat += grad.At(i, j) * b.xhat.At(i, j)
		}
		b.dBeta.Set(0, j, sumGrad)
		b.dGamma.Set(0, j, sumGradXhat)

		gamma := b.Gamma.At(0, j)
		invStd := b.invStd[j]
		for i := 0; i < rows; i++ {
			dxhat := grad.At(i, j) * gamma
			dx.Set(i, j, invStd*(dxhat-sumGrad*gamma/n-b.xhat.At(i, j)*sumGradXhat*gamma/n))
		}
	}
	return dx
}

func (b *BatchNorm) Params() []*mat.Dense { return []*mat.Dense{b.Gamma, b.Beta} }
func (b *BatchNorm) Grads() []*mat.Dense  { return []*mat.Dense{b.dGamma, b.dBeta} }
