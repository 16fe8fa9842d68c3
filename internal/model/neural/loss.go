package neural

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const bceEps = 1e-7

// BCE returns the mean binary cross entropy and its gradient with respect
// to the predictions. Predictions are clamped away from 0 and 1.
func BCE(pred, target *mat.Dense) (float64, *mat.Dense) {
	rows, cols := pred.Dims()
	n := float64(rows * cols)
	grad := mat.NewDense(rows, cols, nil)

	loss := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			p := math.Min(math.Max(pred.At(i, j), bceEps), 1.0-bceEps)
			t := target.At(i, j)
			loss += -(t*math.Log(p) + (1-t)*math.Log(1-p))
			grad.Set(i, j, (p-t)/(p*(1-p))/n)
		}
	}
	return loss / n, grad
}

// MSE returns the mean squared error and its gradient with respect to the
// predictions.
func MSE(pred, target *mat.Dense) (float64, *mat.Dense) {
	rows, cols := pred.Dims()
	n := float64(rows * cols)
	grad := mat.NewDense(rows, cols, nil)

	loss := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			diff := pred.At(i, j) - target.At(i, j)
			loss += diff * diff
			grad.Set(i, j, 2*diff/n)
		}
	}
	return loss / n, grad
}

// ClipGradNorm rescales all gradients in place when their joint L2 norm
// exceeds maxNorm.
func ClipGradNorm(grads []*mat.Dense, maxNorm float64) {
	total := 0.0
	for _, g := range grads {
		rows, cols := g.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				v := g.At(i, j)
				total += v * v
			}
		}
	}
	norm := math.Sqrt(total)
	if norm <= maxNorm {
		return
	}
	scale := maxNorm / (norm + 1e-12)
	for _, g := range grads {
		g.Scale(scale, g)
	}
}
