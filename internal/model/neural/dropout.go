package neural

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Dropout randomly zeroes activations during training with inverted
// scaling, so inference needs no rescale.
type Dropout struct {
	Rate float64

	rng  *rand.Rand
	mask *mat.Dense
}

func NewDropout(rate float64, rng *rand.Rand) *Dropout {
	return &Dropout{Rate: rate, rng: rng}
}

func (d *Dropout) Forward(x *mat.Dense, train bool) *mat.Dense {
	if !train {
		return x
	}
	if d.Rate <= 0 {
		d.mask = nil
		return x
	}
	rows, cols := x.Dims()
	keep := 1.0 - d.Rate
	d.mask = mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if d.rng.Float64() < keep {
				d.mask.Set(i, j, 1.0/keep)
				y.Set(i, j, x.At(i, j)/keep)
			}
		}
	}
	return y
}

func (d *Dropout) Backward(grad *mat.Dense) *mat.Dense {
	if d.mask == nil {
		return grad
	}
	rows, cols := grad.Dims()
	dx := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dx.Set(i, j, grad.At(i, j)*d.mask.At(i, j))
		}
	}
	return dx
}

func (d *Dropout) Params() []*mat.Dense { return nil }
func (d *Dropout) Grads() []*mat.Dense  { return nil }
