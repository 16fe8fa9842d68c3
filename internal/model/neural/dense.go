package neural

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Dense is a fully connected layer computing y = xW + b.
type Dense struct {
	W *mat.Dense
	B *mat.Dense

	dW *mat.Dense
	dB *mat.Dense

	x *mat.Dense
}

// NewDense initializes weights with He scaling, which behaves well for both
// the ReLU stacks and the sigmoid heads used here.
func NewDense(in, out int, rng *rand.Rand) *Dense {
	scale := math.Sqrt(2.0 / float64(in))
	w := mat.NewDense(in, out, nil)
	for i := 0; i < in; i++ {
		for j := 0; j < out; j++ {
			w.Set(i, j, rng.NormFloat64()*scale)
		}
	}
	return &Dense{
		W:  w,
		B:  mat.NewDense(1, out, nil),
		dW: mat.NewDense(in, out, nil),
		dB: mat.NewDense(1, out, nil),
	}
}

func (d *Dense) Forward(x *mat.Dense, train bool) *mat.Dense {
	// The input is only needed for Backward. Evaluation must leave the
	// layer untouched so concurrent predictions can share it.
	if train {
		d.x = x
	}
	rows, _ := x.Dims()
	_, out := d.W.Dims()
	y := mat.NewDense(rows, out, nil)
	y.Mul(x, d.W)
	for i := 0; i < rows; i++ {
		for j := 0; j < out; j++ {
			y.Set(i, j, y.At(i, j)+d.B.At(0, j))
		}
	}
	return y
}

func (d *Dense) Backward(grad *mat.Dense) *mat.Dense {
	d.dW.Mul(d.x.T(), grad)
	rows, out := grad.Dims()
	for j := 0; j < out; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += grad.At(i, j)
		}
		d.dB.Set(0, j, sum)
	}
	in, _ := d.W.Dims()
	dx := mat.NewDense(rows, in, nil)
	dx.Mul(grad, d.W.T())
	return dx
}

func (d *Dense) Params() []*mat.Dense { return []*mat.Dense{d.W, d.B} }
func (d *Dense) Grads() []*mat.Dense  { return []*mat.Dense{d.dW, d.dB} }
