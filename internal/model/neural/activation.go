package neural

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ReLU zeroes negative activations.
type ReLU struct {
	x *mat.Dense
}

func (r *ReLU) Forward(x *mat.Dense, train bool) *mat.Dense {
	if train {
		r.x = x
	}
	rows, cols := x.Dims()
	y := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := x.At(i, j); v > 0 {
				y.Set(i, j, v)
			}
		}
	}
	return y
}

func (r *ReLU) Backward(grad *mat.Dense) *mat.Dense {
	rows, cols := grad.Dims()
	dx := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if r.x.At(i, j) > 0 {
				dx.Set(i, j, grad.At(i, j))
			}
		}
	}
	return dx
}

func (r *ReLU) Params() []*mat.Dense { return nil }
func (r *ReLU) Grads() []*mat.Dense  { return nil }

// Sigmoid squashes activations into (0, 1).
type Sigmoid struct {
	y *mat.Dense
}

func sigmoid(v float64) float64 { return 1.0 / (1.0 + math.Exp(-v)) }

func (s *Sigmoid) Forward(x *mat.Dense, train bool) *mat.Dense {
	rows, cols := x.Dims()
	y := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			y.Set(i, j, sigmoid(x.At(i, j)))
		}
	}
	if train {
		s.y = y
	}
	return y
}

func (s *Sigmoid) Backward(grad *mat.Dense) *mat.Dense {
	rows, cols := grad.Dims()
	dx := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := s.y.At(i, j)
			dx.Set(i, j, grad.At(i, j)*v*(1.0-v))
		}
	}
	return dx
}

func (s *Sigmoid) Params() []*mat.Dense { return nil }
func (s *Sigmoid) Grads() []*mat.Dense  { return nil }
