package neural

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam implements the Adam update rule with optional L2 weight decay folded
// into the gradient.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Eps          float64
	WeightDecay  float64

	step int
	m    []*mat.Dense
	v    []*mat.Dense
}

func NewAdam(learningRate, weightDecay float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Eps:          1e-8,
		WeightDecay:  weightDecay,
	}
}

// Step applies one update. params and grads must stay in the same order and
// shape across calls.
func (a *Adam) Step(params, grads []*mat.Dense) {
	if a.m == nil {
		a.m = make([]*mat.Dense, len(params))
		a.v = make([]*mat.Dense, len(params))
		for k, p := range params {
			rows, cols := p.Dims()
			a.m[k] = mat.NewDense(rows, cols, nil)
			a.v[k] = mat.NewDense(rows, cols, nil)
		}
	}

	a.step++
	bc1 := 1.0 - math.Pow(a.Beta1, float64(a.step))
	bc2 := 1.0 - math.Pow(a.Beta2, float64(a.step))

	for k, p := range params {
		rows, cols := p.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				g := grads[k].At(i, j) + a.WeightDecay*p.At(i, j)

				m := a.Beta1*a.m[k].At(i, j) + (1-a.Beta1)*g
				v := a.Beta2*a.v[k].At(i, j) + (1-a.Beta2)*g*g
				a.m[k].Set(i, j, m)
				a.v[k].Set(i, j, v)

				p.Set(i, j, p.At(i, j)-a.LearningRate*(m/bc1)/(math.Sqrt(v/bc2)+a.Eps))
			}
		}
	}
}
