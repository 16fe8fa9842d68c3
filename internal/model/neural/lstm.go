package neural

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// LSTM is a single recurrent layer processing a batch of equal-length
// sequences one timestep at a time. Gate order inside the stacked weight
// matrices is input, forget, cell, output.
type LSTM struct {
	InputSize  int
	HiddenSize int

	Wx *mat.Dense // InputSize x 4*HiddenSize
	Wh *mat.Dense // HiddenSize x 4*HiddenSize
	B  *mat.Dense // 1 x 4*HiddenSize

	dWx *mat.Dense
	dWh *mat.Dense
	dB  *mat.Dense

	xs             []*mat.Dense
	hs             []*mat.Dense // hs[0] is the zero initial state
	cs             []*mat.Dense
	is, fs, gs, os []*mat.Dense
}

func NewLSTM(inputSize, hiddenSize int, rng *rand.Rand) *LSTM {
	scale := 1.0 / math.Sqrt(float64(hiddenSize))
	uniform := func(rows, cols int) *mat.Dense {
		m := mat.NewDense(rows, cols, nil)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				m.Set(i, j, (rng.Float64()*2-1)*scale)
			}
		}
		return m
	}
	return &LSTM{
		InputSize:  inputSize,
		HiddenSize: hiddenSize,
		Wx:         uniform(inputSize, 4*hiddenSize),
		Wh:         uniform(hiddenSize, 4*hiddenSize),
		B:          uniform(1, 4*hiddenSize),
		dWx:        mat.NewDense(inputSize, 4*hiddenSize, nil),
		dWh:        mat.NewDense(hiddenSize, 4*hiddenSize, nil),
		dB:         mat.NewDense(1, 4*hiddenSize, nil),
	}
}

// ForwardSeq runs the layer over all timesteps and returns the hidden state
// at each step. Every element of xs must be batch x InputSize.
func (l *LSTM) ForwardSeq(xs []*mat.Dense, train bool) []*mat.Dense {
	steps := len(xs)
	batch, _ := xs[0].Dims()
	h := l.HiddenSize

	// Step state lives in locals and is committed to the layer only when
	// training. Evaluation must leave the layer untouched so concurrent
	// predictions can share it.
	hs := make([]*mat.Dense, steps+1)
	cs := make([]*mat.Dense, steps+1)
	is := make([]*mat.Dense, steps)
	fs := make([]*mat.Dense, steps)
	gs := make([]*mat.Dense, steps)
	os := make([]*mat.Dense, steps)
	hs[0] = mat.NewDense(batch, h, nil)
	cs[0] = mat.NewDense(batch, h, nil)

	for t := 0; t < steps; t++ {
		z := mat.NewDense(batch, 4*h, nil)
		z.Mul(xs[t], l.Wx)
		zh := mat.NewDense(batch, 4*h, nil)
		zh.Mul(hs[t], l.Wh)
		z.Add(z, zh)

		ig := mat.NewDense(batch, h, nil)
		fg := mat.NewDense(batch, h, nil)
		gg := mat.NewDense(batch, h, nil)
		og := mat.NewDense(batch, h, nil)
		ct := mat.NewDense(batch, h, nil)
		ht := mat.NewDense(batch, h, nil)
		for b := 0; b < batch; b++ {
			for j := 0; j < h; j++ {
				iv := sigmoid(z.At(b, j) + l.B.At(0, j))
				fv := sigmoid(z.At(b, h+j) + l.B.At(0, h+j))
				gv := math.Tanh(z.At(b, 2*h+j) + l.B.At(0, 2*h+j))
				ov := sigmoid(z.At(b, 3*h+j) + l.B.At(0, 3*h+j))

				cv := fv*cs[t].At(b, j) + iv*gv
				ig.Set(b, j, iv)
				fg.Set(b, j, fv)
				gg.Set(b, j, gv)
				og.Set(b, j, ov)
				ct.Set(b, j, cv)
				ht.Set(b, j, ov*math.Tanh(cv))
			}
		}
		is[t], fs[t], gs[t], os[t] = ig, fg, gg, og
		cs[t+1] = ct
		hs[t+1] = ht
	}

	if train {
		l.xs = xs
		l.hs = hs
		l.cs = cs
		l.is, l.fs, l.gs, l.os = is, fs, gs, os
	}
	return hs[1:]
}

// BackwardSeq backpropagates per-step hidden-state gradients through time
// and returns the gradient with respect to each input step. Callers that
// only use the final hidden state pass zero matrices for earlier steps.
func (l *LSTM) BackwardSeq(dhs []*mat.Dense) []*mat.Dense {
	steps := len(l.xs)
	batch, _ := l.xs[0].Dims()
	h := l.HiddenSize

	l.dWx.Zero()
	l.dWh.Zero()
	l.dB.Zero()

	dxs := make([]*mat.Dense, steps)
	dhNext := mat.NewDense(batch, h, nil)
	dcNext := mat.NewDense(batch, h, nil)

	for t := steps - 1; t >= 0; t-- {
		dz := mat.NewDense(batch, 4*h, nil)
		dcPrev := mat.NewDense(batch, h, nil)

		for b := 0; b < batch; b++ {
			for j := 0; j < h; j++ {
				dh := dhs[t].At(b, j) + dhNext.At(b, j)

				iv := l.is[t].At(b, j)
				fv := l.fs[t].At(b, j)
				gv := l.gs[t].At(b, j)
				ov := l.os[t].At(b, j)
				tanhC := math.Tanh(l.cs[t+1].At(b, j))

				dc := dcNext.At(b, j) + dh*ov*(1-tanhC*tanhC)

				dz.Set(b, j, dc*gv*iv*(1-iv))
				dz.Set(b, h+j, dc*l.cs[t].At(b, j)*fv*(1-fv))
				dz.Set(b, 2*h+j, dc*iv*(1-gv*gv))
				dz.Set(b, 3*h+j, dh*tanhC*ov*(1-ov))

				dcPrev.Set(b, j, dc*fv)
			}
		}

		var dWx, dWh mat.Dense
		dWx.Mul(l.xs[t].T(), dz)
		dWh.Mul(l.hs[t].T(), dz)
		l.dWx.Add(l.dWx, &dWx)
		l.dWh.Add(l.dWh, &dWh)
		for j := 0; j < 4*h; j++ {
			sum := l.dB.At(0, j)
			for b := 0; b < batch; b++ {
				sum += dz.At(b, j)
			}
			l.dB.Set(0, j, sum)
		}

		dx := mat.NewDense(batch, l.InputSize, nil)
		dx.Mul(dz, l.Wx.T())
		dxs[t] = dx

		dhNext.Mul(dz, l.Wh.T())
		dcNext = dcPrev
	}
	return dxs
}

func (l *LSTM) Params() []*mat.Dense { return []*mat.Dense{l.Wx, l.Wh, l.B} }
func (l *LSTM) Grads() []*mat.Dense  { return []*mat.Dense{l.dWx, l.dWh, l.dB} }
