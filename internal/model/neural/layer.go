// Package neural provides the dense and recurrent building blocks the
// trained models are assembled from, together with the Adam optimizer and
// the loss functions used to fit them. All tensors are gonum matrices with
// one sample per row.
package neural

import "gonum.org/v1/gonum/mat"

// Layer is a differentiable block in a feed-forward stack. Backward must be
// called after Forward with train=true and returns the gradient with
// respect to the layer input.
type Layer interface {
	Forward(x *mat.Dense, train bool) *mat.Dense
	Backward(grad *mat.Dense) *mat.Dense
	Params() []*mat.Dense
	Grads() []*mat.Dense
}

// Sequential chains layers front to back.
type Sequential struct {
	Layers []Layer
}

func (s *Sequential) Forward(x *mat.Dense, train bool) *mat.Dense {
	out := x
	for _, l := range s.Layers {
		out = l.Forward(out, train)
	}
	return out
}

func (s *Sequential) Backward(grad *mat.Dense) *mat.Dense {
	for i := len(s.Layers) - 1; i >= 0; i-- {
		grad = s.Layers[i].Backward(grad)
	}
	return grad
}

func (s *Sequential) Params() []*mat.Dense {
	var params []*mat.Dense
	for _, l := range s.Layers {
		params = append(params, l.Params()...)
	}
	return params
}

func (s *Sequential) Grads() []*mat.Dense {
	var grads []*mat.Dense
	for _, l := range s.Layers {
		grads = append(grads, l.Grads()...)
	}
	return grads
}
