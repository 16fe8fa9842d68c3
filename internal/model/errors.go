package model

import "errors"

var (
	ErrNotTrained    = errors.New("model has not been trained")
	ErrEmptyDataset  = errors.New("no training data available")
	ErrTooFewSamples = errors.New("not enough training data")
)
