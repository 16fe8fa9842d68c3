package prediction

import "errors"

var (
	// ErrInsufficientHistory means the employee has too few attendance days
	// to build a forecast window.
	ErrInsufficientHistory = errors.New("not enough attendance history for employee")
)
