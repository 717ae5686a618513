//go:build !fastmath

package shaper

const (
	roundTripTol   = 1e-9
	derivativeStep = 1e-6
	derivativeTol  = 1e-5
)
