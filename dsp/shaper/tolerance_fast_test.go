//go:build fastmath

package shaper

const (
	roundTripTol   = 1e-4
	derivativeStep = 1e-3
	derivativeTol  = 1e-3
)
