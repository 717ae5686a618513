//go:build !fastmath

package shaper

import "math"

func mathSqrt(x float64) float64 {
	return math.Sqrt(x)
}

func mathTanh(x float64) float64 {
	return math.Tanh(x)
}

func mathAtanh(x float64) float64 {
	return math.Atanh(x)
}

func mathAsinh(x float64) float64 {
	return math.Asinh(x)
}

func mathSinh(x float64) float64 {
	return math.Sinh(x)
}
