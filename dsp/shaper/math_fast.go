//go:build fastmath

package shaper

import (
	"github.com/meko-christian/algo-approx"
)

const (
	// tanhSaturation is the magnitude beyond which tanh is 1 in float64.
	tanhSaturation = 20.0

	// Below seriesLimit the hyperbolic functions use their odd Taylor
	// series; the exp/log forms cancel near zero.
	seriesLimit = 0.125

	prec = approx.PrecisionHigh
)

func mathSqrt(x float64) float64 {
	return approx.FastSqrtPrec(x, prec)
}

// mathTanh computes tanh(x) = (e^2x - 1)/(e^2x + 1) on |x| and restores the sign.
func mathTanh(x float64) float64 {
	a := abs(x)
	if a < seriesLimit {
		x2 := x * x
		return x * (1 + x2*(-1.0/3+x2*(2.0/15+x2*(-17.0/315+x2*(62.0/2835)))))
	}

	if a >= tanhSaturation {
		return copySign(1, x)
	}

	e := approx.FastExpPrec(2*a, prec)

	return copySign((e-1)/(e+1), x)
}

// mathAtanh computes atanh(x) = ln((1+x)/(1-x))/2.
func mathAtanh(x float64) float64 {
	a := abs(x)
	if a < seriesLimit {
		x2 := x * x
		return x * (1 + x2*(1.0/3+x2*(1.0/5+x2*(1.0/7+x2*(1.0/9+x2*(1.0/11))))))
	}

	return copySign(0.5*approx.FastLogPrec((1+a)/(1-a), prec), x)
}

// mathAsinh computes asinh(x) = ln(x + sqrt(x^2+1)).
func mathAsinh(x float64) float64 {
	a := abs(x)
	if a < seriesLimit {
		x2 := x * x
		return x * (1 + x2*(-1.0/6+x2*(3.0/40+x2*(-15.0/336+x2*(105.0/3456)))))
	}

	return copySign(approx.FastLogPrec(a+mathSqrt(a*a+1), prec), x)
}

// mathSinh computes sinh(x) = (e^x - e^-x)/2.
func mathSinh(x float64) float64 {
	a := abs(x)
	if a < seriesLimit {
		x2 := x * x
		return x * (1 + x2*(1.0/6+x2*(1.0/120+x2*(1.0/5040+x2*(1.0/362880)))))
	}

	e := approx.FastExpPrec(a, prec)

	return copySign(0.5*(e-1/e), x)
}

func copySign(magnitude, sign float64) float64 {
	if sign < 0 {
		return -magnitude
	}

	return magnitude
}
