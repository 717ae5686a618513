package biquad

import "math"

const defaultQ = 1 / math.Sqrt2

// Lowpass designs an RBJ cookbook low-pass at freq (Hz) with quality factor
// q. It returns zero coefficients (a muted section) when freq is not inside
// (0, sampleRate/2) or sampleRate is not positive. Non-positive q falls back
// to Butterworth.
func Lowpass(freq, q, sampleRate float64) Coefficients {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return Coefficients{}
	}

	if freq <= 0 || freq >= sampleRate/2 || !isFinite(freq) {
		return Coefficients{}
	}

	if q <= 0 || !isFinite(q) {
		q = defaultQ
	}

	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	a0 := 1 + alpha
	b1 := (1 - cw) / a0

	return Coefficients{
		B0: 0.5 * b1,
		B1: b1,
		B2: 0.5 * b1,
		A1: -2 * cw / a0,
		A2: (1 - alpha) / a0,
	}
}

// MagnitudeAt returns |H(e^jw)| of c at freq (Hz).
func (c Coefficients) MagnitudeAt(freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := complex(math.Cos(w), -math.Sin(w))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return cmplxAbs(num / den)
}

func cmplxAbs(z complex128) float64 {
	return math.Hypot(real(z), imag(z))
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
