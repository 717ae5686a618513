// Package testutil provides deterministic test signals and tolerance helpers
// shared by the filter tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// ExpSweep generates an exponential sine sweep from f0 to f1 Hz spanning
// length samples. f0 and f1 must be positive.
func ExpSweep(f0, f1, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	if length == 0 {
		return out
	}

	if f0 == f1 {
		return DeterministicSine(f0, sampleRate, amplitude, length)
	}

	duration := float64(length) / sampleRate
	rate := math.Log(f1/f0) / duration
	scale := 2 * math.Pi * f0 / rate

	for i := range out {
		t := float64(i) / sampleRate
		out[i] = amplitude * math.Sin(scale*(math.Exp(rate*t)-1))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// PeakAbs returns the largest absolute value in data[from:to]. Bounds are
// clipped to the slice.
func PeakAbs(data []float64, from, to int) float64 {
	from = max(from, 0)
	to = min(to, len(data))

	peak := 0.0
	for i := from; i < to; i++ {
		peak = math.Max(peak, math.Abs(data[i]))
	}
	return peak
}
