package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-vafilter/dsp/core"
)

// Errors returned by response functions.
var (
	ErrEmptyImpulse      = errors.New("response: impulse response is empty")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("response: fft size must be a power of two >= impulse length")
)

// Response is a one-sided magnitude response.
type Response struct {
	SampleRate float64
	// Freqs holds the bin center frequencies in Hz, DC to Nyquist.
	Freqs []float64
	// Magnitude holds the linear magnitude per bin.
	Magnitude []float64
}

// FromImpulse transforms ir into a magnitude response. fftSize 0 selects the
// next power of two >= len(ir).
func FromImpulse(ir []float64, sampleRate float64, fftSize int) (*Response, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyImpulse
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, ErrInvalidSampleRate
	}

	if fftSize == 0 {
		fftSize = nextPowerOf2(max(len(ir), 2))
	}

	if fftSize < len(ir) || fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, ErrInvalidFFTSize
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(spec[i])
		im[i] = imag(spec[i])
	}

	r := &Response{
		SampleRate: sampleRate,
		Freqs:      make([]float64, bins),
		Magnitude:  make([]float64, bins),
	}

	vecmath.Magnitude(r.Magnitude, re, im)

	binHz := sampleRate / float64(fftSize)
	for i := range r.Freqs {
		r.Freqs[i] = float64(i) * binHz
	}

	return r, nil
}

// Capture records n samples of process driven by a unit impulse.
func Capture(process func(x float64) float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := 0.0
		if i == 0 {
			x = 1
		}

		out[i] = process(x)
	}

	return out
}

// MagnitudeDB returns the response in dB.
func (r *Response) MagnitudeDB() []float64 {
	out := make([]float64, len(r.Magnitude))
	for i, m := range r.Magnitude {
		out[i] = core.LinearToDB(m)
	}

	return out
}

// At returns the linearly interpolated magnitude at freq.
func (r *Response) At(freq float64) float64 {
	n := len(r.Magnitude)
	if n == 0 {
		return 0
	}

	binHz := r.SampleRate / float64(2*(n-1))
	pos := core.Clamp(freq/binHz, 0, float64(n-1))

	i := int(pos)
	if i >= n-1 {
		return r.Magnitude[n-1]
	}

	frac := pos - float64(i)

	return r.Magnitude[i] + frac*(r.Magnitude[i+1]-r.Magnitude[i])
}

// Peak returns the frequency and magnitude of the largest bin.
func (r *Response) Peak() (freq, mag float64) {
	if len(r.Magnitude) == 0 {
		return 0, 0
	}

	i := floats.MaxIdx(r.Magnitude)

	return r.Freqs[i], r.Magnitude[i]
}

// FallsBelow returns the first frequency above ref at which the magnitude
// drops levelDB under the magnitude at ref. It reports false when the
// response never drops that far.
func (r *Response) FallsBelow(ref, levelDB float64) (float64, bool) {
	threshold := r.At(ref) * core.DBToLinear(-math.Abs(levelDB))

	for i, f := range r.Freqs {
		if f <= ref || r.Magnitude[i] >= threshold {
			continue
		}

		if i == 0 {
			return f, true
		}

		// Interpolate between the last bin above the threshold and this one.
		prev := r.Magnitude[i-1]
		if prev <= r.Magnitude[i] {
			return f, true
		}

		t := core.Clamp((prev-threshold)/(prev-r.Magnitude[i]), 0, 1)

		return r.Freqs[i-1] + t*(f-r.Freqs[i-1]), true
	}

	return 0, false
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p *= 2
	}

	return p
}
