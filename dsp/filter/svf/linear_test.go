//go:build !fastmath

package svf

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-vafilter/dsp/shaper"
	"github.com/cwbudde/algo-vafilter/internal/testutil"
)

// linearSVF is the plain TPT state-variable filter with damping R.
type linearSVF struct {
	g, r   float64
	s1, s2 float64
}

func newLinearSVF(cutoffHz, resonance, sampleRate float64) *linearSVF {
	return &linearSVF{
		g: math.Tan(math.Pi * cutoffHz / sampleRate),
		r: 1 - resonance,
	}
}

func (l *linearSVF) process(x float64) Outputs {
	hp := (x - (2*l.r+l.g)*l.s1 - l.s2) / (1 + 2*l.r*l.g + l.g*l.g)
	bp := l.g*hp + l.s1
	lp := l.g*bp + l.s2

	l.s1 = 2*bp - l.s1
	l.s2 = 2*lp - l.s2

	return Outputs{Lowpass: lp, Bandpass: bp, Highpass: hp}
}

func TestSmallSignalMatchesLinearSVF(t *testing.T) {
	const (
		amp = 1e-8
		tol = 1e-4
	)

	in := testutil.DeterministicNoise(5, amp, 2048)

	for _, kind := range shaper.Kinds() {
		for _, r := range []float64{0, 0.5, 0.9} {
			f := mustNew(t, 48000, WithCurve(kind), WithCutoffHz(2000), WithResonance(r))
			ref := newLinearSVF(2000, r, 48000)

			for i, x := range in {
				got := f.ProcessSample(x)
				want := ref.process(x)

				if math.Abs(got.Lowpass-want.Lowpass)/amp > tol ||
					math.Abs(got.Bandpass-want.Bandpass)/amp > tol ||
					math.Abs(got.Highpass-want.Highpass)/amp > tol {
					t.Fatalf("%s r=%g sample %d: got=%+v want=%+v", kind, r, i, got, want)
				}
			}
		}
	}
}

func TestOddSymmetry(t *testing.T) {
	in := testutil.DeterministicNoise(9, 0.9, 1024)
	neg := make([]float64, len(in))
	for i, v := range in {
		neg[i] = -v
	}

	for _, kind := range shaper.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			pos := mustNew(t, 48000, WithCurve(kind), WithCutoffHz(3000), WithResonance(0.95))
			inv := mustNew(t, 48000, WithCurve(kind), WithCutoffHz(3000), WithResonance(0.95))

			for i := range in {
				a := pos.ProcessSample(in[i])
				b := inv.ProcessSample(neg[i])

				if math.Abs(a.Lowpass+b.Lowpass) > 1e-12 ||
					math.Abs(a.Bandpass+b.Bandpass) > 1e-12 ||
					math.Abs(a.Highpass+b.Highpass) > 1e-12 {
					t.Fatalf("sample %d: outputs not odd: %+v vs %+v", i, a, b)
				}
			}
		})
	}
}
