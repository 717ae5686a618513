package svf

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-vafilter/dsp/shaper"
)

func BenchmarkProcessSample(b *testing.B) {
	tests := []struct {
		name string
		kind shaper.Kind
		os   int
	}{
		{name: "polynomial", kind: shaper.KindPolynomial, os: 1},
		{name: "reciprocal", kind: shaper.KindReciprocal, os: 1},
		{name: "asinh", kind: shaper.KindAsinh, os: 1},
		{name: "tanh", kind: shaper.KindTanh, os: 1},
		{name: "tanh_os4", kind: shaper.KindTanh, os: 4},
	}

	for _, tc := range tests {
		b.Run(tc.name, func(b *testing.B) {
			f, err := New(48000,
				WithCurve(tc.kind),
				WithCutoffHz(1800),
				WithResonance(0.9),
				WithOversampling(tc.os),
			)
			if err != nil {
				b.Fatalf("New() error = %v", err)
			}

			in := 0.0
			step := 2 * math.Pi * 220 / 48000

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				_ = f.ProcessSample(math.Sin(in))
				in += step
			}
		})
	}
}

func BenchmarkProcessMixTo1024(b *testing.B) {
	f, err := New(48000, WithCutoffHz(1400), WithResonance(0.8))
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}

	src := make([]float64, 1024)
	for i := range src {
		src[i] = 0.7*math.Sin(2*math.Pi*220*float64(i)/48000) + 0.2*math.Sin(2*math.Pi*660*float64(i)/48000)
	}

	dst := make([]float64, len(src))

	b.SetBytes(int64(len(src) * 8))
	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		f.ProcessMixTo(dst, src, MixNotch)
	}
}
