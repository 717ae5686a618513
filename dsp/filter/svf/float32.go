package svf

import "github.com/chewxy/math32"

// ProcessBlock32 is ProcessBlock for float32 host buffers. Processing runs in
// float64; NaN and Inf input samples are treated as silence.
func (f *Filter) ProcessBlock32(low, band, high, src []float32) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = low[n-1]
	_ = band[n-1]
	_ = high[n-1]

	for i, x := range src {
		o := f.ProcessSample(float64(sanitize32(x)))
		low[i] = float32(o.Lowpass)
		band[i] = float32(o.Bandpass)
		high[i] = float32(o.Highpass)
	}
}

// ProcessInPlace32 replaces buf with the selected response.
func (f *Filter) ProcessInPlace32(buf []float32, out Output) {
	for i, x := range buf {
		buf[i] = float32(f.ProcessSample(float64(sanitize32(x))).Select(out))
	}
}

func sanitize32(x float32) float32 {
	if math32.IsNaN(x) || math32.IsInf(x, 0) {
		return 0
	}

	return x
}
