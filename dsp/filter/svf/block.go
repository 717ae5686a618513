package svf

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vafilter/dsp/core"
)

// Mix weights the three responses for ProcessMixTo.
type Mix struct {
	Low, Band, High float64
}

// Common response mixes.
var (
	MixLowpass  = Mix{Low: 1}
	MixBandpass = Mix{Band: 1}
	MixHighpass = Mix{High: 1}
	MixNotch    = Mix{Low: 1, High: 1}
	MixPeak     = Mix{Low: 1, High: -1}
)

// ProcessBlock processes src and writes the three responses. low, band and
// high must be at least len(src) long.
func (f *Filter) ProcessBlock(low, band, high, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = low[n-1]
	_ = band[n-1]
	_ = high[n-1]

	for i, x := range src {
		o := f.ProcessSample(x)
		low[i] = o.Lowpass
		band[i] = o.Bandpass
		high[i] = o.Highpass
	}
}

// ProcessInPlace replaces buf with the selected response.
func (f *Filter) ProcessInPlace(buf []float64, out Output) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i]).Select(out)
	}
}

// ProcessTo writes the selected response of src into dst. Both slices must
// have the same length.
func (f *Filter) ProcessTo(dst, src []float64, out Output) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x).Select(out)
	}
}

// ProcessMixTo writes the weighted sum of the responses of src into dst.
// dst and src may be the same slice. Internal scratch buffers grow only when
// a larger block than before is processed.
func (f *Filter) ProcessMixTo(dst, src []float64, m Mix) {
	n := len(src)
	if n == 0 {
		return
	}

	dst = dst[:n]

	f.scratchLow = core.EnsureLen(f.scratchLow, n)
	f.scratchBand = core.EnsureLen(f.scratchBand, n)
	f.scratchHigh = core.EnsureLen(f.scratchHigh, n)

	f.ProcessBlock(f.scratchLow, f.scratchBand, f.scratchHigh, src)

	vecmath.ScaleBlock(dst, f.scratchLow, m.Low)
	vecmath.ScaleBlock(f.scratchBand, f.scratchBand, m.Band)
	vecmath.AddBlockInPlace(dst, f.scratchBand)
	vecmath.ScaleBlock(f.scratchHigh, f.scratchHigh, m.High)
	vecmath.AddBlockInPlace(dst, f.scratchHigh)
}
