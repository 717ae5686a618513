package core

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Quantizer converts normalized samples to signed PCM integers with optional
// triangular (TPDF) dither and hard limiting at the integer range.
type Quantizer struct {
	bitDepth int
	dither   bool
	rng      *rand.Rand

	bitMul  float64
	limitLo int
	limitHi int
}

// NewQuantizer creates a quantizer for bitDepth in [8, 32]. seed makes the
// dither sequence reproducible.
func NewQuantizer(bitDepth int, dither bool, seed uint64) (*Quantizer, error) {
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("core: bit depth must be in [8, 32]: %d", bitDepth)
	}

	q := &Quantizer{
		bitDepth: bitDepth,
		dither:   dither,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		bitMul:   math.Exp2(float64(bitDepth-1)) - 0.5,
	}
	q.limitLo = -int(math.Round(q.bitMul + 0.5))
	q.limitHi = int(math.Round(q.bitMul - 0.5))

	return q, nil
}

// BitDepth returns the output bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Quantize converts one sample in [-1, 1]. Out-of-range and non-finite
// input is limited.
func (q *Quantizer) Quantize(x float64) int {
	if math.IsNaN(x) {
		x = 0
	}

	scaled := q.bitMul * Clamp(x, -2, 2)
	if q.dither {
		scaled += q.rng.Float64() - q.rng.Float64()
	}

	return max(q.limitLo, min(q.limitHi, int(math.Floor(scaled+0.5))))
}

// QuantizeTo writes src as PCM integers into dst and returns the count.
func (q *Quantizer) QuantizeTo(dst []int, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = q.Quantize(src[i])
	}

	return n
}

// PCMToFloat converts signed PCM integers of bitDepth to normalized floats.
func PCMToFloat(dst []float64, src []int, bitDepth int) int {
	scale := 1 / math.Exp2(float64(bitDepth-1))

	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i]) * scale
	}

	return n
}
