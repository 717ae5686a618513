// Package svf provides an antisaturating zero-delay-feedback state-variable
// filter with simultaneous low-pass, band-pass and high-pass outputs.
//
// The filter is a trapezoidally integrated (TPT) two-pole SVF whose damping
// path runs through the inverse of a shaping curve from package shaper. The
// band-pass output appears on both sides of the resulting per-sample equation,
// so each sample is resolved with the bounded Newton solver from package
// newton, warm-started from the previous sample.
//
// Resonance r maps to damping R = 1 - r. For r in [0, 1] the filter is
// stable; at r = 1 the small-signal loop is lossless and the antisaturator
// caps the self-oscillation amplitude. Values above 1 are accepted up to 1.5
// and should be paired with oversampling.
//
// Filters are stateful, deterministic, allocation-free per sample and support:
//   - Per-sample, block, in-place, weighted-mix and float32 processing
//   - Runtime curve selection with continuous band-pass output
//   - Explicit state save/restore via State
//   - Optional oversampled anti-alias processing (1, 2, 4, 8)
//   - Stereo helper with per-channel independent state
package svf
