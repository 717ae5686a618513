// Package response measures the magnitude response of a linear or weakly
// nonlinear processor from its impulse response.
//
// The impulse response is zero-padded to a power-of-two FFT size and
// transformed once; magnitudes cover the bins from DC to Nyquist. Helpers
// locate the resonant peak and the first crossing of a level relative to the
// passband, which is how cutoff tracking and resonance emphasis are checked.
package response
