// Package biquad provides a scalar second-order IIR section and the RBJ
// low-pass design used as the anti-alias filter around oversampled nonlinear
// processing.
package biquad
