//go:build fastmath

package svf

// curveRoundTripTol bounds |Eval(EvalInv(y)) - y| for the band-pass mapping.
const curveRoundTripTol = 1e-6
