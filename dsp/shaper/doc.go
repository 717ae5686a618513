// Package shaper provides the saturating shaping curves used in the feedback
// path of the nonlinear state-variable filter.
//
// Every curve is odd, strictly increasing on its operating domain, and comes
// with an analytic derivative and an inverse:
//   - Polynomial: x(1 - |x|/4) on [-2, 2]. Cheapest, mildest coloration.
//   - Reciprocal: x/(1+|x|). Softest knee.
//   - Asinh: asinh(2x)/2. Richest harmonics, unbounded logarithmic growth.
//   - Tanh: tanh(x). Hardest clipping character.
//
// Curves are stateless zero-size values. Hot loops should hold the concrete
// type (see the generic types in package newton and svf); Kind and New exist
// for runtime selection.
//
// Building with -tags fastmath replaces the transcendental functions with the
// algo-approx approximations. Round trips then hold to 1e-4 relative error,
// down to the smallest inputs.
package shaper
