// Package newton provides a bounded-iteration Newton-Raphson root finder for
// real-time use.
//
// A Solver owns a Function by value and runs a fixed maximum number of
// iterations per Solve call, so worst-case cost is independent of the input.
// Each correction step is clamped to a maximum magnitude, which keeps functions
// with an abrupt derivative change (for example at a saturation knee) from
// overshooting into an unstable region.
//
// When the iteration budget is exhausted without meeting the precision, the
// solver returns either the last iterate or the last value that converged on
// an earlier call, depending on the configured Fallback.
package newton
