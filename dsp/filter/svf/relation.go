package svf

import "github.com/cwbudde/algo-vafilter/dsp/shaper"

// Relation is the implicit equation of the band-pass node.
//
// With bp = sat(u) and the damping path hp = x - 2k*bp - 2u - lp, eliminating
// hp and lp from the TPT integrator equations leaves
//
//	F(u)  = u + b*sat(u) - a
//	F'(u) = 1 + b*sat'(u)
//
// where a = (g*(x-s2) + s1)/(2g) carries input and state and
// b = (1 + 2kg + g^2)/(2g) carries cutoff and resonance. b >= 0 whenever
// k >= -1, which keeps F' >= 1.
type Relation[C shaper.Curve] struct {
	curve C

	a, b float64
	prev float64
}

// NewRelation returns a relation using curve with zero coefficients.
func NewRelation[C shaper.Curve](curve C) Relation[C] {
	return Relation[C]{curve: curve}
}

// Configure sets the per-sample coefficients.
func (r *Relation[C]) Configure(a, b float64) {
	r.a = a
	r.b = b
}

// SetEstimate sets the warm start for the next solve.
func (r *Relation[C]) SetEstimate(u float64) { r.prev = u }

// Estimate returns the previous sample's solution.
func (r Relation[C]) Estimate() float64 { return r.prev }

// Eval returns the residual F(u) and its derivative.
func (r Relation[C]) Eval(u float64) (y, dy float64) {
	s, ds := r.curve.Eval(u)

	return u + r.b*s - r.a, 1 + r.b*ds
}
