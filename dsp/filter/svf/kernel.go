package svf

import (
	"fmt"

	"github.com/cwbudde/algo-vafilter/dsp/newton"
	"github.com/cwbudde/algo-vafilter/dsp/shaper"
)

// kernel hides the curve type so Filter can switch curves at runtime. The
// Newton loop avoids per-sample interface dispatch of the curve.
type kernel interface {
	// solve resolves the relation for (a, b) and returns the pre-curve
	// solution u, the band-pass value sat(u) and the solver outcome.
	solve(a, b float64) (u, bp float64, res newton.Result)
	bandpass(u float64) float64
	inverse(bp float64) float64
	estimate() float64
	setEstimate(u float64)
	solver() solverControl
}

// solverControl is the curve-independent part of *newton.Solver.
type solverControl interface {
	SetPrecision(prec float64) error
	SetMaxStep(maxStep float64) error
	SetIterations(n int) error
	SetFallback(fallback newton.Fallback) error
	Previous() float64
	SetPrevious(x float64)
	Reset()
}

type curveKernel[C shaper.Curve] struct {
	curve C
	nr    *newton.Solver[Relation[C]]
}

func newCurveKernel[C shaper.Curve](curve C, opts ...newton.Option) (*curveKernel[C], error) {
	nr, err := newton.New(NewRelation(curve), opts...)
	if err != nil {
		return nil, err
	}

	return &curveKernel[C]{curve: curve, nr: nr}, nil
}

func (k *curveKernel[C]) solve(a, b float64) (u, bp float64, res newton.Result) {
	fn := k.nr.Fn()
	fn.Configure(a, b)

	res = k.nr.SolveResult()
	u = res.X
	fn.SetEstimate(u)

	bp, _ = k.curve.Eval(u)

	return u, bp, res
}

func (k *curveKernel[C]) bandpass(u float64) float64 {
	bp, _ := k.curve.Eval(u)
	return bp
}

func (k *curveKernel[C]) inverse(bp float64) float64 { return k.curve.EvalInv(bp) }

func (k *curveKernel[C]) estimate() float64 { return k.nr.Fn().Estimate() }

func (k *curveKernel[C]) setEstimate(u float64) { k.nr.Fn().SetEstimate(u) }

func (k *curveKernel[C]) solver() solverControl { return k.nr }

func newKernel(kind shaper.Kind, opts ...newton.Option) (kernel, error) {
	switch kind {
	case shaper.KindPolynomial:
		return asKernel(newCurveKernel(shaper.Polynomial{}, opts...))
	case shaper.KindReciprocal:
		return asKernel(newCurveKernel(shaper.Reciprocal{}, opts...))
	case shaper.KindAsinh:
		return asKernel(newCurveKernel(shaper.Asinh{}, opts...))
	case shaper.KindTanh:
		return asKernel(newCurveKernel(shaper.Tanh{}, opts...))
	default:
		return nil, fmt.Errorf("svf: invalid curve: %d", kind)
	}
}

func asKernel[C shaper.Curve](k *curveKernel[C], err error) (kernel, error) {
	if err != nil {
		return nil, err
	}

	return k, nil
}
