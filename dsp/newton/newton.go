package newton

import (
	"fmt"
	"math"
)

const (
	// DefaultIterations is the default iteration cap per Solve call.
	DefaultIterations = 8
	// MaxIterations is the largest accepted iteration cap.
	MaxIterations = 32
	// DefaultPrecision is the default convergence threshold on |step|.
	DefaultPrecision = 1e-9
	// DefaultMaxStep is the default bound on a single correction step.
	DefaultMaxStep = 0.125
)

// Function is the capability a Solver works on: a warm-start provider and a
// residual/derivative evaluator.
//
// Estimate must return a finite value. Eval returns the residual y at x and
// its derivative dy, which must not be zero.
type Function interface {
	Estimate() float64
	Eval(x float64) (y, dy float64)
}

// Fallback selects what Solve returns when the iteration budget is exhausted.
type Fallback int

const (
	// FallbackLastIterate returns the last computed iterate.
	FallbackLastIterate Fallback = iota
	// FallbackPrevious returns the solution of the most recent converged call,
	// or the initial fallback value if no call has converged yet.
	FallbackPrevious
)

func (f Fallback) String() string {
	switch f {
	case FallbackLastIterate:
		return "last_iterate"
	case FallbackPrevious:
		return "previous"
	default:
		return "unknown"
	}
}

// Result reports the outcome of one Solve call.
type Result struct {
	X          float64
	Iterations int
	Converged  bool
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	precision  float64
	maxStep    float64
	iterations int
	fallback   Fallback
	initial    float64
}

func defaultConfig() config {
	return config{
		precision:  DefaultPrecision,
		maxStep:    DefaultMaxStep,
		iterations: DefaultIterations,
		fallback:   FallbackLastIterate,
	}
}

// WithPrecision sets the convergence threshold on |step|. Must be finite and >= 0.
func WithPrecision(prec float64) Option {
	return func(cfg *config) error {
		if err := validatePrecision(prec); err != nil {
			return err
		}

		cfg.precision = prec

		return nil
	}
}

// WithMaxStep sets the bound on a single correction step. Must be finite and > 0.
func WithMaxStep(maxStep float64) Option {
	return func(cfg *config) error {
		if err := validateMaxStep(maxStep); err != nil {
			return err
		}

		cfg.maxStep = maxStep

		return nil
	}
}

// WithIterations sets the iteration cap in [1, MaxIterations].
func WithIterations(n int) Option {
	return func(cfg *config) error {
		if err := validateIterations(n); err != nil {
			return err
		}

		cfg.iterations = n

		return nil
	}
}

// WithFallback selects the non-convergence policy.
func WithFallback(fallback Fallback) Option {
	return func(cfg *config) error {
		if err := validateFallback(fallback); err != nil {
			return err
		}

		cfg.fallback = fallback

		return nil
	}
}

// WithInitialFallback seeds the previous-solution slot used by FallbackPrevious.
func WithInitialFallback(x float64) Option {
	return func(cfg *config) error {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("newton: initial fallback must be finite: %v", x)
		}

		cfg.initial = x

		return nil
	}
}

// Solver is a bounded Newton-Raphson root finder owning its Function.
type Solver[F Function] struct {
	fn F

	precision  float64
	maxStep    float64
	iterations int
	fallback   Fallback

	initial  float64
	previous float64
}

// New constructs a Solver around a copy of fn.
func New[F Function](fn F, opts ...Option) (*Solver[F], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Solver[F]{
		fn:         fn,
		precision:  cfg.precision,
		maxStep:    cfg.maxStep,
		iterations: cfg.iterations,
		fallback:   cfg.fallback,
		initial:    cfg.initial,
		previous:   cfg.initial,
	}, nil
}

// Fn returns the owned function for in-place reconfiguration before Solve.
func (s *Solver[F]) Fn() *F { return &s.fn }

// Precision returns the convergence threshold.
func (s *Solver[F]) Precision() float64 { return s.precision }

// MaxStep returns the step bound.
func (s *Solver[F]) MaxStep() float64 { return s.maxStep }

// Iterations returns the iteration cap.
func (s *Solver[F]) Iterations() int { return s.iterations }

// Fallback returns the non-convergence policy.
func (s *Solver[F]) Fallback() Fallback { return s.fallback }

// Previous returns the last converged solution (or the initial fallback).
func (s *Solver[F]) Previous() float64 { return s.previous }

// SetPrecision updates the convergence threshold.
func (s *Solver[F]) SetPrecision(prec float64) error {
	if err := validatePrecision(prec); err != nil {
		return err
	}

	s.precision = prec

	return nil
}

// SetMaxStep updates the step bound.
func (s *Solver[F]) SetMaxStep(maxStep float64) error {
	if err := validateMaxStep(maxStep); err != nil {
		return err
	}

	s.maxStep = maxStep

	return nil
}

// SetIterations updates the iteration cap.
func (s *Solver[F]) SetIterations(n int) error {
	if err := validateIterations(n); err != nil {
		return err
	}

	s.iterations = n

	return nil
}

// SetFallback updates the non-convergence policy.
func (s *Solver[F]) SetFallback(fallback Fallback) error {
	if err := validateFallback(fallback); err != nil {
		return err
	}

	s.fallback = fallback

	return nil
}

// SetPrevious overwrites the previous-solution slot, e.g. when restoring state.
func (s *Solver[F]) SetPrevious(x float64) { s.previous = x }

// Reset restores the previous-solution slot to its initial value.
func (s *Solver[F]) Reset() { s.previous = s.initial }

// Solve returns the root estimate of the owned function.
func (s *Solver[F]) Solve() float64 {
	return s.SolveResult().X
}

// SolveResult runs the bounded iteration and reports how it ended.
func (s *Solver[F]) SolveResult() Result {
	x := s.fn.Estimate()

	for i := range s.iterations {
		y, dy := s.fn.Eval(x)

		step := y / dy
		if math.IsNaN(step) {
			// 0/0: x is a root on a flat spot.
			step = 0
		}

		if step > s.maxStep {
			step = s.maxStep
		} else if step < -s.maxStep {
			step = -s.maxStep
		}

		x -= step

		if math.Abs(step) <= s.precision {
			s.previous = x
			return Result{X: x, Iterations: i + 1, Converged: true}
		}
	}

	if s.fallback == FallbackPrevious {
		return Result{X: s.previous, Iterations: s.iterations}
	}

	return Result{X: x, Iterations: s.iterations}
}

func validatePrecision(prec float64) error {
	if math.IsNaN(prec) || math.IsInf(prec, 0) || prec < 0 {
		return fmt.Errorf("newton: precision must be finite and >= 0: %v", prec)
	}

	return nil
}

func validateMaxStep(maxStep float64) error {
	if math.IsNaN(maxStep) || math.IsInf(maxStep, 0) || maxStep <= 0 {
		return fmt.Errorf("newton: max step must be finite and > 0: %v", maxStep)
	}

	return nil
}

func validateIterations(n int) error {
	if n < 1 || n > MaxIterations {
		return fmt.Errorf("newton: iterations must be in [1, %d]: %d", MaxIterations, n)
	}

	return nil
}

func validateFallback(fallback Fallback) error {
	if fallback != FallbackLastIterate && fallback != FallbackPrevious {
		return fmt.Errorf("newton: invalid fallback: %d", fallback)
	}

	return nil
}
