package svf

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vafilter/dsp/core"
	"github.com/cwbudde/algo-vafilter/dsp/filter/biquad"
	"github.com/cwbudde/algo-vafilter/dsp/newton"
	"github.com/cwbudde/algo-vafilter/dsp/shaper"
)

const (
	defaultCurve        = shaper.KindTanh
	defaultCutoffHz     = 1000.0
	defaultResonance    = 0.5
	defaultOversampling = 1
	defaultIterations   = newton.DefaultIterations
	defaultPrecision    = newton.DefaultPrecision
	// F' >= 1 on the stable resonance range.
	defaultMaxStep = 1.0

	minCutoffHz  = 1.0
	maxResonance = 1.5

	antiAliasQ     = 0.7071067811865476
	antiAliasRatio = 0.225
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	curve        shaper.Kind
	cutoffHz     float64
	resonance    float64
	overSampling int
	iterations   int
	precision    float64
	maxStep      float64
	fallback     newton.Fallback
}

func defaultConfig() config {
	return config{
		curve:        defaultCurve,
		cutoffHz:     defaultCutoffHz,
		resonance:    defaultResonance,
		overSampling: defaultOversampling,
		iterations:   defaultIterations,
		precision:    defaultPrecision,
		maxStep:      defaultMaxStep,
		fallback:     newton.FallbackLastIterate,
	}
}

// WithCurve selects the shaping curve of the damping path.
func WithCurve(kind shaper.Kind) Option {
	return func(cfg *config) error {
		if !kind.Valid() {
			return fmt.Errorf("svf: invalid curve: %d", kind)
		}

		cfg.curve = kind

		return nil
	}
}

// WithCutoffHz sets cutoff in Hz. Must be finite, >= 1 and below Nyquist.
func WithCutoffHz(cutoffHz float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(cutoffHz, minCutoffHz, math.Inf(1), "cutoff"); err != nil {
			return err
		}

		cfg.cutoffHz = cutoffHz

		return nil
	}
}

// WithResonance sets resonance in [0, 1.5]. The stable range is [0, 1].
func WithResonance(resonance float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(resonance, 0, maxResonance, "resonance"); err != nil {
			return err
		}

		cfg.resonance = resonance

		return nil
	}
}

// WithOversampling sets the oversampling factor. Allowed values: 1, 2, 4, 8.
func WithOversampling(factor int) Option {
	return func(cfg *config) error {
		if !validOversampling(factor) {
			return fmt.Errorf("svf: oversampling factor must be one of {1,2,4,8}: %d", factor)
		}

		cfg.overSampling = factor

		return nil
	}
}

// WithNewtonIterations sets the per-sample iteration cap in [1, 32].
func WithNewtonIterations(n int) Option {
	return func(cfg *config) error {
		if n < 1 || n > newton.MaxIterations {
			return fmt.Errorf("svf: newton iterations must be in [1, %d]: %d", newton.MaxIterations, n)
		}

		cfg.iterations = n

		return nil
	}
}

// WithPrecision sets the solver convergence threshold (>= 0).
func WithPrecision(prec float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(prec, 0, math.Inf(1), "precision"); err != nil {
			return err
		}

		cfg.precision = prec

		return nil
	}
}

// WithMaxStep sets the per-iteration step bound of the solver (> 0).
func WithMaxStep(maxStep float64) Option {
	return func(cfg *config) error {
		if !isFinite(maxStep) || maxStep <= 0 {
			return fmt.Errorf("svf: max step must be > 0 and finite: %v", maxStep)
		}

		cfg.maxStep = maxStep

		return nil
	}
}

// WithFallback selects what the solver returns when it does not converge.
func WithFallback(fallback newton.Fallback) Option {
	return func(cfg *config) error {
		if fallback != newton.FallbackLastIterate && fallback != newton.FallbackPrevious {
			return fmt.Errorf("svf: invalid fallback: %d", fallback)
		}

		cfg.fallback = fallback

		return nil
	}
}

// Outputs holds the simultaneous responses of one processed sample.
type Outputs struct {
	Lowpass  float64
	Bandpass float64
	Highpass float64
}

// Notch returns the band-reject response LP + HP.
func (o Outputs) Notch() float64 { return o.Lowpass + o.Highpass }

// Peak returns the peaking response LP - HP.
func (o Outputs) Peak() float64 { return o.Lowpass - o.Highpass }

// Select returns the response named by out.
func (o Outputs) Select(out Output) float64 {
	switch out {
	case OutputLowpass:
		return o.Lowpass
	case OutputBandpass:
		return o.Bandpass
	case OutputHighpass:
		return o.Highpass
	case OutputNotch:
		return o.Notch()
	case OutputPeak:
		return o.Peak()
	default:
		return 0
	}
}

// Output names a single response for the mono block helpers.
type Output int

const (
	OutputLowpass Output = iota
	OutputBandpass
	OutputHighpass
	OutputNotch
	OutputPeak
)

func (o Output) String() string {
	switch o {
	case OutputLowpass:
		return "lowpass"
	case OutputBandpass:
		return "bandpass"
	case OutputHighpass:
		return "highpass"
	case OutputNotch:
		return "notch"
	case OutputPeak:
		return "peak"
	default:
		return "unknown"
	}
}

// ParseOutput resolves a response name as returned by Output.String.
func ParseOutput(name string) (Output, error) {
	for o := OutputLowpass; o <= OutputPeak; o++ {
		if o.String() == name {
			return o, nil
		}
	}

	return 0, fmt.Errorf("svf: unknown output %q", name)
}

// State contains the filter runtime state for save/restore workflows.
type State struct {
	// S1 and S2 are the band-pass and low-pass integrator states.
	S1, S2 float64
	// Estimate is the warm start of the next solve (pre-curve domain).
	Estimate float64
	// Fallback is the solver's last converged solution.
	Fallback  float64
	PrevInput float64
	// Curve is the shaping curve Estimate and Fallback belong to.
	Curve shaper.Kind
}

// Diagnostics counts solver outcomes since construction or the last
// ResetDiagnostics call.
type Diagnostics struct {
	Solves      uint64
	Iterations  uint64
	Unconverged uint64
}

// MeanIterations returns the average Newton iterations per solve.
func (d Diagnostics) MeanIterations() float64 {
	if d.Solves == 0 {
		return 0
	}

	return float64(d.Iterations) / float64(d.Solves)
}

// Filter is an antisaturating zero-delay-feedback state-variable filter.
type Filter struct {
	sampleRate float64

	curve        shaper.Kind
	cutoffHz     float64
	resonance    float64
	overSampling int
	iterations   int
	precision    float64
	maxStep      float64
	fallback     newton.Fallback

	prewarp  float64
	g        float64
	halfInvG float64
	k        float64
	b        float64

	s1, s2    float64
	prevInput float64

	kern kernel
	diag Diagnostics

	antiAliasUp   *biquad.Section
	antiAliasDown [3]*biquad.Section

	scratchLow  []float64
	scratchBand []float64
	scratchHigh []float64
}

// New constructs a filter for sampleRate.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("svf: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{
		sampleRate:   sampleRate,
		curve:        cfg.curve,
		cutoffHz:     cfg.cutoffHz,
		resonance:    cfg.resonance,
		overSampling: cfg.overSampling,
		iterations:   cfg.iterations,
		precision:    cfg.precision,
		maxStep:      cfg.maxStep,
		fallback:     cfg.fallback,
	}

	kern, err := newKernel(f.curve, f.solverOptions()...)
	if err != nil {
		return nil, err
	}

	f.kern = kern

	if err := f.rebuild(); err != nil {
		return nil, err
	}

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Curve returns the shaping curve kind.
func (f *Filter) Curve() shaper.Kind { return f.curve }

// CutoffHz returns the cutoff frequency in Hz.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Resonance returns the resonance amount.
func (f *Filter) Resonance() float64 { return f.resonance }

// Oversampling returns the oversampling factor.
func (f *Filter) Oversampling() int { return f.overSampling }

// NewtonIterations returns the per-sample iteration cap.
func (f *Filter) NewtonIterations() int { return f.iterations }

// Precision returns the solver convergence threshold.
func (f *Filter) Precision() float64 { return f.precision }

// MaxStep returns the solver step bound.
func (f *Filter) MaxStep() float64 { return f.maxStep }

// Fallback returns the solver non-convergence policy.
func (f *Filter) Fallback() newton.Fallback { return f.fallback }

// Diagnostics returns solver statistics.
func (f *Filter) Diagnostics() Diagnostics { return f.diag }

// ResetDiagnostics clears solver statistics.
func (f *Filter) ResetDiagnostics() { f.diag = Diagnostics{} }

// SetSampleRate updates sample rate and recomputes coefficients. Integrator
// states are kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("svf: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if f.cutoffHz >= sampleRate*0.5 {
		return fmt.Errorf("svf: cutoff must be < Nyquist (%f Hz): %f", sampleRate*0.5, f.cutoffHz)
	}

	f.sampleRate = sampleRate

	return f.rebuild()
}

// SetCutoffHz updates cutoff. Integrator states are kept.
func (f *Filter) SetCutoffHz(cutoffHz float64) error {
	if err := validateFiniteRange(cutoffHz, minCutoffHz, math.Inf(1), "cutoff"); err != nil {
		return err
	}

	if nyquist := f.sampleRate * 0.5; cutoffHz >= nyquist {
		return fmt.Errorf("svf: cutoff must be < Nyquist (%f Hz): %f", nyquist, cutoffHz)
	}

	f.cutoffHz = cutoffHz
	f.updateCoefficients()

	return nil
}

// SetResonance updates resonance. Integrator states are kept.
func (f *Filter) SetResonance(resonance float64) error {
	if err := validateFiniteRange(resonance, 0, maxResonance, "resonance"); err != nil {
		return err
	}

	f.resonance = resonance
	f.updateCoefficients()

	return nil
}

// SetCurve switches the shaping curve. The warm start is mapped through the
// new curve so the band-pass output stays continuous.
func (f *Filter) SetCurve(kind shaper.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("svf: invalid curve: %d", kind)
	}

	if kind == f.curve {
		return nil
	}

	next, err := newKernel(kind, f.solverOptions()...)
	if err != nil {
		return err
	}

	next.setEstimate(next.inverse(f.kern.bandpass(f.kern.estimate())))
	next.solver().SetPrevious(next.inverse(f.kern.bandpass(f.kern.solver().Previous())))

	f.kern = next
	f.curve = kind

	return nil
}

// SetOversampling updates the oversampling factor and anti-alias filters.
func (f *Filter) SetOversampling(factor int) error {
	if !validOversampling(factor) {
		return fmt.Errorf("svf: oversampling factor must be one of {1,2,4,8}: %d", factor)
	}

	f.overSampling = factor

	return f.rebuild()
}

// SetNewtonIterations updates the per-sample iteration cap.
func (f *Filter) SetNewtonIterations(n int) error {
	if err := f.kern.solver().SetIterations(n); err != nil {
		return fmt.Errorf("svf: %w", err)
	}

	f.iterations = n

	return nil
}

// SetPrecision updates the solver convergence threshold.
func (f *Filter) SetPrecision(prec float64) error {
	if err := f.kern.solver().SetPrecision(prec); err != nil {
		return fmt.Errorf("svf: %w", err)
	}

	f.precision = prec

	return nil
}

// SetMaxStep updates the solver step bound.
func (f *Filter) SetMaxStep(maxStep float64) error {
	if err := f.kern.solver().SetMaxStep(maxStep); err != nil {
		return fmt.Errorf("svf: %w", err)
	}

	f.maxStep = maxStep

	return nil
}

// SetFallback updates the solver non-convergence policy.
func (f *Filter) SetFallback(fallback newton.Fallback) error {
	if err := f.kern.solver().SetFallback(fallback); err != nil {
		return fmt.Errorf("svf: %w", err)
	}

	f.fallback = fallback

	return nil
}

// Reset clears integrator states, the solver warm start and the anti-alias
// filters.
func (f *Filter) Reset() {
	f.resetCore()
	f.prevInput = 0

	if f.antiAliasUp != nil {
		f.antiAliasUp.Reset()
	}

	for _, s := range f.antiAliasDown {
		if s != nil {
			s.Reset()
		}
	}
}

// State returns a copy of the current processor state.
func (f *Filter) State() State {
	return State{
		S1:        f.s1,
		S2:        f.s2,
		Estimate:  f.kern.estimate(),
		Fallback:  f.kern.solver().Previous(),
		PrevInput: f.prevInput,
		Curve:     f.curve,
	}
}

// SetState restores an externally saved processor state. A state saved
// with a different curve has its solver values mapped through the band-pass
// domain, as SetCurve does.
func (f *Filter) SetState(state State) error {
	if !isFinite(state.S1) || !isFinite(state.S2) || !isFinite(state.Estimate) ||
		!isFinite(state.Fallback) || !isFinite(state.PrevInput) {
		return fmt.Errorf("svf: state contains NaN or Inf")
	}

	estimate, fallback := state.Estimate, state.Fallback

	if state.Curve != f.curve {
		saved, err := shaper.New(state.Curve)
		if err != nil {
			return fmt.Errorf("svf: state: %w", err)
		}

		estimate = f.kern.inverse(evalCurve(saved, estimate))
		fallback = f.kern.inverse(evalCurve(saved, fallback))
	}

	f.s1 = state.S1
	f.s2 = state.S2
	f.prevInput = state.PrevInput
	f.kern.setEstimate(estimate)
	f.kern.solver().SetPrevious(fallback)

	return nil
}

func evalCurve(c shaper.Curve, u float64) float64 {
	y, _ := c.Eval(u)
	return y
}

// ProcessSample advances the filter by one sample and returns all responses.
// Non-finite input is treated as silence.
func (f *Filter) ProcessSample(input float64) Outputs {
	if !isFinite(input) {
		input = 0
	}

	if f.overSampling <= 1 {
		out := f.processCore(input)
		f.prevInput = input

		return out
	}

	prev := f.prevInput
	delta := (input - prev) / float64(f.overSampling)

	var out Outputs
	for i := range f.overSampling {
		sub := f.antiAliasUp.ProcessSample(prev + delta*float64(i+1))
		o := f.processCore(sub)

		out.Lowpass = f.antiAliasDown[0].ProcessSample(o.Lowpass)
		out.Bandpass = f.antiAliasDown[1].ProcessSample(o.Bandpass)
		out.Highpass = f.antiAliasDown[2].ProcessSample(o.Highpass)
	}

	f.prevInput = input

	return out
}

func (f *Filter) processCore(x float64) Outputs {
	a := (f.g*(x-f.s2) + f.s1) * f.halfInvG

	u, bp, res := f.kern.solve(a, f.b)

	f.diag.Solves++
	f.diag.Iterations += uint64(res.Iterations)

	if !res.Converged {
		f.diag.Unconverged++
	}

	lp := f.g*bp + f.s2
	hp := x - 2*f.k*bp - 2*u - lp

	if !isFinite(lp) || !isFinite(bp) || !isFinite(hp) {
		f.resetCore()
		return Outputs{}
	}

	f.s1 = core.FlushDenormals(2*bp - f.s1)
	f.s2 = core.FlushDenormals(2*lp - f.s2)

	return Outputs{Lowpass: lp, Bandpass: bp, Highpass: hp}
}

func (f *Filter) resetCore() {
	f.s1 = 0
	f.s2 = 0
	f.kern.setEstimate(0)
	f.kern.solver().Reset()
}

func (f *Filter) rebuild() error {
	if err := validateFiniteRange(f.cutoffHz, minCutoffHz, math.Inf(1), "cutoff"); err != nil {
		return err
	}

	if err := validateFiniteRange(f.resonance, 0, maxResonance, "resonance"); err != nil {
		return err
	}

	if !validOversampling(f.overSampling) {
		return fmt.Errorf("svf: oversampling factor must be one of {1,2,4,8}: %d", f.overSampling)
	}

	baseNyquist := f.sampleRate * 0.5
	if f.cutoffHz >= baseNyquist {
		return fmt.Errorf("svf: cutoff must be < Nyquist (%f Hz): %f", baseNyquist, f.cutoffHz)
	}

	f.prewarp = math.Pi / (f.sampleRate * float64(f.overSampling))
	f.updateCoefficients()
	f.buildAntiAliasFilters()

	return nil
}

// updateCoefficients derives g = tan(pi*fc/fs), k = R-1 with R = 1-r, and the
// relation's b term.
func (f *Filter) updateCoefficients() {
	f.g = math.Tan(f.prewarp * f.cutoffHz)
	f.halfInvG = 0.5 / f.g
	f.k = -f.resonance
	f.b = (1 + 2*f.k*f.g + f.g*f.g) * f.halfInvG
}

func (f *Filter) buildAntiAliasFilters() {
	if f.overSampling <= 1 {
		f.antiAliasUp = nil
		f.antiAliasDown = [3]*biquad.Section{}

		return
	}

	osRate := f.sampleRate * float64(f.overSampling)
	coeff := biquad.Lowpass(f.sampleRate*antiAliasRatio, antiAliasQ, osRate)

	if f.antiAliasUp == nil {
		f.antiAliasUp = biquad.NewSection(coeff)
	} else {
		f.antiAliasUp.Coefficients = coeff
	}

	for i, s := range f.antiAliasDown {
		if s == nil {
			f.antiAliasDown[i] = biquad.NewSection(coeff)
		} else {
			s.Coefficients = coeff
		}
	}
}

func (f *Filter) solverOptions() []newton.Option {
	return []newton.Option{
		newton.WithIterations(f.iterations),
		newton.WithPrecision(f.precision),
		newton.WithMaxStep(f.maxStep),
		newton.WithFallback(f.fallback),
	}
}

func validOversampling(factor int) bool {
	return factor == 1 || factor == 2 || factor == 4 || factor == 8
}

func validateFiniteRange(value, min, max float64, name string) error {
	if !isFinite(value) {
		return fmt.Errorf("svf: %s must be finite: %v", name, value)
	}

	if value < min || value > max {
		return fmt.Errorf("svf: %s must be in [%g, %g]: %f", name, min, max, value)
	}

	return nil
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
