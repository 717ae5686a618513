package shaper

import (
	"fmt"
	"strings"
)

// inverseLimit keeps EvalInv inputs strictly inside the open output range of
// the bounded curves so the inverse stays finite.
const inverseLimit = 1 - 1e-12

// Curve is a saturating nonlinearity with analytic derivative and inverse.
//
// Eval returns y = f(x) and dy = f'(x). Implementations guarantee dy > 0 on
// their operating domain and f(-x) = -f(x). EvalInv returns x such that
// f(x) = y for y inside the output range.
type Curve interface {
	Eval(x float64) (y, dy float64)
	EvalInv(y float64) float64
}

// Kind identifies one of the built-in curves.
type Kind int

const (
	// KindPolynomial selects Polynomial.
	KindPolynomial Kind = iota
	// KindReciprocal selects Reciprocal.
	KindReciprocal
	// KindAsinh selects Asinh.
	KindAsinh
	// KindTanh selects Tanh.
	KindTanh
)

func (k Kind) String() string {
	switch k {
	case KindPolynomial:
		return "polynomial"
	case KindReciprocal:
		return "reciprocal"
	case KindAsinh:
		return "asinh"
	case KindTanh:
		return "tanh"
	default:
		return "unknown"
	}
}

// Valid reports whether k names a built-in curve.
func (k Kind) Valid() bool {
	return k >= KindPolynomial && k <= KindTanh
}

// Kinds returns all built-in curve kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindPolynomial, KindReciprocal, KindAsinh, KindTanh}
}

// ParseKind resolves a curve name as returned by Kind.String.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("shaper: unknown curve %q", name)
}

// New returns the curve for kind.
func New(kind Kind) (Curve, error) {
	switch kind {
	case KindPolynomial:
		return Polynomial{}, nil
	case KindReciprocal:
		return Reciprocal{}, nil
	case KindAsinh:
		return Asinh{}, nil
	case KindTanh:
		return Tanh{}, nil
	default:
		return nil, fmt.Errorf("shaper: invalid curve kind: %d", kind)
	}
}

// Polynomial is the parabolic soft clipper y = x(1 - |x|/4), saturating at
// |y| = 1 for |x| >= 2.
type Polynomial struct{}

// Eval implements Curve. Inputs are clamped to [-2, 2]; dy reaches 0 at the
// clamp edges, so the operating domain is the open interval.
func (Polynomial) Eval(x float64) (y, dy float64) {
	x = clamp(x, -2, 2)
	a := abs(x)

	return x * (1 - 0.25*a), 1 - 0.5*a
}

// EvalInv implements Curve for y in [-1, 1].
func (Polynomial) EvalInv(y float64) float64 {
	y = clamp(y, -1, 1)
	a := abs(y)
	// 2 - 2*sqrt(1-a), written without the cancellation near zero.
	x := 2 * a / (1 + mathSqrt(1-a))

	if y < 0 {
		return -x
	}

	return x
}

// Reciprocal is the rational soft clipper y = x/(1+|x|).
type Reciprocal struct{}

// Eval implements Curve.
func (Reciprocal) Eval(x float64) (y, dy float64) {
	r := 1 / (1 + abs(x))

	return x * r, r * r
}

// EvalInv implements Curve for y in (-1, 1).
func (Reciprocal) EvalInv(y float64) float64 {
	y = clamp(y, -inverseLimit, inverseLimit)

	return y / (1 - abs(y))
}

// Asinh is the logarithmic shaper y = asinh(2x)/2. It is unbounded but grows
// only logarithmically.
type Asinh struct{}

// Eval implements Curve.
func (Asinh) Eval(x float64) (y, dy float64) {
	return 0.5 * mathAsinh(2*x), 1 / mathSqrt(4*x*x+1)
}

// EvalInv implements Curve.
func (Asinh) EvalInv(y float64) float64 {
	return 0.5 * mathSinh(2*y)
}

// Tanh is the hyperbolic tangent shaper.
type Tanh struct{}

// Eval implements Curve.
func (Tanh) Eval(x float64) (y, dy float64) {
	y = mathTanh(x)

	return y, 1 - y*y
}

// EvalInv implements Curve for y in (-1, 1).
func (Tanh) EvalInv(y float64) float64 {
	return mathAtanh(clamp(y, -inverseLimit, inverseLimit))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}

	if x > hi {
		return hi
	}

	return x
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}
