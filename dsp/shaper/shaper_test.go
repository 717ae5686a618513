package shaper

import (
	"math"
	"testing"
)

type domainCase struct {
	curve  Curve
	name   string
	lo, hi float64
}

func operatingDomains() []domainCase {
	return []domainCase{
		{curve: Polynomial{}, name: "polynomial", lo: -1.95, hi: 1.95},
		{curve: Reciprocal{}, name: "reciprocal", lo: -20, hi: 20},
		{curve: Asinh{}, name: "asinh", lo: -20, hi: 20},
		{curve: Tanh{}, name: "tanh", lo: -6, hi: 6},
	}
}

func grid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}

	return out
}

// nearZero returns a log-spaced grid of both signs between 1e-9 and 0.5.
func nearZero() []float64 {
	const n = 400

	out := make([]float64, 0, 2*n+1)
	out = append(out, 0)

	for i := range n {
		x := 1e-9 * math.Pow(0.5/1e-9, float64(i)/(n-1))
		out = append(out, x, -x)
	}

	return out
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range operatingDomains() {
		t.Run(tc.name, func(t *testing.T) {
			xs := append(grid(tc.lo, tc.hi, 4001), nearZero()...)

			for _, x := range xs {
				y, _ := tc.curve.Eval(x)
				got := tc.curve.EvalInv(y)

				if d := math.Abs(got - x); d > roundTripTol*math.Abs(x) {
					t.Fatalf("EvalInv(Eval(%g)) = %g (relative error %g)", x, got, d/math.Abs(x))
				}
			}
		})
	}
}

func TestSmallSignalSlopeIsOne(t *testing.T) {
	for _, tc := range operatingDomains() {
		t.Run(tc.name, func(t *testing.T) {
			for _, x := range nearZero() {
				if x == 0 {
					continue
				}

				y, _ := tc.curve.Eval(x)
				_, dy0 := tc.curve.Eval(0)

				// Every curve is x - O(x^2) or x - O(x^3) near zero.
				if d := math.Abs(y-x*dy0) / math.Abs(x); d > math.Abs(x)+roundTripTol {
					t.Fatalf("Eval(%g) = %g, relative deviation from linear %g", x, y, d)
				}
			}
		})
	}
}

func TestDerivativePositiveAndMonotone(t *testing.T) {
	for _, tc := range operatingDomains() {
		t.Run(tc.name, func(t *testing.T) {
			prev := math.Inf(-1)

			for _, x := range grid(tc.lo, tc.hi, 4001) {
				y, dy := tc.curve.Eval(x)
				if !(dy > 0) {
					t.Fatalf("dy(%g) = %g, want > 0", x, dy)
				}

				if y <= prev {
					t.Fatalf("Eval not increasing at x=%g: y=%g prev=%g", x, y, prev)
				}

				prev = y
			}
		})
	}
}

func TestDerivativeMatchesCentralDifference(t *testing.T) {
	const h = derivativeStep

	for _, tc := range operatingDomains() {
		t.Run(tc.name, func(t *testing.T) {
			for _, x := range grid(tc.lo+h, tc.hi-h, 997) {
				yp, _ := tc.curve.Eval(x + h)
				ym, _ := tc.curve.Eval(x - h)
				_, dy := tc.curve.Eval(x)

				numeric := (yp - ym) / (2 * h)
				if d := math.Abs(numeric - dy); d > derivativeTol*math.Max(1, dy) {
					t.Fatalf("x=%g: analytic dy=%g numeric=%g", x, dy, numeric)
				}
			}
		})
	}
}

func TestOddSymmetry(t *testing.T) {
	for _, tc := range operatingDomains() {
		t.Run(tc.name, func(t *testing.T) {
			for _, x := range grid(0, tc.hi, 257) {
				yPos, dyPos := tc.curve.Eval(x)
				yNeg, dyNeg := tc.curve.Eval(-x)

				if math.Abs(yPos+yNeg) > 1e-15 {
					t.Fatalf("f(%g)=%g, f(-%g)=%g", x, yPos, x, yNeg)
				}

				if math.Abs(dyPos-dyNeg) > 1e-15 {
					t.Fatalf("derivative not even at %g: %g vs %g", x, dyPos, dyNeg)
				}

				if inv := tc.curve.EvalInv(yPos) + tc.curve.EvalInv(yNeg); math.Abs(inv) > 1e-12 {
					t.Fatalf("inverse not odd at y=%g: residual %g", yPos, inv)
				}
			}
		})
	}
}

func TestBoundedCurvesSaturate(t *testing.T) {
	bounded := []Curve{Polynomial{}, Reciprocal{}, Tanh{}}

	for _, c := range bounded {
		for _, x := range []float64{3, 10, 1e3, 1e9} {
			y, dy := c.Eval(x)
			if y > 1 || y <= 0.5 {
				t.Fatalf("%T.Eval(%g) = %g, want in (0.5, 1]", c, x, y)
			}

			if dy < 0 {
				t.Fatalf("%T dy(%g) = %g, want >= 0", c, x, dy)
			}
		}
	}
}

func TestInverseClampsRange(t *testing.T) {
	for _, c := range []Curve{Polynomial{}, Reciprocal{}, Tanh{}} {
		for _, y := range []float64{1, -1, 1.5, -7} {
			x := c.EvalInv(y)
			if math.IsNaN(x) || math.IsInf(x, 0) {
				t.Fatalf("%T.EvalInv(%g) = %v, want finite", c, y, x)
			}
		}
	}

	if got := (Polynomial{}).EvalInv(1); got != 2 {
		t.Fatalf("Polynomial.EvalInv(1) = %g, want 2", got)
	}
}

func TestPolynomialFormula(t *testing.T) {
	tests := []struct {
		x, y, dy float64
	}{
		{x: 0, y: 0, dy: 1},
		{x: 1, y: 0.75, dy: 0.5},
		{x: -1, y: -0.75, dy: 0.5},
		{x: 2, y: 1, dy: 0},
		{x: 5, y: 1, dy: 0},
	}

	for _, tc := range tests {
		y, dy := Polynomial{}.Eval(tc.x)
		if y != tc.y || dy != tc.dy {
			t.Fatalf("Eval(%g) = (%g, %g), want (%g, %g)", tc.x, y, dy, tc.y, tc.dy)
		}
	}
}

func TestReciprocalFormula(t *testing.T) {
	y, dy := Reciprocal{}.Eval(1)
	if y != 0.5 || dy != 0.25 {
		t.Fatalf("Eval(1) = (%g, %g), want (0.5, 0.25)", y, dy)
	}

	if got := (Reciprocal{}).EvalInv(0.5); got != 1 {
		t.Fatalf("EvalInv(0.5) = %g, want 1", got)
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q) error = %v", k.String(), err)
		}

		if parsed != k {
			t.Fatalf("ParseKind(%q) = %v, want %v", k.String(), parsed, k)
		}

		c, err := New(k)
		if err != nil {
			t.Fatalf("New(%v) error = %v", k, err)
		}

		if c == nil {
			t.Fatalf("New(%v) returned nil curve", k)
		}
	}

	if _, err := ParseKind("sigmoid"); err == nil {
		t.Fatal("expected error for unknown curve name")
	}

	if _, err := New(Kind(42)); err == nil {
		t.Fatal("expected error for invalid kind")
	}

	if Kind(42).String() != "unknown" {
		t.Fatalf("Kind(42).String() = %q", Kind(42).String())
	}

	if got, _ := ParseKind("  TANH "); got != KindTanh {
		t.Fatalf("ParseKind is not case-insensitive: %v", got)
	}
}
