package svf

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-vafilter/dsp/shaper"
)

func checkRelationSlope[C shaper.Curve](t *testing.T, curve C) {
	t.Helper()

	for _, b := range []float64{0, 0.3, 7, 500} {
		rel := NewRelation(curve)
		rel.Configure(0.25, b)

		for u := -6.0; u <= 6; u += 0.05 {
			if _, dy := rel.Eval(u); dy < 1 {
				t.Fatalf("b=%g u=%g: F'(u) = %g, want >= 1", b, u, dy)
			}
		}
	}
}

func TestRelationSlopeAtLeastOne(t *testing.T) {
	checkRelationSlope(t, shaper.Polynomial{})
	checkRelationSlope(t, shaper.Reciprocal{})
	checkRelationSlope(t, shaper.Asinh{})
	checkRelationSlope(t, shaper.Tanh{})
}

func TestRelationEval(t *testing.T) {
	rel := NewRelation(shaper.Tanh{})
	rel.Configure(0.4, 2)

	y, dy := rel.Eval(0.3)

	s, ds := shaper.Tanh{}.Eval(0.3)
	if want := 0.3 + 2*s - 0.4; math.Abs(y-want) > 1e-12 {
		t.Fatalf("F(0.3) = %g, want %g", y, want)
	}

	if want := 1 + 2*ds; math.Abs(dy-want) > 1e-12 {
		t.Fatalf("F'(0.3) = %g, want %g", dy, want)
	}
}

func TestRelationEstimate(t *testing.T) {
	rel := NewRelation(shaper.Asinh{})
	if rel.Estimate() != 0 {
		t.Fatalf("initial estimate = %g, want 0", rel.Estimate())
	}

	rel.SetEstimate(-0.75)

	if rel.Estimate() != -0.75 {
		t.Fatalf("Estimate() = %g, want -0.75", rel.Estimate())
	}
}
