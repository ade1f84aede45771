package engine

import "testing"

func TestClampFOV(t *testing.T) {
	cases := []struct{ in, want float64 }{{0, 30}, {200, 150}, {80, 80}}
	for _, c := range cases {
		if got := ClampFOV(c.in); got != c.want {
			t.Errorf("ClampFOV(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestClampDistance(t *testing.T) {
	cases := []struct{ in, want float64 }{{0, 5}, {1000, 50}, {20, 20}}
	for _, c := range cases {
		if got := ClampDistance(c.in); got != c.want {
			t.Errorf("ClampDistance(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestClampVerticalAngle(t *testing.T) {
	if got := ClampVerticalAngle(-5); got != 0.1 {
		t.Errorf("ClampVerticalAngle(-5) = %v, want 0.1", got)
	}
	want := 3.141592653589793 - 0.1
	if got := ClampVerticalAngle(10); got != want {
		t.Errorf("ClampVerticalAngle(10) = %v, want %v", got, want)
	}
}

func TestClampPotentialCoefficientAndStepSize(t *testing.T) {
	if got := ClampPotentialCoefficient(-100); got != -5 {
		t.Errorf("ClampPotentialCoefficient(-100) = %v, want -5", got)
	}
	if got := ClampPotentialCoefficient(100); got != 5 {
		t.Errorf("ClampPotentialCoefficient(100) = %v, want 5", got)
	}
	if got := ClampStepSize(0); got != 0.01 {
		t.Errorf("ClampStepSize(0) = %v, want 0.01", got)
	}
	if got := ClampStepSize(1); got != 0.20 {
		t.Errorf("ClampStepSize(1) = %v, want 0.20", got)
	}
}

func TestQualityToRayBudget(t *testing.T) {
	cases := []struct {
		quality                   int
		wantRays, wantIterations uint32
	}{
		{1, 1000, 25000},
		{20, 10500, 120000},
		{0, 1000, 25000},   // clamped up to 1
		{100, 10500, 120000}, // clamped down to 20
	}
	for _, c := range cases {
		rays, iters := QualityToRayBudget(c.quality)
		if rays != c.wantRays || iters != c.wantIterations {
			t.Errorf("QualityToRayBudget(%d) = (%d,%d), want (%d,%d)", c.quality, rays, iters, c.wantRays, c.wantIterations)
		}
	}
}
