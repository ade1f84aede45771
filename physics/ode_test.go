package physics

import (
	"math"
	"testing"

	remath "blackhole-lens/math"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestStepFlatSpaceIsStraightLine(t *testing.T) {
	params := Params{PotentialCoefficient: 0, StepSize: 0.16}
	state := NewRayState(remath.NewVector3(0, 0, -20), remath.NewVector3(0, 0, 1))

	before := state
	s := StepSizeFor(before.Position, params)
	after := Step(state, params)

	want := before.Position.Add(before.Direction.Mul(s))
	got := after.Position
	if !almostEqual(got.X, want.X, 1e-9) || !almostEqual(got.Y, want.Y, 1e-9) || !almostEqual(got.Z, want.Z, 1e-9) {
		t.Fatalf("flat space position drifted: got %+v want %+v", got, want)
	}
	if !almostEqual(after.Direction.X, before.Direction.X, 1e-12) ||
		!almostEqual(after.Direction.Y, before.Direction.Y, 1e-12) ||
		!almostEqual(after.Direction.Z, before.Direction.Z, 1e-12) {
		t.Fatalf("flat space velocity changed: got %+v want %+v", after.Direction, before.Direction)
	}
}

func TestH2CachedAtBirth(t *testing.T) {
	pos := remath.NewVector3(3, 0, -10)
	dir := remath.NewVector3(0.1, 0, 1).Normalize()
	state := NewRayState(pos, dir)
	want := pos.Cross(dir).LengthSquared()
	if !almostEqual(state.H2, want, 1e-12) {
		t.Fatalf("H2 = %v, want %v", state.H2, want)
	}

	params := DefaultParams()
	next := Step(state, params)
	if next.H2 != state.H2 {
		t.Fatalf("H2 must stay constant across Step: got %v want %v", next.H2, state.H2)
	}
}

func TestDirectionNotRenormalized(t *testing.T) {
	params := DefaultParams()
	state := NewRayState(remath.NewVector3(0, 0, -10), remath.NewVector3(0, 0.05, 1))
	for i := 0; i < 50; i++ {
		state = Step(state, params)
	}
	if almostEqual(state.Direction.LengthSquared(), 1.0, 1e-6) {
		t.Fatalf("direction length drifted back to unit length; deflection magnitude should persist")
	}
}

func TestBisectConvergesNearHorizon(t *testing.T) {
	params := Params{PotentialCoefficient: -1.5, StepSize: 0.16}
	rH := 2.0

	// A state just outside the horizon, aimed straight in, so one full
	// step is known to cross it.
	pre := NewRayState(remath.NewVector3(0, 0, -2.001), remath.NewVector3(0, 0, 1))
	s0 := StepSizeFor(pre.Position, params)

	refined := Bisect(pre, params, rH, 10)
	dist := math.Abs(refined.Position.Length() - rH)
	if dist >= s0/1024.0 { // 2^-10
		t.Fatalf("bisection did not converge: |r-rH| = %v, bound = %v", dist, s0/1024.0)
	}
}

func TestStepSizeScalesWithDistance(t *testing.T) {
	params := DefaultParams()
	near := StepSizeFor(remath.NewVector3(3, 0, 0), params)
	far := StepSizeFor(remath.NewVector3(30, 0, 0), params)
	if far <= near*5 {
		t.Fatalf("expected step size to scale roughly linearly with distance: near=%v far=%v", near, far)
	}
}
