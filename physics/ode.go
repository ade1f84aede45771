// Package physics implements the Schwarzschild-like effective-potential ODE
// that bends each traced photon's path. It is a direct, symplectic-Euler
// integrator: not time-reversible, not affinely parameterized, and
// deliberately traded for stability near the horizon instead of physical
// fidelity.
package physics

import (
	"math"

	remath "blackhole-lens/math"
)

// Params holds the two ODE knobs the outer UI exposes.
type Params struct {
	// PotentialCoefficient (k) in [-5,5]; 0 is flat space. Default -1.5.
	PotentialCoefficient float64
	// StepSize (h) in [0.01,0.20]. Default 0.16.
	StepSize float64
}

func DefaultParams() Params {
	return Params{PotentialCoefficient: -1.5, StepSize: 0.16}
}

// RayState is one photon's integration state. H2 is cached once at ray
// birth (NewRayState) and held constant for the life of the ray; Direction
// is never renormalized after a Step — its magnitude drift encodes
// deflection and the intersection tests rely on it.
type RayState struct {
	Position  remath.Vector3
	Direction remath.Vector3
	H2        float64
}

// NewRayState births a ray: h² is set to |p x v|² using the initial
// position and a unit-length initial direction.
func NewRayState(position, direction remath.Vector3) RayState {
	direction = direction.Normalize()
	h2 := position.Cross(direction).LengthSquared()
	return RayState{Position: position, Direction: direction, H2: h2}
}

// Step advances the ray by one adaptive substep using symplectic-Euler
// integration of the effective potential:
//
//	p ← p + v·s
//	a ← p · (k·h² / |p|⁵)      (|p|² raised to the 2.5 power)
//	v ← v + a·s
//
// The step size actually used is s = (|p|/30)·h: fine near the hole, coarse
// far away. k=0 degenerates to straight-line motion (a=0), which is the
// property physics/ode_test.go checks directly.
func Step(state RayState, params Params) RayState {
	p := state.Position
	v := state.Direction

	r := p.Length()
	s := (r / 30.0) * params.StepSize

	p = p.Add(v.Mul(s))

	r2 := p.LengthSquared()
	var accelScale float64
	if r2 > 0 {
		r5 := math.Pow(r2, 2.5)
		accelScale = params.PotentialCoefficient * state.H2 / r5
	}
	a := p.Mul(accelScale)
	v = v.Add(a.Mul(s))

	return RayState{Position: p, Direction: v, H2: state.H2}
}

// StepSizeFor returns the adaptive substep s = (|p|/30)·h for the given
// position. It is the same formula Step applies inline, and Bisect uses it
// so both sides of the refinement agree on what "the substep" means.
func StepSizeFor(position remath.Vector3, params Params) float64 {
	return (position.Length() / 30.0) * params.StepSize
}

// Bisect refines a horizon crossing: given the pre-crossing state p0 (whose
// full step s0 is known to land inside the horizon), it runs the given
// number of bisection rounds (10 in the kernel) on the substep fraction in
// [0,s0], re-running one ODE substep of the trial size from p0 each round;
// with 10 rounds the crossing point converges to within 2^-10 * s0 of the
// horizon radius.
func Bisect(p0 RayState, params Params, rH float64, rounds int) RayState {
	lo, hi := 0.0, StepSizeFor(p0.Position, params)
	best := p0
	for i := 0; i < rounds; i++ {
		mid := (lo + hi) / 2
		trial := subStep(p0, params, mid)
		if trial.Position.LengthSquared() < rH*rH {
			hi = mid
		} else {
			lo = mid
		}
		best = trial
	}
	return best
}

// subStep runs the same symplectic-Euler update as Step but with an
// explicit substep size s instead of the adaptive one, so Bisect can trial
// arbitrary fractions of the original step.
func subStep(state RayState, params Params, s float64) RayState {
	p := state.Position
	v := state.Direction

	p = p.Add(v.Mul(s))

	r2 := p.LengthSquared()
	var accelScale float64
	if r2 > 0 {
		r5 := math.Pow(r2, 2.5)
		accelScale = params.PotentialCoefficient * state.H2 / r5
	}
	a := p.Mul(accelScale)
	v = v.Add(a.Mul(s))

	return RayState{Position: p, Direction: v, H2: state.H2}
}
