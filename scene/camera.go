package scene

import (
	"math"

	remath "blackhole-lens/math"
)

// Camera is the virtual camera pose. It carries both a Cartesian pose
// (Position, LookAt, Up) and a spherical parametrization (Distance,
// Theta, Phi, Tilt). The invariant is that spherical is authoritative
// after any spherical mutator runs: Position is recomputed as
// (d·sinθ·cosφ, d·cosθ, d·sinθ·sinφ) before the next frame. Writing the
// Cartesian fields directly (as engine.Engine.SetCamera does) goes the other
// way and leaves spherical stale; callers that mix the two styles get
// whichever was set last.
type Camera struct {
	Position remath.Vector3
	LookAt   remath.Vector3
	Up       remath.Vector3
	FOVDeg   float64

	Distance float64
	Theta    float64 // vertical angle, (0, pi)
	Phi      float64 // horizontal angle, [0, 2pi)
	Tilt     float64
}

// DefaultCamera looks at the origin from 20 units back with an 80-degree
// field of view.
func DefaultCamera() Camera {
	c := Camera{
		LookAt: remath.Vector3Zero,
		Up:     remath.Vector3Up,
		FOVDeg: 80,

		Distance: 20,
		Theta:    1.5708, // pi/2: level with the equatorial plane
		Phi:      4.71239 /* 3pi/2 */, // places the camera at -Z per scenario 3
	}
	c.SyncFromSpherical()
	return c
}

// SyncFromSpherical recomputes Position from the spherical parametrization.
// It must run after any spherical field is mutated and before the next
// frame is traced.
func (c *Camera) SyncFromSpherical() {
	c.Position = remath.SphericalToCartesian(c.Distance, c.Theta, c.Phi)
}

// SetSpherical sets distance/theta/phi together (the mutator path the
// external surface exposes — spherical is the preferred way to drive
// orbit-style camera controls) and resyncs Position.
func (c *Camera) SetSpherical(distance, theta, phi, tilt float64) {
	c.Distance = distance
	c.Theta = theta
	c.Phi = phi
	c.Tilt = tilt
	c.SyncFromSpherical()
}

// Basis builds the right-handed camera basis the kernel uses per pixel:
// front toward the look-at point, left = up x front, up' completing the
// basis.
func (c Camera) Basis() (front, left, up remath.Vector3) {
	front = c.LookAt.Sub(c.Position).Normalize()
	left = c.Up.Cross(front).Normalize()
	up = front.Cross(left)
	return front, left, up
}

// TanHalfFOV is precomputed once per frame and packed into the uniform
// buffer rather than recomputed per pixel in the kernel.
func (c Camera) TanHalfFOV() float64 {
	return tanDeg(c.FOVDeg / 2)
}

func tanDeg(deg float64) float64 {
	return math.Tan(deg * (math.Pi / 180.0))
}
