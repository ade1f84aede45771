package scene

import (
	"math"
	"testing"

	remath "blackhole-lens/math"
)

func TestSphericalRoundTrip(t *testing.T) {
	cases := []struct{ r, theta, phi float64 }{
		{1, 1.2, 0.3},
		{5, math.Pi / 2, -1.0},
		{20, 0.5, 3.0},
	}
	for _, c := range cases {
		v := remath.SphericalToCartesian(c.r, c.theta, c.phi)
		r2, theta2, phi2 := v.Spherical()
		if math.Abs(r2-c.r) > 1e-9 {
			t.Errorf("r round-trip: got %v want %v", r2, c.r)
		}
		if math.Abs(theta2-c.theta) > 1e-9 {
			t.Errorf("theta round-trip: got %v want %v", theta2, c.theta)
		}
		if math.Abs(phi2-c.phi) > 1e-9 {
			t.Errorf("phi round-trip: got %v want %v", phi2, c.phi)
		}
	}
}

func TestCameraSphericalRecomputesCartesian(t *testing.T) {
	c := DefaultCamera()
	c.SetSpherical(12.5, 1.0, 2.0, 0)
	if math.Abs(c.Position.Length()-12.5) > 1e-9 {
		t.Fatalf("|pos| = %v, want 12.5", c.Position.Length())
	}
}

func TestDefaultCameraBasisIsOrthogonalToFront(t *testing.T) {
	c := DefaultCamera()
	front, left, up := c.Basis()
	if math.Abs(front.LengthSquared()-1) > 1e-9 {
		t.Fatalf("front not unit length: %v", front)
	}
	if math.Abs(left.Dot(front)) > 1e-9 {
		t.Fatalf("left not orthogonal to front")
	}
	if math.Abs(up.Dot(front)) > 1e-9 {
		t.Fatalf("up not orthogonal to front")
	}
}
