package scene

import (
	"math"
	"testing"

	"blackhole-lens/core"
)

func TestDiskUVOutOfRangeRadius(t *testing.T) {
	cases := []struct{ r float64 }{{1.0}, {2.59}, {12.01}, {50.0}}
	for _, c := range cases {
		u, v := DiskUV(c.r, 0, 2.6, 12.0)
		if u != 0 || v != 1 {
			t.Errorf("r=%v: DiskUV = (%v,%v), want (0,1)", c.r, u, v)
		}
	}
}

func TestDiskUVInRangeSnapsToQuantizedU(t *testing.T) {
	r := 6.0
	for _, phi := range []float64{0.01, 1.0, 3.0, 4.0, 6.2} {
		x, z := r*math.Cos(phi), r*math.Sin(phi)
		u, _ := DiskUV(x, z, 2.6, 12.0)
		if u != 0.49 && u != 0.51 && u != 0.52 && u != 0.99 && u != (0.52+0.99)/2 {
			t.Errorf("phi=%v: unexpected u=%v", phi, u)
		}
	}
}

func TestSkyUVWrapsToUnitRange(t *testing.T) {
	cases := []struct{ theta, phi float64 }{
		{0, 0}, {math.Pi, 2 * math.Pi}, {-1, -5}, {100, -100},
	}
	for _, c := range cases {
		u, v := SkyUV(c.theta, c.phi)
		if u < 0 || u >= 1 || v < 0 || v >= 1 {
			t.Errorf("theta=%v phi=%v: SkyUV = (%v,%v), want both in [0,1)", c.theta, c.phi, u, v)
		}
	}
}

func TestAdditiveBlendTransparentIsNoOp(t *testing.T) {
	existing := core.NewColor(10, 20, 30, 255)
	sample := core.Color{R: 99, G: 99, B: 99, A: 0}
	got := AdditiveBlend(sample, existing)
	if got != existing {
		t.Fatalf("transparent sample changed color: got %+v want %+v", got, existing)
	}
}

func TestAdditiveBlendWhiteOntoBlackIsWhite(t *testing.T) {
	white := core.Color{R: 255, G: 255, B: 255, A: 255}
	got := AdditiveBlend(white, core.Color{})
	if got.R != white.R || got.G != white.G || got.B != white.B || got.A != 255 {
		t.Fatalf("got %+v, want opaque white", got)
	}
}
