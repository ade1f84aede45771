package scene

import "testing"

func TestDefaultHitablesConfiguration(t *testing.T) {
	disk := NewSolidTexture("disk", 255, 0, 0, 255)
	sky := NewSolidTexture("sky", 0, 0, 255, 255)
	s := NewScene(disk, sky)

	d, ok := s.Disk()
	if !ok || d.DiskInnerRadius != 2.6 || d.DiskOuterRadius != 12.0 {
		t.Fatalf("disk = %+v, ok=%v", d, ok)
	}
	h, ok := s.Horizon()
	if !ok || h.HorizonRadius != 2.0 {
		t.Fatalf("horizon = %+v, ok=%v", h, ok)
	}
	sky2, ok := s.Sky()
	if !ok || sky2.SkyRadius != 30.0 {
		t.Fatalf("sky = %+v, ok=%v", sky2, ok)
	}
	if sky2.SkyRadius <= d.DiskOuterRadius {
		t.Fatalf("invariant rSky > rOuter violated")
	}
	if !(0 < d.DiskInnerRadius && d.DiskInnerRadius < d.DiskOuterRadius) {
		t.Fatalf("invariant 0 < rInner < rOuter violated")
	}
}
