package scene

// HitableKind is the closed tag for the variant set the kernel hard-codes:
// Disk | Horizon | Sky, so the integrator can test each in a fixed order
// with no virtual dispatch on the hot path.
type HitableKind int

const (
	KindDisk HitableKind = iota
	KindHorizon
	KindSky
)

// Hitable is one entry in Scene.Hitables. Only the fields relevant to Kind
// are meaningful; this mirrors a tagged union rather than an interface
// because the GPU kernel needs a fixed-size, fixed-order uniform record,
// not a dispatch table.
type Hitable struct {
	Kind HitableKind

	// KindDisk
	DiskInnerRadius float64
	DiskOuterRadius float64
	DiskTexture     *Texture

	// KindHorizon
	HorizonRadius float64

	// KindSky
	SkyRadius     float64
	SkyTexture    *Texture
	SkyPhiOffset  float64
}

// NewTexturedDisk requires 0 < rInner < rOuter.
func NewTexturedDisk(rInner, rOuter float64, texture *Texture) Hitable {
	return Hitable{Kind: KindDisk, DiskInnerRadius: rInner, DiskOuterRadius: rOuter, DiskTexture: texture}
}

// NewHorizon is normally constructed with rH=2 in natural units.
func NewHorizon(rH float64) Hitable {
	return Hitable{Kind: KindHorizon, HorizonRadius: rH}
}

// NewSky requires rSky > rOuter.
func NewSky(rSky float64, texture *Texture, phiOffset float64) Hitable {
	return Hitable{Kind: KindSky, SkyRadius: rSky, SkyTexture: texture, SkyPhiOffset: phiOffset}
}

// DefaultHitables is the one supported configuration: exactly one disk,
// one horizon, one sky.
func DefaultHitables(diskTex, skyTex *Texture) []Hitable {
	return []Hitable{
		NewTexturedDisk(2.6, 12.0, diskTex),
		NewHorizon(2.0),
		NewSky(30.0, skyTex, 1.5707963267948966 /* pi/2 */),
	}
}
