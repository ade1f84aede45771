package scene

import (
	"blackhole-lens/physics"
)

// Scene bundles everything one frame needs from the outer layer: camera
// pose, the hitable list, and the ODE parameters. The frame driver uses
// only the first hitable of each kind (see Disk, Horizon, Sky), and the
// kernel tests horizon, disk and sky in that fixed order on every step,
// whatever their position in the list.
type Scene struct {
	Camera   Camera
	Hitables []Hitable
	ODE      physics.Params
}

// NewScene builds the one supported configuration: a camera at its
// default pose, the disk/horizon/sky triple, and default ODE params.
func NewScene(diskTex, skyTex *Texture) *Scene {
	return &Scene{
		Camera:   DefaultCamera(),
		Hitables: DefaultHitables(diskTex, skyTex),
		ODE:      physics.DefaultParams(),
	}
}

// Horizon returns the scene's horizon hitable and whether one is present.
func (s *Scene) Horizon() (Hitable, bool) {
	for _, h := range s.Hitables {
		if h.Kind == KindHorizon {
			return h, true
		}
	}
	return Hitable{}, false
}

// Disk returns the scene's disk hitable and whether one is present.
func (s *Scene) Disk() (Hitable, bool) {
	for _, h := range s.Hitables {
		if h.Kind == KindDisk {
			return h, true
		}
	}
	return Hitable{}, false
}

// Sky returns the scene's sky hitable and whether one is present.
func (s *Scene) Sky() (Hitable, bool) {
	for _, h := range s.Hitables {
		if h.Kind == KindSky {
			return h, true
		}
	}
	return Hitable{}, false
}
