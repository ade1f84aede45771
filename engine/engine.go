// Package engine is the external surface: the thin set of operations the
// outer UI (or, in this module, the control/ websocket server) calls. It
// owns parameter clamping and the reset-on-mutation contract;
// gpu.FrameDriver trusts whatever it is handed and never clamps anything
// itself.
package engine

import (
	"log"

	"blackhole-lens/gpu"
	remath "blackhole-lens/math"
	"blackhole-lens/scene"
)

// Config holds the tunables that aren't part of the scene itself:
// jitter scale and quality.
type Config struct {
	JitterScale float64
	Quality     int
}

func DefaultConfig() Config {
	return Config{JitterScale: 20.0, Quality: 10}
}

// Engine wraps a gpu.FrameDriver and the scene it renders, and is the
// only thing that mutates either in response to outer input.
type Engine struct {
	driver *gpu.FrameDriver
	scene  *scene.Scene
	config Config

	diskTex *scene.Texture
	skyTex  *scene.Texture
}

func New(driver *gpu.FrameDriver, s *scene.Scene, diskTex, skyTex *scene.Texture, config Config) *Engine {
	e := &Engine{driver: driver, scene: s, config: config, diskTex: diskTex, skyTex: skyTex}
	e.driver.SetJitterScale(config.JitterScale)
	_, maxIter := QualityToRayBudget(config.Quality)
	e.driver.SetMaxIterations(maxIter)
	return e
}

// ClampFOV restricts a field-of-view value to its valid range in degrees.
func ClampFOV(deg float64) float64 { return remath.Clamp(deg, 30, 150) }

// ClampDistance restricts a camera orbit distance to its valid range.
func ClampDistance(d float64) float64 { return remath.Clamp(d, 5, 50) }

// ClampVerticalAngle restricts the spherical polar angle theta away from
// the poles, to avoid the camera basis degenerating.
func ClampVerticalAngle(theta float64) float64 { return remath.Clamp(theta, 0.1, 3.141592653589793-0.1) }

// ClampPotentialCoefficient restricts k to its typical range.
func ClampPotentialCoefficient(k float64) float64 { return remath.Clamp(k, -5, 5) }

// ClampStepSize restricts h to its valid range.
func ClampStepSize(h float64) float64 { return remath.Clamp(h, 0.01, 0.20) }

// ClampQuality restricts the integer quality dial to its valid range.
func ClampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 20 {
		return 20
	}
	return q
}

// QualityToRayBudget maps the 1..20 quality dial to the kernel's
// raysPerFrame and maxIterations: raysPerFrame = 500 + 500*q,
// maxIterations = 20000 + 5000*q. raysPerFrame is informational here
// (the real ray count per frame is always W*H); maxIterations is the
// value actually fed to the driver.
func QualityToRayBudget(quality int) (raysPerFrame, maxIterations uint32) {
	q := ClampQuality(quality)
	raysPerFrame = uint32(500 + 500*q)
	maxIterations = uint32(20000 + 5000*q)
	return raysPerFrame, maxIterations
}

// SetCamera sets the camera's Cartesian pose directly (position, look-at,
// up, FOV) and resets the accumulator. Spherical fields are left as they
// were; callers that mix Cartesian and spherical mutation get whichever
// was set last, per scene.Camera's documented invariant.
func (e *Engine) SetCamera(position, lookAt, up remath.Vector3, fovDeg float64) {
	e.scene.Camera.Position = position
	e.scene.Camera.LookAt = lookAt
	e.scene.Camera.Up = up
	e.scene.Camera.FOVDeg = ClampFOV(fovDeg)
	e.driver.Reset()
}

// SetSpherical clamps and applies the spherical camera parametrization,
// recomputing Cartesian position per the invariant, then resets.
func (e *Engine) SetSpherical(distance, theta, phi, tilt float64) {
	distance = ClampDistance(distance)
	theta = ClampVerticalAngle(theta)
	e.scene.Camera.SetSpherical(distance, theta, phi, tilt)
	e.driver.Reset()
}

// SetFOV clamps and applies the field of view, then resets.
func (e *Engine) SetFOV(deg float64) {
	e.scene.Camera.FOVDeg = ClampFOV(deg)
	e.driver.Reset()
}

// SetODE clamps and applies the potentialCoefficient/stepSize pair, then
// resets.
func (e *Engine) SetODE(k, h float64) {
	e.scene.ODE.PotentialCoefficient = ClampPotentialCoefficient(k)
	e.scene.ODE.StepSize = ClampStepSize(h)
	e.driver.Reset()
}

// SetQuality clamps the quality dial, derives maxIterations, applies it
// to the driver (which itself resets), and records the new config.
func (e *Engine) SetQuality(quality int) {
	e.config.Quality = ClampQuality(quality)
	_, maxIter := QualityToRayBudget(e.config.Quality)
	e.driver.SetMaxIterations(maxIter)
}

// LoadDiskTexture takes an already-decoded src, uploads it through the
// driver's atlas preprocessing path, and resets. The previous disk texture is retained
// on failure.
func (e *Engine) LoadDiskTexture(src *scene.Texture) error {
	if err := e.driver.LoadDiskTexture(src, e.skyTex); err != nil {
		log.Printf("disk texture load failed, keeping previous texture: %v", err)
		return err
	}
	e.diskTex = src
	for i := range e.scene.Hitables {
		if e.scene.Hitables[i].Kind == scene.KindDisk {
			e.scene.Hitables[i].DiskTexture = src
		}
	}
	return nil
}

// LoadSkyTexture takes an already-decoded src, uploads it unmodified, and
// resets. The
// previous sky texture is retained on failure.
func (e *Engine) LoadSkyTexture(src *scene.Texture) error {
	if err := e.driver.LoadSkyTexture(e.diskTex, src); err != nil {
		log.Printf("sky texture load failed, keeping previous texture: %v", err)
		return err
	}
	e.skyTex = src
	for i := range e.scene.Hitables {
		if e.scene.Hitables[i].Kind == scene.KindSky {
			e.scene.Hitables[i].SkyTexture = src
		}
	}
	return nil
}

// StepFrame dispatches one frame and returns the ray count (W*H).
func (e *Engine) StepFrame() (int, error) {
	return e.driver.StepFrame(e.scene)
}

// Reset forces the next frame to write its sample directly, skipping the
// running-mean blend.
func (e *Engine) Reset() {
	e.driver.Reset()
}

// Resize rebuilds the output image and accumulation buffer at the new
// dimensions and resets.
func (e *Engine) Resize(width, height int) error {
	return e.driver.Resize(width, height)
}

// GetImageData exports the current output image as W*H*4 RGBA bytes.
func (e *Engine) GetImageData() ([]byte, error) {
	return e.driver.GetImageData()
}

// Scene exposes the live scene for read-only inspection (e.g. the
// control server echoing current state back to a client).
func (e *Engine) Scene() *scene.Scene { return e.scene }
