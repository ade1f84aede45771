// Command blackhole is the thin executable that opens a window, wires a
// gpu.FrameDriver and engine.Engine together, and drives one frame loop.
package main

import (
	"log"
	"math"

	"blackhole-lens/control"
	"blackhole-lens/core"
	"blackhole-lens/engine"
	"blackhole-lens/gpu"
	"blackhole-lens/scene"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func main() {
	window, err := core.NewWindow(core.DefaultWindowConfig())
	if err != nil {
		log.Fatalf("window: %v", err)
	}
	defer window.Destroy()

	var reportErr = func(kind gpu.ErrorKind, err error) {
		log.Printf("gpu error [%v]: %v", kind, err)
	}

	device, err := gpu.NewDevice(nil, reportErr)
	if err != nil {
		log.Fatalf("device: %v", err)
	}
	defer device.Destroy()

	surfaceDescriptor := wgpuglfw.GetSurfaceDescriptor(window.Handle)
	surface := device.Instance().CreateSurface(surfaceDescriptor)
	surfaceFormat := surface.GetPreferredFormat(device.Adapter())
	w, h := window.GetFramebufferSize()
	surface.Configure(device.Adapter(), device.Handle(), &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      surfaceFormat,
		Width:       uint32(w),
		Height:      uint32(h),
		PresentMode: wgpu.PresentModeFifo,
	})

	diskTex := scene.NewSolidTexture("disk", 255, 60, 20, 255)
	skyTex := scene.NewSolidTexture("sky", 10, 10, 30, 255)

	driver, err := gpu.NewFrameDriver(device, surface, surfaceFormat, w, h, diskTex, skyTex)
	if err != nil {
		log.Fatalf("frame driver: %v", err)
	}
	defer driver.Destroy()

	s := scene.NewScene(diskTex, skyTex)
	eng := engine.New(driver, s, diskTex, skyTex, engine.DefaultConfig())

	window.OnResize(func(width, height int) {
		if err := eng.Resize(width, height); err != nil {
			log.Printf("resize: %v", err)
		}
	})

	go func() {
		srv := control.New(eng)
		if err := srv.ListenAndServe(":8080"); err != nil {
			log.Printf("control server: %v", err)
		}
	}()

	orbit := newOrbitControls(window, eng)

	for !window.ShouldClose() {
		window.PollEvents()
		orbit.poll()
		if _, err := eng.StepFrame(); err != nil {
			log.Printf("step frame: %v", err)
		}
	}
}

// orbitControls is a demo control scheme only — the real External
// Surface is engine.Engine, reachable identically over control.Server.
// A left-drag adjusts the spherical angles; scroll adjusts distance.
type orbitControls struct {
	window       *core.Window
	eng          *engine.Engine
	dragging     bool
	lastX, lastY float64
}

func newOrbitControls(window *core.Window, eng *engine.Engine) *orbitControls {
	o := &orbitControls{window: window, eng: eng}
	window.SetScrollCallback(func(xoff, yoff float64) {
		cam := eng.Scene().Camera
		o.eng.SetSpherical(cam.Distance-yoff*0.5, cam.Theta, cam.Phi, cam.Tilt)
	})
	return o
}

func (o *orbitControls) poll() {
	pressed := o.window.IsMouseButtonPressed(glfw.MouseButtonLeft)
	x, y := o.window.GetCursorPos()

	switch {
	case pressed && !o.dragging:
		o.dragging = true
		o.lastX, o.lastY = x, y
	case pressed && o.dragging:
		dx := x - o.lastX
		dy := y - o.lastY
		o.lastX, o.lastY = x, y

		cam := o.eng.Scene().Camera
		phi := wrapPhi(cam.Phi - dx*0.005)
		theta := engine.ClampVerticalAngle(cam.Theta - dy*0.005)
		o.eng.SetSpherical(cam.Distance, theta, phi, cam.Tilt)
	default:
		o.dragging = false
	}
}

func wrapPhi(phi float64) float64 {
	twoPi := 2 * math.Pi
	phi = math.Mod(phi, twoPi)
	if phi < 0 {
		phi += twoPi
	}
	return phi
}
