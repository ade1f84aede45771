package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

// Window owns the platform window and its native handle. The wgpu surface
// is created from the handle in cmd/blackhole (via wgpuglfw and the gpu
// device's instance), keeping windowing and GPU device setup apart the way the
// teacher separates core.Window from its device layer.
type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	onResize func(width, height int)
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1024,
		Height:    1024,
		Title:     "Schwarzschild Lens",
		Resizable: true,
	}
}

func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		if window.onResize != nil {
			window.onResize(width, height)
		}
	})

	return window, nil
}

// OnResize registers the callback driving gpu.FrameDriver.Resize.
func (w *Window) OnResize(cb func(width, height int)) {
	w.onResize = cb
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

// GetCursorPos and the mouse/scroll helpers below back the orbit-camera
// control in cmd/blackhole: left-drag adjusts the spherical angles, scroll
// adjusts distance. This is a stand-in interactive harness only; the real
// control surface is engine.Engine, driven here or over control.Server.
func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

func (w *Window) IsMouseButtonPressed(button glfw.MouseButton) bool {
	return w.Handle.GetMouseButton(button) == glfw.Press
}

type ScrollCallback func(xoff, yoff float64)

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

func (w *Window) IsKeyPressed(key glfw.Key) bool {
	return w.Handle.GetKey(key) == glfw.Press
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
