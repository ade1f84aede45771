package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Device owns the instance/adapter/device/queue chain the rest of the
// package builds pipelines and resources on top of. It mirrors the
// layered device-then-resources structure of a Vulkan physical/logical
// device pair, but the handshake here is WebGPU's adapter/device request
// rather than hand-rolled queue-family scoring.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	handle   *wgpu.Device
	queue    *wgpu.Queue

	onError func(kind ErrorKind, err error)
}

// NewDevice requests a high-performance adapter and device from the
// default wgpu instance. surface, if non-nil, is used as a compatible
// surface hint for adapter selection (a visible window is present); pass
// nil for headless / offscreen use.
func NewDevice(surface *wgpu.Surface, onError func(kind ErrorKind, err error)) (*Device, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, wrapErr(ErrUnsupportedDevice, "could not create wgpu instance", nil)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface:    surface,
		PowerPreference:      wgpu.PowerPreferenceHighPerformance,
		ForceFallbackAdapter: false,
	})
	if err != nil || adapter == nil {
		instance.Release()
		return nil, wrapErr(ErrUnsupportedDevice, "no compatible wgpu adapter", err)
	}

	d := &Device{instance: instance, adapter: adapter, onError: onError}

	handle, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "blackhole-lens-device",
		UncapturedErrorCallback: func(t wgpu.ErrorType, message string) {
			d.handleUncapturedError(t, message)
		},
		DeviceLostCallback: func(reason wgpu.DeviceLostReason, message string) {
			d.handleDeviceLost(reason, message)
		},
	})
	if err != nil || handle == nil {
		adapter.Release()
		instance.Release()
		return nil, wrapErr(ErrUnsupportedDevice, "device request rejected", err)
	}

	d.handle = handle
	d.queue = handle.GetQueue()
	return d, nil
}

func (d *Device) handleUncapturedError(t wgpu.ErrorType, message string) {
	if d.onError == nil {
		return
	}
	kind := ErrResourceCreation
	if t == wgpu.ErrorTypeValidation {
		kind = ErrShaderCompilation
	}
	d.onError(kind, fmt.Errorf("%s", message))
}

func (d *Device) handleDeviceLost(reason wgpu.DeviceLostReason, message string) {
	if d.onError == nil {
		return
	}
	d.onError(ErrDeviceLost, fmt.Errorf("reason=%v: %s", reason, message))
}

// Handle exposes the raw wgpu.Device for the other gpu/*.go files that
// build resources on top of it.
func (d *Device) Handle() *wgpu.Device { return d.handle }

// Queue exposes the device's single command queue.
func (d *Device) Queue() *wgpu.Queue { return d.queue }

// Instance exposes the wgpu instance, needed by cmd/blackhole to build a
// window surface before a FrameDriver exists.
func (d *Device) Instance() *wgpu.Instance { return d.instance }

// Adapter exposes the wgpu adapter, needed to query a surface's
// preferred presentation format.
func (d *Device) Adapter() *wgpu.Adapter { return d.adapter }

// Destroy releases the device, adapter and instance in reverse order of
// acquisition.
func (d *Device) Destroy() {
	if d.queue != nil {
		d.queue.Release()
	}
	if d.handle != nil {
		d.handle.Release()
	}
	if d.adapter != nil {
		d.adapter.Release()
	}
	if d.instance != nil {
		d.instance.Release()
	}
}
