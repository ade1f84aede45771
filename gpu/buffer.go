package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformBuffer wraps the single 256-byte per-frame uniform binding.
type UniformBuffer struct {
	handle *wgpu.Buffer
}

func NewUniformBuffer(device *Device) (*UniformBuffer, error) {
	buf, err := device.Handle().CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "frame-uniforms",
		Size:             uniformSize,
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "uniform buffer", err)
	}
	return &UniformBuffer{handle: buf}, nil
}

func (u *UniformBuffer) Write(device *Device, uniforms FrameUniforms) {
	device.Queue().WriteBuffer(u.handle, 0, uniforms.Pack())
}

func (u *UniformBuffer) Handle() *wgpu.Buffer { return u.handle }

func (u *UniformBuffer) Destroy() {
	if u.handle != nil {
		u.handle.Release()
	}
}

// AccumulationBuffer is the W*H*16-byte per-pixel RGBA-float running-mean
// buffer the compute kernel reads and rewrites every frame. It is
// destroyed and recreated whenever the frame driver resizes, which also
// implicitly resets the accumulated image.
type AccumulationBuffer struct {
	handle *wgpu.Buffer
	width  int
	height int
}

func NewAccumulationBuffer(device *Device, width, height int) (*AccumulationBuffer, error) {
	size := uint64(width) * uint64(height) * 16
	buf, err := device.Handle().CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "accumulation-buffer",
		Size:             size,
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "accumulation buffer", err)
	}
	return &AccumulationBuffer{handle: buf, width: width, height: height}, nil
}

func (a *AccumulationBuffer) Handle() *wgpu.Buffer { return a.handle }

func (a *AccumulationBuffer) Destroy() {
	if a.handle != nil {
		a.handle.Release()
	}
}

// StagingBuffer is the short-lived read-back buffer GetImageData maps
// to copy the output image to CPU-visible memory. It is created fresh
// per export and destroyed immediately after.
type StagingBuffer struct {
	handle *wgpu.Buffer
	size   uint64
}

func NewStagingBuffer(device *Device, size uint64) (*StagingBuffer, error) {
	buf, err := device.Handle().CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "image-staging",
		Size:             size,
		Usage:            wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "staging buffer", err)
	}
	return &StagingBuffer{handle: buf, size: size}, nil
}

func (s *StagingBuffer) Destroy() {
	if s.handle != nil {
		s.handle.Release()
	}
}
