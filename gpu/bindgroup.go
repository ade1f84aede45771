package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroups holds the two currently-installed bind groups. Rebuilding
// one (on resize or on a texture hot-swap) must only release the old
// handle after the new one is installed — callers are responsible for
// that ordering, this type just holds whichever generation is current.
type BindGroups struct {
	Compute      *wgpu.BindGroup
	Presentation *wgpu.BindGroup
}

// BuildComputeBindGroup wires the uniform buffer, accumulation buffer,
// output image, disk/sky textures and shared sampler into binding slots
// 0..5 matching kernelWGSL's @group(0) declarations.
func BuildComputeBindGroup(
	device *Device,
	layout *wgpu.BindGroupLayout,
	uniforms *UniformBuffer,
	accum *AccumulationBuffer,
	output *OutputImage,
	disk *SampledTexture,
	sky *SampledTexture,
	sampler *wgpu.Sampler,
) (*wgpu.BindGroup, error) {
	bg, err := device.Handle().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "compute-bind-group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniforms.Handle(), Size: uniformSize},
			{Binding: 1, Buffer: accum.Handle(), Size: wgpu.WholeSize},
			{Binding: 2, TextureView: output.View()},
			{Binding: 3, TextureView: disk.View()},
			{Binding: 4, TextureView: sky.View()},
			{Binding: 5, Sampler: sampler},
		},
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "compute bind group", err)
	}
	return bg, nil
}

// BuildPresentationBindGroup wires the output image and sampler into the
// presentation pass's @group(0).
func BuildPresentationBindGroup(
	device *Device,
	layout *wgpu.BindGroupLayout,
	output *OutputImage,
	sampler *wgpu.Sampler,
) (*wgpu.BindGroup, error) {
	bg, err := device.Handle().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "presentation-bind-group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: output.View()},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "presentation bind group", err)
	}
	return bg, nil
}
