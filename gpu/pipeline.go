package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipelines holds the two GPU programs the frame driver dispatches: the
// ray-tracing compute kernel and the full-screen presentation pass.
type Pipelines struct {
	computeLayout      *wgpu.BindGroupLayout
	compute            *wgpu.ComputePipeline
	presentationLayout *wgpu.BindGroupLayout
	presentation       *wgpu.RenderPipeline
}

func (p *Pipelines) ComputeLayout() *wgpu.BindGroupLayout      { return p.computeLayout }
func (p *Pipelines) Compute() *wgpu.ComputePipeline             { return p.compute }
func (p *Pipelines) PresentationLayout() *wgpu.BindGroupLayout { return p.presentationLayout }
func (p *Pipelines) Presentation() *wgpu.RenderPipeline        { return p.presentation }

func (p *Pipelines) Destroy() {
	if p.compute != nil {
		p.compute.Release()
	}
	if p.computeLayout != nil {
		p.computeLayout.Release()
	}
	if p.presentation != nil {
		p.presentation.Release()
	}
	if p.presentationLayout != nil {
		p.presentationLayout.Release()
	}
}

// NewPipelines compiles both WGSL programs and builds their bind group
// layouts. A shader compilation failure here is fatal per the
// ShaderCompilationFailed taxonomy entry: no frames can be produced.
func NewPipelines(device *Device, surfaceFormat wgpu.TextureFormat) (*Pipelines, error) {
	kernelModule, err := device.Handle().CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "raytrace-kernel",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: kernelWGSL},
	})
	if err != nil {
		return nil, wrapErr(ErrShaderCompilation, "compute kernel", err)
	}
	defer kernelModule.Release()

	presentModule, err := device.Handle().CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "presentation-pass",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: presentationWGSL},
	})
	if err != nil {
		return nil, wrapErr(ErrShaderCompilation, "presentation pass", err)
	}
	defer presentModule.Release()

	computeLayout, err := device.Handle().CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "compute-bind-group-layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
			{Binding: 2, Visibility: wgpu.ShaderStageCompute, StorageTexture: wgpu.StorageTextureBindingLayout{
				Access: wgpu.StorageTextureAccessWriteOnly, Format: wgpu.TextureFormatRGBA8Unorm, ViewDimension: wgpu.TextureViewDimension2D,
			}},
			{Binding: 3, Visibility: wgpu.ShaderStageCompute, Texture: wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D}},
			{Binding: 4, Visibility: wgpu.ShaderStageCompute, Texture: wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D}},
			{Binding: 5, Visibility: wgpu.ShaderStageCompute, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		},
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "compute bind group layout", err)
	}

	computePipelineLayout, err := device.Handle().CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "compute-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{computeLayout},
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "compute pipeline layout", err)
	}
	defer computePipelineLayout.Release()

	computePipeline, err := device.Handle().CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "raytrace-kernel-pipeline",
		Layout: computePipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     kernelModule,
			EntryPoint: "cs_main",
		},
	})
	if err != nil {
		return nil, wrapErr(ErrShaderCompilation, "compute pipeline", err)
	}

	presentationLayout, err := device.Handle().CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "presentation-bind-group-layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Texture: wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D}},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		},
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "presentation bind group layout", err)
	}

	presentationPipelineLayout, err := device.Handle().CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "presentation-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{presentationLayout},
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "presentation pipeline layout", err)
	}
	defer presentationPipelineLayout.Release()

	presentationPipeline, err := device.Handle().CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "presentation-pipeline",
		Layout: presentationPipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     presentModule,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     presentModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: surfaceFormat, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return nil, wrapErr(ErrShaderCompilation, "presentation pipeline", err)
	}

	return &Pipelines{
		computeLayout:      computeLayout,
		compute:            computePipeline,
		presentationLayout: presentationLayout,
		presentation:       presentationPipeline,
	}, nil
}
