package gpu

import (
	"blackhole-lens/scene"

	"github.com/cogentcore/webgpu/wgpu"
)

// FrameDriver owns every GPU-resident resource and exposes the public
// contract: StepFrame, Reset, Resize, the setters that all imply reset,
// and GetImageData. The engine package is the only caller; it owns
// parameter clamping, this type trusts its inputs.
type FrameDriver struct {
	device    *Device
	pipelines *Pipelines
	sampler   *wgpu.Sampler

	uniforms *UniformBuffer
	accum    *AccumulationBuffer
	output   *OutputImage
	disk     *SampledTexture
	sky      *SampledTexture
	bindings BindGroups

	width, height int
	frameCount    uint32
	maxIterations uint32
	jitterScale   float64
	randomSeed    uint32

	surfaceFormat wgpu.TextureFormat
	surface       *wgpu.Surface
}

// NewFrameDriver builds every GPU resource for a W x H render target. The
// surface (and its preferred format) drives the presentation pipeline;
// pass a nil surface for headless use — StepFrame then skips the
// presentation pass and GetImageData is the only way to observe pixels.
func NewFrameDriver(device *Device, surface *wgpu.Surface, surfaceFormat wgpu.TextureFormat, width, height int, diskTex, skyTex *scene.Texture) (*FrameDriver, error) {
	pipelines, err := NewPipelines(device, surfaceFormat)
	if err != nil {
		return nil, err
	}

	sampler, err := NewLinearSampler(device)
	if err != nil {
		pipelines.Destroy()
		return nil, err
	}

	d := &FrameDriver{
		device:        device,
		pipelines:     pipelines,
		sampler:       sampler,
		width:         width,
		height:        height,
		maxIterations: 20000,
		jitterScale:   20.0,
		randomSeed:    1,
		surfaceFormat: surfaceFormat,
		surface:       surface,
	}

	if err := d.allocateFrameResources(); err != nil {
		d.Destroy()
		return nil, err
	}

	atlas := scene.PreprocessDiskAtlas(diskTex)
	if err := d.loadTextures(atlas, skyTex); err != nil {
		d.Destroy()
		return nil, err
	}

	return d, nil
}

func (d *FrameDriver) allocateFrameResources() error {
	uniforms, err := NewUniformBuffer(d.device)
	if err != nil {
		return err
	}
	accum, err := NewAccumulationBuffer(d.device, d.width, d.height)
	if err != nil {
		uniforms.Destroy()
		return err
	}
	output, err := NewOutputImage(d.device, d.width, d.height)
	if err != nil {
		uniforms.Destroy()
		accum.Destroy()
		return err
	}
	d.uniforms = uniforms
	d.accum = accum
	d.output = output
	return nil
}

func (d *FrameDriver) loadTextures(diskAtlas, sky *scene.Texture) error {
	diskGPU, err := UploadTexture(d.device, diskAtlas, "disk-atlas")
	if err != nil {
		return err
	}
	skyGPU, err := UploadTexture(d.device, sky, "sky")
	if err != nil {
		diskGPU.Destroy()
		return err
	}

	computeBG, err := BuildComputeBindGroup(d.device, d.pipelines.ComputeLayout(), d.uniforms, d.accum, d.output, diskGPU, skyGPU, d.sampler)
	if err != nil {
		diskGPU.Destroy()
		skyGPU.Destroy()
		return err
	}
	presentBG, err := BuildPresentationBindGroup(d.device, d.pipelines.PresentationLayout(), d.output, d.sampler)
	if err != nil {
		computeBG.Release()
		diskGPU.Destroy()
		skyGPU.Destroy()
		return err
	}

	// The new textures and bind groups are valid before the old ones are
	// released, so a concurrent frame never sees a torn state.
	oldDisk, oldSky := d.disk, d.sky
	oldCompute, oldPresent := d.bindings.Compute, d.bindings.Presentation

	d.disk, d.sky = diskGPU, skyGPU
	d.bindings = BindGroups{Compute: computeBG, Presentation: presentBG}

	oldDisk.Destroy()
	oldSky.Destroy()
	if oldCompute != nil {
		oldCompute.Release()
	}
	if oldPresent != nil {
		oldPresent.Release()
	}
	return nil
}

// StepFrame packs the uniforms for scene s, dispatches the compute kernel
// over ceil(W/16) x ceil(H/16) workgroups, records a presentation pass if
// a surface is attached, and increments the frame counter. It returns the
// ray count W*H.
func (d *FrameDriver) StepFrame(s *scene.Scene) (int, error) {
	disk, _ := s.Disk()
	horizon, _ := s.Horizon()
	sky, _ := s.Sky()

	u := FrameUniforms{
		CameraPosition:  s.Camera.Position,
		LookAt:          s.Camera.LookAt,
		Up:              s.Camera.Up,
		FOVDeg:          s.Camera.FOVDeg,
		TanHalfFOV:      s.Camera.TanHalfFOV(),
		PotentialCoeff:  s.ODE.PotentialCoefficient,
		StepSize:        s.ODE.StepSize,
		Width:           uint32(d.width),
		Height:          uint32(d.height),
		FrameCount:      d.frameCount,
		RaysPerFrame:    uint32(d.width * d.height),
		DiskInnerRadius: disk.DiskInnerRadius,
		DiskOuterRadius: disk.DiskOuterRadius,
		SkyRadius:       sky.SkyRadius,
		HorizonRadius:   horizon.HorizonRadius,
		RandomSeed:      d.randomSeed + d.frameCount,
		MaxIterations:   d.maxIterations,
		JitterScale:     d.jitterScale,
		SkyPhiOffset:    sky.SkyPhiOffset,
	}
	d.uniforms.Write(d.device, u)

	encoder, err := d.device.Handle().CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "frame-encoder"})
	if err != nil {
		return 0, wrapErr(ErrResourceCreation, "command encoder", err)
	}

	computePass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "raytrace-pass"})
	computePass.SetPipeline(d.pipelines.Compute())
	computePass.SetBindGroup(0, d.bindings.Compute, nil)
	groupsX := (uint32(d.width) + 15) / 16
	groupsY := (uint32(d.height) + 15) / 16
	computePass.DispatchWorkgroups(groupsX, groupsY, 1)
	computePass.End()

	if d.surface != nil {
		surfaceTex, err := d.surface.GetCurrentTexture()
		if err != nil {
			return 0, wrapErr(ErrDeviceLost, "surface texture", err)
		}
		view, err := surfaceTex.CreateView(nil)
		if err != nil {
			return 0, wrapErr(ErrResourceCreation, "surface view", err)
		}
		renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: "presentation-pass",
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{View: view, LoadOp: wgpu.LoadOpClear, StoreOp: wgpu.StoreOpStore, ClearValue: wgpu.Color{}},
			},
		})
		renderPass.SetPipeline(d.pipelines.Presentation())
		renderPass.SetBindGroup(0, d.bindings.Presentation, nil)
		renderPass.Draw(6, 1, 0, 0)
		renderPass.End()
		view.Release()
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return 0, wrapErr(ErrResourceCreation, "command buffer", err)
	}
	d.device.Queue().Submit(cmd)
	if d.surface != nil {
		d.surface.Present()
	}

	d.frameCount++
	return d.width * d.height, nil
}

// Reset sets the frame counter back to 0, so the next dispatched frame
// writes its sample directly instead of blending into the running mean.
func (d *FrameDriver) Reset() {
	d.frameCount = 0
}

// FrameCount exposes the driver's internal F, mostly for tests.
func (d *FrameDriver) FrameCount() uint32 { return d.frameCount }

// Resize destroys and recreates the output image and accumulation buffer
// at the new dimensions, rebuilds both bind groups, and resets F.
func (d *FrameDriver) Resize(width, height int) error {
	oldAccum, oldOutput := d.accum, d.output
	d.width, d.height = width, height

	accum, err := NewAccumulationBuffer(d.device, width, height)
	if err != nil {
		return err
	}
	output, err := NewOutputImage(d.device, width, height)
	if err != nil {
		accum.Destroy()
		return err
	}
	d.accum, d.output = accum, output

	computeBG, err := BuildComputeBindGroup(d.device, d.pipelines.ComputeLayout(), d.uniforms, d.accum, d.output, d.disk, d.sky, d.sampler)
	if err != nil {
		return err
	}
	presentBG, err := BuildPresentationBindGroup(d.device, d.pipelines.PresentationLayout(), d.output, d.sampler)
	if err != nil {
		computeBG.Release()
		return err
	}

	oldCompute, oldPresent := d.bindings.Compute, d.bindings.Presentation
	d.bindings = BindGroups{Compute: computeBG, Presentation: presentBG}

	oldAccum.Destroy()
	oldOutput.Destroy()
	if oldCompute != nil {
		oldCompute.Release()
	}
	if oldPresent != nil {
		oldPresent.Release()
	}

	d.Reset()
	return nil
}

// SetMaxIterations updates the per-ray iteration cap and resets F.
func (d *FrameDriver) SetMaxIterations(n uint32) {
	d.maxIterations = n
	d.Reset()
}

// SetJitterScale updates the anti-aliasing jitter amplitude J and resets F.
func (d *FrameDriver) SetJitterScale(j float64) {
	d.jitterScale = j
	d.Reset()
}

// LoadDiskTexture runs src through the mirrored-atlas preprocessing,
// uploads it, rebuilds the compute bind group, and resets F. The sky
// texture it was bound alongside is re-uploaded too since both textures
// share one bind group generation.
func (d *FrameDriver) LoadDiskTexture(src *scene.Texture, skyCurrent *scene.Texture) error {
	atlas := scene.PreprocessDiskAtlas(src)
	if err := d.loadTextures(atlas, skyCurrent); err != nil {
		return err
	}
	d.Reset()
	return nil
}

// LoadSkyTexture uploads src unmodified (the sky texture is never run
// through the disk atlas preprocessing), rebuilds the compute bind group,
// and resets F.
func (d *FrameDriver) LoadSkyTexture(diskCurrent *scene.Texture, src *scene.Texture) error {
	atlas := scene.PreprocessDiskAtlas(diskCurrent)
	if err := d.loadTextures(atlas, src); err != nil {
		return err
	}
	d.Reset()
	return nil
}

// GetImageData copies the output image to a staging buffer, maps it for
// read, and returns a contiguous W*H*4 RGBA byte array. The staging
// buffer is destroyed before returning.
func (d *FrameDriver) GetImageData() ([]byte, error) {
	bytesPerRow := uint32(d.width * 4)
	// WebGPU requires buffer-texture copies to pad each row to a multiple
	// of 256 bytes; the caller-visible result is repacked without the pad.
	paddedBytesPerRow := (bytesPerRow + 255) &^ 255
	size := uint64(paddedBytesPerRow) * uint64(d.height)

	staging, err := NewStagingBuffer(d.device, size)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	encoder, err := d.device.Handle().CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "readback-encoder"})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "readback encoder", err)
	}
	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{Texture: d.output.Texture()},
		&wgpu.ImageCopyBuffer{
			Buffer: staging.handle,
			Layout: wgpu.TextureDataLayout{BytesPerRow: paddedBytesPerRow, RowsPerImage: uint32(d.height)},
		},
		&wgpu.Extent3D{Width: uint32(d.width), Height: uint32(d.height), DepthOrArrayLayers: 1},
	)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "readback command buffer", err)
	}
	d.device.Queue().Submit(cmd)

	mapped, err := staging.handle.MapRead()
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "map staging buffer", err)
	}

	out := make([]byte, d.width*d.height*4)
	for row := 0; row < d.height; row++ {
		srcOff := row * int(paddedBytesPerRow)
		dstOff := row * d.width * 4
		copy(out[dstOff:dstOff+d.width*4], mapped[srcOff:srcOff+d.width*4])
	}
	staging.handle.Unmap()

	return out, nil
}

// Destroy releases every GPU resource owned by the driver, in reverse
// acquisition order.
func (d *FrameDriver) Destroy() {
	if d.bindings.Compute != nil {
		d.bindings.Compute.Release()
	}
	if d.bindings.Presentation != nil {
		d.bindings.Presentation.Release()
	}
	d.disk.Destroy()
	d.sky.Destroy()
	if d.output != nil {
		d.output.Destroy()
	}
	if d.accum != nil {
		d.accum.Destroy()
	}
	if d.uniforms != nil {
		d.uniforms.Destroy()
	}
	if d.sampler != nil {
		d.sampler.Release()
	}
	if d.pipelines != nil {
		d.pipelines.Destroy()
	}
}
