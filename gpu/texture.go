package gpu

import (
	"blackhole-lens/scene"

	"github.com/cogentcore/webgpu/wgpu"
)

// OutputImage is the rgba8unorm target the compute kernel writes and the
// presentation pass samples. It carries storage (compute write),
// copy-source (GetImageData readback) and sampled (presentation read)
// usages simultaneously.
type OutputImage struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   int
	height  int
}

func NewOutputImage(device *Device, width, height int) (*OutputImage, error) {
	tex, err := device.Handle().CreateTexture(&wgpu.TextureDescriptor{
		Label: "output-image",
		Size: wgpu.Extent3D{
			Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage: wgpu.TextureUsageStorageBinding |
			wgpu.TextureUsageCopySrc |
			wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "output image", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, wrapErr(ErrResourceCreation, "output image view", err)
	}
	return &OutputImage{texture: tex, view: view, width: width, height: height}, nil
}

func (o *OutputImage) Texture() *wgpu.Texture  { return o.texture }
func (o *OutputImage) View() *wgpu.TextureView { return o.view }
func (o *OutputImage) Width() int              { return o.width }
func (o *OutputImage) Height() int             { return o.height }

func (o *OutputImage) Destroy() {
	if o.view != nil {
		o.view.Release()
	}
	if o.texture != nil {
		o.texture.Release()
	}
}

// SampledTexture is a GPU-resident copy of a scene.Texture (disk or sky).
// Hot-swapping one means: build the replacement, install it into a fresh
// bind group, THEN destroy the old one — callers own that ordering, this
// type only owns the handles for one generation.
type SampledTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   int
	height  int
}

func (s *SampledTexture) Texture() *wgpu.Texture  { return s.texture }
func (s *SampledTexture) View() *wgpu.TextureView { return s.view }

func (s *SampledTexture) Destroy() {
	if s == nil {
		return
	}
	if s.view != nil {
		s.view.Release()
	}
	if s.texture != nil {
		s.texture.Release()
	}
}

// UploadTexture creates a sampled rgba8unorm texture from a CPU-side
// scene.Texture and uploads its pixels via the device queue. Disk
// textures must already have been run through scene.PreprocessDiskAtlas
// by the caller; this function uploads whatever pixels it is given
// unmodified, matching the sky texture's "uploaded as-is" contract.
func UploadTexture(device *Device, tex *scene.Texture, label string) (*SampledTexture, error) {
	gt, err := device.Handle().CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width: uint32(tex.Width), Height: uint32(tex.Height), DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, wrapErr(ErrTextureLoad, label, err)
	}

	device.Queue().WriteTexture(
		&wgpu.ImageCopyTexture{Texture: gt},
		tex.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(tex.Width * 4),
			RowsPerImage: uint32(tex.Height),
		},
		&wgpu.Extent3D{Width: uint32(tex.Width), Height: uint32(tex.Height), DepthOrArrayLayers: 1},
	)

	view, err := gt.CreateView(nil)
	if err != nil {
		gt.Release()
		return nil, wrapErr(ErrTextureLoad, label+" view", err)
	}

	return &SampledTexture{texture: gt, view: view, width: tex.Width, height: tex.Height}, nil
}

// NewLinearSampler builds the single sampler shared by the disk, sky and
// output-image bindings: bilinear filtering, mirror-repeat addressing (so
// the disk atlas's mirrored quadrants tile seamlessly) and 16x anisotropy.
func NewLinearSampler(device *Device) (*wgpu.Sampler, error) {
	s, err := device.Handle().CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "linear-mirror-sampler",
		AddressModeU:  wgpu.AddressModeMirrorRepeat,
		AddressModeV:  wgpu.AddressModeMirrorRepeat,
		AddressModeW:  wgpu.AddressModeMirrorRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 16,
	})
	if err != nil {
		return nil, wrapErr(ErrResourceCreation, "sampler", err)
	}
	return s, nil
}
