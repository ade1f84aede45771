package scene

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Texture holds CPU-side pixel data for a 2D texture, RGBA8, row-major,
// top-to-bottom. The gpu package uploads it; this package only decodes and
// preprocesses.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []byte
}

// LoadTexture reads an image file from disk. Loading from URLs or user
// uploads is the outer UI's job; this is the interface the outer layer
// calls into once bytes are in hand, and LoadTextureFromReader is the
// boundary it actually needs.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()
	return LoadTextureFromReader(path, f)
}

// LoadTextureFromReader decodes any registered image format (PNG, JPEG, BMP,
// TIFF) and converts it to RGBA8.
func LoadTextureFromReader(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}

	return &Texture{Name: name, Width: w, Height: h, Pixels: rgba.Pix}, nil
}

// NewSolidTexture creates a 1x1 texture with the given RGBA color values
// (0-255), used as the default before a real texture loads.
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{Name: name, Width: 1, Height: 1, Pixels: []byte{r, g, b, a}}
}

// at returns the RGBA quadruple at (x,y), clamped to bounds.
func (t *Texture) at(x, y int) (r, g, b, a byte) {
	if x < 0 {
		x = 0
	}
	if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	i := (y*t.Width + x) * 4
	return t.Pixels[i], t.Pixels[i+1], t.Pixels[i+2], t.Pixels[i+3]
}

// PreprocessDiskAtlas builds the 2W×2H mirrored atlas needed before a disk
// texture is uploaded: original top-left, horizontal mirror
// top-right, vertical mirror bottom-left, both-mirror bottom-right. This is
// the only supported disk preparation; the sky texture is uploaded
// unmodified (see gpu.FrameDriver.LoadSkyTexture).
func PreprocessDiskAtlas(src *Texture) *Texture {
	w, h := src.Width, src.Height
	atlas := &Texture{
		Name:   src.Name + ".atlas",
		Width:  2 * w,
		Height: 2 * h,
		Pixels: make([]byte, 2*w*2*h*4),
	}

	set := func(x, y int, r, g, b, a byte) {
		i := (y*atlas.Width + x) * 4
		atlas.Pixels[i], atlas.Pixels[i+1], atlas.Pixels[i+2], atlas.Pixels[i+3] = r, g, b, a
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := src.at(x, y)
			set(x, y, r, g, b, a)                   // top-left: original
			set(2*w-1-x, y, r, g, b, a)              // top-right: horizontal mirror
			set(x, 2*h-1-y, r, g, b, a)               // bottom-left: vertical mirror
			set(2*w-1-x, 2*h-1-y, r, g, b, a)          // bottom-right: both-mirror
		}
	}

	return atlas
}
