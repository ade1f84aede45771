package scene

import "testing"

func TestPreprocessDiskAtlasMirrorsFourQuadrants(t *testing.T) {
	src := &Texture{
		Name: "t", Width: 2, Height: 2,
		// top-left=red, top-right=green, bottom-left=blue, bottom-right=yellow
		Pixels: []byte{
			255, 0, 0, 255, 0, 255, 0, 255,
			0, 0, 255, 255, 255, 255, 0, 255,
		},
	}
	atlas := PreprocessDiskAtlas(src)
	if atlas.Width != 4 || atlas.Height != 4 {
		t.Fatalf("atlas size = %dx%d, want 4x4", atlas.Width, atlas.Height)
	}

	get := func(x, y int) (byte, byte, byte, byte) {
		i := (y*atlas.Width + x) * 4
		return atlas.Pixels[i], atlas.Pixels[i+1], atlas.Pixels[i+2], atlas.Pixels[i+3]
	}

	// original at (0,0)
	if r, g, b, _ := get(0, 0); r != 255 || g != 0 || b != 0 {
		t.Errorf("top-left origin mismatch: %d,%d,%d", r, g, b)
	}
	// horizontal mirror at (3,0) should equal source (0,0)
	if r, g, b, _ := get(3, 0); r != 255 || g != 0 || b != 0 {
		t.Errorf("horizontal mirror mismatch: %d,%d,%d", r, g, b)
	}
	// vertical mirror at (0,3) should equal source (0,0)
	if r, g, b, _ := get(0, 3); r != 255 || g != 0 || b != 0 {
		t.Errorf("vertical mirror mismatch: %d,%d,%d", r, g, b)
	}
	// both-mirror at (3,3) should equal source (0,0)
	if r, g, b, _ := get(3, 3); r != 255 || g != 0 || b != 0 {
		t.Errorf("both-mirror mismatch: %d,%d,%d", r, g, b)
	}
}

func TestNewSolidTexture(t *testing.T) {
	tex := NewSolidTexture("white", 255, 255, 255, 255)
	if tex.Width != 1 || tex.Height != 1 || len(tex.Pixels) != 4 {
		t.Fatalf("unexpected solid texture: %+v", tex)
	}
}
