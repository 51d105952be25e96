package systems

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Heightmap is a decoded raster reduced to 8-bit gray levels.
type Heightmap struct {
	width, height int
	gray          []uint8 // row-major, width*height
}

// LoadHeightmap decodes an image file in any registered format.
func LoadHeightmap(path string) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap %s: %w", path, err)
	}
	return NewHeightmap(img), nil
}

// NewHeightmap converts an image to gray levels using the
// (11r + 16g + 5b) / 32 weighting on 8-bit channels.
func NewHeightmap(img image.Image) *Heightmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	hm := &Heightmap{
		width:  w,
		height: h,
		gray:   make([]uint8, w*h),
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r8, g8, b8 := r>>8, g>>8, bl>>8
			hm.gray[y*w+x] = uint8((r8*11 + g8*16 + b8*5) / 32)
		}
	}
	return hm
}

// Width returns the raster width in pixels.
func (h *Heightmap) Width() int { return h.width }

// Height returns the raster height in pixels.
func (h *Heightmap) Height() int { return h.height }

// Gray returns the gray level at pixel (x, y), or 0 outside the raster.
func (h *Heightmap) Gray(x, y int) float32 {
	if x < 0 || y < 0 || x >= h.width || y >= h.height {
		return 0
	}
	return float32(h.gray[y*h.width+x])
}
