package formats

import (
	"fmt"
	"image"
	"io"
	"os"

	// Registered heightmap image formats.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DecodeHeightImage reads a grayscale heightmap. Luminance 0 maps to
// elevation 0 and full white to heightScale. 16-bit images keep their
// precision. The returned grid has unit cell size.
func DecodeHeightImage(r io.Reader, heightScale float32) (*HeightGrid, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding heightmap: %w", err)
	}

	b := img.Bounds()
	g := &HeightGrid{
		Width:    b.Dx(),
		Height:   b.Dy(),
		CellSize: 1,
		Samples:  make([]float32, b.Dx()*b.Dy()),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Samples[(y-b.Min.Y)*g.Width+(x-b.Min.X)] = luminance(img, x, y) * heightScale
		}
	}
	if err := g.Validate(); err != nil {
		return nil, format, err
	}
	return g, format, nil
}

// luminance returns the Rec. 601 luma of a pixel in [0,1].
func luminance(img image.Image, x, y int) float32 {
	r, g, b, _ := img.At(x, y).RGBA()
	return (0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)) / 0xffff
}

// DecodeHeightImageFile reads a heightmap image from disk.
func DecodeHeightImageFile(path string, heightScale float32) (*HeightGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap: %w", err)
	}
	defer f.Close()

	g, _, err := DecodeHeightImage(f, heightScale)
	return g, err
}
