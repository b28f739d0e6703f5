package renderer

import (
	"image"
	"image/color"

	"github.com/Faultbox/midgard-relief/pkg/math"
)

// Image is a grayscale intensity buffer with values in [0, 1].
type Image struct {
	Width  int
	Height int
	Pix    []float32 // row-major
}

// NewImage allocates a black image.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
}

// At returns the intensity of pixel (x, y).
func (im *Image) At(x, y int) float32 {
	return im.Pix[y*im.Width+x]
}

// Set stores the intensity of pixel (x, y).
func (im *Image) Set(x, y int, v float32) {
	im.Pix[y*im.Width+x] = v
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := NewImage(im.Width, im.Height)
	copy(out.Pix, im.Pix)
	return out
}

func toByte(v float32) uint8 {
	return uint8(math.Clamp(v, 0, 1)*255 + 0.5)
}

// Gray converts the buffer to an 8-bit grayscale image.
func (im *Image) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, im.Width, im.Height))
	for y := range im.Height {
		row := img.Pix[y*img.Stride : y*img.Stride+im.Width]
		for x := range im.Width {
			row[x] = toByte(im.Pix[y*im.Width+x])
		}
	}
	return img
}

// RGBA converts the buffer to an opaque RGBA image.
func (im *Image) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := range im.Height {
		for x := range im.Width {
			v := toByte(im.Pix[y*im.Width+x])
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}
