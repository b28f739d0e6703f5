// Package snapshot writes rendered frames to PNG files.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/Faultbox/midgard-relief/internal/engine/renderer"
)

// Capture saves frames into one directory under a common prefix.
type Capture struct {
	outputDir string
	prefix    string
	scale     int
	smooth    bool
	now       func() time.Time
}

// New creates a capture handler. Scale values below 1 are treated as 1.
func New(outputDir, prefix string, scale int) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		scale:     max(scale, 1),
		now:       time.Now,
	}
}

// SetSmooth selects bilinear instead of nearest-neighbour upscaling.
func (c *Capture) SetSmooth(smooth bool) {
	c.smooth = smooth
}

// Encode converts img to 8-bit gray, scaled by the capture's factor.
func (c *Capture) Encode(img *renderer.Image) image.Image {
	gray := img.Gray()
	if c.scale == 1 {
		return gray
	}

	dst := image.NewGray(image.Rect(0, 0, img.Width*c.scale, img.Height*c.scale))
	var scaler draw.Scaler = draw.NearestNeighbor
	if c.smooth {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(dst, dst.Bounds(), gray, gray.Bounds(), draw.Src, nil)
	return dst
}

// Save writes img as <prefix>_<timestamp>.png and returns the path.
func (c *Capture) Save(img *renderer.Image) (string, error) {
	return c.SaveAs(img, c.now().Format("2006-01-02_15-04-05.000"))
}

// SaveAs writes img as <prefix>_<name>.png and returns the path.
func (c *Capture) SaveAs(img *renderer.Image, name string) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := fmt.Sprintf("%s_%s.png", c.prefix, name)
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	if err := c.WriteFile(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// WriteFile encodes img as PNG at path.
func (c *Capture) WriteFile(path string, img *renderer.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(file, c.Encode(img)); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}
