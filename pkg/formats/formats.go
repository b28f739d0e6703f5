// Package formats reads and writes height grid files.
package formats

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGrid is returned for grids with no samples or mismatched sizes.
var ErrInvalidGrid = errors.New("invalid height grid")

// MaxGridSize bounds each dimension of a decoded grid.
const MaxGridSize = 16384

// HeightGrid is a row-major grid of elevations with uniform spacing.
type HeightGrid struct {
	Width    int
	Height   int
	CellSize float32
	Samples  []float32
}

// Validate checks dimensions, spacing and sample values.
func (g *HeightGrid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 || g.Width > MaxGridSize || g.Height > MaxGridSize {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, g.Width, g.Height)
	}
	if len(g.Samples) != g.Width*g.Height {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidGrid, len(g.Samples), g.Width, g.Height)
	}
	if g.CellSize <= 0 || math.IsNaN(float64(g.CellSize)) || math.IsInf(float64(g.CellSize), 0) {
		return fmt.Errorf("%w: cell size %v", ErrInvalidGrid, g.CellSize)
	}
	for i, v := range g.Samples {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: sample %d is %v", ErrInvalidGrid, i, v)
		}
	}
	return nil
}

// Range returns the minimum and maximum elevation.
func (g *HeightGrid) Range() (lo, hi float32) {
	if len(g.Samples) == 0 {
		return 0, 0
	}
	lo, hi = g.Samples[0], g.Samples[0]
	for _, v := range g.Samples {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
