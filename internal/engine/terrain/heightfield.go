// Package terrain provides the immutable height field sampled by the renderer.
package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-relief/pkg/math"
)

// ErrInvalidGeometry is returned when a height grid cannot back a HeightField.
var ErrInvalidGeometry = errors.New("invalid geometry")

// HeightField is a regular grid of elevation samples with precomputed
// per-sample gradients. It is read-only after New and safe for concurrent use.
//
// Coordinates passed to the sampling methods are grid coordinates: x in
// [0, Width) selects a column, y in [0, Height) a row. World-space horizontal
// positions are grid coordinates multiplied by CellSize; elevations are
// already in world units.
type HeightField struct {
	width    int
	height   int
	cellSize float32

	z  []float32 // row-major elevations
	gx []float32 // ∂z/∂x per grid step
	gy []float32 // ∂z/∂y per grid step

	minZ float32
	maxZ float32
}

// New builds a HeightField from row-major samples. The slice is copied.
func New(samples []float32, width, height int, cellSize float32) (*HeightField, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: zero-area grid %dx%d", ErrInvalidGeometry, width, height)
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("%w: expected %d samples, got %d", ErrInvalidGeometry, width*height, len(samples))
	}
	if !math.IsFinite(cellSize) || cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidGeometry, cellSize)
	}

	hf := &HeightField{
		width:    width,
		height:   height,
		cellSize: cellSize,
		z:        make([]float32, len(samples)),
	}

	hf.minZ, hf.maxZ = samples[0], samples[0]
	for i, v := range samples {
		if !math.IsFinite(v) {
			return nil, fmt.Errorf("%w: non-finite elevation at (%d, %d)", ErrInvalidGeometry, i%width, i/width)
		}
		hf.z[i] = v
		hf.minZ = min(hf.minZ, v)
		hf.maxZ = max(hf.maxZ, v)
	}

	hf.computeGradients()
	return hf, nil
}

// computeGradients fills gx/gy with central differences. At the borders the
// neighbour index is clamped, which degrades to a one-sided difference.
func (hf *HeightField) computeGradients() {
	hf.gx = make([]float32, len(hf.z))
	hf.gy = make([]float32, len(hf.z))

	for y := range hf.height {
		y0 := max(y-1, 0)
		y1 := min(y+1, hf.height-1)
		for x := range hf.width {
			x0 := max(x-1, 0)
			x1 := min(x+1, hf.width-1)

			i := y*hf.width + x
			if x1 > x0 {
				hf.gx[i] = (hf.at(x1, y) - hf.at(x0, y)) / float32(x1-x0)
			}
			if y1 > y0 {
				hf.gy[i] = (hf.at(x, y1) - hf.at(x, y0)) / float32(y1-y0)
			}
		}
	}
}

func (hf *HeightField) at(x, y int) float32 {
	return hf.z[y*hf.width+x]
}

// Size returns the grid dimensions.
func (hf *HeightField) Size() (width, height int) {
	return hf.width, hf.height
}

// CellSize returns the world distance between adjacent samples.
func (hf *HeightField) CellSize() float32 {
	return hf.cellSize
}

// MinElevation returns the lowest sample.
func (hf *HeightField) MinElevation() float32 {
	return hf.minZ
}

// MaxElevation returns the highest sample. No bilinear query can exceed it.
func (hf *HeightField) MaxElevation() float32 {
	return hf.maxZ
}

// Extent returns the world-space horizontal size covered by the samples.
func (hf *HeightField) Extent() math.Vec2 {
	return math.Vec2{
		X: float32(hf.width-1) * hf.cellSize,
		Y: float32(hf.height-1) * hf.cellSize,
	}
}

// Center returns the grid coordinate of the field's center.
func (hf *HeightField) Center() math.Vec2 {
	return math.Vec2{X: float32(hf.width) / 2, Y: float32(hf.height) / 2}
}

// Contains reports whether the grid coordinate lies inside [0,W)×[0,H).
func (hf *HeightField) Contains(x, y float32) bool {
	return x >= 0 && y >= 0 && x < float32(hf.width) && y < float32(hf.height)
}

// cell locates the bilinear cell of a grid coordinate. Coordinates outside the
// grid are clamped to the border so the terrain extends flat.
func (hf *HeightField) cell(x, y float32) (x0, y0, x1, y1 int, fx, fy float32) {
	x = math.Clamp(x, 0, float32(hf.width-1))
	y = math.Clamp(y, 0, float32(hf.height-1))

	x0 = int(x)
	y0 = int(y)
	x1 = min(x0+1, hf.width-1)
	y1 = min(y0+1, hf.height-1)
	fx = x - float32(x0)
	fy = y - float32(y0)
	return
}

func bilinear(grid []float32, width, x0, y0, x1, y1 int, fx, fy float32) float32 {
	v00 := grid[y0*width+x0]
	v10 := grid[y0*width+x1]
	v01 := grid[y1*width+x0]
	v11 := grid[y1*width+x1]

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

// Elevation returns the bilinearly interpolated elevation at a grid coordinate.
func (hf *HeightField) Elevation(x, y float32) float32 {
	x0, y0, x1, y1, fx, fy := hf.cell(x, y)
	return bilinear(hf.z, hf.width, x0, y0, x1, y1, fx, fy)
}

// Gradient returns the interpolated elevation change per grid step.
func (hf *HeightField) Gradient(x, y float32) (gx, gy float32) {
	x0, y0, x1, y1, fx, fy := hf.cell(x, y)
	gx = bilinear(hf.gx, hf.width, x0, y0, x1, y1, fx, fy)
	gy = bilinear(hf.gy, hf.width, x0, y0, x1, y1, fx, fy)
	return gx, gy
}

// Normal returns the unit surface normal at a grid coordinate. Gradients are
// converted to world slope by dividing by the cell size.
func (hf *HeightField) Normal(x, y float32) math.Vec3 {
	gx, gy := hf.Gradient(x, y)
	return math.Vec3{X: -gx / hf.cellSize, Y: -gy / hf.cellSize, Z: 1}.Normalize()
}

// ElevationAtWorld samples the elevation at a world-space horizontal position.
func (hf *HeightField) ElevationAtWorld(wx, wy float32) float32 {
	return hf.Elevation(wx/hf.cellSize, wy/hf.cellSize)
}

// WorldPoint lifts a grid coordinate onto the surface in world space.
func (hf *HeightField) WorldPoint(x, y float32) math.Vec3 {
	return math.Vec3{X: x * hf.cellSize, Y: y * hf.cellSize, Z: hf.Elevation(x, y)}
}
