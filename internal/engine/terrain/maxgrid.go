package terrain

import (
	gomath "math"

	"github.com/Faultbox/midgard-relief/pkg/math"
)

// PyramidFactor is the number of blocks per side merged into one block of
// the next coarser level.
const PyramidFactor = 4

// maxLevel bounds the surface over square blocks of cells. Block (bx, by)
// covers cells [bx*cells, (bx+1)*cells) on each axis, widened by one cell on
// every side, so every bilinear query inside the block is at most its bound.
type maxLevel struct {
	cells int     // cells per block side
	size  float32 // block side in world units
	cols  int
	rows  int
	max   []float32
}

// MaxPyramid holds per-block elevation bounds at increasingly coarse levels.
// Level 0 is the finest. Positions outside the field belong to the nearest
// border block, matching the clamped sampling of HeightField.
type MaxPyramid struct {
	levels []maxLevel
}

// MaxPyramid builds bounds starting with blocks of block×block cells. Each
// further level is PyramidFactor times coarser, up to a single block
// covering the whole field.
func (hf *HeightField) MaxPyramid(block int) *MaxPyramid {
	block = max(block, 1)
	longest := max(hf.width-1, hf.height-1, 1)

	p := &MaxPyramid{}
	for cells := block; ; cells *= PyramidFactor {
		p.levels = append(p.levels, hf.maxLevel(cells))
		if cells >= longest {
			break
		}
	}
	return p
}

func (hf *HeightField) maxLevel(cells int) maxLevel {
	cols := max((hf.width-1+cells-1)/cells, 1)
	rows := max((hf.height-1+cells-1)/cells, 1)
	lvl := maxLevel{
		cells: cells,
		size:  float32(cells) * hf.cellSize,
		cols:  cols,
		rows:  rows,
		max:   make([]float32, cols*rows),
	}
	for i := range lvl.max {
		lvl.max[i] = float32(gomath.Inf(-1))
	}

	// Each block also bounds a one-cell halo around it, so positions that
	// round just past its edge stay covered. Sample i therefore bounds the
	// blocks whose range [b*cells-1, (b+1)*cells+1] contains it.
	blocks := func(i, n int) (lo, hi int) {
		lo = min(max((i-2)/cells, 0), n-1)
		hi = min((i+1)/cells, n-1)
		return lo, hi
	}

	for y := range hf.height {
		by0, by1 := blocks(y, rows)
		for x := range hf.width {
			v := hf.at(x, y)
			bx0, bx1 := blocks(x, cols)
			for by := by0; by <= by1; by++ {
				for bx := bx0; bx <= bx1; bx++ {
					i := by*cols + bx
					lvl.max[i] = max(lvl.max[i], v)
				}
			}
		}
	}
	return lvl
}

// Levels returns the number of levels.
func (p *MaxPyramid) Levels() int {
	return len(p.levels)
}

// Block returns the elevation bound of the block containing world position
// (wx, wy) at level, and the block's world-space bounds. Border blocks extend
// to infinity on their outer sides.
func (p *MaxPyramid) Block(level int, wx, wy float32) (bound float32, lo, hi math.Vec2) {
	lvl := &p.levels[level]
	bx, x0, x1 := lvl.span(wx, lvl.cols)
	by, y0, y1 := lvl.span(wy, lvl.rows)
	return lvl.max[by*lvl.cols+bx], math.Vec2{X: x0, Y: y0}, math.Vec2{X: x1, Y: y1}
}

// span locates the block index along one axis and its world interval.
func (lvl *maxLevel) span(w float32, n int) (i int, lo, hi float32) {
	if w > 0 {
		i = min(int(w/lvl.size), n-1)
	}
	lo = float32(i) * lvl.size
	hi = float32(i+1) * lvl.size
	if i == 0 {
		lo = float32(gomath.Inf(-1))
	}
	if i == n-1 {
		hi = float32(gomath.Inf(1))
	}
	return i, lo, hi
}
