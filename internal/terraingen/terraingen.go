// Package terraingen builds procedural height fields for demos and tests.
package terraingen

import (
	"fmt"
	"math/bits"

	"github.com/Faultbox/midgard-relief/internal/engine/terrain"
)

// Persistence is the weight ratio between successive octaves.
const Persistence = 0.5

// Options shape a generated map.
type Options struct {
	Size      int     // samples per side
	Octaves   int     // 0 = log2(Size)
	Amplitude float32 // 0 = Size
	Seed      int64
	CellSize  float32 // 0 = 1

	// Plateau flattens a central square Size/4 wide to elevation 0.
	Plateau bool
	// Tower raises a central square Size/16 wide to elevation Size.
	Tower bool
}

// ExampleOptions returns the demo map: 42-seeded noise with a central
// plateau holding a tall tower.
func ExampleOptions(size int) Options {
	return Options{Size: size, Seed: 42, Plateau: true, Tower: true}
}

// normalized fills in the derived defaults.
func (o Options) normalized() Options {
	if o.Octaves <= 0 {
		o.Octaves = bits.Len(uint(o.Size)) - 1
	}
	if o.Amplitude == 0 {
		o.Amplitude = float32(o.Size)
	}
	if o.CellSize == 0 {
		o.CellSize = 1
	}
	return o
}

// Samples returns the row-major elevations of the map described by o.
// Noise is centered on zero, so the plateau sits at mid height.
func Samples(o Options) ([]float32, error) {
	if o.Size < 2 {
		return nil, fmt.Errorf("%w: size %d", terrain.ErrInvalidGeometry, o.Size)
	}
	o = o.normalized()

	n := o.Size
	z := make([]float32, n*n)
	scale := 1 / float64(n) // coarsest octave spans the whole map
	for y := range n {
		for x := range n {
			v := fbm(float64(x)*scale, float64(y)*scale, o.Seed, o.Octaves, Persistence)
			z[y*n+x] = float32(2*v-1) * o.Amplitude
		}
	}

	if o.Plateau {
		fillSquare(z, n, n/8, 0)
	}
	if o.Tower {
		fillSquare(z, n, n/32, float32(n))
	}
	return z, nil
}

// fillSquare sets the square [n/2-half, n/2+half) on both axes to v.
func fillSquare(z []float32, n, half int, v float32) {
	lo, hi := n/2-half, n/2+half
	for y := lo; y < hi; y++ {
		for x := lo; x < hi; x++ {
			z[y*n+x] = v
		}
	}
}

// Generate builds a height field from o.
func Generate(o Options) (*terrain.HeightField, error) {
	z, err := Samples(o)
	if err != nil {
		return nil, err
	}
	return terrain.New(z, o.Size, o.Size, o.normalized().CellSize)
}
