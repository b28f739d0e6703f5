package terraingen

import "math"

// Deterministic 2D value noise: hashed lattice values blended with a quintic fade.

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash2 is a SplitMix64-style integer hash, stable across runs.
func hash2(x, y int64, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// latticeValue maps a lattice point to [0,1].
func latticeValue(x, y int64, seed int64) float64 {
	return float64(hash2(x, y, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x, y float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := fade(x - x0)
	fy := fade(y - y0)

	ix, iy := int64(x0), int64(y0)
	v00 := latticeValue(ix, iy, seed)
	v10 := latticeValue(ix+1, iy, seed)
	v01 := latticeValue(ix, iy+1, seed)
	v11 := latticeValue(ix+1, iy+1, seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fy) // [0,1]
}

// fbm sums octaves of value noise, each at twice the frequency and
// persistence times the weight of the previous one. The result is in [0,1].
func fbm(x, y float64, seed int64, octaves int, persistence float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := range octaves {
		sum += valueNoise2D(x*frequency, y*frequency, seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if norm == 0 {
		return 0.5
	}
	return sum / norm
}
