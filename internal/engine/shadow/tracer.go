// Package shadow answers light visibility queries by marching rays over a
// height field.
package shadow

import (
	gomath "math"

	"github.com/Faultbox/midgard-relief/internal/engine/terrain"
	"github.com/Faultbox/midgard-relief/pkg/math"
)

// Field is the part of a height field the tracer samples.
type Field interface {
	ElevationAtWorld(wx, wy float32) float32
	Extent() math.Vec2
	MaxElevation() float32
	CellSize() float32
	MaxPyramid(block int) *terrain.MaxPyramid
}

// Config holds the marching constants. They trade thin-occluder accuracy
// against cost and are exposed so tests and the config file can tune them.
type Config struct {
	// StepScale is the horizontal march step in cells.
	StepScale float32 `yaml:"step_scale"`
	// RefineRounds is how many times a near-miss interval is re-sampled at
	// half the previous spacing. Zero disables refinement.
	RefineRounds int `yaml:"refine_rounds"`
	// NearMiss is the clearance, in steps, below which an interval is refined.
	NearMiss float32 `yaml:"near_miss"`
	// Bias lifts the ray origin off the surface, in cells.
	Bias float32 `yaml:"bias"`
	// BlockSize is the finest block edge, in cells, of the max-elevation
	// pyramid used to skip terrain the ray clears. Zero marches every step.
	BlockSize int `yaml:"block_size"`
}

// DefaultConfig returns the tracer settings used by the renderer.
func DefaultConfig() Config {
	return Config{
		StepScale:    0.5,
		RefineRounds: 3,
		NearMiss:     1.0,
		Bias:         1e-3,
		BlockSize:    8,
	}
}

// sanitize replaces unusable values with defaults.
func (c Config) sanitize() Config {
	def := DefaultConfig()
	if !math.IsFinite(c.StepScale) || c.StepScale <= 0 {
		c.StepScale = def.StepScale
	}
	if c.RefineRounds < 0 {
		c.RefineRounds = 0
	}
	// Past ~8 rounds the sub-steps drop below float32 resolution.
	c.RefineRounds = min(c.RefineRounds, 8)
	if !math.IsFinite(c.NearMiss) || c.NearMiss < 0 {
		c.NearMiss = def.NearMiss
	}
	if !math.IsFinite(c.Bias) || c.Bias < 0 {
		c.Bias = def.Bias
	}
	c.BlockSize = max(c.BlockSize, 0)
	return c
}

// Tracer tests whether surface points can see a distant light. It holds no
// mutable state and may be shared between goroutines.
type Tracer struct {
	field   Field
	config  Config
	pyramid *terrain.MaxPyramid // nil when BlockSize is zero

	step float32 // world units
	bias float32 // world units
	diag float64 // longest horizontal run inside the field
}

// New creates a tracer over field.
func New(field Field, cfg Config) *Tracer {
	cfg = cfg.sanitize()
	cell := field.CellSize()
	ext := field.Extent()

	t := &Tracer{
		field:  field,
		config: cfg,
		step:   cfg.StepScale * cell,
		bias:   cfg.Bias * cell,
	}

	t.diag = gomath.Hypot(float64(ext.X), float64(ext.Y))
	if cfg.BlockSize > 0 {
		t.pyramid = field.MaxPyramid(cfg.BlockSize)
	}
	return t
}

// Config returns the sanitized settings in use.
func (t *Tracer) Config() Config {
	return t.config
}

// ray is a light ray parametrised by horizontal distance s.
type ray struct {
	x, y, z float32 // origin
	dx, dy  float32 // unit horizontal heading
	slope   float32 // rise per unit of horizontal distance
}

func (r ray) at(s float32) (x, y, z float32) {
	return r.x + r.dx*s, r.y + r.dy*s, r.z + r.slope*s
}

// gap is the ray's clearance above the terrain at distance s.
func (t *Tracer) gap(r ray, s float32) float32 {
	x, y, z := r.at(s)
	return z - t.field.ElevationAtWorld(x, y)
}

// Visible reports whether the light along dir reaches the world-space point
// origin. A ray that leaves the field's horizontal extent or climbs above its
// highest sample is lit; that is the expected outcome, not a failure.
//
// Samples are taken every step of horizontal distance. Runs of samples inside
// a pyramid block that the ray clears by more than the near-miss margin are
// skipped: none of them could occlude or trigger refinement, so the answer is
// the same as marching every step.
func (t *Tracer) Visible(origin, dir math.Vec3) bool {
	if !dir.IsFinite() || !origin.IsFinite() {
		return true
	}

	horiz := float32(gomath.Hypot(float64(dir.X), float64(dir.Y)))
	if horiz < 1e-6 {
		// Straight up never meets a single-valued surface.
		return dir.Z >= 0
	}

	r := ray{
		x:     origin.X,
		y:     origin.Y,
		z:     origin.Z + t.bias,
		dx:    dir.X / horiz,
		dy:    dir.Y / horiz,
		slope: dir.Z / horiz,
	}

	ext := t.field.Extent()
	top := t.field.MaxElevation()
	nearMiss := t.config.NearMiss * t.step

	prevS := float32(0)
	prevGap := r.z - t.field.ElevationAtWorld(r.x, r.y)

	// Points outside the extent (zoomed-out pixels) may still march across it.
	ox := max(-r.x, r.x-ext.X, 0)
	oy := max(-r.y, r.y-ext.Y, 0)
	run := t.diag + gomath.Hypot(float64(ox), float64(oy))
	maxSteps := int(gomath.Ceil(run/float64(t.step))) + 2

	for i := 1; i <= maxSteps; i++ {
		s := float32(i) * t.step
		x, y, z := r.at(s)

		if leaving(x, r.dx, ext.X) || leaving(y, r.dy, ext.Y) {
			return true
		}
		if z > top && r.slope >= 0 {
			return true
		}

		g := z - t.field.ElevationAtWorld(x, y)
		if g <= 0 {
			return false
		}
		if (g < nearMiss || prevGap < nearMiss) && t.refine(r, prevS, s) {
			return false
		}

		prevS, prevGap = s, g

		if t.pyramid == nil || g <= nearMiss {
			continue
		}
		if j := t.skip(r, s, x, y, z, nearMiss); j > i+1 {
			if j > maxSteps {
				return true
			}
			// Sample j-1 lies in the cleared block; only its distance matters
			// to refinement.
			i = j - 1
			prevS, prevGap = float32(i)*t.step, nearMiss
		}
	}
	return true
}

// skip returns the index of the last step sample that can be passed over
// from distance s: every sample before it lies in a block the ray clears by
// more than nearMiss. It tries the coarsest level first and returns 0 when no
// block is cleared.
func (t *Tracer) skip(r ray, s, x, y, z, nearMiss float32) int {
	for level := t.pyramid.Levels() - 1; level >= 0; level-- {
		bound, lo, hi := t.pyramid.Block(level, x, y)
		exit := exitDistance(x, r.dx, lo.X, hi.X)
		exit = min(exit, exitDistance(y, r.dy, lo.Y, hi.Y))
		// Stay clear of the far edge so rounding cannot step into the
		// neighbouring block.
		exit -= t.step * skipMargin
		if exit <= t.step {
			continue
		}

		low := z
		if r.slope < 0 {
			low = z + r.slope*exit
		}
		eps := skipEpsilon * (1 + abs(bound) + abs(low))
		if low-bound <= nearMiss+eps {
			continue
		}

		end := float64(s) + float64(exit)
		if gomath.IsInf(end, 1) || end/float64(t.step) > gomath.MaxInt32 {
			return gomath.MaxInt32
		}
		return int(end / float64(t.step))
	}
	return 0
}

// Rounding allowances for block skipping.
const (
	skipMargin  = 1e-3 // of a step, kept back from a block edge
	skipEpsilon = 1e-5 // relative, added to the clearance test
)

// exitDistance is how far a ray at v heading d travels before leaving
// [lo, hi] on that axis.
func exitDistance(v, d, lo, hi float32) float32 {
	switch {
	case d > 0:
		return (hi - v) / d
	case d < 0:
		return (lo - v) / d
	}
	return float32(gomath.Inf(1))
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// leaving reports whether coordinate v is past [0, limit] and still heading away.
func leaving(v, heading, limit float32) bool {
	return (v < 0 && heading <= 0) || (v > limit && heading >= 0)
}

// refine re-samples (s0, s1) coarse-to-fine, halving the spacing each round
// and only evaluating the new midpoints. It reports whether any sample lies
// on or below the terrain.
func (t *Tracer) refine(r ray, s0, s1 float32) bool {
	n := 1
	for range t.config.RefineRounds {
		n *= 2
		h := (s1 - s0) / float32(n)
		for i := 1; i < n; i += 2 {
			if t.gap(r, s0+float32(i)*h) <= 0 {
				return true
			}
		}
	}
	return false
}

// Visibility returns the fraction of dirs along which origin is lit.
func (t *Tracer) Visibility(origin math.Vec3, dirs []math.Vec3) float32 {
	if len(dirs) == 0 {
		return 1
	}
	lit := 0
	for _, d := range dirs {
		if t.Visible(origin, d) {
			lit++
		}
	}
	return float32(lit) / float32(len(dirs))
}
