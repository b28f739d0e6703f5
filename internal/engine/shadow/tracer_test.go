package shadow

import (
	"testing"

	"github.com/Faultbox/midgard-relief/internal/engine/lighting"
	"github.com/Faultbox/midgard-relief/internal/engine/terrain"
	"github.com/Faultbox/midgard-relief/pkg/math"
)

const (
	spikeSize   = 41
	spikeCenter = 20
	spikeHeight = 30
)

// spikeField builds a flat plateau with a single one-sample tower at the center.
func spikeField(t *testing.T) *terrain.HeightField {
	t.Helper()
	samples := make([]float32, spikeSize*spikeSize)
	samples[spikeCenter*spikeSize+spikeCenter] = spikeHeight
	hf, err := terrain.New(samples, spikeSize, spikeSize, 1)
	if err != nil {
		t.Fatalf("terrain.New failed: %v", err)
	}
	return hf
}

func surface(hf *terrain.HeightField, x, y float32) math.Vec3 {
	return hf.WorldPoint(x, y)
}

func TestVisible_SpikeShadow(t *testing.T) {
	hf := spikeField(t)
	tracer := New(hf, DefaultConfig())

	// Light low in the east: shadows fall toward -X.
	light := lighting.Direction(90, 20)

	tests := []struct {
		name string
		x, y float32
		want bool
	}{
		{"behind spike", spikeCenter - 5, spikeCenter, false},
		{"far behind spike", spikeCenter - 15, spikeCenter, false},
		{"behind spike off-grid", spikeCenter - 7.25, spikeCenter + 0.2, false},
		{"lit side of spike", spikeCenter + 5, spikeCenter, true},
		{"beside the shadow", spikeCenter - 5, spikeCenter + 6, true},
		{"field corner", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tracer.Visible(surface(hf, tt.x, tt.y), light)
			if got != tt.want {
				t.Errorf("Visible(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestVisible_SpikeSideFacingLight(t *testing.T) {
	hf := spikeField(t)
	tracer := New(hf, DefaultConfig())
	light := lighting.Direction(90, 20)

	// The upper east flank of the tower faces the light.
	p := surface(hf, spikeCenter+0.5, spikeCenter)
	if !tracer.Visible(p, light) {
		t.Error("expected lit flank to be visible")
	}
}

func TestVisible_RefinementCatchesThinOccluder(t *testing.T) {
	hf := spikeField(t)
	light := lighting.Direction(90, 20)
	p := surface(hf, spikeCenter-5, spikeCenter)

	// Coarse samples at x = 17, 19, 21 straddle the one-cell tower.
	coarse := Config{StepScale: 2, RefineRounds: 0, NearMiss: 1, Bias: 1e-3}
	if !New(hf, coarse).Visible(p, light) {
		t.Fatal("expected coarse march without refinement to miss the tower")
	}

	coarse.RefineRounds = 1
	if New(hf, coarse).Visible(p, light) {
		t.Error("expected refinement to find the tower")
	}
}

func TestVisible_FlatFieldAlwaysLit(t *testing.T) {
	hf, err := terrain.New(make([]float32, 16), 4, 4, 1)
	if err != nil {
		t.Fatalf("terrain.New failed: %v", err)
	}
	tracer := New(hf, DefaultConfig())

	for az := float32(0); az < 360; az += 30 {
		for _, alt := range []float32{0, 1, 45, 89, 90} {
			for _, p := range [][2]float32{{0, 0}, {1.5, 2.5}, {3, 3}, {-10, 2}, {12, 12}} {
				if !tracer.Visible(surface(hf, p[0], p[1]), lighting.Direction(az, alt)) {
					t.Errorf("flat field occluded at %v (az=%v alt=%v)", p, az, alt)
				}
			}
		}
	}
}

func TestVisible_OffFieldPointSeesTerrain(t *testing.T) {
	hf := spikeField(t)
	tracer := New(hf, DefaultConfig())

	// A pixel zoomed out past the west edge still receives the tower's shadow.
	p := math.Vec3{X: -3, Y: spikeCenter, Z: 0}
	if tracer.Visible(p, lighting.Direction(90, 10)) {
		t.Error("expected off-field point behind the tower to be occluded")
	}
}

func TestVisible_Degenerate(t *testing.T) {
	hf := spikeField(t)
	tracer := New(hf, DefaultConfig())
	p := surface(hf, 3, 3)

	if !tracer.Visible(p, math.Vec3{}) {
		t.Error("zero direction should be treated as lit")
	}
	if !tracer.Visible(p, math.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Error("zenith should be lit")
	}
	if tracer.Visible(p, math.Vec3{X: 0, Y: 0, Z: -1}) {
		t.Error("straight down should be occluded")
	}
}

func TestVisibility_Fraction(t *testing.T) {
	hf := spikeField(t)
	tracer := New(hf, DefaultConfig())
	p := surface(hf, spikeCenter-5, spikeCenter)

	dirs := []math.Vec3{
		lighting.Direction(90, 20), // blocked by the tower
		lighting.Direction(0, 20),  // open plateau
	}
	if got := tracer.Visibility(p, dirs); got != 0.5 {
		t.Errorf("Visibility() = %v, want 0.5", got)
	}
	if got := tracer.Visibility(p, nil); got != 1 {
		t.Errorf("Visibility(nil) = %v, want 1", got)
	}
}

// wallField is flat ground with a north-south wall of height 10 at column 32.
func wallField(t *testing.T) *terrain.HeightField {
	t.Helper()
	const size = 64
	samples := make([]float32, size*size)
	for y := range size {
		samples[y*size+32] = 10
	}
	hf, err := terrain.New(samples, size, size, 1)
	if err != nil {
		t.Fatalf("terrain.New failed: %v", err)
	}
	return hf
}

// ridgeField is rolling hash noise with a few needles, on half-unit cells.
func ridgeField(t *testing.T) *terrain.HeightField {
	t.Helper()
	const size = 50
	samples := make([]float32, size*size)
	for i := range samples {
		h := uint32(i)*2246822519 ^ 0x85EBCA6B
		h ^= h >> 13
		samples[i] = float32(h%300) / 100
		if h%211 == 0 {
			samples[i] += 25
		}
	}
	hf, err := terrain.New(samples, size, size, 0.5)
	if err != nil {
		t.Fatalf("terrain.New failed: %v", err)
	}
	return hf
}

// towerField is flat ground with a square tower as tall as the field is wide.
func towerField(t *testing.T) *terrain.HeightField {
	t.Helper()
	const size, half = 96, 3
	samples := make([]float32, size*size)
	for y := size/2 - half; y < size/2+half; y++ {
		for x := size/2 - half; x < size/2+half; x++ {
			samples[y*size+x] = size
		}
	}
	hf, err := terrain.New(samples, size, size, 1)
	if err != nil {
		t.Fatalf("terrain.New failed: %v", err)
	}
	return hf
}

func TestVisible_BlockSkippingMatchesEveryStep(t *testing.T) {
	fields := []struct {
		name string
		hf   *terrain.HeightField
	}{
		{"spike", spikeField(t)},
		{"wall", wallField(t)},
		{"ridges", ridgeField(t)},
		{"tower", towerField(t)},
	}

	every := DefaultConfig()
	every.BlockSize = 0

	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			w, h := f.hf.Size()
			reference := New(f.hf, every)

			for _, block := range []int{1, 2, 8} {
				cfg := DefaultConfig()
				cfg.BlockSize = block
				skipping := New(f.hf, cfg)

				checked, shadowed := 0, 0
				for gy := float32(-4); gy < float32(h)+4; gy += 3.1 {
					for gx := float32(-4); gx < float32(w)+4; gx += 2.7 {
						p := surface(f.hf, gx, gy)
						for az := float32(0); az < 360; az += 30 {
							for _, alt := range []float32{0.5, 4, 15, 35, 70} {
								dir := lighting.Direction(az, alt)
								want := reference.Visible(p, dir)
								if got := skipping.Visible(p, dir); got != want {
									t.Fatalf("block %d: Visible(%v, %v, az=%v alt=%v) = %v, every step gives %v",
										block, gx, gy, az, alt, got, want)
								}
								checked++
								if !want {
									shadowed++
								}
							}
						}
					}
				}
				if shadowed == 0 || shadowed == checked {
					t.Fatalf("block %d: degenerate comparison, %d of %d shadowed", block, shadowed, checked)
				}
			}
		})
	}
}

func TestVisible_TowerShadowWithSkipping(t *testing.T) {
	hf := towerField(t)
	tracer := New(hf, DefaultConfig())
	light := lighting.Direction(90, 45)

	// The 96-high tower shades the ground west of it at 45°.
	if tracer.Visible(surface(hf, 20, 48), light) {
		t.Error("expected ground west of the tower to be shadowed")
	}
	if !tracer.Visible(surface(hf, 80, 48), light) {
		t.Error("expected ground east of the tower to be lit")
	}
	if !tracer.Visible(surface(hf, 20, 10), light) {
		t.Error("expected ground beside the shadow to be lit")
	}
}

func TestConfig_Sanitize(t *testing.T) {
	hf := spikeField(t)
	got := New(hf, Config{StepScale: -1, RefineRounds: 50, NearMiss: -2, Bias: -1, BlockSize: -3}).Config()

	def := DefaultConfig()
	if got.StepScale != def.StepScale {
		t.Errorf("StepScale = %v, want %v", got.StepScale, def.StepScale)
	}
	if got.RefineRounds != 8 {
		t.Errorf("RefineRounds = %v, want 8", got.RefineRounds)
	}
	if got.NearMiss != def.NearMiss || got.Bias != def.Bias {
		t.Errorf("NearMiss/Bias not reset: %+v", got)
	}
	if got.BlockSize != 0 {
		t.Errorf("BlockSize = %v, want 0", got.BlockSize)
	}
}
