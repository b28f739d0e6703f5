package terrain

import (
	"errors"
	gomath "math"
	"testing"
)

func rampSamples(width, height int, slopeX, slopeY float32) []float32 {
	samples := make([]float32, width*height)
	for y := range height {
		for x := range width {
			samples[y*width+x] = float32(x)*slopeX + float32(y)*slopeY
		}
	}
	return samples
}

func TestNew_InvalidGeometry(t *testing.T) {
	nan := float32(gomath.NaN())
	inf := float32(gomath.Inf(1))

	tests := []struct {
		name     string
		samples  []float32
		w, h     int
		cellSize float32
	}{
		{"zero width", nil, 0, 4, 1},
		{"zero height", nil, 4, 0, 1},
		{"sample count mismatch", make([]float32, 3), 2, 2, 1},
		{"nan sample", []float32{0, nan, 0, 0}, 2, 2, 1},
		{"inf sample", []float32{0, 0, inf, 0}, 2, 2, 1},
		{"zero cell size", make([]float32, 4), 2, 2, 0},
		{"negative cell size", make([]float32, 4), 2, 2, -1},
		{"nan cell size", make([]float32, 4), 2, 2, nan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hf, err := New(tt.samples, tt.w, tt.h, tt.cellSize)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
			if hf != nil {
				t.Error("expected nil field on error")
			}
		})
	}
}

func TestNew_CopiesSamples(t *testing.T) {
	samples := []float32{1, 2, 3, 4}
	hf, err := New(samples, 2, 2, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	samples[0] = 100
	if got := hf.Elevation(0, 0); got != 1 {
		t.Errorf("field changed with caller slice: got %v, want 1", got)
	}
}

func TestElevation_VertexExact(t *testing.T) {
	samples := []float32{
		0, 3, -1, 7,
		2, 5, 9, 1,
		4, 8, 6, 0.5,
	}
	hf, err := New(samples, 4, 3, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for y := range 3 {
		for x := range 4 {
			got := hf.Elevation(float32(x), float32(y))
			want := samples[y*4+x]
			if got != want {
				t.Errorf("Elevation(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestElevation_Bilinear(t *testing.T) {
	hf, err := New([]float32{0, 10, 20, 30}, 2, 2, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := hf.Elevation(0.5, 0); got != 5 {
		t.Errorf("Elevation(0.5, 0) = %v, want 5", got)
	}
	if got := hf.Elevation(0, 0.5); got != 10 {
		t.Errorf("Elevation(0, 0.5) = %v, want 10", got)
	}
	if got := hf.Elevation(0.5, 0.5); got != 15 {
		t.Errorf("Elevation(0.5, 0.5) = %v, want 15", got)
	}
}

func TestElevation_ClampsOutOfRange(t *testing.T) {
	hf, err := New([]float32{0, 10, 20, 30}, 2, 2, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cases := []struct {
		x, y, want float32
	}{
		{-5, -5, 0},
		{100, -1, 10},
		{-1, 100, 20},
		{1e9, 1e9, 30},
	}
	for _, c := range cases {
		if got := hf.Elevation(c.x, c.y); got != c.want {
			t.Errorf("Elevation(%v, %v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestGradient_Ramp(t *testing.T) {
	hf, err := New(rampSamples(5, 4, 2, -3), 5, 4, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// A linear ramp has the same gradient everywhere, borders included.
	for _, p := range [][2]float32{{0, 0}, {2, 1}, {4, 3}, {1.3, 2.7}, {-3, 9}} {
		gx, gy := hf.Gradient(p[0], p[1])
		if gomath.Abs(float64(gx-2)) > 1e-5 || gomath.Abs(float64(gy+3)) > 1e-5 {
			t.Errorf("Gradient(%v) = (%v, %v), want (2, -3)", p, gx, gy)
		}
	}
}

func TestGradient_SingleRow(t *testing.T) {
	hf, err := New([]float32{1, 2, 4}, 3, 1, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, gy := hf.Gradient(1, 0)
	if gy != 0 {
		t.Errorf("expected zero y gradient for a single row, got %v", gy)
	}
}

func TestNormal(t *testing.T) {
	flat, err := New(make([]float32, 9), 3, 3, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	n := flat.Normal(1, 1)
	if n.X != 0 || n.Y != 0 || n.Z != 1 {
		t.Errorf("flat Normal = %v, want (0,0,1)", n)
	}

	// Slope of 1 per step with cell size 2 is a world slope of 0.5.
	ramp, err := New(rampSamples(4, 4, 1, 0), 4, 4, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	n = ramp.Normal(1.5, 1.5)
	want := float32(-0.5 / gomath.Sqrt(1.25))
	if gomath.Abs(float64(n.X-want)) > 1e-5 || n.Y != 0 {
		t.Errorf("ramp Normal = %v, want X=%v", n, want)
	}
	if l := n.Length(); l < 0.9999 || l > 1.0001 {
		t.Errorf("normal not unit: %v", l)
	}
}

func TestExtremesAndExtent(t *testing.T) {
	hf, err := New([]float32{-2, 5, 1, 3, 0, 4}, 3, 2, 0.5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if hf.MinElevation() != -2 || hf.MaxElevation() != 5 {
		t.Errorf("extremes = (%v, %v), want (-2, 5)", hf.MinElevation(), hf.MaxElevation())
	}
	ext := hf.Extent()
	if ext.X != 1 || ext.Y != 0.5 {
		t.Errorf("Extent() = %v, want (1, 0.5)", ext)
	}
	if !hf.Contains(2.9, 1.9) || hf.Contains(3, 0) || hf.Contains(-0.1, 0) {
		t.Error("Contains() returned unexpected result")
	}
	if got := hf.ElevationAtWorld(0.5, 0); got != 5 {
		t.Errorf("ElevationAtWorld(0.5, 0) = %v, want 5", got)
	}
}
