package terraingen

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/Faultbox/midgard-relief/internal/engine/terrain"
)

func TestHash2Deterministic(t *testing.T) {
	first := hash2(10, 20, 42)
	for range 100 {
		if h := hash2(10, 20, 42); h != first {
			t.Fatalf("hash2 not deterministic: %d != %d", h, first)
		}
	}
	if hash2(1, 2, 42) == hash2(2, 1, 42) {
		t.Error("hash2 should differ for swapped axes")
	}
	if hash2(1, 1, 100) == hash2(1, 1, 200) {
		t.Error("hash2 should differ for different seeds")
	}
}

func TestValueNoiseRangeAndContinuity(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for range 1000 {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		if v := fbm(x, y, 42, 5, Persistence); v < 0 || v > 1 {
			t.Fatalf("fbm(%f, %f) = %f, expected in [0,1]", x, y, v)
		}
	}

	v1 := valueNoise2D(1.0, 1.0, 42)
	v2 := valueNoise2D(1.01, 1.0, 42)
	if diff := math.Abs(v1 - v2); diff >= 0.1 {
		t.Errorf("valueNoise2D not continuous: diff=%f", diff)
	}
}

func TestValueNoiseHitsLattice(t *testing.T) {
	if got, want := valueNoise2D(3, 7, 9), latticeValue(3, 7, 9); got != want {
		t.Errorf("valueNoise2D at lattice point = %v, want %v", got, want)
	}
}

func TestSamples_ExampleMap(t *testing.T) {
	const n = 64
	z, err := Samples(ExampleOptions(n))
	if err != nil {
		t.Fatalf("Samples failed: %v", err)
	}
	if len(z) != n*n {
		t.Fatalf("got %d samples, want %d", len(z), n*n)
	}

	// Tower covers [30,34), plateau [24,40).
	if v := z[32*n+32]; v != n {
		t.Errorf("tower height = %v, want %d", v, n)
	}
	if v := z[30*n+30]; v != n {
		t.Errorf("tower corner = %v, want %d", v, n)
	}
	if v := z[29*n+29]; v != 0 {
		t.Errorf("plateau next to tower = %v, want 0", v)
	}
	if v := z[24*n+39]; v != 0 {
		t.Errorf("plateau edge = %v, want 0", v)
	}

	varied := false
	for _, v := range z[:n] {
		if v != z[0] {
			varied = true
		}
		if math.Abs(float64(v)) > n {
			t.Errorf("noise elevation %v exceeds amplitude %d", v, n)
		}
	}
	if !varied {
		t.Error("expected the first row to vary")
	}
}

func TestSamples_Deterministic(t *testing.T) {
	a, err := Samples(Options{Size: 32, Seed: 7})
	if err != nil {
		t.Fatalf("Samples failed: %v", err)
	}
	b, _ := Samples(Options{Size: 32, Seed: 7})
	c, _ := Samples(Options{Size: 32, Seed: 8})

	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs for identical seeds", i)
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical maps")
	}
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{Size: 512}.normalized()
	if o.Octaves != 9 {
		t.Errorf("Octaves = %d, want 9", o.Octaves)
	}
	if o.Amplitude != 512 || o.CellSize != 1 {
		t.Errorf("unexpected defaults: %+v", o)
	}
}

func TestGenerate(t *testing.T) {
	hf, err := Generate(Options{Size: 64, Seed: 1, CellSize: 2, Tower: true})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if w, h := hf.Size(); w != 64 || h != 64 {
		t.Errorf("Size() = %dx%d, want 64x64", w, h)
	}
	if hf.CellSize() != 2 || hf.MaxElevation() != 64 {
		t.Errorf("CellSize %v MaxElevation %v", hf.CellSize(), hf.MaxElevation())
	}

	if _, err := Generate(Options{Size: 1}); !errors.Is(err, terrain.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}
