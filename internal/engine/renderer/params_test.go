package renderer

import (
	"errors"
	gomath "math"
	"testing"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-relief/internal/engine/lighting"
	"github.com/Faultbox/midgard-relief/pkg/math"
)

func TestPixelToField(t *testing.T) {
	v := View{Width: 200, Height: 100, Center: math.Vec2{X: 50, Y: 40}, Zoom: 2}

	tests := []struct {
		name   string
		px, py float32
		want   math.Vec2
	}{
		{"image center", 100, 50, math.Vec2{X: 50, Y: 40}},
		{"origin", 0, 0, math.Vec2{X: 0, Y: 15}},
		{"far corner", 200, 100, math.Vec2{X: 100, Y: 65}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PixelToField(tt.px, tt.py, v)
			if got != tt.want {
				t.Errorf("PixelToField(%v, %v) = %v, want %v", tt.px, tt.py, got, tt.want)
			}
		})
	}
}

func TestPixelToField_ZoomOutShowsMore(t *testing.T) {
	near := View{Width: 64, Height: 64, Center: math.Vec2{X: 32, Y: 32}, Zoom: 4}
	far := near
	far.Zoom = 0.25

	a := PixelToField(0, 0, near)
	b := PixelToField(0, 0, far)
	if !(b.X < a.X && b.Y < a.Y) {
		t.Errorf("zoomed-out corner %v should lie beyond zoomed-in corner %v", b, a)
	}
	if far.Footprint() != 4 || near.Footprint() != 0.25 {
		t.Errorf("Footprint = %v / %v, want 4 / 0.25", far.Footprint(), near.Footprint())
	}
}

func TestParams_Validate(t *testing.T) {
	nan := float32(gomath.NaN())
	inf := float32(gomath.Inf(1))

	tests := []struct {
		name   string
		modify func(*Params)
		errs   int
	}{
		{"defaults", func(*Params) {}, 0},
		{"out of range is clamped, not rejected", func(p *Params) { p.Zoom = 100; p.SPP = -4; p.Light.Altitude = 120 }, 0},
		{"zero zoom", func(p *Params) { p.Zoom = 0 }, 1},
		{"negative zoom", func(p *Params) { p.Zoom = -1 }, 1},
		{"nan azimuth", func(p *Params) { p.Light.Azimuth = nan }, 1},
		{"everything broken", func(p *Params) {
			p.Zoom = inf
			p.Light = lighting.Angles{Azimuth: nan, Altitude: inf}
			p.LightSourceWidth = nan
		}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			err := p.Validate()

			if got := len(multierr.Errors(err)); got != tt.errs {
				t.Fatalf("Validate() reported %d errors, want %d: %v", got, tt.errs, err)
			}
			if tt.errs > 0 && !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestParams_Clamp(t *testing.T) {
	p := Params{
		Light:            lighting.Angles{Azimuth: 370, Altitude: -10},
		Zoom:             0.01,
		SPP:              64,
		LightSourceWidth: -3,
		ShadowSamples:    500,
	}.Clamp()

	if p.Light.Azimuth != 10 || p.Light.Altitude != lighting.MinAltitude {
		t.Errorf("Light = %+v, want {10 0}", p.Light)
	}
	if p.Zoom != MinZoom {
		t.Errorf("Zoom = %v, want %v", p.Zoom, MinZoom)
	}
	if p.SPP != MaxSPP {
		t.Errorf("SPP = %v, want %v", p.SPP, MaxSPP)
	}
	if p.LightSourceWidth != 0 {
		t.Errorf("LightSourceWidth = %v, want 0", p.LightSourceWidth)
	}
	if p.ShadowSamples != MaxShadowSamples {
		t.Errorf("ShadowSamples = %v, want %v", p.ShadowSamples, MaxShadowSamples)
	}
}

func TestParams_Samples(t *testing.T) {
	tests := []struct {
		name              string
		spp, shadow       int
		width             float32
		total, directions int
	}{
		{"hard shadow", 4, 0, 0, 4, 1},
		{"hard shadow ignores shadow samples", 4, 32, 0, 4, 1},
		{"soft shared with spp", 8, 0, 2, 8, 8},
		{"soft decoupled", 2, 32, 2, 32, 32},
		{"decoupled below spp", 16, 4, 2, 16, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{SPP: tt.spp, ShadowSamples: tt.shadow, LightSourceWidth: tt.width}
			total, dirs := p.samples()
			if total != tt.total || dirs != tt.directions {
				t.Errorf("samples() = (%d, %d), want (%d, %d)", total, dirs, tt.total, tt.directions)
			}
		})
	}
}

func TestNewTileGrid_CoversImageOnce(t *testing.T) {
	const w, h = 70, 45
	tiles := newTileGrid(w, h, 32)
	if len(tiles) != 6 {
		t.Fatalf("got %d tiles, want 6", len(tiles))
	}

	hits := make([]int, w*h)
	for _, r := range tiles {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				hits[y*w+x]++
			}
		}
	}
	for i, n := range hits {
		if n != 1 {
			t.Fatalf("pixel %d covered %d times", i, n)
		}
	}
}

func TestTileSeed_Distinct(t *testing.T) {
	seen := make(map[int64]bool)
	for seed := range uint64(4) {
		for i := range 64 {
			s := tileSeed(seed, i)
			if seen[s] {
				t.Fatalf("duplicate seed for frame seed %d tile %d", seed, i)
			}
			seen[s] = true
		}
	}
}

func TestImage_Gray(t *testing.T) {
	im := NewImage(3, 2)
	im.Set(0, 0, 0)
	im.Set(1, 0, 0.5)
	im.Set(2, 0, 1)
	im.Set(0, 1, -2)
	im.Set(1, 1, 7)

	g := im.Gray()
	want := []uint8{0, 128, 255, 0, 255, 0}
	for i, v := range want {
		x, y := i%3, i/3
		if got := g.GrayAt(x, y).Y; got != v {
			t.Errorf("GrayAt(%d, %d) = %d, want %d", x, y, got, v)
		}
	}

	rgba := im.RGBA()
	if c := rgba.RGBAAt(2, 0); c.R != 255 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Errorf("RGBAAt(2, 0) = %v, want opaque white", c)
	}
}
