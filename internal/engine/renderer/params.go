package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-relief/internal/engine/lighting"
	"github.com/Faultbox/midgard-relief/internal/engine/shading"
	"github.com/Faultbox/midgard-relief/pkg/math"
)

// ErrInvalidParameter is returned for configuration values that cannot be
// clamped into a usable range.
var ErrInvalidParameter = errors.New("invalid parameter")

// Interactive ranges. Values outside them are clamped, not rejected.
const (
	MinZoom             = 0.1
	MaxZoom             = 10.0
	MinSPP              = 1
	MaxSPP              = 16
	MaxLightSourceWidth = 5.0 // degrees
	MaxShadowSamples    = 64
)

// Params is the immutable per-frame configuration passed to Render.
type Params struct {
	Light lighting.Angles
	Mode  shading.Mode

	// Zoom > 1 magnifies the field, < 1 shows more of it.
	Zoom float32
	// SPP is the number of samples per pixel, shared by spatial
	// antialiasing and soft-shadow sampling.
	SPP int
	// LightSourceWidth is the angular half-width of the light in degrees.
	// Zero gives hard shadows.
	LightSourceWidth float32
	// ShadowSamples, when positive, decouples the number of light
	// directions from SPP. Each pixel then takes max(SPP, ShadowSamples)
	// samples.
	ShadowSamples int

	// Seed varies the jitter pattern between frames. Identical params
	// produce identical images.
	Seed uint64
}

// DefaultParams returns the startup view: light at 45°/45°, classic
// shading, no zoom, one sample, hard shadows.
func DefaultParams() Params {
	return Params{
		Light: lighting.Angles{Azimuth: 45, Altitude: 45},
		Mode:  shading.Classic,
		Zoom:  1,
		SPP:   1,
	}
}

// Validate reports every value that cannot be safely clamped.
func (p Params) Validate() error {
	var err error
	if !math.IsFinite(p.Zoom) || p.Zoom <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: zoom must be positive, got %v", ErrInvalidParameter, p.Zoom))
	}
	if !math.IsFinite(p.Light.Azimuth) {
		err = multierr.Append(err, fmt.Errorf("%w: azimuth %v", ErrInvalidParameter, p.Light.Azimuth))
	}
	if !math.IsFinite(p.Light.Altitude) {
		err = multierr.Append(err, fmt.Errorf("%w: altitude %v", ErrInvalidParameter, p.Light.Altitude))
	}
	if !math.IsFinite(p.LightSourceWidth) {
		err = multierr.Append(err, fmt.Errorf("%w: light source width %v", ErrInvalidParameter, p.LightSourceWidth))
	}
	return err
}

// Clamp limits every field to its interactive range.
func (p Params) Clamp() Params {
	p.Light = p.Light.Normalize()
	p.Zoom = math.Clamp(p.Zoom, MinZoom, MaxZoom)
	p.SPP = min(max(p.SPP, MinSPP), MaxSPP)
	p.LightSourceWidth = math.Clamp(p.LightSourceWidth, 0, MaxLightSourceWidth)
	p.ShadowSamples = min(max(p.ShadowSamples, 0), MaxShadowSamples)
	return p
}

// samples returns how many evaluations a pixel takes and how many distinct
// light directions they draw from.
func (p Params) samples() (total, directions int) {
	if p.LightSourceWidth == 0 {
		return p.SPP, 1
	}
	directions = p.SPP
	if p.ShadowSamples > 0 {
		directions = p.ShadowSamples
	}
	return max(p.SPP, directions), directions
}

// jittered reports whether pixel samples are spread over the pixel footprint.
func (p Params) jittered() bool {
	return p.SPP > 1
}

// String summarises the parameters for window titles and logs.
func (p Params) String() string {
	return fmt.Sprintf("az %.0f° alt %.0f° %s zoom %.2f spp %d width %.1f°",
		p.Light.Azimuth, p.Light.Altitude, p.Mode, p.Zoom, p.SPP, p.LightSourceWidth)
}
