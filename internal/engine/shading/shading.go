// Package shading turns a surface normal, a light direction and a visibility
// result into a displayable intensity.
package shading

import (
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-relief/pkg/math"
)

// Mode selects a shading policy.
type Mode int

// Shading policies.
const (
	// Classic is traditional hill-shading: Lambert term when lit, a flat
	// ambient floor in shadow.
	Classic Mode = iota
	// Soft adds a sky term that follows how much of the sky the normal faces
	// and eases the direct term toward grazing light.
	Soft
)

// Shading constants.
const (
	AmbientFloor = 0.08 // Classic intensity in shadow
	SkyAmbient   = 0.25 // Soft share of intensity from the sky term
)

// String returns the mode name used in config files and flags.
func (m Mode) String() string {
	switch m {
	case Classic:
		return "classic"
	case Soft:
		return "soft"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "classic", "":
		return Classic, nil
	case "soft", "alternate":
		return Soft, nil
	default:
		return Classic, fmt.Errorf("unknown shading mode %q", name)
	}
}

// FromClassicFlag maps the UI's "classic mode" checkbox to a Mode.
func FromClassicFlag(classic bool) Mode {
	if classic {
		return Classic
	}
	return Soft
}

// Func computes intensity for one light sample.
type Func func(normal, light math.Vec3, lit bool) float32

var policies = map[Mode]Func{
	Classic: classic,
	Soft:    soft,
}

// Shade returns the intensity in [0, 1] of a surface with the given unit
// normal lit from the unit direction light. Unknown modes shade as Classic.
func Shade(mode Mode, normal, light math.Vec3, lit bool) float32 {
	fn, ok := policies[mode]
	if !ok {
		fn = classic
	}
	return math.Clamp(fn(normal, light, lit), 0, 1)
}

func classic(normal, light math.Vec3, lit bool) float32 {
	if !lit {
		return AmbientFloor
	}
	return max(0, normal.Dot(light))
}

func soft(normal, light math.Vec3, lit bool) float32 {
	sky := (1 + normal.Z) / 2
	intensity := SkyAmbient * sky
	if lit {
		intensity += (1 - SkyAmbient) * math.Smoothstep(normal.Dot(light))
	}
	return intensity
}
