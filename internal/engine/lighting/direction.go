// Package lighting converts light angles into directions and samples the
// angular extent of a distant light source for soft shadows.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/midgard-relief/pkg/math"
)

// Altitude limits accepted from interactive input. The horizon and zenith
// themselves are excluded so the light always has an azimuth to rotate.
const (
	MinAltitude = 0
	MaxAltitude = 89
)

// Angles is a light position in the horizontal (alt-azimuth) system, in degrees.
type Angles struct {
	// Azimuth is measured clockwise from +Y toward +X when viewed from above.
	Azimuth float32 `yaml:"azimuth"`
	// Altitude is the elevation above the horizontal plane.
	Altitude float32 `yaml:"altitude"`
}

// Normalize wraps azimuth into [0, 360) and clamps altitude to
// [MinAltitude, MaxAltitude].
func (a Angles) Normalize() Angles {
	az := float32(gomath.Mod(float64(a.Azimuth), 360))
	if az < 0 {
		az += 360
	}
	return Angles{
		Azimuth:  az,
		Altitude: math.Clamp(a.Altitude, MinAltitude, MaxAltitude),
	}
}

// Direction returns the unit vector pointing from the surface toward the light.
func (a Angles) Direction() math.Vec3 {
	return Direction(a.Azimuth, a.Altitude)
}

// Direction converts azimuth/altitude degrees to a unit vector (Z up).
// Altitude 90 yields (0, 0, 1) regardless of azimuth.
func Direction(azimuthDeg, altitudeDeg float32) math.Vec3 {
	az := math.DegToRad(azimuthDeg)
	alt := math.DegToRad(altitudeDeg)

	// Spherical to Cartesian conversion
	cosAlt := gomath.Cos(alt)
	if altitudeDeg == 90 {
		cosAlt = 0
	}
	return math.Vec3{
		X: float32(cosAlt * gomath.Sin(az)),
		Y: float32(cosAlt * gomath.Cos(az)),
		Z: float32(gomath.Sin(alt)),
	}
}
