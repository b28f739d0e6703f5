package lighting

import (
	gomath "math"
	"math/rand"

	"github.com/Faultbox/midgard-relief/pkg/math"
)

// goldenAngle is the rotation between successive spiral samples.
var goldenAngle = gomath.Pi * (3 - gomath.Sqrt(5))

// SampleCone distributes count unit directions over a disc of angular radius
// halfWidthDeg centred on center. The pattern is a golden-angle spiral with
// equal-area rings, rotated by a random offset drawn from rng so that
// neighbouring pixels do not share the same pattern. A nil rng leaves the
// spiral unrotated.
//
// A non-positive width disables soft shadows and returns just center.
func SampleCone(center math.Vec3, halfWidthDeg float32, count int, rng *rand.Rand) []math.Vec3 {
	return AppendCone(nil, center, halfWidthDeg, count, rng)
}

// AppendCone is SampleCone appending to dst, so per-pixel callers can reuse
// one buffer.
func AppendCone(dst []math.Vec3, center math.Vec3, halfWidthDeg float32, count int, rng *rand.Rand) []math.Vec3 {
	if halfWidthDeg <= 0 || count <= 0 || !math.IsFinite(halfWidthDeg) {
		return append(dst, center)
	}

	w := center.Normalize()
	u, v := w.Basis()
	maxTan := gomath.Tan(math.DegToRad(min(halfWidthDeg, 89)))

	var rotation float64
	if rng != nil {
		rotation = rng.Float64() * 2 * gomath.Pi
	}

	for k := range count {
		// sqrt keeps rings equal-area on the tangent plane
		r := maxTan * gomath.Sqrt((float64(k)+0.5)/float64(count))
		phi := rotation + float64(k)*goldenAngle

		offset := u.Scale(float32(r * gomath.Cos(phi))).Add(v.Scale(float32(r * gomath.Sin(phi))))
		dst = append(dst, w.Add(offset).Normalize())
	}
	return dst
}
