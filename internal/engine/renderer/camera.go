package renderer

import "github.com/Faultbox/midgard-relief/pkg/math"

// View maps output pixels onto height-field grid coordinates.
type View struct {
	Width  int       // output pixels
	Height int       // output pixels
	Center math.Vec2 // grid coordinate shown at the image center
	Zoom   float32
}

// PixelToField returns the grid coordinate under pixel (px, py):
// center + (p - imageCenter) / zoom.
func PixelToField(px, py float32, v View) math.Vec2 {
	half := math.Vec2{X: float32(v.Width) / 2, Y: float32(v.Height) / 2}
	return v.Center.Add(math.Vec2{X: px, Y: py}.Sub(half).Scale(1 / v.Zoom))
}

// Footprint is the grid-space width of one output pixel.
func (v View) Footprint() float32 {
	return 1 / v.Zoom
}
