// Package controls holds the interactive viewer state and the actions that
// change it. It has no windowing dependencies.
package controls

import (
	"fmt"

	"github.com/Faultbox/midgard-relief/internal/engine/lighting"
	"github.com/Faultbox/midgard-relief/internal/engine/renderer"
	"github.com/Faultbox/midgard-relief/internal/engine/shading"
	"github.com/Faultbox/midgard-relief/pkg/math"
)

// Step sizes for one key press.
const (
	AzimuthStep  = 5    // degrees
	AltitudeStep = 1    // degrees
	ZoomFactor   = 1.1  // per press or wheel notch
	WidthStep    = 0.25 // degrees
	RotateRate   = 1    // degrees per frame
)

// Action is a user command.
type Action int

const (
	ActionNone Action = iota
	ActionAzimuthLeft
	ActionAzimuthRight
	ActionAltitudeUp
	ActionAltitudeDown
	ActionToggleClassic
	ActionZoomIn
	ActionZoomOut
	ActionMoreSamples
	ActionFewerSamples
	ActionWiderLight
	ActionNarrowerLight
	ActionToggleRotate
	ActionReset
	ActionScreenshot
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionAzimuthLeft:   "azimuth-left",
	ActionAzimuthRight:  "azimuth-right",
	ActionAltitudeUp:    "altitude-up",
	ActionAltitudeDown:  "altitude-down",
	ActionToggleClassic: "toggle-classic",
	ActionZoomIn:        "zoom-in",
	ActionZoomOut:       "zoom-out",
	ActionMoreSamples:   "more-samples",
	ActionFewerSamples:  "fewer-samples",
	ActionWiderLight:    "wider-light",
	ActionNarrowerLight: "narrower-light",
	ActionToggleRotate:  "toggle-rotate",
	ActionReset:         "reset",
	ActionScreenshot:    "screenshot",
	ActionQuit:          "quit",
}

// Repeatable reports whether a follows key auto-repeat. The rest fire once
// per press.
func (a Action) Repeatable() bool {
	switch a {
	case ActionAzimuthLeft, ActionAzimuthRight,
		ActionAltitudeUp, ActionAltitudeDown,
		ActionZoomIn, ActionZoomOut,
		ActionWiderLight, ActionNarrowerLight:
		return true
	}
	return false
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// State is what the viewer renders next.
type State struct {
	Params     renderer.Params
	AutoRotate bool

	initial       renderer.Params
	initialRotate bool
}

// NewState starts from p, clamped to the interactive ranges.
func NewState(p renderer.Params, autoRotate bool) *State {
	p = p.Clamp()
	return &State{
		Params:        p,
		AutoRotate:    autoRotate,
		initial:       p,
		initialRotate: autoRotate,
	}
}

// Apply performs a, keeping every value inside its interactive range.
// Screenshot and Quit are handled by the caller and leave the state alone.
func (s *State) Apply(a Action) {
	p := &s.Params
	switch a {
	case ActionAzimuthLeft:
		p.Light.Azimuth -= AzimuthStep
	case ActionAzimuthRight:
		p.Light.Azimuth += AzimuthStep
	case ActionAltitudeUp:
		p.Light.Altitude += AltitudeStep
	case ActionAltitudeDown:
		p.Light.Altitude -= AltitudeStep
	case ActionToggleClassic:
		p.Mode = shading.FromClassicFlag(p.Mode != shading.Classic)
	case ActionZoomIn:
		p.Zoom *= ZoomFactor
	case ActionZoomOut:
		p.Zoom /= ZoomFactor
	case ActionMoreSamples:
		p.SPP++
	case ActionFewerSamples:
		p.SPP--
	case ActionWiderLight:
		p.LightSourceWidth += WidthStep
	case ActionNarrowerLight:
		p.LightSourceWidth -= WidthStep
	case ActionToggleRotate:
		s.AutoRotate = !s.AutoRotate
	case ActionReset:
		s.Params = s.initial
		s.AutoRotate = s.initialRotate
	}
	s.Params = s.Params.Clamp()
}

// Panel holds the editable values of the parameter window in the types its
// widgets bind to.
type Panel struct {
	Classic    bool
	AutoRotate bool
	Altitude   float32
	Zoom       float32
	SPP        int32
	LightWidth float32
}

// Panel returns the current values for the parameter window.
func (s *State) Panel() Panel {
	p := s.Params
	return Panel{
		Classic:    p.Mode == shading.Classic,
		AutoRotate: s.AutoRotate,
		Altitude:   p.Light.Altitude,
		Zoom:       p.Zoom,
		SPP:        int32(p.SPP),
		LightWidth: p.LightSourceWidth,
	}
}

// SetPanel applies values edited in the parameter window, clamped to the
// interactive ranges, and reports whether the rendered view changed.
func (s *State) SetPanel(v Panel) bool {
	before := s.Params
	s.AutoRotate = v.AutoRotate
	s.Params.Mode = shading.FromClassicFlag(v.Classic)
	s.Params.Light.Altitude = v.Altitude
	s.Params.Zoom = v.Zoom
	s.Params.SPP = int(v.SPP)
	s.Params.LightSourceWidth = v.LightWidth
	s.Params = s.Params.Clamp()
	return s.Params != before
}

// Wheel zooms by one factor per notch; positive notches zoom in.
func (s *State) Wheel(notches int32) {
	for range max(notches, -notches) {
		if notches > 0 {
			s.Apply(ActionZoomIn)
		} else {
			s.Apply(ActionZoomOut)
		}
	}
}

// Tick advances per-frame animation: with auto-rotation on, the azimuth
// moves RotateRate degrees and wraps at 360.
func (s *State) Tick() {
	if !s.AutoRotate {
		return
	}
	s.Params.Light = lighting.Angles{
		Azimuth:  s.Params.Light.Azimuth + RotateRate,
		Altitude: s.Params.Light.Altitude,
	}.Normalize()
}

// Title formats the window title.
func (s *State) Title(fps float64) string {
	rotate := ""
	if s.AutoRotate {
		rotate = " | rotating"
	}
	return fmt.Sprintf("Relief | %s | %.0f fps%s", s.Params, math.Clamp(float32(fps), 0, 9999), rotate)
}
