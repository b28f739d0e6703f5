package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-relief/internal/app/controls"
)

// keymap binds keys to viewer actions.
var keymap = map[sdl.Scancode]controls.Action{
	sdl.SCANCODE_ESCAPE:       controls.ActionQuit,
	sdl.SCANCODE_Q:            controls.ActionQuit,
	sdl.SCANCODE_LEFT:         controls.ActionAzimuthLeft,
	sdl.SCANCODE_RIGHT:        controls.ActionAzimuthRight,
	sdl.SCANCODE_UP:           controls.ActionAltitudeUp,
	sdl.SCANCODE_DOWN:         controls.ActionAltitudeDown,
	sdl.SCANCODE_C:            controls.ActionToggleClassic,
	sdl.SCANCODE_EQUALS:       controls.ActionZoomIn,
	sdl.SCANCODE_KP_PLUS:      controls.ActionZoomIn,
	sdl.SCANCODE_MINUS:        controls.ActionZoomOut,
	sdl.SCANCODE_KP_MINUS:     controls.ActionZoomOut,
	sdl.SCANCODE_RIGHTBRACKET: controls.ActionMoreSamples,
	sdl.SCANCODE_LEFTBRACKET:  controls.ActionFewerSamples,
	sdl.SCANCODE_PERIOD:       controls.ActionWiderLight,
	sdl.SCANCODE_COMMA:        controls.ActionNarrowerLight,
	sdl.SCANCODE_SPACE:        controls.ActionToggleRotate,
	sdl.SCANCODE_R:            controls.ActionReset,
	sdl.SCANCODE_F12:          controls.ActionScreenshot,
	sdl.SCANCODE_P:            controls.ActionScreenshot,
}
