package studio

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/midgard-relief/internal/app/controls"
)

type shortcut struct {
	key    imgui.Key
	action controls.Action
}

// shortcuts mirror the keyboard viewer's keymap.
var shortcuts = []shortcut{
	{imgui.KeyEscape, controls.ActionQuit},
	{imgui.KeyQ, controls.ActionQuit},
	{imgui.KeyLeftArrow, controls.ActionAzimuthLeft},
	{imgui.KeyRightArrow, controls.ActionAzimuthRight},
	{imgui.KeyUpArrow, controls.ActionAltitudeUp},
	{imgui.KeyDownArrow, controls.ActionAltitudeDown},
	{imgui.KeyC, controls.ActionToggleClassic},
	{imgui.KeyEqual, controls.ActionZoomIn},
	{imgui.KeyKeypadAdd, controls.ActionZoomIn},
	{imgui.KeyMinus, controls.ActionZoomOut},
	{imgui.KeyKeypadSubtract, controls.ActionZoomOut},
	{imgui.KeyRightBracket, controls.ActionMoreSamples},
	{imgui.KeyLeftBracket, controls.ActionFewerSamples},
	{imgui.KeyPeriod, controls.ActionWiderLight},
	{imgui.KeyComma, controls.ActionNarrowerLight},
	{imgui.KeySpace, controls.ActionToggleRotate},
	{imgui.KeyR, controls.ActionReset},
	{imgui.KeyF12, controls.ActionScreenshot},
	{imgui.KeyP, controls.ActionScreenshot},
}
