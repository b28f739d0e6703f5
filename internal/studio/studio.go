// Package studio runs the relief viewer with an ImGui parameter window drawn
// over the rendered frame.
package studio

import (
	"context"
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-relief/internal/app/controls"
	"github.com/Faultbox/midgard-relief/internal/config"
	"github.com/Faultbox/midgard-relief/internal/engine/display"
	"github.com/Faultbox/midgard-relief/internal/engine/lighting"
	"github.com/Faultbox/midgard-relief/internal/engine/renderer"
	"github.com/Faultbox/midgard-relief/internal/engine/terrain"
	"github.com/Faultbox/midgard-relief/internal/engine/ui"
	"github.com/Faultbox/midgard-relief/internal/logger"
	"github.com/Faultbox/midgard-relief/internal/snapshot"
)

// statusDuration is how long a screenshot message stays in the panel.
const statusDuration = 3 * time.Second

// Studio is the panel viewer: one window showing one compositor's frames.
type Studio struct {
	backend    *ui.Backend
	texture    ui.Texture
	compositor *renderer.Compositor
	state      *controls.State
	capture    *snapshot.Capture
	log        *zap.Logger
	quit       func()

	// Frame state
	drawn     renderer.Params
	hasFrame  bool
	title     string
	fps       float64
	frames    int
	fpsTimer  time.Time
	status    string
	statusSet time.Time
}

// New opens the window and prepares the compositor for field. quit is
// called when the user asks to exit; it is expected not to return.
func New(cfg *config.Config, field *terrain.HeightField, quit func()) (*Studio, error) {
	s := &Studio{
		state:    controls.NewState(cfg.RenderParams(), cfg.Render.AutoRotate),
		capture:  snapshot.New(cfg.Output.Dir, cfg.Output.Prefix, cfg.Output.Scale),
		log:      logger.Named("studio"),
		quit:     quit,
		fpsTimer: time.Now(),
	}

	var err error
	s.backend, err = ui.NewBackend("Relief",
		int32(cfg.View.Width*cfg.View.Scale), int32(cfg.View.Height*cfg.View.Scale))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	opts := cfg.RendererOptions()
	opts.Logger = logger.Named("renderer")
	s.compositor, err = renderer.New(field, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create compositor: %w", err)
	}

	s.log.Info("studio initialized", zap.Stringer("params", s.state.Params))
	return s, nil
}

// Run renders frames until the window closes.
func (s *Studio) Run() {
	s.backend.Run(s.render)
	s.log.Info("studio stopped")
}

// Close releases the compositor and the frame texture.
func (s *Studio) Close() {
	if s.compositor != nil {
		s.compositor.Close()
	}
	s.texture.Delete()
}

// render is called each frame to refresh the relief and draw the UI.
func (s *Studio) render() {
	s.handleShortcuts()
	s.handleWheel()

	if !s.hasFrame || s.state.Params != s.drawn {
		s.refresh()
	}

	s.drawFrame()
	s.drawPanel()

	s.state.Tick()
	s.updateTitle()
}

// refresh renders the current params and uploads the result.
func (s *Studio) refresh() {
	img, err := s.compositor.Render(context.Background(), s.state.Params)
	if err != nil {
		s.log.Error("render failed", zap.Error(err))
		return
	}
	s.texture.Upload(img.RGBA())
	s.drawn = s.state.Params
	s.hasFrame = true
}

func (s *Studio) handleShortcuts() {
	if imgui.CurrentIO().WantCaptureKeyboard() {
		return
	}
	for _, b := range shortcuts {
		if ui.IsKeyPressed(b.key, b.action.Repeatable()) {
			s.perform(b.action)
		}
	}
}

func (s *Studio) handleWheel() {
	io := imgui.CurrentIO()
	if io.WantCaptureMouse() {
		return
	}
	switch wheel := io.MouseWheel(); {
	case wheel > 0:
		s.state.Wheel(1)
	case wheel < 0:
		s.state.Wheel(-1)
	}
}

func (s *Studio) perform(action controls.Action) {
	switch action {
	case controls.ActionQuit:
		s.log.Info("quit requested")
		s.quit()
	case controls.ActionScreenshot:
		path, err := s.capture.Save(s.compositor.Image())
		if err != nil {
			s.log.Error("screenshot failed", zap.Error(err))
			s.setStatus("Screenshot failed")
			return
		}
		s.log.Info("screenshot saved", zap.String("path", path))
		s.setStatus("Saved " + path)
	default:
		s.state.Apply(action)
		s.log.Debug("action", zap.Stringer("action", action), zap.Stringer("params", s.state.Params))
	}
}

func (s *Studio) setStatus(msg string) {
	s.status = msg
	s.statusSet = time.Now()
}

// drawFrame fills the viewport with the letterboxed relief.
func (s *Studio) drawFrame() {
	posX, posY, width, height := s.backend.GetViewport()

	imgui.SetNextWindowPos(imgui.NewVec2(posX, posY))
	imgui.SetNextWindowSize(imgui.NewVec2(width, height))
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	defer imgui.PopStyleVar()

	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoInputs | imgui.WindowFlagsNoBringToFrontOnFocus |
		imgui.WindowFlagsNoCollapse
	if imgui.BeginV("##relief", nil, flags) {
		if ref := s.texture.Ref(); ref != nil {
			frameW, frameH := s.compositor.Size()
			x, y, w, h := display.Fit(frameW, frameH, width, height)
			imgui.SetCursorPosX(x)
			imgui.SetCursorPosY(y)
			imgui.ImageV(*ref, imgui.NewVec2(w, h), imgui.NewVec2(0, 0), imgui.NewVec2(1, 1))
		}
	}
	imgui.End()
}

// drawPanel draws the parameter window and applies edits to the state.
func (s *Studio) drawPanel() {
	posX, posY, _, _ := s.backend.GetViewport()
	imgui.SetNextWindowPosV(imgui.NewVec2(posX+10, posY+10), imgui.CondFirstUseEver, imgui.NewVec2(0, 0))
	imgui.SetNextWindowBgAlpha(0.8)

	flags := imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoCollapse
	if imgui.BeginV("Relief", nil, flags) {
		v := s.state.Panel()

		imgui.Checkbox("Classic mode", &v.Classic)
		imgui.Text(fmt.Sprintf("Azimuth: %.0f°", s.state.Params.Light.Azimuth))
		imgui.SliderFloatV("Altitude", &v.Altitude, lighting.MinAltitude, lighting.MaxAltitude, "%.0f°", imgui.SliderFlagsNone)
		imgui.SliderFloatV("Zoom", &v.Zoom, renderer.MinZoom, renderer.MaxZoom, "%.2f", imgui.SliderFlagsLogarithmic)
		imgui.SliderIntV("Samples", &v.SPP, renderer.MinSPP, renderer.MaxSPP, "%d", imgui.SliderFlagsNone)
		imgui.SliderFloatV("Light width", &v.LightWidth, 0, renderer.MaxLightSourceWidth, "%.2f°", imgui.SliderFlagsNone)
		imgui.Checkbox("Auto-rotate", &v.AutoRotate)

		if s.state.SetPanel(v) {
			s.log.Debug("panel", zap.Stringer("params", s.state.Params))
		}

		imgui.Separator()
		if imgui.Button("Reset") {
			s.perform(controls.ActionReset)
		}
		imgui.SameLine()
		if imgui.Button("Screenshot") {
			s.perform(controls.ActionScreenshot)
		}

		imgui.Text(fmt.Sprintf("%.0f fps", s.fps))
		if s.status != "" && time.Since(s.statusSet) < statusDuration {
			imgui.Text(s.status)
		}
	}
	imgui.End()
}

func (s *Studio) updateTitle() {
	s.frames++
	if elapsed := time.Since(s.fpsTimer); elapsed >= time.Second {
		s.fps = float64(s.frames) / elapsed.Seconds()
		s.log.Debug("fps", zap.Float64("fps", s.fps))
		s.frames = 0
		s.fpsTimer = time.Now()
	}
	if title := s.state.Title(s.fps); title != s.title {
		s.backend.SetWindowTitle(title)
		s.title = title
	}
}
