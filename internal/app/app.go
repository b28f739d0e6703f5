// Package app runs the interactive relief viewer.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-relief/internal/app/controls"
	"github.com/Faultbox/midgard-relief/internal/config"
	"github.com/Faultbox/midgard-relief/internal/engine/display"
	"github.com/Faultbox/midgard-relief/internal/engine/input"
	"github.com/Faultbox/midgard-relief/internal/engine/renderer"
	"github.com/Faultbox/midgard-relief/internal/engine/terrain"
	"github.com/Faultbox/midgard-relief/internal/engine/window"
	"github.com/Faultbox/midgard-relief/internal/logger"
	"github.com/Faultbox/midgard-relief/internal/snapshot"
)

// App is the viewer: one window showing one compositor's frames.
type App struct {
	window     *window.Window
	presenter  *display.Presenter
	input      *input.Input
	compositor *renderer.Compositor
	state      *controls.State
	capture    *snapshot.Capture
	log        *zap.Logger
	running    bool
}

// New opens the window and prepares the compositor for field.
func New(cfg *config.Config, field *terrain.HeightField) (*App, error) {
	a := &App{
		input:   input.New(),
		state:   controls.NewState(cfg.RenderParams(), cfg.Render.AutoRotate),
		capture: snapshot.New(cfg.Output.Dir, cfg.Output.Prefix, cfg.Output.Scale),
		log:     logger.Named("app"),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "Relief",
		Width:      cfg.View.Width * cfg.View.Scale,
		Height:     cfg.View.Height * cfg.View.Scale,
		Fullscreen: cfg.View.Fullscreen,
		VSync:      cfg.View.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The presenter needs the GL context created by the window.
	a.presenter, err = display.New(cfg.View.Width, cfg.View.Height)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	opts := cfg.RendererOptions()
	opts.Logger = logger.Named("renderer")
	a.compositor, err = renderer.New(field, opts)
	if err != nil {
		a.presenter.Close()
		a.window.Close()
		return nil, fmt.Errorf("failed to create compositor: %w", err)
	}

	a.log.Info("viewer initialized", zap.Stringer("params", a.state.Params))
	return a, nil
}

// Run renders frames until the window closes or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()
	fps := 0.0

	for a.running {
		if ctx.Err() != nil {
			break
		}
		if a.input.Update() {
			break
		}
		a.handleEvents()

		img, err := a.compositor.Render(ctx, a.state.Params)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("render: %w", err)
		}
		if err := a.presenter.Upload(img); err != nil {
			return err
		}
		a.presenter.Draw(a.window.DrawableSize())
		a.window.SwapBuffers()

		a.state.Tick()

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps = float64(frameCount) / elapsed.Seconds()
			a.log.Debug("fps", zap.Float64("fps", fps))
			frameCount = 0
			fpsTimer = time.Now()
		}
		a.window.SetTitle(a.state.Title(fps))
	}

	a.log.Info("viewer stopped")
	return nil
}

// handleEvents applies this frame's input to the viewer state.
func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventKeyDown:
			action, ok := keymap[event.Key]
			if !ok || (event.Repeat && !action.Repeatable()) {
				continue
			}
			a.perform(action)
		case input.EventMouseWheel:
			a.state.Wheel(event.Wheel)
		}
	}
}

func (a *App) perform(action controls.Action) {
	switch action {
	case controls.ActionQuit:
		a.running = false
	case controls.ActionScreenshot:
		path, err := a.capture.Save(a.compositor.Image())
		if err != nil {
			a.log.Error("screenshot failed", zap.Error(err))
			return
		}
		a.log.Info("screenshot saved", zap.String("path", path))
	default:
		a.state.Apply(action)
		a.log.Debug("action", zap.Stringer("action", action), zap.Stringer("params", a.state.Params))
	}
}

// Close releases the compositor, GL resources and the window.
func (a *App) Close() {
	if a.compositor != nil {
		a.compositor.Close()
	}
	if a.presenter != nil {
		a.presenter.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
