// Package config handles relief renderer configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-relief/internal/engine/lighting"
	"github.com/Faultbox/midgard-relief/internal/engine/renderer"
	"github.com/Faultbox/midgard-relief/internal/engine/shading"
	"github.com/Faultbox/midgard-relief/internal/engine/shadow"
)

// Terrain sources.
const (
	SourceNoise = "noise" // procedural fBm map
	SourceFile  = "file"  // HFD grid or grayscale image at Terrain.Path
)

// Config holds all renderer settings.
type Config struct {
	View    ViewConfig    `yaml:"view"`
	Terrain TerrainConfig `yaml:"terrain"`
	Render  RenderConfig  `yaml:"render"`
	Tracer  shadow.Config `yaml:"tracer"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewConfig holds output image and window settings.
type ViewConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Scale      int  `yaml:"scale"` // window pixels per rendered pixel
}

// TerrainConfig selects and shapes the height field.
type TerrainConfig struct {
	Source      string  `yaml:"source"`
	Path        string  `yaml:"path"`
	Size        int     `yaml:"size"`
	Octaves     int     `yaml:"octaves"`   // 0 = log2(size)
	Amplitude   float32 `yaml:"amplitude"` // 0 = size
	Seed        int64   `yaml:"seed"`
	CellSize    float32 `yaml:"cell_size"`
	HeightScale float32 `yaml:"height_scale"` // image heightmaps: elevation of a white pixel
	Plateau     bool    `yaml:"plateau"`
	Tower       bool    `yaml:"tower"`
}

// RenderConfig holds the initial frame parameters.
type RenderConfig struct {
	Azimuth          float32 `yaml:"azimuth"`
	Altitude         float32 `yaml:"altitude"`
	Classic          bool    `yaml:"classic"`
	Zoom             float32 `yaml:"zoom"`
	SPP              int     `yaml:"spp"`
	LightSourceWidth float32 `yaml:"light_source_width"`
	ShadowSamples    int     `yaml:"shadow_samples"`
	AutoRotate       bool    `yaml:"auto_rotate"`
	Workers          int     `yaml:"workers"`   // 0 = all CPUs
	TileSize         int     `yaml:"tile_size"` // 0 = renderer default
}

// OutputConfig holds snapshot export settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Scale  int    `yaml:"scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			Width:  512,
			Height: 512,
			VSync:  true,
			Scale:  1,
		},
		Terrain: TerrainConfig{
			Source:      SourceNoise,
			Size:        512,
			Seed:        42,
			CellSize:    1,
			HeightScale: 64,
			Plateau:     true,
			Tower:       true,
		},
		Render: RenderConfig{
			Azimuth:    45,
			Altitude:   45,
			Classic:    true,
			Zoom:       1,
			SPP:        1,
			AutoRotate: true,
		},
		Tracer: shadow.DefaultConfig(),
		Output: OutputConfig{
			Dir:    "screenshots",
			Prefix: "relief",
			Scale:  1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var err error
	if c.View.Width <= 0 || c.View.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("view: size %dx%d must be positive", c.View.Width, c.View.Height))
	}
	if c.View.Scale < 1 {
		err = multierr.Append(err, fmt.Errorf("view: scale %d must be at least 1", c.View.Scale))
	}

	switch c.Terrain.Source {
	case SourceNoise:
		if c.Terrain.Size < 2 {
			err = multierr.Append(err, fmt.Errorf("terrain: size %d must be at least 2", c.Terrain.Size))
		}
	case SourceFile:
		if c.Terrain.Path == "" {
			err = multierr.Append(err, fmt.Errorf("terrain: source %q needs a path", SourceFile))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("terrain: unknown source %q", c.Terrain.Source))
	}
	if c.Terrain.CellSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("terrain: cell_size %v must be positive", c.Terrain.CellSize))
	}
	if c.Terrain.Octaves < 0 {
		err = multierr.Append(err, fmt.Errorf("terrain: octaves %d must not be negative", c.Terrain.Octaves))
	}

	if perr := c.RenderParams().Validate(); perr != nil {
		err = multierr.Append(err, fmt.Errorf("render: %w", perr))
	}
	if c.Render.Workers < 0 || c.Render.TileSize < 0 {
		err = multierr.Append(err, fmt.Errorf("render: workers %d and tile_size %d must not be negative", c.Render.Workers, c.Render.TileSize))
	}
	if c.Output.Scale < 1 {
		err = multierr.Append(err, fmt.Errorf("output: scale %d must be at least 1", c.Output.Scale))
	}
	return err
}

// RenderParams converts the render section into frame parameters.
// Out-of-range values are left for the renderer to clamp.
func (c *Config) RenderParams() renderer.Params {
	return renderer.Params{
		Light: lighting.Angles{
			Azimuth:  c.Render.Azimuth,
			Altitude: c.Render.Altitude,
		},
		Mode:             shading.FromClassicFlag(c.Render.Classic),
		Zoom:             c.Render.Zoom,
		SPP:              c.Render.SPP,
		LightSourceWidth: c.Render.LightSourceWidth,
		ShadowSamples:    c.Render.ShadowSamples,
	}
}

// TracerConfig returns the shadow marching settings.
func (c *Config) TracerConfig() shadow.Config {
	return c.Tracer
}

// RendererOptions returns compositor options for the configured view.
func (c *Config) RendererOptions() renderer.Options {
	return renderer.Options{
		Width:    c.View.Width,
		Height:   c.View.Height,
		Workers:  c.Render.Workers,
		TileSize: c.Render.TileSize,
		Tracer:   c.TracerConfig(),
	}
}
