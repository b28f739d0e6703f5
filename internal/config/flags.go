package config

import "flag"

// Flags are command-line overrides bound to one FlagSet. Only flags the user
// actually set are applied, so zero values such as -azimuth=0 still count.
type Flags struct {
	fs *flag.FlagSet

	config        *string
	debug         *bool
	logFile       *string
	width         *int
	height        *int
	scale         *int
	fullscreen    *bool
	azimuth       *float64
	altitude      *float64
	classic       *bool
	zoom          *float64
	spp           *int
	lightWidth    *float64
	shadowSamples *int
	noRotate      *bool
	workers       *int
	terrain       *string
	size          *int
	seed          *int64
	out           *string
}

// NewFlags registers the override flags on fs.
func NewFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:            fs,
		config:        fs.String("config", "", "Path to config file"),
		debug:         fs.Bool("debug", false, "Enable debug logging"),
		logFile:       fs.String("log-file", "", "Write logs to this rotating file"),
		width:         fs.Int("width", 0, "Output width in pixels"),
		height:        fs.Int("height", 0, "Output height in pixels"),
		scale:         fs.Int("scale", 0, "Window pixels per rendered pixel"),
		fullscreen:    fs.Bool("fullscreen", false, "Run the viewer fullscreen"),
		azimuth:       fs.Float64("azimuth", 0, "Light azimuth in degrees, clockwise from north"),
		altitude:      fs.Float64("altitude", 0, "Light altitude in degrees above the horizon"),
		classic:       fs.Bool("classic", true, "Classic shading; -classic=false selects soft shading"),
		zoom:          fs.Float64("zoom", 0, "Zoom factor"),
		spp:           fs.Int("spp", 0, "Samples per pixel"),
		lightWidth:    fs.Float64("light-width", 0, "Angular half-width of the light in degrees"),
		shadowSamples: fs.Int("shadow-samples", 0, "Light directions per pixel (0 = spp)"),
		noRotate:      fs.Bool("no-rotate", false, "Disable azimuth auto-rotation"),
		workers:       fs.Int("workers", 0, "Render goroutines (0 = all CPUs)"),
		terrain:       fs.String("terrain", "", "Load the height field from an HFD or image file"),
		size:          fs.Int("size", 0, "Procedural terrain size"),
		seed:          fs.Int64("seed", 0, "Procedural terrain seed"),
		out:           fs.String("out", "", "Snapshot output directory"),
	}
}

// cli are the flags registered on the process-wide command line.
var cli = NewFlags(flag.CommandLine)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return cli.ConfigPath()
}

// ConfigPath returns the -config value.
func (f *Flags) ConfigPath() string {
	return *f.config
}

// Apply copies every flag that was set on the command line into cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if *f.debug {
				cfg.Logging.Level = "debug"
			}
		case "log-file":
			cfg.Logging.LogFile = *f.logFile
		case "width":
			cfg.View.Width = *f.width
		case "height":
			cfg.View.Height = *f.height
		case "scale":
			cfg.View.Scale = *f.scale
		case "fullscreen":
			cfg.View.Fullscreen = *f.fullscreen
		case "azimuth":
			cfg.Render.Azimuth = float32(*f.azimuth)
		case "altitude":
			cfg.Render.Altitude = float32(*f.altitude)
		case "classic":
			cfg.Render.Classic = *f.classic
		case "zoom":
			cfg.Render.Zoom = float32(*f.zoom)
		case "spp":
			cfg.Render.SPP = *f.spp
		case "light-width":
			cfg.Render.LightSourceWidth = float32(*f.lightWidth)
		case "shadow-samples":
			cfg.Render.ShadowSamples = *f.shadowSamples
		case "no-rotate":
			cfg.Render.AutoRotate = !*f.noRotate
		case "workers":
			cfg.Render.Workers = *f.workers
		case "terrain":
			cfg.Terrain.Source = SourceFile
			cfg.Terrain.Path = *f.terrain
		case "size":
			cfg.Terrain.Size = *f.size
		case "seed":
			cfg.Terrain.Seed = *f.seed
		case "out":
			cfg.Output.Dir = *f.out
		}
	})
}

// applyFlags applies process-wide CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	cli.Apply(cfg)
}
