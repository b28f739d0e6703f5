package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Faultbox/midgard-relief/internal/config"
	"github.com/Faultbox/midgard-relief/internal/engine/renderer"
	"github.com/Faultbox/midgard-relief/internal/logger"
	"github.com/Faultbox/midgard-relief/internal/snapshot"
	"github.com/Faultbox/midgard-relief/internal/terraingen"
	"github.com/Faultbox/midgard-relief/pkg/formats"
)

// setup parses the shared render flags, starts logging and builds a compositor.
func setup(fs *flag.FlagSet, args []string) (*config.Config, *renderer.Compositor, error) {
	f := config.NewFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.LoadWith(f)
	if err != nil {
		return nil, nil, err
	}

	opts := logger.Options{Level: cfg.Logging.Level, Console: true}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		return nil, nil, err
	}

	field, err := terraingen.Load(cfg.Terrain)
	if err != nil {
		return nil, nil, fmt.Errorf("loading terrain: %w", err)
	}

	ropts := cfg.RendererOptions()
	ropts.Logger = logger.Named("renderer")
	c, err := renderer.New(field, ropts)
	if err != nil {
		return nil, nil, err
	}
	return cfg, c, nil
}

func cmdRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	out := fs.String("o", "relief.png", "Output PNG path")
	seed := fs.Uint64("jitter-seed", 0, "Sample jitter seed")

	cfg, c, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer c.Close()

	p := cfg.RenderParams()
	p.Seed = *seed

	start := time.Now()
	img, err := c.Render(ctx, p)
	if err != nil {
		return err
	}

	capture := snapshot.New(cfg.Output.Dir, cfg.Output.Prefix, cfg.Output.Scale)
	if err := capture.WriteFile(*out, img); err != nil {
		return err
	}
	logger.Info("frame written",
		zap.String("path", *out),
		zap.Stringer("params", p.Clamp()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func cmdTurntable(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("turntable", flag.ContinueOnError)
	frames := fs.Int("frames", 360, "Number of frames in one rotation")
	dir := fs.String("dir", "turntable", "Output directory")

	cfg, c, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer c.Close()

	if *frames < 1 {
		return fmt.Errorf("frames must be positive, got %d", *frames)
	}

	capture := snapshot.New(*dir, cfg.Output.Prefix, cfg.Output.Scale)
	p := cfg.RenderParams()
	step := float32(360) / float32(*frames)
	start := time.Now()

	for i := range *frames {
		p.Light.Azimuth = cfg.Render.Azimuth + float32(i)*step
		img, err := c.Render(ctx, p)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Warn("turntable interrupted", zap.Int("frames_written", i))
			}
			return err
		}
		path, err := capture.SaveAs(img, fmt.Sprintf("%04d", i))
		if err != nil {
			return err
		}
		logger.Debug("frame written", zap.Int("frame", i), zap.String("path", path))
	}

	logger.Info("turntable written",
		zap.String("dir", *dir),
		zap.Int("frames", *frames),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func cmdGen(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	size := fs.Int("size", 512, "Samples per side")
	seed := fs.Int64("seed", 42, "Noise seed")
	octaves := fs.Int("octaves", 0, "Noise octaves (0 = log2(size))")
	cell := fs.Float64("cell", 1, "Cell size")
	plain := fs.Bool("plain", false, "Omit the central plateau and tower")
	out := fs.String("o", "relief.hfd", "Output HFD path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	o := terraingen.Options{
		Size:     *size,
		Octaves:  *octaves,
		Seed:     *seed,
		CellSize: float32(*cell),
		Plateau:  !*plain,
		Tower:    !*plain,
	}
	grid, err := terraingen.Grid(o)
	if err != nil {
		return err
	}
	if err := formats.WriteHFDFile(*out, grid); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d)\n", *out, grid.Width, grid.Height)
	return nil
}

func cmdInfo(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	scale := fs.Float64("height-scale", 64, "Elevation of a white pixel for image heightmaps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: relief info <file.hfd|file.gat|image>")
	}

	path := fs.Arg(0)
	grid, err := terraingen.ReadGrid(path, float32(*scale), 0)
	if err != nil {
		return err
	}
	lo, hi := grid.Range()

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "File:      %s\n", path)
	p.Fprintf(w, "Format:    %s\n", strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	p.Fprintf(w, "Size:      %d x %d\n", grid.Width, grid.Height)
	p.Fprintf(w, "Samples:   %d\n", len(grid.Samples))
	p.Fprintf(w, "Cell size: %.3f\n", grid.CellSize)
	p.Fprintf(w, "Extent:    %.1f x %.1f\n", float32(grid.Width-1)*grid.CellSize, float32(grid.Height-1)*grid.CellSize)
	p.Fprintf(w, "Elevation: %.2f .. %.2f\n", lo, hi)
	return nil
}
