package terraingen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/midgard-relief/internal/config"
	"github.com/Faultbox/midgard-relief/internal/engine/terrain"
	"github.com/Faultbox/midgard-relief/pkg/formats"
)

// Load builds the height field described by the terrain config section.
func Load(cfg config.TerrainConfig) (*terrain.HeightField, error) {
	switch cfg.Source {
	case config.SourceNoise:
		return Generate(Options{
			Size:      cfg.Size,
			Octaves:   cfg.Octaves,
			Amplitude: cfg.Amplitude,
			Seed:      cfg.Seed,
			CellSize:  cfg.CellSize,
			Plateau:   cfg.Plateau,
			Tower:     cfg.Tower,
		})
	case config.SourceFile:
		grid, err := ReadGrid(cfg.Path, cfg.HeightScale, cfg.CellSize)
		if err != nil {
			return nil, err
		}
		return terrain.New(grid.Samples, grid.Width, grid.Height, grid.CellSize)
	default:
		return nil, fmt.Errorf("unknown terrain source %q", cfg.Source)
	}
}

// ReadGrid reads a height grid file, choosing the decoder by extension:
// .hfd and .gat keep their stored cell size, images use cellSize and map
// white to heightScale.
func ReadGrid(path string, heightScale, cellSize float32) (*formats.HeightGrid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hfd":
		return formats.ParseHFDFile(path)
	case ".gat":
		gat, err := formats.ParseGATFile(path)
		if err != nil {
			return nil, err
		}
		return gat.HeightGrid(), nil
	default:
		grid, err := formats.DecodeHeightImageFile(path, heightScale)
		if err != nil {
			return nil, err
		}
		if cellSize > 0 {
			grid.CellSize = cellSize
		}
		return grid, nil
	}
}

// Grid converts generated samples into a height grid for export.
func Grid(o Options) (*formats.HeightGrid, error) {
	z, err := Samples(o)
	if err != nil {
		return nil, err
	}
	return &formats.HeightGrid{
		Width:    o.Size,
		Height:   o.Size,
		CellSize: o.normalized().CellSize,
		Samples:  z,
	}, nil
}
