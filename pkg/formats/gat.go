package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// GAT format errors.
var (
	ErrInvalidGATMagic       = errors.New("invalid GAT magic: expected 'GRAT'")
	ErrUnsupportedGATVersion = errors.New("unsupported GAT version")
	ErrTruncatedGATData      = errors.New("truncated GAT data")
)

// GATCellSize is the world size of one GAT cell.
const GATCellSize = 5

// GATVersion represents the GAT file version.
type GATVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GATVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// GATCell is one cell of a ground altitude table. Altitudes grow downward.
type GATCell struct {
	// Heights of the corners: bottom-left, bottom-right, top-left, top-right.
	Heights [4]float32
	Type    uint32
}

// Elevation returns the mean corner height with the sign flipped so that
// larger values are higher ground.
func (c *GATCell) Elevation() float32 {
	return -(c.Heights[0] + c.Heights[1] + c.Heights[2] + c.Heights[3]) / 4
}

// GAT is a parsed ground altitude table: a grid of cells, each carrying
// four corner altitudes.
type GAT struct {
	Version GATVersion
	Width   uint32
	Height  uint32
	Cells   []GATCell
}

// ParseGAT parses a GAT file from raw bytes.
func ParseGAT(data []byte) (*GAT, error) {
	if len(data) < 14 {
		return nil, ErrTruncatedGATData
	}
	if string(data[0:4]) != "GRAT" {
		return nil, ErrInvalidGATMagic
	}

	// Version is stored as [minor, major]; the cell layout is the same for 1.x-3.x.
	version := GATVersion{Major: data[5], Minor: data[4]}
	if version.Major < 1 || version.Major > 3 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGATVersion, version)
	}

	r := bytes.NewReader(data[6:])
	var width, height uint32
	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return nil, fmt.Errorf("%w: reading width", ErrTruncatedGATData)
	}
	if err := binary.Read(r, binary.LittleEndian, &height); err != nil {
		return nil, fmt.Errorf("%w: reading height", ErrTruncatedGATData)
	}
	if width == 0 || height == 0 || width > MaxGridSize || height > MaxGridSize {
		return nil, fmt.Errorf("%w: GAT dimensions %dx%d", ErrInvalidGrid, width, height)
	}

	cells := make([]GATCell, int(width)*int(height))
	if err := binary.Read(r, binary.LittleEndian, cells); err != nil {
		return nil, fmt.Errorf("%w: reading %d cells", ErrTruncatedGATData, len(cells))
	}

	return &GAT{
		Version: version,
		Width:   width,
		Height:  height,
		Cells:   cells,
	}, nil
}

// ParseGATFile parses a GAT file from disk.
func ParseGATFile(path string) (*GAT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GAT file: %w", err)
	}
	return ParseGAT(data)
}

// HeightGrid samples each cell's elevation into a grid spaced GATCellSize apart.
func (g *GAT) HeightGrid() *HeightGrid {
	grid := &HeightGrid{
		Width:    int(g.Width),
		Height:   int(g.Height),
		CellSize: GATCellSize,
		Samples:  make([]float32, len(g.Cells)),
	}
	for i := range g.Cells {
		grid.Samples[i] = g.Cells[i].Elevation()
	}
	return grid
}
