package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// createTestGAT creates a minimal GAT file whose cells all share the given
// corner heights, except cell 0 which is raised by lift.
func createTestGAT(width, height uint32, corner, lift float32) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("GRAT")
	buf.WriteByte(2) // minor
	buf.WriteByte(1) // major
	binary.Write(buf, binary.LittleEndian, width)
	binary.Write(buf, binary.LittleEndian, height)

	for i := 0; i < int(width*height); i++ {
		h := corner
		if i == 0 {
			h -= lift // altitudes grow downward
		}
		for range 4 {
			binary.Write(buf, binary.LittleEndian, h)
		}
		binary.Write(buf, binary.LittleEndian, uint32(0))
	}
	return buf.Bytes()
}

func TestParseGAT_ValidFile(t *testing.T) {
	gat, err := ParseGAT(createTestGAT(4, 3, -10, 5))
	if err != nil {
		t.Fatalf("ParseGAT failed: %v", err)
	}
	if gat.Version.Major != 1 || gat.Version.Minor != 2 {
		t.Errorf("expected version 1.2, got %s", gat.Version)
	}
	if gat.Width != 4 || gat.Height != 3 {
		t.Errorf("expected 4x3, got %dx%d", gat.Width, gat.Height)
	}
	if len(gat.Cells) != 12 {
		t.Errorf("expected 12 cells, got %d", len(gat.Cells))
	}
}

func TestGAT_HeightGrid(t *testing.T) {
	gat, err := ParseGAT(createTestGAT(2, 2, -10, 5))
	if err != nil {
		t.Fatalf("ParseGAT failed: %v", err)
	}

	g := gat.HeightGrid()
	if g.CellSize != GATCellSize {
		t.Errorf("CellSize = %v, want %v", g.CellSize, GATCellSize)
	}
	if g.Samples[0] != 15 {
		t.Errorf("raised cell elevation = %v, want 15", g.Samples[0])
	}
	if g.Samples[3] != 10 {
		t.Errorf("cell elevation = %v, want 10", g.Samples[3])
	}
	if err := g.Validate(); err != nil {
		t.Errorf("converted grid is invalid: %v", err)
	}
}

func TestParseGAT_Errors(t *testing.T) {
	valid := createTestGAT(2, 2, 0, 0)
	badVersion := append([]byte(nil), valid...)
	badVersion[5] = 7

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", []byte("GRAT"), ErrTruncatedGATData},
		{"bad magic", append([]byte("TARG"), valid[4:]...), ErrInvalidGATMagic},
		{"bad version", badVersion, ErrUnsupportedGATVersion},
		{"truncated cells", valid[:len(valid)-1], ErrTruncatedGATData},
		{"zero size", createTestGAT(0, 2, 0, 0), ErrInvalidGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGAT(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("ParseGAT() error = %v, want %v", err, tt.want)
			}
		})
	}
}
