package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// HFD format errors.
var (
	ErrInvalidHFDMagic       = errors.New("invalid HFD magic: expected 'HFLD'")
	ErrUnsupportedHFDVersion = errors.New("unsupported HFD version")
	ErrTruncatedHFDData      = errors.New("truncated HFD data")
)

// HFD layout (little endian):
//
//	magic    [4]byte "HFLD"
//	version  [2]byte minor, major
//	width    uint32
//	height   uint32
//	cellSize float32
//	samples  [width*height]float32, row-major
const (
	hfdMagic      = "HFLD"
	hfdMajor      = 1
	hfdMinor      = 0
	hfdHeaderSize = 4 + 2 + 4 + 4 + 4
)

// HFDVersion represents the HFD file version.
type HFDVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v HFDVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseHFD parses an HFD height grid from raw bytes.
func ParseHFD(data []byte) (*HeightGrid, error) {
	if len(data) < hfdHeaderSize {
		return nil, ErrTruncatedHFDData
	}
	if string(data[0:4]) != hfdMagic {
		return nil, ErrInvalidHFDMagic
	}

	version := HFDVersion{Major: data[5], Minor: data[4]}
	if version.Major != hfdMajor {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHFDVersion, version)
	}

	r := bytes.NewReader(data[6:])
	var header struct {
		Width    uint32
		Height   uint32
		CellSize float32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedHFDData)
	}
	if header.Width == 0 || header.Height == 0 || header.Width > MaxGridSize || header.Height > MaxGridSize {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, header.Width, header.Height)
	}

	count := int(header.Width) * int(header.Height)
	if r.Len() < count*4 {
		return nil, fmt.Errorf("%w: need %d samples, have %d bytes", ErrTruncatedHFDData, count, r.Len())
	}

	g := &HeightGrid{
		Width:    int(header.Width),
		Height:   int(header.Height),
		CellSize: header.CellSize,
		Samples:  make([]float32, count),
	}
	if err := binary.Read(r, binary.LittleEndian, g.Samples); err != nil {
		return nil, fmt.Errorf("%w: reading samples", ErrTruncatedHFDData)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseHFDFile parses an HFD file from disk.
func ParseHFDFile(path string) (*HeightGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading HFD file: %w", err)
	}
	return ParseHFD(data)
}

// EncodeHFD writes g in HFD format.
func EncodeHFD(w io.Writer, g *HeightGrid) error {
	if err := g.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(hfdMagic)
	bw.WriteByte(hfdMinor)
	bw.WriteByte(hfdMajor)

	header := struct {
		Width    uint32
		Height   uint32
		CellSize float32
	}{uint32(g.Width), uint32(g.Height), g.CellSize}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, g.Samples); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteHFDFile writes g to path, creating parent directories.
func WriteHFDFile(path string, g *HeightGrid) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeHFD(f, g); err != nil {
		f.Close()
		return fmt.Errorf("writing HFD file: %w", err)
	}
	return f.Close()
}
