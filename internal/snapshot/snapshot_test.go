package snapshot

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/midgard-relief/internal/engine/renderer"
)

func checker() *renderer.Image {
	img := renderer.NewImage(2, 2)
	img.Set(0, 0, 1)
	img.Set(1, 1, 1)
	return img
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestSave_Timestamped(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c := New(dir, "relief", 1)
	c.now = func() time.Time { return time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC) }

	path, err := c.Save(checker())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if want := filepath.Join(dir, "relief_2024-05-01_13-04-05.000.png"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	img := readPNG(t, path)
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("size = %v, want 2x2", b)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0xffff {
		t.Errorf("pixel (0,0) = %x, want white", r)
	}
	if r, _, _, _ := img.At(1, 0).RGBA(); r != 0 {
		t.Errorf("pixel (1,0) = %x, want black", r)
	}
}

func TestSaveAs_Scaled(t *testing.T) {
	c := New(t.TempDir(), "turntable", 3)

	path, err := c.SaveAs(checker(), "045")
	if err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	if !strings.HasSuffix(path, "turntable_045.png") {
		t.Errorf("unexpected path %s", path)
	}

	img := readPNG(t, path)
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 6 {
		t.Fatalf("size = %v, want 6x6", b)
	}
	// Nearest-neighbour keeps hard block edges.
	if r, _, _, _ := img.At(2, 2).RGBA(); r != 0xffff {
		t.Errorf("pixel (2,2) = %x, want white", r)
	}
	if r, _, _, _ := img.At(3, 2).RGBA(); r != 0 {
		t.Errorf("pixel (3,2) = %x, want black", r)
	}
}

func TestEncode_Smooth(t *testing.T) {
	c := New("", "x", 4)
	c.SetSmooth(true)

	img := c.Encode(checker())
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("size = %v, want 8x8", b)
	}

	// Bilinear scaling produces intermediate grays somewhere.
	mid := false
	for y := range 8 {
		for x := range 8 {
			if r, _, _, _ := img.At(x, y).RGBA(); r != 0 && r != 0xffff {
				mid = true
			}
		}
	}
	if !mid {
		t.Error("expected intermediate values from bilinear scaling")
	}
}

func TestNew_ClampsScale(t *testing.T) {
	if c := New("", "x", 0); c.scale != 1 {
		t.Errorf("scale = %d, want 1", c.scale)
	}
}
