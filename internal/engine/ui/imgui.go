// Package ui wraps the ImGui SDL backend used by the panel viewer.
package ui

import (
	"fmt"
	"image"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// latinGlyphRanges covers the degree sign and the rest of Latin-1.
// Format: pairs of [start, end] values terminated by 0.
var latinGlyphRanges = []imgui.Wchar{
	0x0020, 0x00FF, // Basic Latin + Latin Supplement
	0,              // Terminator
}

// fontPaths are tried in order; ImGui's built-in font is used if none exist.
var fontPaths = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",        // macOS
	"C:\\Windows\\Fonts\\segoeui.ttf",                     // Windows
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",     // Linux
	"/usr/share/fonts/TTF/DejaVuSans.ttf",                 // Linux alt
	"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf", // Linux alt
	"/usr/share/fonts/noto/NotoSans-Regular.ttf",          // Linux alt
}

// Backend owns the SDL window, the GL context and the ImGui frame loop.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the window. It must be called on the main thread.
func NewBackend(title string, width, height int32) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetAfterCreateContextHook(func() {
		b.loadFont()
	})

	b.backend.SetBgColor(imgui.NewVec4(0, 0, 0, 1.0))
	b.backend.CreateWindow(title, int(width), int(height))

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	return b, nil
}

func (b *Backend) loadFont() {
	var fontPath string
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			fontPath = path
			break
		}
	}
	if fontPath == "" {
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	imgui.CurrentIO().Fonts().AddFontFromFileTTFV(fontPath, 16.0, fontCfg, &latinGlyphRanges[0])
}

// Run calls renderFunc once per frame until the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// GetViewport returns the main viewport work area.
func (b *Backend) GetViewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// Texture is a GL texture refreshed from RGBA images of a fixed size.
type Texture struct {
	id     uint32
	width  int
	height int
}

// Upload copies img into the texture, allocating it on first use or when
// the size changes.
func (t *Texture) Upload(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	defer gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	if t.id != 0 && t.width == w && t.height == h {
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h),
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		return
	}

	t.Delete()
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	t.width, t.height = w, h
}

// Ref returns the texture for imgui.Image calls, or nil before the first
// Upload.
func (t *Texture) Ref() *imgui.TextureRef {
	if t.id == 0 {
		return nil
	}
	return imgui.NewTextureRefTextureID(imgui.TextureID(t.id))
}

// Delete releases the GL texture.
func (t *Texture) Delete() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// IsKeyPressed checks if a key was pressed this frame. With repeat set, held
// keys also report at the ImGui repeat rate.
func IsKeyPressed(key imgui.Key, repeat bool) bool {
	if repeat {
		return imgui.IsKeyPressedBoolV(key, true)
	}
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}
