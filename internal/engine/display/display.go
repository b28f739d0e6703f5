// Package display presents rendered relief frames in the GL window.
package display

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-relief/internal/engine/renderer"
	"github.com/Faultbox/midgard-relief/internal/engine/shader"
)

// Fullscreen triangle; the frame is letterboxed by scaling clip space.
const vertexShader = `#version 410 core
uniform vec2 uScale;
out vec2 vUV;
void main() {
	vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
	vUV = pos;
	gl_Position = vec4((pos * 2.0 - 1.0) * uScale, 0.0, 1.0);
}
`

// Row 0 of the frame is the top of the window.
const fragmentShader = `#version 410 core
uniform sampler2D uFrame;
in vec2 vUV;
out vec4 fragColor;
void main() {
	if (vUV.x > 1.0 || vUV.y > 1.0) {
		discard;
	}
	float v = texture(uFrame, vec2(vUV.x, 1.0 - vUV.y)).r;
	fragColor = vec4(v, v, v, 1.0);
}
`

// Presenter uploads frames into a single-channel texture and draws them
// scaled to fit the window.
type Presenter struct {
	program *shader.Program
	vao     uint32
	texture uint32
	width   int32
	height  int32
	pixels  []uint8
}

// New creates a presenter for frames of the given size. A GL context must be current.
func New(width, height int) (*Presenter, error) {
	program, err := shader.New(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compiling presenter shader: %w", err)
	}

	p := &Presenter{
		program: program,
		width:   int32(width),
		height:  int32(height),
		pixels:  make([]uint8, width*height),
	}

	// Core profile needs a bound VAO even without vertex attributes.
	gl.GenVertexArrays(1, &p.vao)

	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, p.width, p.height, 0, gl.RED, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return p, nil
}

// Upload copies img into the texture. img must match the presenter size.
func (p *Presenter) Upload(img *renderer.Image) error {
	if int32(img.Width) != p.width || int32(img.Height) != p.height {
		return fmt.Errorf("frame %dx%d does not match presenter %dx%d", img.Width, img.Height, p.width, p.height)
	}
	Quantize(p.pixels, img)

	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, p.width, p.height, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(p.pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// Draw clears the viewport and draws the last uploaded frame, preserving
// its aspect ratio inside a viewport of the given drawable size.
func (p *Presenter) Draw(viewportW, viewportH int) {
	gl.Viewport(0, 0, int32(viewportW), int32(viewportH))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	sx, sy := Letterbox(int(p.width), int(p.height), viewportW, viewportH)

	p.program.Use()
	gl.Uniform2f(p.program.Uniform("uScale"), sx, sy)
	gl.Uniform1i(p.program.Uniform("uFrame"), 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Close releases GL resources.
func (p *Presenter) Close() {
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
		p.texture = 0
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	p.program.Delete()
}
