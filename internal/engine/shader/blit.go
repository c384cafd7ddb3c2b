package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// The triangle covers the viewport; vertex positions come from gl_VertexID
// so no vertex buffer is needed. Row 0 of the frame is the top of the screen.
const blitVertex = `#version 410 core
out vec2 uv;
void main() {
	vec2 p = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
	uv = vec2(p.x, 1.0 - p.y);
	gl_Position = vec4(p * 2.0 - 1.0, 0.0, 1.0);
}
`

const blitFragment = `#version 410 core
in vec2 uv;
out vec4 color;
uniform sampler2D frame;
void main() {
	color = texture(frame, uv);
}
`

// Blitter uploads RGBA frames into a texture and draws them.
type Blitter struct {
	program uint32
	vao     uint32
	texture uint32
	width   int32
	height  int32
}

// NewBlitter creates the program and a width x height texture. A GL context
// must be current and gl.Init must have succeeded.
func NewBlitter(width, height int) (*Blitter, error) {
	program, err := CompileProgram(blitVertex, blitFragment)
	if err != nil {
		return nil, fmt.Errorf("blit program: %w", err)
	}
	b := &Blitter{program: program}

	gl.GenVertexArrays(1, &b.vao)
	gl.GenTextures(1, &b.texture)
	gl.BindTexture(gl.TEXTURE_2D, b.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	b.Resize(width, height)

	gl.UseProgram(program)
	gl.Uniform1i(Uniform(program, "frame"), 0)
	return b, nil
}

// Resize reallocates the texture storage.
func (b *Blitter) Resize(width, height int) {
	b.width, b.height = int32(width), int32(height)
	gl.BindTexture(gl.TEXTURE_2D, b.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, b.width, b.height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
}

// Draw uploads pix (rows of stride bytes) and fills a viewW x viewH viewport.
func (b *Blitter) Draw(pix []byte, stride, viewW, viewH int) {
	if len(pix) == 0 {
		return
	}
	gl.Viewport(0, 0, int32(viewW), int32(viewH))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(stride/4))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, b.width, b.height,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	gl.UseProgram(b.program)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

// Delete releases the GL objects.
func (b *Blitter) Delete() {
	gl.DeleteTextures(1, &b.texture)
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteProgram(b.program)
}
