package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ── Particle shaders ─────────────────────────────────────────────────────────

// Instanced billboard: location 0 steps per vertex (quad corner), locations
// 1 and 2 step per instance (centre+size, colour). The quad is expanded along
// the camera's right/up axes so it always faces the viewer.
const particleVertSrc = `
#version 410 core
layout(location = 0) in vec3 inCorner;
layout(location = 1) in vec4 inPosSize;
layout(location = 2) in vec4 inColor;

uniform mat4 vp;
uniform vec3 camRight;
uniform vec3 camUp;

out vec2 fragUV;
out vec4 fragColor;

void main() {
    vec3 world = inPosSize.xyz
               + camRight * inCorner.x * inPosSize.w
               + camUp    * inCorner.y * inPosSize.w;
    gl_Position = vp * vec4(world, 1.0);
    fragUV      = inCorner.xy + vec2(0.5);
    fragColor   = inColor;
}
` + "\x00"

// Procedural soft circle; alpha rolls off quadratically towards the edge.
const particleFragSrc = `
#version 410 core
in vec2 fragUV;
in vec4 fragColor;

out vec4 outColor;

void main() {
    float d = length(fragUV - vec2(0.5)) * 2.0;
    outColor = vec4(fragColor.rgb, fragColor.a * clamp(1.0 - d * d, 0.0, 1.0));
}
` + "\x00"

// quadStrip is the unit quad template, 4 corners in triangle-strip order.
var quadStrip = [12]float32{
	-0.5, -0.5, 0,
	0.5, -0.5, 0,
	-0.5, 0.5, 0,
	0.5, 0.5, 0,
}

// ── ParticleBackend ──────────────────────────────────────────────────────────

// ParticleBackend owns the GL program, VAO and the three buffers used to draw
// one emitter. It implements renderer.Backend.
type ParticleBackend struct {
	prog        uint32
	vao         uint32
	quadVBO     uint32
	posSizeVBO  uint32
	colorVBO    uint32
	vpLoc       int32
	camRightLoc int32
	camUpLoc    int32

	capacity int // instances; both instance buffers are sized to this once

	vp       mgl32.Mat4
	camRight mgl32.Vec3
	camUp    mgl32.Vec3
}

// NewParticleBackend compiles the particle program and allocates instance
// buffers for capacity particles. Requires a current GL context.
func NewParticleBackend(capacity int) (*ParticleBackend, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("particle backend: capacity %d", capacity)
	}
	prog, err := newProgram(particleVertSrc, particleFragSrc)
	if err != nil {
		return nil, fmt.Errorf("particle shader: %w", err)
	}

	b := &ParticleBackend{
		prog:        prog,
		vpLoc:       gl.GetUniformLocation(prog, gl.Str("vp\x00")),
		camRightLoc: gl.GetUniformLocation(prog, gl.Str("camRight\x00")),
		camUpLoc:    gl.GetUniformLocation(prog, gl.Str("camUp\x00")),
		capacity:    capacity,
		vp:          mgl32.Ident4(),
		camRight:    mgl32.Vec3{1, 0, 0},
		camUp:       mgl32.Vec3{0, 1, 0},
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.quadVBO)
	gl.GenBuffers(1, &b.posSizeVBO)
	gl.GenBuffers(1, &b.colorVBO)

	gl.BindVertexArray(b.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, b.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadStrip)*4, gl.Ptr(&quadStrip[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.VertexAttribDivisor(0, 0)

	instanceBytes := capacity * 4 * 4 // 4 float32 per particle
	gl.BindBuffer(gl.ARRAY_BUFFER, b.posSizeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, instanceBytes, nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.VertexAttribDivisor(1, 1)

	gl.BindBuffer(gl.ARRAY_BUFFER, b.colorVBO)
	gl.BufferData(gl.ARRAY_BUFFER, instanceBytes, nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.VertexAttribDivisor(2, 1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		b.Destroy()
		return nil, fmt.Errorf("particle buffers: gl error 0x%x", e)
	}
	return b, nil
}

// SetCamera stores the view-projection and the billboard axes for the next
// draw. Camera right and up are rows 0 and 1 of the view matrix
// (mgl32 is column-major: element (r, c) lives at index c*4+r).
func (b *ParticleBackend) SetCamera(view, proj mgl32.Mat4) {
	b.vp = proj.Mul4(view)
	b.camRight = mgl32.Vec3{view[0], view[4], view[8]}
	b.camUp = mgl32.Vec3{view[1], view[5], view[9]}
}

// UploadPositionSize orphans the position/size buffer and writes data into it.
func (b *ParticleBackend) UploadPositionSize(data []float32) {
	b.stream(b.posSizeVBO, data)
}

// UploadColor orphans the colour buffer and writes data into it.
func (b *ParticleBackend) UploadColor(data []float32) {
	b.stream(b.colorVBO, data)
}

func (b *ParticleBackend) stream(vbo uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	// Re-specifying the store with nil lets the driver hand back fresh memory
	// instead of stalling on last frame's draw.
	gl.BufferData(gl.ARRAY_BUFFER, b.capacity*4*4, nil, gl.STREAM_DRAW)
	if n := len(data); n > 0 {
		if n > b.capacity*4 {
			n = b.capacity * 4
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*4, gl.Ptr(&data[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// SetBlend toggles standard (non-premultiplied) alpha blending.
func (b *ParticleBackend) SetBlend(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		return
	}
	gl.Disable(gl.BLEND)
}

// SetDepthWrite toggles depth writes; the depth test itself stays on so
// particles are still hidden behind opaque geometry.
func (b *ParticleBackend) SetDepthWrite(enabled bool) {
	gl.DepthMask(enabled)
}

// DrawInstances issues one instanced triangle-strip draw of the quad.
func (b *ParticleBackend) DrawInstances(count int) error {
	if count > b.capacity {
		count = b.capacity
	}
	gl.UseProgram(b.prog)
	gl.UniformMatrix4fv(b.vpLoc, 1, false, &b.vp[0])
	gl.Uniform3f(b.camRightLoc, b.camRight[0], b.camRight[1], b.camRight[2])
	gl.Uniform3f(b.camUpLoc, b.camUp[0], b.camUp[1], b.camUp[2])

	gl.BindVertexArray(b.vao)
	gl.DrawArraysInstanced(gl.TRIANGLE_STRIP, 0, 4, int32(count))
	gl.BindVertexArray(0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", e)
	}
	return nil
}

// Destroy releases the program, VAO and buffers.
func (b *ParticleBackend) Destroy() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.quadVBO)
	gl.DeleteBuffers(1, &b.posSizeVBO)
	gl.DeleteBuffers(1, &b.colorVBO)
	gl.DeleteProgram(b.prog)
}
