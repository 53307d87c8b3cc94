package renderer

import (
	"fmt"

	"particle-engine/particle"
)

// Backend is the GPU side of particle rendering. The OpenGL implementation
// lives in internal/opengl; tests use a recording fake.
//
// Uploads replace the whole buffer contents. DrawInstances draws a 4-vertex
// triangle-strip quad once per instance, reading one position+size and one
// colour quadruple per instance.
type Backend interface {
	UploadPositionSize(data []float32)
	UploadColor(data []float32)
	SetBlend(enabled bool)
	SetDepthWrite(enabled bool)
	DrawInstances(count int) error
}

// ParticleRenderer pushes a compacted particle frame to a Backend and issues
// the instanced draw with alpha blending on and depth writes off.
type ParticleRenderer struct {
	backend Backend

	// Per-frame stats (populated during Render)
	lastInstances int
	drawCalls     int
}

func NewParticleRenderer(backend Backend) *ParticleRenderer {
	return &ParticleRenderer{backend: backend}
}

// Render uploads both arrays in full, even when empty, then draws. Blend
// and depth-write state are restored on every path, including the
// zero-particle path where no draw is issued.
func (r *ParticleRenderer) Render(frame *particle.Frame) (err error) {
	n := frame.Count()
	r.backend.UploadPositionSize(frame.PositionSize())
	r.backend.UploadColor(frame.Color())

	r.backend.SetBlend(true)
	r.backend.SetDepthWrite(false)
	defer func() {
		r.backend.SetDepthWrite(true)
		r.backend.SetBlend(false)
	}()

	r.lastInstances = n
	if n == 0 {
		return nil
	}
	if err := r.backend.DrawInstances(n); err != nil {
		return fmt.Errorf("draw %d particles: %w", n, err)
	}
	r.drawCalls++
	return nil
}

// DrawStats returns the instance count of the last Render and the total
// number of draw calls issued.
func (r *ParticleRenderer) DrawStats() (instances, drawCalls int) {
	return r.lastInstances, r.drawCalls
}
