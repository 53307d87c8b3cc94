// Package particle simulates a single fixed-capacity particle emitter on the
// host and packs its live particles into flat arrays for an instanced draw.
//
// A frame is one Emitter.Update followed by one Emitter.Render. All state is
// owned by the Emitter and must be driven from a single goroutine.
package particle

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"particle-engine/core"
)

var (
	ErrInvalidCapacity = errors.New("particle: capacity must be positive")
	ErrInvalidParams   = errors.New("particle: invalid emitter parameters")
	ErrNotUpdated      = errors.New("particle: Render called before Update")
)

// Particle is one slot of the pool. A slot is alive iff Life >= 0.
type Particle struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3 // per-axis uniform in [-1, 1], not normalised
	Speed     float32
	Size      float32
	Weight    float32
	Color     core.Color

	Life               float32 // remaining seconds; negative = free slot
	DistanceFromCamera float32 // -1 while dead
}

// Alive reports whether the slot currently holds a live particle.
func (p *Particle) Alive() bool { return p.Life >= 0 }

func (p *Particle) kill() {
	p.Life = -1
	p.DistanceFromCamera = -1
}

// Params is the immutable parameter set of one emitter activation.
type Params struct {
	MaxParticles int
	SpawnRate    float32 // particles per second

	// Initial state copied into every new particle.
	Life     float32
	Position mgl32.Vec3
	Speed    float32
	Size     float32
	Weight   float32
	Color    core.Color

	// LifeTime is the emitter's total spawning budget in seconds.
	LifeTime float32

	Saturation SaturationPolicy
}

// DefaultParams returns a small fountain emitter.
func DefaultParams() Params {
	return Params{
		MaxParticles: 1000,
		SpawnRate:    500,
		Life:         2.0,
		Position:     mgl32.Vec3{0, 0, 0},
		Speed:        1.5,
		Size:         0.1,
		Weight:       1.0,
		Color:        core.ColorFire,
		LifeTime:     10.0,
		Saturation:   OverwriteSlotZero,
	}
}

func (p Params) Validate() error {
	switch {
	case p.MaxParticles <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, p.MaxParticles)
	case p.SpawnRate < 0:
		return fmt.Errorf("%w: spawn rate %v < 0", ErrInvalidParams, p.SpawnRate)
	case p.Life < 0:
		return fmt.Errorf("%w: particle life %v < 0", ErrInvalidParams, p.Life)
	case p.LifeTime < 0:
		return fmt.Errorf("%w: emitter lifetime %v < 0", ErrInvalidParams, p.LifeTime)
	case p.Saturation != OverwriteSlotZero && p.Saturation != DropSpawn:
		return fmt.Errorf("%w: unknown saturation policy %d", ErrInvalidParams, p.Saturation)
	}
	return nil
}
