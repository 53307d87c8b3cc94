package particle

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"particle-engine/core"
)

// Renderer consumes a compacted frame. renderer.ParticleRenderer is the GPU
// implementation; a nil Renderer makes Render a no-op for headless use.
type Renderer interface {
	Render(frame *Frame) error
}

// Emitter ties the store, simulator and lifecycle together behind the
// per-frame contract: Update then Render, every frame.
type Emitter struct {
	id       uuid.UUID
	params   Params
	store    *Store
	sim      *Simulator
	life     *Lifecycle
	renderer Renderer
	log      core.Logger

	elapsed float32 // seconds since the last Activate
	updated bool
}

// NewEmitter allocates all storage for params.MaxParticles up front. The
// emitter starts Inactive.
func NewEmitter(params Params, rng RandomSource, r Renderer, logger core.Logger) (*Emitter, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidParams)
	}
	if logger == nil {
		logger = core.NewNopLogger()
	}
	store, err := NewStore(params.MaxParticles)
	if err != nil {
		return nil, err
	}
	return &Emitter{
		id:       uuid.New(),
		params:   params,
		store:    store,
		sim:      NewSimulator(store, params, rng),
		life:     NewLifecycle(params.LifeTime),
		renderer: r,
		log:      logger,
	}, nil
}

func (e *Emitter) ID() uuid.UUID { return e.id }

func (e *Emitter) Params() Params { return e.params }

// Update spawns (if active), advances every particle by dt and rebuilds the
// upload frame.
func (e *Emitter) Update(dt float32, eye mgl32.Vec3) {
	if e.life.IsActive() {
		before := e.sim.Stats()
		e.sim.Spawn(dt)
		after := e.sim.Stats()
		if n := after.Recycled - before.Recycled; n > 0 {
			e.log.Debugf("[Particles] %s saturated: %d spawns overwrote slot 0", e.id, n)
		}
		if n := after.Dropped - before.Dropped; n > 0 {
			e.log.Debugf("[Particles] %s saturated: dropped %d spawns", e.id, n)
		}
	}
	e.elapsed += dt

	live := e.sim.Update(dt, eye)
	if e.life.settle(live) {
		e.log.Debugf("[Particles] %s drained -> %s", e.id, e.life.State())
	}
	e.updated = true
}

// Render hands the last frame to the renderer.
func (e *Emitter) Render() error {
	if !e.updated {
		return ErrNotUpdated
	}
	if e.renderer == nil {
		return nil
	}
	if err := e.renderer.Render(e.sim.Frame()); err != nil {
		return fmt.Errorf("emitter %s: %w", e.id, err)
	}
	return nil
}

// Activate enables spawning and restarts the elapsed clock. Coming from
// Inactive the pool is reset, so a reused emitter starts from slot 0.
func (e *Emitter) Activate() {
	prev := e.life.State()
	if e.life.Activate() {
		if prev == Inactive {
			e.store.Reset()
		}
		e.elapsed = 0
		e.log.Debugf("[Particles] %s -> %s", e.id, e.life.State())
	}
}

// Deactivate stops spawning; live particles keep ageing until they die.
func (e *Emitter) Deactivate() {
	if e.life.Deactivate() {
		e.log.Debugf("[Particles] %s -> %s (%d alive)", e.id, e.life.State(), e.sim.Count())
	}
}

func (e *Emitter) IsActive() bool { return e.life.IsActive() }

func (e *Emitter) State() State { return e.life.State() }

// ShouldBeDeactivated is a pure query; see Lifecycle.ShouldBeDeactivated.
func (e *Emitter) ShouldBeDeactivated(timePassed float32) bool {
	return e.life.ShouldBeDeactivated(timePassed)
}

// Elapsed is the time accumulated by Update since the last Activate.
func (e *Emitter) Elapsed() float32 { return e.elapsed }

// ParticleCount is the live count as of the last Update.
func (e *Emitter) ParticleCount() int { return e.sim.Count() }

// Frame is the compacted output of the last Update.
func (e *Emitter) Frame() *Frame { return e.sim.Frame() }

// Particles is a read-only view of every slot in index order.
func (e *Emitter) Particles() []Particle { return e.store.Particles() }

func (e *Emitter) Stats() Stats { return e.sim.Stats() }

func (e *Emitter) Capacity() int { return e.store.Capacity() }
