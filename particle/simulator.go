package particle

import "github.com/go-gl/mathgl/mgl32"

// referenceFrame caps spawning at one 60 Hz frame's worth of particles so a
// long stall does not produce a burst.
const referenceFrame = 0.016

// floatsPerParticle is the width of one entry in each Frame array.
const floatsPerParticle = 4

// Frame is the compacted upload data of one tick: live particles only, in
// ascending slot order. Both arrays are sized to capacity once.
type Frame struct {
	positionSize []float32 // x, y, z, size
	color        []float32 // r, g, b, a
	count        int
}

func newFrame(capacity int) Frame {
	return Frame{
		positionSize: make([]float32, capacity*floatsPerParticle),
		color:        make([]float32, capacity*floatsPerParticle),
	}
}

// Count is the number of live particles written this tick.
func (f *Frame) Count() int { return f.count }

// PositionSize returns 4*Count floats. The slice aliases the frame buffer and
// is overwritten by the next Update.
func (f *Frame) PositionSize() []float32 {
	return f.positionSize[:f.count*floatsPerParticle]
}

// Color returns 4*Count floats, aliased like PositionSize.
func (f *Frame) Color() []float32 {
	return f.color[:f.count*floatsPerParticle]
}

// Stats are cumulative counters since the simulator was created.
type Stats struct {
	Spawned  int // particles written into a slot
	Recycled int // of those, written over a live particle in slot 0
	Dropped  int // spawns skipped under DropSpawn
	Died     int // particles whose life crossed below zero
}

// Simulator runs spawn, integration and compaction over a Store.
type Simulator struct {
	store  *Store
	params Params
	rng    RandomSource
	frame  Frame
	stats  Stats
}

func NewSimulator(store *Store, params Params, rng RandomSource) *Simulator {
	return &Simulator{
		store:  store,
		params: params,
		rng:    rng,
		frame:  newFrame(store.Capacity()),
	}
}

// SpawnCount is floor(dt*rate) clamped to floor(0.016*rate). Both products
// stay in float32; widening dt first would keep its representation error
// and lose a particle on frames like 9 ms at 1000/s.
func (s *Simulator) SpawnCount(dt float32) int {
	rate := s.params.SpawnRate
	limit := float32(referenceFrame) * rate
	want := dt * rate
	if want > limit {
		want = limit
	}
	return int(want)
}

// Spawn writes SpawnCount(dt) fresh particles into free slots and returns
// how many were written.
func (s *Simulator) Spawn(dt float32) int {
	n := s.SpawnCount(dt)
	written := 0
	for k := 0; k < n; k++ {
		i, free := s.store.FindFreeSlot()
		if !free {
			if s.params.Saturation == DropSpawn {
				s.stats.Dropped++
				continue
			}
			s.stats.Recycled++
		}
		s.store.particles[i] = s.newParticle()
		written++
	}
	s.stats.Spawned += written
	return written
}

func (s *Simulator) newParticle() Particle {
	p := s.params
	return Particle{
		Position:  p.Position,
		Direction: mgl32.Vec3{signed(s.rng), signed(s.rng), signed(s.rng)},
		Speed:     p.Speed,
		Size:      p.Size,
		Weight:    p.Weight,
		Color:     p.Color,
		Life:      p.Life,
	}
}

// Update ages and moves every live slot in index order and rebuilds the
// frame from scratch. It returns the live count.
func (s *Simulator) Update(dt float32, eye mgl32.Vec3) int {
	ps, col := s.frame.positionSize, s.frame.color
	count := 0
	for i := range s.store.particles {
		p := &s.store.particles[i]
		if p.Life < 0 {
			continue
		}
		p.Life -= dt
		if p.Life < 0 {
			p.DistanceFromCamera = -1
			s.stats.Died++
			continue
		}

		p.Position = p.Position.Add(p.Direction.Mul(p.Speed * dt))
		p.DistanceFromCamera = p.Position.Sub(eye).Len()

		base := count * floatsPerParticle
		ps[base+0] = p.Position[0]
		ps[base+1] = p.Position[1]
		ps[base+2] = p.Position[2]
		ps[base+3] = p.Size
		rgba := p.Color.RGBA()
		copy(col[base:base+floatsPerParticle], rgba[:])
		count++
	}
	s.frame.count = count
	return count
}

// Frame returns the compacted output of the last Update.
func (s *Simulator) Frame() *Frame { return &s.frame }

// Count is the live count of the last Update.
func (s *Simulator) Count() int { return s.frame.count }

func (s *Simulator) Stats() Stats { return s.stats }
