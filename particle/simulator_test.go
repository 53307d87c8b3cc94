package particle

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"particle-engine/core"
)

// scriptedRand replays vals in order, cycling when exhausted.
type scriptedRand struct {
	vals []float32
	next int
}

func (r *scriptedRand) Float32() float32 {
	v := r.vals[r.next%len(r.vals)]
	r.next++
	return v
}

func testParams(capacity int, rate float32) Params {
	p := DefaultParams()
	p.MaxParticles = capacity
	p.SpawnRate = rate
	p.Life = 1.0
	p.Speed = 1.0
	p.Size = 0.25
	return p
}

func newTestSimulator(t *testing.T, p Params) (*Store, *Simulator) {
	t.Helper()
	store, err := NewStore(p.MaxParticles)
	require.NoError(t, err)
	return store, NewSimulator(store, p, NewRandomSource(1))
}

func TestSpawnCountClamp(t *testing.T) {
	_, sim := newTestSimulator(t, testParams(4, 1000))

	assert.Equal(t, 16, sim.SpawnCount(0.016))
	assert.Equal(t, 16, sim.SpawnCount(1.0), "long frames are clamped")
	assert.Equal(t, 16, sim.SpawnCount(30.0))
	assert.Equal(t, 8, sim.SpawnCount(0.008))
	assert.Equal(t, 9, sim.SpawnCount(0.009), "9 ms frame yields 9, not 8")
	assert.Equal(t, 11, sim.SpawnCount(0.011))
	assert.Equal(t, 1, sim.SpawnCount(0.001))
	assert.Equal(t, 0, sim.SpawnCount(0))
}

func TestSpawnCountNeverExceedsReferenceFrame(t *testing.T) {
	for _, rate := range []float32{0, 10, 62.5, 100, 333, 1000, 4096} {
		_, sim := newTestSimulator(t, testParams(8, rate))
		limit := int(math.Floor(0.016 * float64(rate)))
		for _, dt := range []float32{0.001, 0.01, 0.016, 0.017, 0.1, 0.5, 2, 100} {
			assert.LessOrEqual(t, sim.SpawnCount(dt), limit, "rate=%v dt=%v", rate, dt)
		}
	}
}

func TestSpawnCappedByCapacity(t *testing.T) {
	_, sim := newTestSimulator(t, testParams(4, 1000))

	written := sim.Spawn(0.016)
	assert.Equal(t, 16, written, "4 into free slots, 12 recycled into slot 0")
	assert.Equal(t, 12, sim.Stats().Recycled)

	sim.Update(0.016, mgl32.Vec3{})
	assert.Equal(t, 4, sim.Count())
}

func TestSpawnDropPolicy(t *testing.T) {
	p := testParams(4, 1000)
	p.Saturation = DropSpawn
	_, sim := newTestSimulator(t, p)

	assert.Equal(t, 4, sim.Spawn(0.016))
	st := sim.Stats()
	assert.Equal(t, 4, st.Spawned)
	assert.Equal(t, 12, st.Dropped)
	assert.Zero(t, st.Recycled)

	sim.Update(0.016, mgl32.Vec3{})
	assert.Equal(t, 4, sim.Count())
}

func TestSpawnInitialisesParticle(t *testing.T) {
	p := testParams(2, 100)
	p.Position = mgl32.Vec3{1, 2, 3}
	p.Weight = 0.5
	store, err := NewStore(p.MaxParticles)
	require.NoError(t, err)
	rng := &scriptedRand{vals: []float32{0, 0.5, 0.75}}
	sim := NewSimulator(store, p, rng)

	require.Equal(t, 1, sim.Spawn(0.016))
	got := *store.At(0)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, got.Position)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0.5}, got.Direction, "each axis drawn from [-1, 1] independently")
	assert.Equal(t, p.Life, got.Life)
	assert.Equal(t, p.Speed, got.Speed)
	assert.Equal(t, p.Size, got.Size)
	assert.Equal(t, p.Weight, got.Weight)
	assert.Equal(t, p.Color, got.Color)
}

func TestDirectionIsNotNormalised(t *testing.T) {
	p := testParams(1, 100)
	store, err := NewStore(1)
	require.NoError(t, err)
	sim := NewSimulator(store, p, &scriptedRand{vals: []float32{0.99, 0.99, 0.99}})

	sim.Spawn(0.016)
	dir := store.At(0).Direction
	assert.InDelta(t, math.Sqrt(3)*0.98, dir.Len(), 1e-4)
}

func TestParticleLifeScenario(t *testing.T) {
	store, sim := newTestSimulator(t, testParams(1, 100))

	require.Equal(t, 1, sim.Spawn(0.4))
	assert.Equal(t, 1, sim.Update(0.4, mgl32.Vec3{}))
	assert.InDelta(t, 0.6, store.At(0).Life, 1e-6)

	assert.Equal(t, 1, sim.Update(0.4, mgl32.Vec3{}))
	assert.InDelta(t, 0.2, store.At(0).Life, 1e-6)

	assert.Equal(t, 0, sim.Update(0.4, mgl32.Vec3{}))
	assert.InDelta(t, -0.2, store.At(0).Life, 1e-6)
	assert.False(t, store.At(0).Alive())
	assert.Equal(t, float32(-1), store.At(0).DistanceFromCamera)
	assert.Empty(t, sim.Frame().PositionSize())
	assert.Empty(t, sim.Frame().Color())
	assert.Equal(t, 1, sim.Stats().Died)
}

func TestUpdateIntegratesAndMeasuresDistance(t *testing.T) {
	store, sim := newTestSimulator(t, testParams(2, 0))
	p := store.At(1)
	*p = Particle{
		Position:  mgl32.Vec3{0, 0, 0},
		Direction: mgl32.Vec3{1, 0, 0},
		Speed:     2,
		Size:      0.5,
		Life:      5,
	}

	sim.Update(0.5, mgl32.Vec3{1, 0, 10})
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, p.Position)
	assert.InDelta(t, 10, p.DistanceFromCamera, 1e-6)
	assert.Equal(t, []float32{1, 0, 0, 0.5}, sim.Frame().PositionSize())
}

func TestCompactionFollowsSlotOrder(t *testing.T) {
	store, sim := newTestSimulator(t, testParams(5, 0))
	// Alive in slots 4, 1, 3 (set in that order); 0 and 2 dead.
	for _, slot := range []int{4, 1, 3} {
		*store.At(slot) = Particle{
			Size:  float32(slot),
			Life:  1,
			Color: colorFor(slot),
		}
	}

	n := sim.Update(0.1, mgl32.Vec3{0, 0, 100})
	require.Equal(t, 3, n)

	ps := sim.Frame().PositionSize()
	col := sim.Frame().Color()
	require.Len(t, ps, 12)
	require.Len(t, col, 12)
	for k, slot := range []int{1, 3, 4} {
		assert.Equal(t, float32(slot), ps[k*4+3], "entry %d", k)
		assert.Equal(t, colorFor(slot).R, col[k*4], "entry %d", k)
	}
}

func TestSlotReuseAfterDeath(t *testing.T) {
	store, sim := newTestSimulator(t, testParams(4, 100))
	for i := 0; i < 4; i++ {
		require.Equal(t, 1, sim.Spawn(0.016))
	}
	require.Equal(t, 3, store.Cursor())

	store.At(2).Size = 99
	store.Kill(2)

	require.Equal(t, 1, sim.Spawn(0.016))
	assert.True(t, store.At(2).Alive())
	assert.Equal(t, float32(0.25), store.At(2).Size, "freed slot holds the new particle")
	assert.Zero(t, sim.Stats().Recycled)
}

func TestSaturatedSpawnOverwritesSlotZero(t *testing.T) {
	store, sim := newTestSimulator(t, testParams(4, 100))
	for i := 0; i < 4; i++ {
		sim.Spawn(0.016)
	}
	store.At(0).Life = 42
	store.At(0).Size = 7

	require.Equal(t, 1, sim.Spawn(0.016))
	assert.Equal(t, float32(1.0), store.At(0).Life, "slot 0 occupant replaced")
	assert.Equal(t, float32(0.25), store.At(0).Size)
	assert.Equal(t, 1, sim.Stats().Recycled)

	sim.Update(0.016, mgl32.Vec3{})
	assert.Equal(t, 4, sim.Count())
}

func TestLiveInvariantsHoldEveryTick(t *testing.T) {
	p := testParams(32, 900)
	p.Life = 0.3
	store, sim := newTestSimulator(t, p)
	eye := mgl32.Vec3{0, 1, 5}

	dts := []float32{0.016, 0.033, 0.005, 0.25, 0.016, 0.1, 0.016, 0.04}
	for tick := 0; tick < 200; tick++ {
		dt := dts[tick%len(dts)]
		if tick < 120 {
			sim.Spawn(dt)
		}
		n := sim.Update(dt, eye)

		require.LessOrEqual(t, n, store.Capacity())
		alive := 0
		for i, q := range store.Particles() {
			if q.Life < 0 {
				require.Equal(t, float32(-1), q.DistanceFromCamera, "tick %d slot %d", tick, i)
				continue
			}
			require.NotEqual(t, float32(-1), q.DistanceFromCamera, "tick %d slot %d", tick, i)
			alive++
		}
		require.Equal(t, alive, n, "tick %d", tick)
		require.Len(t, sim.Frame().PositionSize(), 4*n)
	}
	assert.Equal(t, 0, sim.Count(), "everything dies once spawning stops")
}

func colorFor(slot int) core.Color {
	return core.Color{R: float32(slot) / 10, A: 1}
}
