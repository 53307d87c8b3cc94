package particle

import "math/rand"

// RandomSource yields uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type RandomSource interface {
	Float32() float32
}

// NewRandomSource returns a seeded source owned by the caller.
func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// signed maps a [0, 1) draw onto [-1, 1).
func signed(rng RandomSource) float32 {
	return rng.Float32()*2 - 1
}
