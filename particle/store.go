package particle

import "fmt"

// SaturationPolicy decides what a spawn does when every slot is alive.
type SaturationPolicy int

const (
	// OverwriteSlotZero reuses slot 0 and discards whatever lived there.
	OverwriteSlotZero SaturationPolicy = iota
	// DropSpawn skips the spawn and leaves the pool untouched.
	DropSpawn
)

func (p SaturationPolicy) String() string {
	switch p {
	case OverwriteSlotZero:
		return "overwrite_slot_zero"
	case DropSpawn:
		return "drop_spawn"
	}
	return fmt.Sprintf("SaturationPolicy(%d)", int(p))
}

// Store is the fixed-size slot array plus the free-slot search cursor.
type Store struct {
	particles []Particle
	lastUsed  int
}

// NewStore allocates capacity dead slots. The capacity never changes.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	s := &Store{particles: make([]Particle, capacity)}
	s.Reset()
	return s, nil
}

func (s *Store) Capacity() int { return len(s.particles) }

// Cursor is the slot where the next free-slot search starts.
func (s *Store) Cursor() int { return s.lastUsed }

// At returns the slot at index i.
func (s *Store) At(i int) *Particle { return &s.particles[i] }

// FindFreeSlot scans from the cursor to the end, then from 0 up to the
// cursor, and returns the first dead slot. The cursor moves to the result.
//
// When every slot is alive it returns (0, false) and leaves the cursor
// alone. Callers applying OverwriteSlotZero then write into slot 0,
// dropping the live particle held there.
func (s *Store) FindFreeSlot() (int, bool) {
	for i := s.lastUsed; i < len(s.particles); i++ {
		if s.particles[i].Life < 0 {
			s.lastUsed = i
			return i, true
		}
	}
	for i := 0; i < s.lastUsed; i++ {
		if s.particles[i].Life < 0 {
			s.lastUsed = i
			return i, true
		}
	}
	return 0, false
}

// Kill frees slot i immediately.
func (s *Store) Kill(i int) {
	s.particles[i].kill()
}

// Reset frees every slot and rewinds the cursor.
func (s *Store) Reset() {
	for i := range s.particles {
		s.particles[i] = Particle{}
		s.particles[i].kill()
	}
	s.lastUsed = 0
}

// Particles exposes the slot array in index order. Do not retain it across
// frames or modify it.
func (s *Store) Particles() []Particle { return s.particles }
