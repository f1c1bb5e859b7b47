// Package shuffle implements the seeded permutation used to order the
// study queue. The generator is part of the persisted contract: a stored
// seed must reproduce the same order on every platform.
package shuffle

const mulberryIncrement uint32 = 0x6D2B79F5

// Mulberry32 is a 32-bit mixing generator with a single word of state
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 creates a generator from seed
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 returns the next value in the sequence
func (m *Mulberry32) Uint32() uint32 {
	m.state += mulberryIncrement
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Intn returns a value in [0, n): floor(Uint32()/2^32 * n), computed in
// integer arithmetic so no rounding can creep in.
func (m *Mulberry32) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int((uint64(m.Uint32()) * uint64(n)) >> 32)
}

// Shuffle permutes s in place with a backward Fisher-Yates pass driven
// by a Mulberry32 generator seeded with seed
func Shuffle[T any](s []T, seed uint32) {
	rng := NewMulberry32(seed)
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Permutation returns a shuffled copy of s, leaving s untouched
func Permutation[T any](s []T, seed uint32) []T {
	out := make([]T, len(s))
	copy(out, s)
	Shuffle(out, seed)
	return out
}

// SeedFromInt truncates an arbitrary integer to the 32-bit seed width
func SeedFromInt(n int64) uint32 {
	return uint32(n)
}
