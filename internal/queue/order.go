package queue

import (
	"math/rand"

	"github.com/example/verbtrainer/internal/shuffle"
)

// maxRandomSeed bounds generated seeds so they stay readable in the
// persisted state
const maxRandomSeed = 1_000_000_000

// SeedSource produces a fresh seed when none is stored
type SeedSource func() uint32

// RandomSeed draws a non-deterministic seed in [0, 1e9)
func RandomSeed() uint32 {
	return uint32(rand.Int63n(maxRandomSeed))
}

// BuildOrder expands every deck entry by its weight, in deck order, and
// permutes the expansion with the seed. A nil seed is resolved through
// newSeed; the seed actually used is returned so the caller can persist
// it.
func BuildOrder(deck *Deck, weights map[string]int, seed *uint32, newSeed SeedSource) ([]int, uint32) {
	var resolved uint32
	switch {
	case seed != nil:
		resolved = *seed
	case newSeed != nil:
		resolved = newSeed()
	default:
		resolved = RandomSeed()
	}

	expanded := make([]string, 0, TotalWeight(deck, weights))
	for i := 0; i < deck.Len(); i++ {
		key := deck.At(i).Key()
		for n := WeightOf(weights, key); n > 0; n-- {
			expanded = append(expanded, key)
		}
	}

	shuffle.Shuffle(expanded, resolved)

	order := make([]int, 0, len(expanded))
	for _, key := range expanded {
		if idx, ok := deck.IndexOf(key); ok {
			order = append(order, idx)
		}
	}
	return order, resolved
}
