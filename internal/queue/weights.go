package queue

const (
	// MinWeight keeps every word in rotation
	MinWeight = 1
	// MaxWeight caps how much a single word can dominate the queue
	MaxWeight = 6
	// DefaultWeight applies to words without a stored weight
	DefaultWeight = 1
)

// ClampWeight limits w to [MinWeight, MaxWeight]
func ClampWeight(w int) int {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}

// WeightOf returns the clamped weight of key, DefaultWeight when absent
func WeightOf(weights map[string]int, key string) int {
	w, ok := weights[key]
	if !ok {
		return DefaultWeight
	}
	return ClampWeight(w)
}

// TotalWeight is the sum of clamped weights over the deck, which is also
// the length of any order built from it
func TotalWeight(deck *Deck, weights map[string]int) int {
	total := 0
	for i := 0; i < deck.Len(); i++ {
		total += WeightOf(weights, deck.At(i).Key())
	}
	return total
}

// Adjust applies delta to the weight of key, stores the clamped result
// and returns it
func Adjust(weights map[string]int, key string, delta int) int {
	w := ClampWeight(WeightOf(weights, key) + delta)
	weights[key] = w
	return w
}
