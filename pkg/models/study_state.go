package models

// StudyState is the only persisted entity: per-word repetition weights
// and the seed of the current queue order
type StudyState struct {
	Weights   map[string]int `json:"weights"`
	OrderSeed *uint32        `json:"orderSeed"` // nil until the first queue build
}

// NewStudyState returns an empty state with default weights and no seed
func NewStudyState() StudyState {
	return StudyState{Weights: make(map[string]int)}
}

// SetSeed stores a copy of seed as the order seed
func (s *StudyState) SetSeed(seed uint32) {
	s.OrderSeed = &seed
}

// Clone returns a deep copy of the state
func (s StudyState) Clone() StudyState {
	out := StudyState{Weights: make(map[string]int, len(s.Weights))}
	for k, w := range s.Weights {
		out.Weights[k] = w
	}
	if s.OrderSeed != nil {
		out.SetSeed(*s.OrderSeed)
	}
	return out
}
