// Package session holds the study session controller: one deck, one
// persisted StudyState and the queue derived from them.
package session

import (
	"context"
	"log"
	"math"

	"github.com/example/verbtrainer/internal/queue"
	"github.com/example/verbtrainer/pkg/models"
)

// Saver persists the study state. Save failures never stop a session.
type Saver interface {
	Save(ctx context.Context, st models.StudyState) error
}

// Option configures a Session
type Option func(*Session)

// WithSeedSource overrides where fresh seeds come from
func WithSeedSource(src queue.SeedSource) Option {
	return func(s *Session) {
		s.newSeed = src
	}
}

// WithName labels log lines of this session
func WithName(name string) Option {
	return func(s *Session) {
		s.name = name
	}
}

// Session is the single owner of a deck's study state. It is not safe
// for concurrent use.
type Session struct {
	name    string
	deck    *queue.Deck
	state   models.StudyState
	queue   *queue.Queue
	flipped bool
	saver   Saver
	newSeed queue.SeedSource
	saveErr error
}

// New creates a session and builds the initial queue. A state without a
// seed gets a fresh one, which is saved right away.
func New(ctx context.Context, deck *queue.Deck, st models.StudyState, saver Saver, opts ...Option) *Session {
	s := &Session{
		name:    "session",
		deck:    deck,
		state:   st.Clone(),
		saver:   saver,
		newSeed: queue.RandomSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rebuild(ctx)
	return s
}

// rebuild recomputes the queue from deck, weights and seed and puts the
// cursor on the first slot
func (s *Session) rebuild(ctx context.Context) {
	hadSeed := s.state.OrderSeed != nil
	order, seed := queue.BuildOrder(s.deck, s.state.Weights, s.state.OrderSeed, s.newSeed)
	s.state.SetSeed(seed)
	if !hadSeed {
		s.save(ctx)
	}
	s.queue = queue.New(order)
	s.flipped = false
}

// save writes the state through the saver. The error is kept for
// inspection and otherwise ignored.
func (s *Session) save(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	err := s.saver.Save(ctx, s.state.Clone())
	if err != nil {
		log.Printf("%s: failed to save study state: %v", s.name, err)
	}
	s.saveErr = err
	return err
}

// SaveErr returns the result of the most recent save
func (s *Session) SaveErr() error {
	return s.saveErr
}

// State returns a copy of the current study state
func (s *Session) State() models.StudyState {
	return s.state.Clone()
}

// Deck returns the session deck
func (s *Session) Deck() *queue.Deck {
	return s.deck
}

// Order returns the current traversal order
func (s *Session) Order() []int {
	return s.queue.Order()
}

// Cursor returns the queue position (0-based)
func (s *Session) Cursor() int {
	return s.queue.Cursor()
}

// Empty reports whether there is no current card
func (s *Session) Empty() bool {
	return s.queue.Empty()
}

// Current returns the verb under the cursor
func (s *Session) Current() (models.VerbEntry, bool) {
	idx, ok := s.queue.Current()
	if !ok {
		return models.VerbEntry{}, false
	}
	return s.deck.At(idx), true
}

// Weight returns the clamped weight of a word
func (s *Session) Weight(key string) int {
	return queue.WeightOf(s.state.Weights, key)
}

// Flip toggles between front and back of the current card
func (s *Session) Flip() {
	if s.queue.Empty() {
		return
	}
	s.flipped = !s.flipped
}

// Flipped reports whether the back face is showing
func (s *Session) Flipped() bool {
	return s.flipped
}

// Next moves to the following card, wrapping around
func (s *Session) Next() {
	if s.queue.Empty() {
		return
	}
	s.queue.Next()
	s.flipped = false
}

// Prev moves to the previous card, wrapping around
func (s *Session) Prev() {
	if s.queue.Empty() {
		return
	}
	s.queue.Prev()
	s.flipped = false
}

// Shuffle reorders the queue with a new random seed
func (s *Session) Shuffle(ctx context.Context) {
	s.state.SetSeed(s.newSeed())
	s.save(ctx)
	s.rebuild(ctx)
}

// Reset clears all weights and the seed, then rebuilds with a fresh seed
func (s *Session) Reset(ctx context.Context) {
	s.state = models.NewStudyState()
	s.save(ctx)
	s.rebuild(ctx)
}

// MarkKnown lowers the weight of the current word and advances. The
// queue is not rebuilt: the lower weight only shows in later orders.
func (s *Session) MarkKnown(ctx context.Context) {
	v, ok := s.Current()
	if !ok {
		return
	}
	queue.Adjust(s.state.Weights, v.Key(), -1)
	s.save(ctx)
	s.Next()
}

// MarkAgain raises the weight of the current word and rebuilds the queue
// so the extra repetitions show up immediately. The cursor lands on the
// first slot of the same word.
func (s *Session) MarkAgain(ctx context.Context) {
	v, ok := s.Current()
	if !ok {
		return
	}
	queue.Adjust(s.state.Weights, v.Key(), +1)
	s.save(ctx)
	s.rebuild(ctx)
	if idx, ok := s.deck.IndexOf(v.Key()); ok {
		s.queue.Seek(idx)
	}
}

// Card is a render-ready view of the current card
type Card struct {
	Infinitive     string
	Translation    string
	Preterite      string
	PastParticiple string
	Flipped        bool
	Position       int // 1-based
	Total          int
	Percent        int
	Weight         int
}

// Card returns the view of the current card, false on an empty queue
func (s *Session) Card() (Card, bool) {
	v, ok := s.Current()
	if !ok {
		return Card{}, false
	}
	pos := s.queue.Cursor() + 1
	total := s.queue.Len()
	return Card{
		Infinitive:     v.Infinitive,
		Translation:    v.Translation,
		Preterite:      v.Preterite,
		PastParticiple: v.PastParticiple,
		Flipped:        s.flipped,
		Position:       pos,
		Total:          total,
		Percent:        int(math.Round(float64(pos) / float64(total) * 100)),
		Weight:         s.Weight(v.Key()),
	}, true
}

// Stats summarizes the weight distribution of the deck
type Stats struct {
	Words       int
	QueueLength int
	Seed        uint32
	ByWeight    map[int]int // weight -> number of words
}

// Stats returns a summary of the session
func (s *Session) Stats() Stats {
	st := Stats{
		Words:       s.deck.Len(),
		QueueLength: s.queue.Len(),
		ByWeight:    make(map[int]int),
	}
	if s.state.OrderSeed != nil {
		st.Seed = *s.state.OrderSeed
	}
	for i := 0; i < s.deck.Len(); i++ {
		st.ByWeight[s.Weight(s.deck.At(i).Key())]++
	}
	return st
}
