// Package queue turns a deck and per-word weights into a reproducible
// study order.
package queue

import "github.com/example/verbtrainer/pkg/models"

// Deck is the immutable, index-addressable set of cards for a session
type Deck struct {
	entries []models.VerbEntry
	byKey   map[string]int
}

// NewDeck creates a deck and builds its key index. With duplicate
// infinitives the last occurrence owns the key.
func NewDeck(entries []models.VerbEntry) *Deck {
	d := &Deck{
		entries: make([]models.VerbEntry, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}
	copy(d.entries, entries)
	for i, v := range d.entries {
		d.byKey[v.Key()] = i
	}
	return d
}

// Len returns the number of entries
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// At returns the entry at index i
func (d *Deck) At(i int) models.VerbEntry {
	return d.entries[i]
}

// IndexOf resolves a key back to its deck index
func (d *Deck) IndexOf(key string) (int, bool) {
	if d == nil {
		return 0, false
	}
	i, ok := d.byKey[key]
	return i, ok
}
