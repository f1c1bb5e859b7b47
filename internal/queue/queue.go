package queue

// Queue is a traversal order over deck indices with a cursor
type Queue struct {
	order  []int
	cursor int
}

// New creates a queue positioned at the first element
func New(order []int) *Queue {
	return &Queue{order: order}
}

// Len returns the number of slots
func (q *Queue) Len() int {
	return len(q.order)
}

// Empty reports whether there is no current card
func (q *Queue) Empty() bool {
	return len(q.order) == 0
}

// Cursor returns the current position (0-based)
func (q *Queue) Cursor() int {
	return q.cursor
}

// Current returns the deck index under the cursor
func (q *Queue) Current() (int, bool) {
	if q.Empty() {
		return 0, false
	}
	return q.order[q.cursor], true
}

// Next moves the cursor forward, wrapping around
func (q *Queue) Next() {
	if q.Empty() {
		return
	}
	q.cursor = (q.cursor + 1) % len(q.order)
}

// Prev moves the cursor backward, wrapping around
func (q *Queue) Prev() {
	if q.Empty() {
		return
	}
	q.cursor = (q.cursor - 1 + len(q.order)) % len(q.order)
}

// Seek moves the cursor to the first slot holding deckIndex. It falls
// back to position 0 and returns false when the index is not queued.
func (q *Queue) Seek(deckIndex int) bool {
	for pos, idx := range q.order {
		if idx == deckIndex {
			q.cursor = pos
			return true
		}
	}
	q.cursor = 0
	return false
}

// Order returns a copy of the traversal order
func (q *Queue) Order() []int {
	out := make([]int, len(q.order))
	copy(out, q.order)
	return out
}
