// Package state persists the StudyState as one JSON blob in a key-value
// store.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/example/verbtrainer/internal/queue"
	"github.com/example/verbtrainer/pkg/models"
)

// StorageKey is the fixed key of the persisted state
const StorageKey = "strong-verbs-flashcards-v1"

// KV is a durable key-value store
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ChatKey returns the state key of a bot chat
func ChatKey(chatID int64) string {
	return StorageKey + ":" + strconv.FormatInt(chatID, 10)
}

// Store reads and writes the study state under one key
type Store struct {
	kv  KV
	key string
}

// NewStore creates a store for key
func NewStore(kv KV, key string) *Store {
	return &Store{kv: kv, key: key}
}

// Key returns the storage key
func (s *Store) Key() string {
	return s.key
}

// Load reads the state. Absent or corrupt data yields the default state;
// the error is returned alongside so the caller can log it.
func (s *Store) Load(ctx context.Context) (models.StudyState, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return models.NewStudyState(), fmt.Errorf("failed to read study state: %w", err)
	}
	if !ok || len(raw) == 0 {
		return models.NewStudyState(), nil
	}

	st, err := Decode(raw)
	if err != nil {
		return models.NewStudyState(), err
	}
	return st, nil
}

// Save writes the state. Callers may ignore the error; the session keeps
// running in memory.
func (s *Store) Save(ctx context.Context, st models.StudyState) error {
	raw, err := Encode(st)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to write study state: %w", err)
	}
	return nil
}

// Clear removes the persisted state
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear study state: %w", err)
	}
	return nil
}

// Encode serializes a state as {"weights": {...}, "orderSeed": n|null}
func Encode(st models.StudyState) ([]byte, error) {
	if st.Weights == nil {
		st.Weights = map[string]int{}
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode study state: %w", err)
	}
	return raw, nil
}

// Decode parses a persisted blob leniently: weights that are not whole
// numbers are dropped, the rest are clamped to the valid range, and a
// seed outside the 32-bit range is truncated.
func Decode(raw []byte) (models.StudyState, error) {
	var blob struct {
		Weights   map[string]json.Number `json:"weights"`
		OrderSeed *json.Number           `json:"orderSeed"`
	}
	if err := json.Unmarshal(raw, &blob); err != nil {
		return models.NewStudyState(), fmt.Errorf("failed to decode study state: %w", err)
	}

	st := models.NewStudyState()
	for key, n := range blob.Weights {
		w, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				continue
			}
			// Clamp before converting, int64(f) is undefined out of range
			switch {
			case f >= queue.MaxWeight:
				w = queue.MaxWeight
			case f <= queue.MinWeight:
				w = queue.MinWeight
			default:
				w = int64(f)
			}
		}
		if w > queue.MaxWeight {
			w = queue.MaxWeight
		}
		if w < queue.MinWeight {
			w = queue.MinWeight
		}
		st.Weights[key] = int(w)
	}

	if blob.OrderSeed != nil {
		if seed, err := blob.OrderSeed.Int64(); err == nil {
			st.SetSeed(uint32(seed))
		} else if f, err := blob.OrderSeed.Float64(); err == nil && !math.IsInf(f, 0) {
			st.SetSeed(seedFromFloat(f))
		}
	}
	return st, nil
}

// seedFromFloat truncates f to an integer and wraps it into 32 bits
func seedFromFloat(f float64) uint32 {
	m := math.Mod(math.Trunc(f), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return uint32(m)
}

// MemoryKV is an in-process KV for sessions without durable storage
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns the value stored under key
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value under key
func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys lists stored keys with the given prefix, sorted
func (m *MemoryKV) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
