package state

import (
	"context"
	"errors"
	"testing"

	"github.com/example/verbtrainer/pkg/models"
)

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("storage unavailable")
}

func (brokenKV) Put(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func (brokenKV) Delete(context.Context, string) error {
	return errors.New("storage unavailable")
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryKV(), StorageKey)

	st := models.NewStudyState()
	st.Weights["gehen"] = 3
	st.SetSeed(42)

	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Weights["gehen"] != 3 {
		t.Errorf("expected weight 3, got %d", got.Weights["gehen"])
	}
	if got.OrderSeed == nil || *got.OrderSeed != 42 {
		t.Errorf("expected seed 42, got %v", got.OrderSeed)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	got, err := NewStore(NewMemoryKV(), StorageKey).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Weights) != 0 || got.OrderSeed != nil {
		t.Errorf("expected default state, got %+v", got)
	}
}

func TestLoadCorruptReturnsDefaults(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Put(ctx, StorageKey, []byte(`{"weights": {"gehen": 3`))

	got, err := NewStore(kv, StorageKey).Load(ctx)
	if err == nil {
		t.Error("expected decode error to be reported")
	}
	if got.Weights == nil || len(got.Weights) != 0 || got.OrderSeed != nil {
		t.Errorf("expected default state, got %+v", got)
	}
}

func TestLoadStorageFailure(t *testing.T) {
	got, err := NewStore(brokenKV{}, StorageKey).Load(context.Background())
	if err == nil {
		t.Error("expected read error to be reported")
	}
	if got.Weights == nil {
		t.Error("expected usable default state")
	}

	if err := NewStore(brokenKV{}, StorageKey).Save(context.Background(), got); err == nil {
		t.Error("expected write error to be reported")
	}
}

func TestDecodeIsLenient(t *testing.T) {
	raw := []byte(`{"weights": {"a": 0, "b": 99, "c": 2.7, "d": -3, "e": 4, "f": "5"}, "orderSeed": 123456789}`)

	st, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int{"a": 1, "b": 6, "c": 2, "d": 1, "e": 4, "f": 5}
	for k, w := range want {
		if st.Weights[k] != w {
			t.Errorf("weight %s: expected %d, got %d", k, w, st.Weights[k])
		}
	}
	if st.OrderSeed == nil || *st.OrderSeed != 123456789 {
		t.Errorf("expected seed 123456789, got %v", st.OrderSeed)
	}
}

func TestDecodeClampsHugeWeights(t *testing.T) {
	raw := []byte(`{"weights": {"x": 1e300, "y": 9.5e18, "z": 2.5, "n": -1e300}, "orderSeed": 4294967298.7}`)

	st, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int{"x": 6, "y": 6, "z": 2, "n": 1}
	for k, w := range want {
		if st.Weights[k] != w {
			t.Errorf("weight %s: expected %d, got %d", k, w, st.Weights[k])
		}
	}
	if st.OrderSeed == nil || *st.OrderSeed != 2 {
		t.Errorf("expected seed to wrap to 2, got %v", st.OrderSeed)
	}
}

func TestDecodeNullSeed(t *testing.T) {
	st, err := Decode([]byte(`{"weights": null, "orderSeed": null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.OrderSeed != nil || st.Weights == nil {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestEncodeShape(t *testing.T) {
	raw, err := Encode(models.StudyState{})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"weights":{},"orderSeed":null}` {
		t.Errorf("unexpected blob %s", raw)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv, ChatKey(7))
	store.Save(ctx, models.NewStudyState())

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, ChatKey(7)); ok {
		t.Error("expected state to be removed")
	}
}

func TestChatKey(t *testing.T) {
	if ChatKey(1) == ChatKey(2) {
		t.Error("chat keys must differ")
	}
	if got := ChatKey(-100123); got != "strong-verbs-flashcards-v1:-100123" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestMemoryKVKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Put(ctx, ChatKey(2), []byte("{}"))
	kv.Put(ctx, ChatKey(1), []byte("{}"))
	kv.Put(ctx, "other", []byte("{}"))

	keys, err := kv.Keys(ctx, StorageKey+":")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != ChatKey(1) || keys[1] != ChatKey(2) {
		t.Errorf("unexpected keys %v", keys)
	}
}
