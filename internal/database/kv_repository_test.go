package database

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestRepo(t *testing.T) *KVRepository {
	t.Helper()
	db, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewKVRepository(db)
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, ok, err := repo.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := repo.Put(ctx, "state", []byte(`{"weights":{}}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := repo.Get(ctx, "state")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"weights":{}}` {
		t.Errorf("unexpected value %q", got)
	}

	if err := repo.Put(ctx, "state", []byte(`{"weights":{"gehen":2}}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = repo.Get(ctx, "state")
	if string(got) != `{"weights":{"gehen":2}}` {
		t.Errorf("expected overwritten value, got %q", got)
	}

	if err := repo.Delete(ctx, "state"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "state"); ok {
		t.Error("expected key to be deleted")
	}
	if err := repo.Delete(ctx, "state"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}
}

func TestKVKeys(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, k := range []string{"verbs:2", "verbs:1", "other"} {
		if err := repo.Put(ctx, k, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := repo.Keys(ctx, "verbs:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if want := []string{"verbs:1", "verbs:2"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("expected %v, got %v", want, keys)
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := Connect("oracle", "dsn"); err == nil {
		t.Error("expected error for unsupported driver")
	}
	if _, err := Connect(DriverPostgres, ""); err == nil {
		t.Error("expected error for postgres without DSN")
	}
}
