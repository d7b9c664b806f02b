package store

import (
	"testing"

	"github.com/dukerupert/provisions/internal/database"
)

func setupKVTestDB(t *testing.T) *KVStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewKVStore(db)
}

func TestKVGetMissing(t *testing.T) {
	kv := setupKVTestDB(t)

	_, ok, err := kv.Get("missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected ok = false for missing key")
	}
}

func TestKVSetGetOverwrite(t *testing.T) {
	kv := setupKVTestDB(t)

	if err := kv.Set("doc", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("doc", `{"a":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := kv.Get("doc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got != `{"a":2}` {
		t.Errorf("value = %q, want %q", got, `{"a":2}`)
	}

	keys, err := kv.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "doc" {
		t.Errorf("keys = %v, want [doc]", keys)
	}
}

func TestKVRemove(t *testing.T) {
	kv := setupKVTestDB(t)

	kv.Set("doc", "x")
	if err := kv.Remove("doc"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := kv.Get("doc"); ok {
		t.Error("expected key to be gone after remove")
	}

	// Removing a missing key is not an error
	if err := kv.Remove("doc"); err != nil {
		t.Errorf("remove missing: %v", err)
	}
}
