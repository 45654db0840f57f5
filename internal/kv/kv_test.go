package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	store, err := NewFile(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	testStore(t, store)
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Set(ctx, "transactions", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "transactions")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("got %q", got)
	}

	// Every Set overwrites the whole value.
	if err := s.Set(ctx, "transactions", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = s.Get(ctx, "transactions")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()
	if err := store.Set(ctx, "../escape", []byte("x")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "../escape")
	if err != nil || string(got) != "x" {
		t.Fatalf("round trip: %q %v", got, err)
	}
}
