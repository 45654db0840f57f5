package backend

import (
	"context"
	"testing"

	"fintrack/internal/config"
)

func TestCreateStoreMemory(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateStore(context.Background(), &config.Config{KVBackend: "memory"})
	if err != nil {
		t.Fatalf("CreateStore() error = %v", err)
	}
	if res.Store == nil {
		t.Fatal("CreateStore() returned nil store")
	}
	if res.Cleanup != nil {
		t.Fatal("memory backend needs no cleanup")
	}
}

func TestCreateStoreFile(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateStore(context.Background(), &config.Config{
		KVBackend: "file",
		DataDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("CreateStore() error = %v", err)
	}
	if err := res.Store.Set(context.Background(), "probe", []byte("1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
}

func TestCreateStoreInvalidType(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.CreateStore(context.Background(), &config.Config{KVBackend: "etcd"}); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}

func TestTypeIsValid(t *testing.T) {
	for _, typ := range Types() {
		if !typ.IsValid() {
			t.Errorf("Type(%q).IsValid() = false", typ)
		}
	}
	if Type("sheets").IsValid() {
		t.Error("unknown type reported valid")
	}
}
