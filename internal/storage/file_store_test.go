package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestDiskFileStore_RoundTrip(t *testing.T) {
	store, err := NewDiskFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	data := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xFF}
	if err := store.Save(ctx, "receipt-1.pdf", data); err != nil {
		t.Fatalf("Failed to save blob: %v", err)
	}

	loaded, err := store.Load(ctx, "receipt-1.pdf")
	if err != nil {
		t.Fatalf("Failed to load blob: %v", err)
	}
	if !bytes.Equal(loaded, data) {
		t.Error("Loaded bytes do not match saved bytes")
	}

	if err := store.Delete(ctx, "receipt-1.pdf"); err != nil {
		t.Fatalf("Failed to delete blob: %v", err)
	}
	if _, err := store.Load(ctx, "receipt-1.pdf"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("Expected ErrFileNotFound after delete, got %v", err)
	}
}

func TestDiskFileStore_MissingBlob(t *testing.T) {
	store, err := NewDiskFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if _, err := store.Load(context.Background(), "nope.pdf"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("Expected ErrFileNotFound, got %v", err)
	}
	if err := store.Delete(context.Background(), "nope.pdf"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestDiskFileStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewDiskFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"", "../escape.pdf", "sub/dir.pdf"} {
		if err := store.Save(ctx, key, []byte("x")); err == nil {
			t.Errorf("Expected save to reject key %q", key)
		}
	}
}

func TestMemoryFileStore_DefensiveCopies(t *testing.T) {
	store := NewMemoryFileStore()
	ctx := context.Background()

	data := []byte("original")
	if err := store.Save(ctx, "key", data); err != nil {
		t.Fatalf("Failed to save blob: %v", err)
	}

	// Mutating the caller's slice must not affect the stored blob.
	data[0] = 'X'

	loaded, err := store.Load(ctx, "key")
	if err != nil {
		t.Fatalf("Failed to load blob: %v", err)
	}
	if string(loaded) != "original" {
		t.Errorf("Expected stored blob to be isolated, got %q", loaded)
	}

	if store.Len() != 1 {
		t.Errorf("Expected 1 blob, got %d", store.Len())
	}
}
