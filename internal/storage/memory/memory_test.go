package memory

import (
	"context"
	"testing"

	"bingo-rooms/internal/storage"
	"bingo-rooms/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return NewStore()
	})
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStore().FindByCode(ctx, "ANY"); err == nil {
		t.Fatalf("expected canceled context error")
	}
}
