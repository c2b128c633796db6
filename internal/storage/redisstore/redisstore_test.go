package redisstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"bingo-rooms/internal/storage"
	"bingo-rooms/internal/storage/storagetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

func TestRoomKey(t *testing.T) {
	store := NewStore(nil, "")
	if got := store.roomKey("ABC234"); got != "bingo:room:ABC234" {
		t.Fatalf("expected default prefix key, got %q", got)
	}
	store = NewStore(nil, "test:")
	if got := store.roomKey("ABC234"); got != "test:room:ABC234" {
		t.Fatalf("expected custom prefix key, got %q", got)
	}
}

// newTestStore runs against BINGO_TEST_REDIS_ADDR when set and an in-process
// miniredis otherwise. A fresh key prefix keeps runs apart.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("BINGO_TEST_REDIS_ADDR")
	if addr == "" {
		addr = miniredis.RunT(t).Addr()
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis unavailable at %s: %v", addr, err)
	}
	prefix := "bingo-test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		ctx := context.Background()
		iter := client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
		for iter.Next(ctx) {
			client.Del(ctx, iter.Val())
		}
		_ = client.Close()
	})
	return NewStore(client, prefix)
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return newTestStore(t)
	})
}

func TestUpdateBumpsStoredVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	room := storagetest.NewRoom(t, "VER234", time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC))
	if err := store.Create(ctx, room); err != nil {
		t.Fatalf("create: %v", err)
	}
	stale := *room
	if err := store.Update(ctx, room); err != nil {
		t.Fatalf("update: %v", err)
	}
	if room.Version != 2 {
		t.Fatalf("expected version 2, got %d", room.Version)
	}
	raw, err := store.client.Get(ctx, store.roomKey("VER234")).Bytes()
	if err != nil {
		t.Fatalf("get raw: %v", err)
	}
	_, version, err := decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if version != 2 {
		t.Fatalf("expected stored version 2, got %d", version)
	}
	if err := store.Update(ctx, &stale); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected conflict for stale version, got %v", err)
	}
}
