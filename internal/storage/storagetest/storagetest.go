// Package storagetest holds the behaviour every storage.Store must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewRoom builds an active room with the host enrolled.
func NewRoom(t *testing.T, code string, createdAt time.Time) *bingo.Room {
	t.Helper()
	room, err := bingo.NewRoom(bingo.RoomParams{
		ID:       "room-" + code,
		Code:     code,
		Name:     "Room " + code,
		HostID:   "host-" + code,
		HostName: "Host",
		MaxCards: 5,
		Rules:    []bingo.Rule{bingo.RuleLine},
	}, createdAt)
	require.NoError(t, err)
	return room
}

// Run exercises the Store contract. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	t.Run("create and find", func(t *testing.T) {
		store := newStore(t)
		room := NewRoom(t, "AAAA22", now)
		require.NoError(t, store.Create(ctx, room))
		assert.Equal(t, int64(1), room.Version)

		got, err := store.FindByCode(ctx, "AAAA22")
		require.NoError(t, err)
		assert.Equal(t, room.ID, got.ID)
		assert.Equal(t, int64(1), got.Version)
		require.Len(t, got.Visitors, 1)
		assert.Equal(t, room.HostID, got.Visitors[0].VisitorID)
		assert.True(t, got.CreatedAt.Equal(now))
	})

	t.Run("duplicate code", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, NewRoom(t, "BBBB22", now)))
		err := store.Create(ctx, NewRoom(t, "BBBB22", now))
		assert.ErrorIs(t, err, storage.ErrDuplicate)
	})

	t.Run("missing room", func(t *testing.T) {
		store := newStore(t)
		_, err := store.FindByCode(ctx, "ABSENT")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "ABSENT"), storage.ErrNotFound)
		assert.ErrorIs(t, store.Update(ctx, NewRoom(t, "ABSENT", now)), storage.ErrNotFound)
	})

	t.Run("returned rooms do not alias", func(t *testing.T) {
		store := newStore(t)
		room := NewRoom(t, "CCCC22", now)
		require.NoError(t, store.Create(ctx, room))
		room.Name = "changed after create"

		first, err := store.FindByCode(ctx, "CCCC22")
		require.NoError(t, err)
		first.Visitors = append(first.Visitors, bingo.Visitor{VisitorID: "v2"})

		second, err := store.FindByCode(ctx, "CCCC22")
		require.NoError(t, err)
		assert.Equal(t, "Room CCCC22", second.Name)
		assert.Len(t, second.Visitors, 1)
	})

	t.Run("update round trips game state", func(t *testing.T) {
		store := newStore(t)
		room := NewRoom(t, "DDDD22", now)
		require.NoError(t, store.Create(ctx, room))

		loaded, err := store.FindByCode(ctx, "DDDD22")
		require.NoError(t, err)
		require.NoError(t, loaded.StartGame(bingo.NewSeededSource(9), now))
		drawn, err := loaded.Game.DrawNumber(bingo.NewSeededSource(9))
		require.NoError(t, err)
		require.NoError(t, store.Update(ctx, loaded))
		assert.Equal(t, int64(2), loaded.Version)

		got, err := store.FindByCode(ctx, "DDDD22")
		require.NoError(t, err)
		require.NotNil(t, got.Game)
		assert.Equal(t, []int{drawn}, got.Game.DrawnNumbers)
		assert.Equal(t, loaded.Game.Cards[0].Cells, got.Game.Cards[0].Cells)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, NewRoom(t, "EEEE22", now)))

		a, err := store.FindByCode(ctx, "EEEE22")
		require.NoError(t, err)
		b, err := store.FindByCode(ctx, "EEEE22")
		require.NoError(t, err)

		a.Name = "first"
		require.NoError(t, store.Update(ctx, a))
		b.Name = "second"
		assert.ErrorIs(t, store.Update(ctx, b), storage.ErrConflict)

		got, err := store.FindByCode(ctx, "EEEE22")
		require.NoError(t, err)
		assert.Equal(t, "first", got.Name)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, NewRoom(t, "FFFF22", now)))
		require.NoError(t, store.Delete(ctx, "FFFF22"))
		_, err := store.FindByCode(ctx, "FFFF22")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list active", func(t *testing.T) {
		store := newStore(t)
		later := NewRoom(t, "GGGG22", now.Add(time.Minute))
		earlier := NewRoom(t, "HHHH22", now)
		closed := NewRoom(t, "JJJJ22", now)
		for _, room := range []*bingo.Room{later, earlier, closed} {
			require.NoError(t, store.Create(ctx, room))
		}
		closed.Deactivate()
		require.NoError(t, store.Update(ctx, closed))

		rooms, err := store.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 2)
		assert.Equal(t, "HHHH22", rooms[0].Code)
		assert.Equal(t, "GGGG22", rooms[1].Code)
	})
}
