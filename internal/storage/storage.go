// Package storage defines how rooms are persisted. Backends keep a full
// JSON snapshot per room keyed by its code.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"bingo-rooms/internal/bingo"
)

// Store persists rooms. Rooms returned by FindByCode never alias stored
// state, so callers may mutate them freely before calling Update.
type Store interface {
	// Create inserts a new room at version 1. ErrDuplicate if the code is taken.
	Create(ctx context.Context, room *bingo.Room) error
	FindByCode(ctx context.Context, code string) (*bingo.Room, error)
	// Update replaces the stored snapshot when the stored version equals
	// room.Version, then bumps room.Version. ErrConflict otherwise.
	Update(ctx context.Context, room *bingo.Room) error
	Delete(ctx context.Context, code string) error
	// ListActive returns active rooms, oldest first.
	ListActive(ctx context.Context) ([]*bingo.Room, error)
}

// Encode serializes a room snapshot.
func Encode(room *bingo.Room) ([]byte, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return nil, fmt.Errorf("encode room %s: %w", room.Code, err)
	}
	return data, nil
}

// Decode restores a room snapshot, stamping the version kept outside it.
func Decode(data []byte, version int64) (*bingo.Room, error) {
	var room bingo.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("decode room: %w", err)
	}
	room.Version = version
	return &room, nil
}

// SortByCreation orders rooms oldest first, breaking ties by code.
func SortByCreation(rooms []*bingo.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].Code < rooms[j].Code
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
}
