// Package memory keeps rooms in process memory.
package memory

import (
	"context"
	"sync"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/storage"
)

type record struct {
	version  int64
	snapshot []byte
}

type Store struct {
	mu    sync.Mutex
	rooms map[string]record
}

func NewStore() *Store {
	return &Store{rooms: make(map[string]record)}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, room *bingo.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := storage.Encode(room)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.Code]; ok {
		return storage.ErrDuplicate
	}
	s.rooms[room.Code] = record{version: 1, snapshot: data}
	room.Version = 1
	return nil
}

func (s *Store) FindByCode(ctx context.Context, code string) (*bingo.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	rec, ok := s.rooms[code]
	s.mu.Unlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return storage.Decode(rec.snapshot, rec.version)
}

func (s *Store) Update(ctx context.Context, room *bingo.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := storage.Encode(room)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rooms[room.Code]
	if !ok {
		return storage.ErrNotFound
	}
	if rec.version != room.Version {
		return storage.ErrConflict
	}
	s.rooms[room.Code] = record{version: rec.version + 1, snapshot: data}
	room.Version = rec.version + 1
	return nil
}

func (s *Store) Delete(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		return storage.ErrNotFound
	}
	delete(s.rooms, code)
	return nil
}

func (s *Store) ListActive(ctx context.Context) ([]*bingo.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	records := make([]record, 0, len(s.rooms))
	for _, rec := range s.rooms {
		records = append(records, rec)
	}
	s.mu.Unlock()

	rooms := make([]*bingo.Room, 0, len(records))
	for _, rec := range records {
		room, err := storage.Decode(rec.snapshot, rec.version)
		if err != nil {
			return nil, err
		}
		if room.IsActive {
			rooms = append(rooms, room)
		}
	}
	storage.SortByCreation(rooms)
	return rooms, nil
}
