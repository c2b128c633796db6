// Package redisstore keeps room snapshots in Redis, one key per room.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/storage"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 100

// envelope is the stored value. The version sits beside the snapshot so
// the check in Update does not need to decode the room.
type envelope struct {
	Version int64           `json:"version"`
	Room    json.RawMessage `json:"room"`
}

type Store struct {
	client    *redis.Client
	keyPrefix string
}

func NewStore(client *redis.Client, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = "bingo:"
	}
	return &Store{client: client, keyPrefix: keyPrefix}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) roomKey(code string) string {
	return s.keyPrefix + "room:" + code
}

func (s *Store) encode(room *bingo.Room, version int64) ([]byte, error) {
	data, err := storage.Encode(room)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: version, Room: data})
}

func decode(raw []byte) (*bingo.Room, int64, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, fmt.Errorf("redis: decode envelope: %w", err)
	}
	room, err := storage.Decode(env.Room, env.Version)
	if err != nil {
		return nil, 0, err
	}
	return room, env.Version, nil
}

func (s *Store) Create(ctx context.Context, room *bingo.Room) error {
	data, err := s.encode(room, 1)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, s.roomKey(room.Code), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis: create room %s: %w", room.Code, err)
	}
	if !ok {
		return storage.ErrDuplicate
	}
	room.Version = 1
	return nil
}

func (s *Store) FindByCode(ctx context.Context, code string) (*bingo.Room, error) {
	raw, err := s.client.Get(ctx, s.roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("redis: find room %s: %w", code, err)
	}
	room, _, err := decode(raw)
	return room, err
}

// Update runs the version check and the write in one WATCH/MULTI round.
func (s *Store) Update(ctx context.Context, room *bingo.Room) error {
	key := s.roomKey(room.Code)
	data, err := s.encode(room, room.Version+1)
	if err != nil {
		return err
	}
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return storage.ErrNotFound
			}
			return err
		}
		var current envelope
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("redis: decode envelope: %w", err)
		}
		if current.Version != room.Version {
			return storage.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
	switch {
	case err == nil:
		room.Version++
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return storage.ErrConflict
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrConflict):
		return err
	default:
		return fmt.Errorf("redis: update room %s: %w", room.Code, err)
	}
}

func (s *Store) Delete(ctx context.Context, code string) error {
	n, err := s.client.Del(ctx, s.roomKey(code)).Result()
	if err != nil {
		return fmt.Errorf("redis: delete room %s: %w", code, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListActive(ctx context.Context) ([]*bingo.Room, error) {
	var rooms []*bingo.Room
	iter := s.client.Scan(ctx, 0, s.roomKey("*"), scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis: scan rooms: %w", err)
	}
	if len(keys) == 0 {
		return []*bingo.Room{}, nil
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: load rooms: %w", err)
	}
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// deleted between SCAN and MGET
			continue
		}
		room, _, err := decode([]byte(raw))
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
