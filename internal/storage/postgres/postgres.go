// Package postgres stores room snapshots in a Postgres rooms table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/db"
	"bingo-rooms/internal/storage"

	"github.com/jackc/pgconn"
	pgxconn "github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type Store struct {
	db *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{db: conn}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, room *bingo.Room) error {
	data, err := storage.Encode(room)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	record := db.Room{
		Code:      room.Code,
		RoomID:    room.ID,
		HostID:    room.HostID,
		IsActive:  room.IsActive,
		Version:   1,
		Snapshot:  datatypes.JSON(data),
		CreatedAt: room.CreatedAt,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("postgres: create room %s: %w", room.Code, err)
	}
	room.Version = 1
	return nil
}

func (s *Store) FindByCode(ctx context.Context, code string) (*bingo.Room, error) {
	var record db.Room
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: find room %s: %w", code, err)
	}
	return storage.Decode(record.Snapshot, record.Version)
}

func (s *Store) Update(ctx context.Context, room *bingo.Room) error {
	data, err := storage.Encode(room)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&db.Room{}).
		Where("code = ? AND version = ?", room.Code, room.Version).
		Updates(map[string]any{
			"snapshot":   datatypes.JSON(data),
			"version":    room.Version + 1,
			"is_active":  room.IsActive,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("postgres: update room %s: %w", room.Code, result.Error)
	}
	if result.RowsAffected == 0 {
		return s.missOrConflict(ctx, room.Code)
	}
	room.Version++
	return nil
}

// missOrConflict explains why a conditional update touched no rows.
func (s *Store) missOrConflict(ctx context.Context, code string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Room{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return fmt.Errorf("postgres: check room %s: %w", code, err)
	}
	if count == 0 {
		return storage.ErrNotFound
	}
	return storage.ErrConflict
}

func (s *Store) Delete(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Where("code = ?", code).Delete(&db.Room{})
	if result.Error != nil {
		return fmt.Errorf("postgres: delete room %s: %w", code, result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListActive(ctx context.Context) ([]*bingo.Room, error) {
	var records []db.Room
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at asc, code asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: list active rooms: %w", err)
	}
	rooms := make([]*bingo.Room, 0, len(records))
	for _, record := range records {
		room, err := storage.Decode(record.Snapshot, record.Version)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pgxErr *pgxconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
