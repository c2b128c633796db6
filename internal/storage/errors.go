package storage

import "errors"

var (
	ErrNotFound  = errors.New("storage: room not found")
	ErrDuplicate = errors.New("storage: room code already in use")
	// ErrConflict means the room changed since it was loaded.
	ErrConflict = errors.New("storage: room version conflict")
)
