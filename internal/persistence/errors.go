package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a foreign key, NOT NULL or CHECK
	// constraint rejects a statement.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrUnavailable is returned when a desk or its room is switched off.
	ErrUnavailable = errors.New("persistence: unavailable")
)
