package model

import "errors"

var (
	// ErrNotFound is returned when an entity is absent or belongs to another owner.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks client input that cannot be accepted.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a conditional update finds the record
	// changed since it was read.
	ErrConflict = errors.New("record changed concurrently")
)
