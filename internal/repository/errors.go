package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateKey indicates a uniqueness constraint was violated.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

// DuplicateKeyError reports which unique field was violated on insert or update.
type DuplicateKeyError struct {
	Field string
}

// Error implements error.
func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return ErrDuplicateKey.Error()
	}
	return fmt.Sprintf("repository: duplicate key on %s", e.Field)
}

// Unwrap lets callers match with errors.Is(err, ErrDuplicateKey).
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}
