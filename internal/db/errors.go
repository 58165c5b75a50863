package db

import (
	"errors"
	"fmt"
)

// Sentinel errors for callers to match with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

func validation(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrValidation, err)
}
