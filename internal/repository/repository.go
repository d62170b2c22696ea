package repository

import (
	"errors"
	"fmt"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., gormrepo) inside this directory.

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// StorageError wraps any failure raised by the database layer.
// The underlying driver error is kept for errors.Is/As but is never sent to clients.
// Code carries the PostgreSQL SQLSTATE when the driver reported one.
type StorageError struct {
	Op   string
	Code string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("storage %s (sqlstate %s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is, or wraps, a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
