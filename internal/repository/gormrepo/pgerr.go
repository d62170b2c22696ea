package gormrepo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"realtors/internal/repository"
)

// storageErr wraps a gorm/driver failure, keeping the SQLSTATE when the
// cause is a PostgreSQL error.
func storageErr(op string, err error) error {
	se := &repository.StorageError{Op: op, Err: err}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		se.Code = pe.Code
	}
	return se
}
