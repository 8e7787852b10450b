package store

import (
	"context"
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound indicates the operation targeted a nonexistent record.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a unique-constraint violation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidRef indicates a reference to a nonexistent related record.
	ErrInvalidRef = errors.New("invalid reference")
)

// IsTransient reports whether the error is a connectivity or contention
// failure that the caller may safely retry.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	return false
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
