// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrTargetNotFound is returned when the row an operation targets does not exist
	// or is not currently visible (unpublished post, unapproved or removed comment).
	ErrTargetNotFound = errors.New("target not found")
	// ErrPermissionDenied is returned when the database rejected the statement.
	ErrPermissionDenied = errors.New("permission denied")
)

// Raised both for missing grants and for row-level security rejections.
const sqlStateInsufficientPrivilege = "42501"

// classify maps driver errors onto repository sentinels. Unknown errors pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTargetNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == sqlStateInsufficientPrivilege {
			return errors.Join(ErrPermissionDenied, err)
		}
	}
	return err
}
