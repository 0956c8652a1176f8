// Package repository implements the persistence layer on top of SQLite.
// Rows are decoded into typed records and validated once, here.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/adamscao/userapi/internal/apperrors"
)

type scanner interface {
	Scan(dest ...any) error
}

// requireAffected turns a write that touched no rows into a not found error
func requireAffected(result sql.Result, resource string) error {
	count, err := result.RowsAffected()
	if err != nil {
		return apperrors.Store(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if count == 0 {
		return apperrors.NotFound(resource)
	}
	return nil
}

// wrapScanErr wraps a read failure as a store error. A stored row that fails
// validation is reported the same way; it is never the caller's fault.
func wrapScanErr(msg string, err error) error {
	if appErr, ok := err.(*apperrors.Error); ok && appErr.Kind == apperrors.KindValidation {
		return apperrors.Store(fmt.Errorf("%s: stored record is invalid: %v", msg, appErr.Details))
	}
	return apperrors.Store(fmt.Errorf("%s: %w", msg, err))
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
