// ABOUTME: Driver-specific constraint violation detection
// ABOUTME: Maps SQLite and Postgres unique violations onto ErrValidation
package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// classifyInsert turns unique violations into validation failures.
func classifyInsert(entity string, err error) error {
	if isUniqueViolation(err) {
		return validationError("%s with this email already exists", entity)
	}
	return err
}
