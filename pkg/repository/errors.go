package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// MapError translates driver errors into domain errors: sql.ErrNoRows
// becomes notFound and a unique violation becomes duplicate.
// Anything else is returned as is.
func MapError(err error, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case IsUniqueViolation(err, ""):
		return duplicate
	}
	return err
}

// IsUniqueViolation reports whether err is a PostgreSQL unique violation.
// A non-empty constraint narrows the match to that index or constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	return pgCode(err, pgUniqueViolation, constraint)
}

// IsCheckViolation reports whether err is a PostgreSQL check constraint violation.
func IsCheckViolation(err error) bool {
	return pgCode(err, pgCheckViolation, "")
}

func pgCode(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
