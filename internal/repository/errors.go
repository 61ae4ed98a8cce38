// Package repository holds the Postgres-backed stores, one subpackage per
// aggregate. This file maps driver errors onto domain errors.
package repository

import (
	"errors"

	"mini-shop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapError translates pgx errors into domain errors. Unknown errors pass through.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return domain.ErrAlreadyExists
	case "23503":
		return domain.Invalid(pgErr.ColumnName, "references a missing record")
	case "23514":
		return domain.Invalid(pgErr.ColumnName, "violates constraint "+pgErr.ConstraintName)
	case "22P02":
		return domain.Invalid("id", "malformed identifier")
	}
	return err
}

// IsUniqueViolation reports whether err is a Postgres unique violation on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
