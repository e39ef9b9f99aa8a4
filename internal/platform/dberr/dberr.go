// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/validate"
)

// Postgres SQLSTATE codes remapped to client errors.
const (
	// sqlstateUniqueViolation covers duplicate usernames/emails.
	sqlstateUniqueViolation = "23505"
	// sqlstateForeignKeyViolation covers biodata/history rows referencing a dead account.
	sqlstateForeignKeyViolation = "23503"
	// sqlstateCheckViolation covers age/score CHECK constraints.
	sqlstateCheckViolation = "23514"
)

// ErrNotFound is a standard error returned when a queried row doesn't exist.
var ErrNotFound = apperr.NotFound("Resource")

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations become 400s, never 500s
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateUniqueViolation:
			return apperr.BadRequest(validate.FieldErrorAt(
				validate.LocationBody, constraintParam(pgErr.ConstraintName), nil,
				"Value already exists",
			))
		case sqlstateForeignKeyViolation:
			return apperr.BadRequest(validate.FieldErrorAt(
				validate.LocationBody, constraintParam(pgErr.ConstraintName), nil,
				"Referenced record does not exist",
			))
		case sqlstateCheckViolation:
			return apperr.BadRequest(validate.FieldErrorAt(
				validate.LocationBody, constraintParam(pgErr.ConstraintName), nil,
				"Value violates a data constraint",
			))
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// constraintParam derives a best-effort field name from a constraint name
// like "account_username_key" or "biodata_accountid_fkey".
//
// Postgres default names lead with the table and trail with the constraint
// kind; both are stripped. Columns whose JSON name differs from their SQL
// name are remapped explicitly.
func constraintParam(constraint string) string {
	if constraint == "" {
		return "unknown"
	}

	name := constraint
	for _, suffix := range []string{"_key", "_fkey", "_pkey", "_check"} {
		name = strings.TrimSuffix(name, suffix)
	}
	if _, rest, found := strings.Cut(name, "_"); found && rest != "" {
		name = rest
	}

	if name == "accountid" || name == "one_per_account" {
		return "userGameId"
	}
	return name
}
