// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/database/schema"
	"github.com/taibuivan/gametrack/internal/platform/dberr"
)

// PostgresDirectory implements [EmailDirectory] against the biodata table.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewDirectory creates the Postgres-backed email directory.
func NewDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

/*
AccountIDByEmail resolves the account owning the biodata profile with the
given email.

Returns:
  - int64: Owning account ID
  - error: apperr.NotFound when no profile carries the email
*/
func (directory *PostgresDirectory) AccountIDByEmail(context context.Context, email string) (int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.GamesBiodata.AccountID, schema.GamesBiodata.Table, schema.GamesBiodata.Email)

	var accountID int64
	if err := directory.pool.QueryRow(context, query, email).Scan(&accountID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("Email")
		}
		return 0, dberr.Wrap(err, "auth_account_by_email")
	}

	return accountID, nil
}
