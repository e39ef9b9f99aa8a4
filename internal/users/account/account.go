// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages player accounts, the root resource every other
record hangs off.

An account carries the login credentials (username, bcrypt password hash)
and a role. Detail and list reads embed the account's biodata profile and
its play histories; deleting an account cascades to both, files included.

# Architecture

  - Entities: Account with optional embedded Biodata and Histories.
  - Updates: partial, diff-driven; a submitted password is hashed first.
  - Deletion: cascading, inside one transaction.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/gametrack/internal/games/history"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/users/biodata"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// # Domain Entities

// Account represents a player account.
//
// The password hash never serializes; API payloads carry credentials
// inbound only.
type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Biodata and Histories are populated on detail and list reads.
	Biodata   *biodata.Biodata  `json:"userGameBiodata"`
	Histories []history.History `json:"userGameHistories"`
}

// UpdatableFields declares the mutable fields and their kinds for the
// diff engine.
func UpdatableFields() diff.Schema {
	return diff.Schema{
		"username": diff.KindString,
		"password": diff.KindString,
	}
}

// Fields returns the record snapshot used as the diff baseline. The
// password entry holds the stored hash; callers hash a submitted plain
// password before diffing against it.
func (a *Account) Fields() diff.Record {
	return diff.Record{
		"username": a.Username,
		"password": a.Password,
	}
}

// # Repository Contract

// Repository defines the persistence contract for accounts.
type Repository interface {
	/*
		Create inserts a new account row.

		Parameters:
		  - context: context.Context
		  - entity: *Account (ID, CreatedAt, UpdatedAt assigned by storage)

		Returns:
		  - *Account: The stored entity
		  - error: Constraint violations (duplicate username) or storage failures
	*/
	Create(context context.Context, entity *Account) (*Account, error)

	/*
		FindByID retrieves an account with its biodata and histories embedded.

		Returns:
		  - *Account: Hydrated entity; Biodata nil when the account has no profile
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*Account, error)

	/*
		FindAll lists accounts with biodata and histories embedded. A
		zero-value page returns every account.
	*/
	FindAll(context context.Context, page pagination.Params) ([]Account, error)

	/*
		FindByUsername retrieves an account by its login name.

		Returns:
		  - *Account: The account, or nil when the username is unknown
		  - error: Storage failures only; absence is not an error here
	*/
	FindByUsername(context context.Context, username string) (*Account, error)

	/*
		Update applies a partial change set under a row lock.

		Description: Loads the current row FOR UPDATE inside a transaction and
		passes it to apply. The returned record holds the normalized after-values
		to persist; a nil record commits nothing. An error from apply rolls the
		transaction back unchanged.

		Returns:
		  - *Account: The row as of the end of the transaction
		  - error: apperr.NotFound, the error returned by apply, or storage failures
	*/
	Update(context context.Context, id int64, apply func(current *Account) (diff.Record, error)) (*Account, error)

	/*
		Delete removes an account together with its biodata and history rows,
		all inside one transaction.
	*/
	Delete(context context.Context, id int64) error

	/*
		OwnerID resolves the owner of an account for the ownership guard.
		Accounts own themselves, so this verifies existence and echoes the ID.
	*/
	OwnerID(context context.Context, id int64) (int64, error)
}
