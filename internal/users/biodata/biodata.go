// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package biodata manages the 1:1 identity profile attached to a player account.

A biodata row carries the player's personal details (name, email, country,
age) and their uploaded profile picture. Each row belongs to exactly one
account; ownership checks on mutations resolve through that link.

# Architecture

  - Entities: Biodata, Owner (embedded account summary).
  - Updates: partial, driven by the declared field schema and the diff engine.
  - Storage: profile pictures live in the object store; rows keep filenames.
*/
package biodata

import (
	"context"
	"time"

	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// # Domain Entities

// Biodata represents a player's identity profile.
type Biodata struct {
	ID             int64     `json:"id"`
	AccountID      int64     `json:"userGameId"`
	Email          string    `json:"email"`
	Firstname      string    `json:"firstname"`
	Lastname       string    `json:"lastname"`
	ProfilePicture string    `json:"profilePicture"`
	Country        string    `json:"country"`
	Age            int       `json:"age"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Owner is the owning account summary, populated on detail reads.
	Owner *Owner `json:"userGame,omitempty"`
}

// Owner is a credential-free summary of the owning account.
//
// Declared locally so this package does not import the account package,
// which embeds Biodata in its own detail view.
type Owner struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdatableFields declares the mutable fields and their kinds. The diff
// engine consults this schema to select and coerce submitted values; keys
// outside it (ids, timestamps) can never be written through an update.
func UpdatableFields() diff.Schema {
	return diff.Schema{
		"email":          diff.KindString,
		"firstname":      diff.KindString,
		"lastname":       diff.KindString,
		"profilePicture": diff.KindString,
		"country":        diff.KindString,
		"age":            diff.KindInt,
		"userGameId":     diff.KindInt,
	}
}

// Fields returns the record snapshot used as the diff baseline.
func (b *Biodata) Fields() diff.Record {
	return diff.Record{
		"email":          b.Email,
		"firstname":      b.Firstname,
		"lastname":       b.Lastname,
		"profilePicture": b.ProfilePicture,
		"country":        b.Country,
		"age":            b.Age,
		"userGameId":     int(b.AccountID),
	}
}

// # Repository Contract

// Repository defines the persistence contract for biodata profiles.
type Repository interface {
	/*
		Create inserts a new biodata row.

		Parameters:
		  - context: context.Context
		  - entity: *Biodata (ID, CreatedAt, UpdatedAt assigned by storage)

		Returns:
		  - *Biodata: The stored entity
		  - error: Constraint violations (duplicate email, missing account) or storage failures
	*/
	Create(context context.Context, entity *Biodata) (*Biodata, error)

	/*
		FindByID retrieves a biodata row, with its owning account embedded.

		Returns:
		  - *Biodata: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*Biodata, error)

	/*
		FindAll lists biodata rows with owners embedded. A zero-value page
		returns every row.
	*/
	FindAll(context context.Context, page pagination.Params) ([]Biodata, error)

	/*
		FindByAccountID retrieves the profile belonging to an account.

		Returns:
		  - *Biodata: The profile, or nil when the account has none
		  - error: Storage failures only; absence is not an error here
	*/
	FindByAccountID(context context.Context, accountID int64) (*Biodata, error)

	/*
		Update applies a partial change set under a row lock.

		Description: Loads the current row FOR UPDATE inside a transaction and
		passes it to apply. The returned record holds the normalized after-values
		to persist; a nil record commits nothing. An error from apply rolls the
		transaction back unchanged.

		Returns:
		  - *Biodata: The row as of the end of the transaction
		  - error: apperr.NotFound, the error returned by apply, or storage failures
	*/
	Update(context context.Context, id int64, apply func(current *Biodata) (diff.Record, error)) (*Biodata, error)

	/*
		Delete removes a biodata row by ID.
	*/
	Delete(context context.Context, id int64) error

	/*
		OwnerID resolves the owning account of a biodata row.

		Returns:
		  - int64: The owning account ID
		  - error: apperr.NotFound when the row does not exist
	*/
	OwnerID(context context.Context, id int64) (int64, error)
}
