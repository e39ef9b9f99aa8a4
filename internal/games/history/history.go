// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package history manages play-history records: the games a player has logged,
with publisher, score, cover art, and the time the game was last played.

An account owns any number of history rows. Ownership checks on mutations
resolve through the owning account link.

# Architecture

  - Entities: History, Owner (embedded account summary).
  - Updates: partial, driven by the declared field schema and the diff engine.
  - Storage: cover images live in the object store; rows keep filenames.
*/
package history

import (
	"context"
	"time"

	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// # Domain Entities

// History represents one logged game in a player's play history.
type History struct {
	ID         int64     `json:"id"`
	AccountID  int64     `json:"userGameId"`
	Title      string    `json:"title"`
	Publisher  string    `json:"publisher"`
	Cover      string    `json:"cover"`
	Score      int       `json:"score"`
	LastPlayed time.Time `json:"lastPlayed"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Owner is the owning account summary, populated on detail reads.
	Owner *Owner `json:"userGame,omitempty"`
}

// Owner is a credential-free summary of the owning account.
//
// Declared locally so this package does not import the account package,
// which embeds History in its own detail view.
type Owner struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdatableFields declares the mutable fields and their kinds. LastPlayed is
// system-managed (set on create, refreshed on every effective update) and is
// deliberately absent.
func UpdatableFields() diff.Schema {
	return diff.Schema{
		"title":      diff.KindString,
		"publisher":  diff.KindString,
		"cover":      diff.KindString,
		"score":      diff.KindInt,
		"userGameId": diff.KindInt,
	}
}

// Fields returns the record snapshot used as the diff baseline.
func (h *History) Fields() diff.Record {
	return diff.Record{
		"title":      h.Title,
		"publisher":  h.Publisher,
		"cover":      h.Cover,
		"score":      h.Score,
		"userGameId": int(h.AccountID),
	}
}

// # Repository Contract

// Repository defines the persistence contract for play-history records.
type Repository interface {
	/*
		Create inserts a new history row. LastPlayed is assigned by storage.

		Returns:
		  - *History: The stored entity
		  - error: Constraint violations (missing account) or storage failures
	*/
	Create(context context.Context, entity *History) (*History, error)

	/*
		FindByID retrieves a history row with its owning account embedded.

		Returns:
		  - *History: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*History, error)

	/*
		FindAll lists history rows with owners embedded. A zero-value page
		returns every row.
	*/
	FindAll(context context.Context, page pagination.Params) ([]History, error)

	/*
		FindByAccountID lists the history rows belonging to an account.
	*/
	FindByAccountID(context context.Context, accountID int64) ([]History, error)

	/*
		Update applies a partial change set under a row lock.

		Description: Loads the current row FOR UPDATE inside a transaction and
		passes it to apply. The returned record holds the normalized after-values
		to persist; a nil record commits nothing. A non-nil record also refreshes
		the lastplayed timestamp. An error from apply rolls the transaction back.

		Returns:
		  - *History: The row as of the end of the transaction
		  - error: apperr.NotFound, the error returned by apply, or storage failures
	*/
	Update(context context.Context, id int64, apply func(current *History) (diff.Record, error)) (*History, error)

	/*
		Delete removes a history row by ID.
	*/
	Delete(context context.Context, id int64) error

	/*
		OwnerID resolves the owning account of a history row.

		Returns:
		  - int64: The owning account ID
		  - error: apperr.NotFound when the row does not exist
	*/
	OwnerID(context context.Context, id int64) (int64, error)
}
