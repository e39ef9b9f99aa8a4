// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package biodata (Postgres) implements the storage layer for identity profiles.

# Schema Table Mapping
  - games.biodata: 1:1 player profile rows keyed to games.account.
  - games.account: joined for the embedded owner summary.
*/
package biodata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/database/schema"
	"github.com/taibuivan/gametrack/internal/platform/dberr"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// columnForField maps schema-declared field names to their table columns.
var columnForField = map[string]string{
	"email":          schema.GamesBiodata.Email,
	"firstname":      schema.GamesBiodata.Firstname,
	"lastname":       schema.GamesBiodata.Lastname,
	"profilePicture": schema.GamesBiodata.ProfilePicture,
	"country":        schema.GamesBiodata.Country,
	"age":            schema.GamesBiodata.Age,
	"userGameId":     schema.GamesBiodata.AccountID,
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the Postgres implementation for biodata profiles.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Write Methods

/*
Create inserts a new biodata row and returns the stored entity.

Returns:
  - *Biodata: Hydrated entity with generated ID and timestamps
  - error: 400-mapped constraint violations or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, entity *Biodata) (*Biodata, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s, %s`,
		schema.GamesBiodata.Table,
		schema.GamesBiodata.AccountID, schema.GamesBiodata.Email, schema.GamesBiodata.Firstname,
		schema.GamesBiodata.Lastname, schema.GamesBiodata.ProfilePicture, schema.GamesBiodata.Country,
		schema.GamesBiodata.Age,
		schema.GamesBiodata.ID, schema.GamesBiodata.CreatedAt, schema.GamesBiodata.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		entity.AccountID,
		entity.Email,
		entity.Firstname,
		entity.Lastname,
		entity.ProfilePicture,
		entity.Country,
		entity.Age,
	).Scan(&entity.ID, &entity.CreatedAt, &entity.UpdatedAt)

	if err != nil {
		return nil, dberr.Wrap(err, "biodata_create")
	}

	return entity, nil
}

/*
Update applies a partial change set under a SELECT ... FOR UPDATE row lock.

Description: The read-diff-write sequence runs inside a single transaction so
concurrent updates serialize instead of silently losing writes.
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, apply func(current *Biodata) (diff.Record, error)) (*Biodata, error) {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "biodata_update_begin")
	}
	defer tx.Rollback(context)

	// ── 1. Lock and load the current row ─────────────────────────────
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		FOR UPDATE`,
		schema.GamesBiodata.ID, schema.GamesBiodata.AccountID, schema.GamesBiodata.Email,
		schema.GamesBiodata.Firstname, schema.GamesBiodata.Lastname, schema.GamesBiodata.ProfilePicture,
		schema.GamesBiodata.Country, schema.GamesBiodata.Age, schema.GamesBiodata.CreatedAt,
		schema.GamesBiodata.UpdatedAt,
		schema.GamesBiodata.Table,
		schema.GamesBiodata.ID,
	)

	current := &Biodata{}
	err = tx.QueryRow(context, query, id).Scan(
		&current.ID,
		&current.AccountID,
		&current.Email,
		&current.Firstname,
		&current.Lastname,
		&current.ProfilePicture,
		&current.Country,
		&current.Age,
		&current.CreatedAt,
		&current.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("UserGameBiodata")
		}
		return nil, dberr.Wrap(err, "biodata_update_lock")
	}

	// ── 2. Let the caller compute the change set ─────────────────────
	changes, err := apply(current)
	if err != nil {
		return nil, err
	}

	// ── 3. Persist only the changed columns ──────────────────────────
	if len(changes) > 0 {
		setClause, args := buildSet(columnForField, changes, id)
		update := fmt.Sprintf(`UPDATE %s SET %s, %s = NOW() WHERE %s = $1`,
			schema.GamesBiodata.Table, setClause, schema.GamesBiodata.UpdatedAt, schema.GamesBiodata.ID)

		if _, err := tx.Exec(context, update, args...); err != nil {
			return nil, dberr.Wrap(err, "biodata_update_exec")
		}
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "biodata_update_commit")
	}

	return current, nil
}

/*
Delete removes a biodata row by ID.
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.GamesBiodata.Table, schema.GamesBiodata.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "biodata_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("UserGameBiodata")
	}
	return nil
}

// # Read Methods

/*
FindByID retrieves a biodata row with its owning account embedded.
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Biodata, error) {
	query := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
		       a.%s, a.%s, a.%s, a.%s, a.%s
		FROM %s b
		JOIN %s a ON a.%s = b.%s
		WHERE b.%s = $1`,
		schema.GamesBiodata.ID, schema.GamesBiodata.AccountID, schema.GamesBiodata.Email,
		schema.GamesBiodata.Firstname, schema.GamesBiodata.Lastname, schema.GamesBiodata.ProfilePicture,
		schema.GamesBiodata.Country, schema.GamesBiodata.Age, schema.GamesBiodata.CreatedAt,
		schema.GamesBiodata.UpdatedAt,
		schema.GamesAccount.ID, schema.GamesAccount.Username, schema.GamesAccount.Role,
		schema.GamesAccount.CreatedAt, schema.GamesAccount.UpdatedAt,
		schema.GamesBiodata.Table,
		schema.GamesAccount.Table, schema.GamesAccount.ID, schema.GamesBiodata.AccountID,
		schema.GamesBiodata.ID,
	)

	entity := &Biodata{Owner: &Owner{}}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&entity.ID,
		&entity.AccountID,
		&entity.Email,
		&entity.Firstname,
		&entity.Lastname,
		&entity.ProfilePicture,
		&entity.Country,
		&entity.Age,
		&entity.CreatedAt,
		&entity.UpdatedAt,
		&entity.Owner.ID,
		&entity.Owner.Username,
		&entity.Owner.Role,
		&entity.Owner.CreatedAt,
		&entity.Owner.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("UserGameBiodata")
		}
		return nil, dberr.Wrap(err, "biodata_find_by_id")
	}

	return entity, nil
}

/*
FindAll lists biodata rows with owners embedded. A zero-value page returns
every row.
*/
func (repository *PostgresRepository) FindAll(context context.Context, page pagination.Params) ([]Biodata, error) {
	query := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
		       a.%s, a.%s, a.%s, a.%s, a.%s
		FROM %s b
		JOIN %s a ON a.%s = b.%s
		ORDER BY b.%s`,
		schema.GamesBiodata.ID, schema.GamesBiodata.AccountID, schema.GamesBiodata.Email,
		schema.GamesBiodata.Firstname, schema.GamesBiodata.Lastname, schema.GamesBiodata.ProfilePicture,
		schema.GamesBiodata.Country, schema.GamesBiodata.Age, schema.GamesBiodata.CreatedAt,
		schema.GamesBiodata.UpdatedAt,
		schema.GamesAccount.ID, schema.GamesAccount.Username, schema.GamesAccount.Role,
		schema.GamesAccount.CreatedAt, schema.GamesAccount.UpdatedAt,
		schema.GamesBiodata.Table,
		schema.GamesAccount.Table, schema.GamesAccount.ID, schema.GamesBiodata.AccountID,
		schema.GamesBiodata.ID,
	)
	if page.Enabled() {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, page.Limit, page.Offset())
	}

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "biodata_find_all")
	}
	defer rows.Close()

	var entities []Biodata
	for rows.Next() {
		entity := Biodata{Owner: &Owner{}}
		if err := rows.Scan(
			&entity.ID,
			&entity.AccountID,
			&entity.Email,
			&entity.Firstname,
			&entity.Lastname,
			&entity.ProfilePicture,
			&entity.Country,
			&entity.Age,
			&entity.CreatedAt,
			&entity.UpdatedAt,
			&entity.Owner.ID,
			&entity.Owner.Username,
			&entity.Owner.Role,
			&entity.Owner.CreatedAt,
			&entity.Owner.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "biodata_find_all_scan")
		}
		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

/*
FindByAccountID retrieves the profile belonging to an account, or nil.
*/
func (repository *PostgresRepository) FindByAccountID(context context.Context, accountID int64) (*Biodata, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.GamesBiodata.ID, schema.GamesBiodata.AccountID, schema.GamesBiodata.Email,
		schema.GamesBiodata.Firstname, schema.GamesBiodata.Lastname, schema.GamesBiodata.ProfilePicture,
		schema.GamesBiodata.Country, schema.GamesBiodata.Age, schema.GamesBiodata.CreatedAt,
		schema.GamesBiodata.UpdatedAt,
		schema.GamesBiodata.Table,
		schema.GamesBiodata.AccountID,
	)

	entity := &Biodata{}
	err := repository.pool.QueryRow(context, query, accountID).Scan(
		&entity.ID,
		&entity.AccountID,
		&entity.Email,
		&entity.Firstname,
		&entity.Lastname,
		&entity.ProfilePicture,
		&entity.Country,
		&entity.Age,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absence of a profile is a null payload here, not a 404.
			return nil, nil
		}
		return nil, dberr.Wrap(err, "biodata_find_by_account")
	}

	return entity, nil
}

/*
OwnerID resolves the owning account of a biodata row for the ownership guard.
*/
func (repository *PostgresRepository) OwnerID(context context.Context, id int64) (int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.GamesBiodata.AccountID, schema.GamesBiodata.Table, schema.GamesBiodata.ID)

	var ownerID int64
	if err := repository.pool.QueryRow(context, query, id).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("UserGameBiodata")
		}
		return 0, dberr.Wrap(err, "biodata_owner_id")
	}

	return ownerID, nil
}

// buildSet renders "col = $n" fragments for a change set. $1 is reserved for
// the row ID; change values start at $2. Fields are sorted so the generated
// SQL is deterministic.
func buildSet(columns map[string]string, changes diff.Record, id int64) (string, []interface{}) {
	fields := make([]string, 0, len(changes))
	for field := range changes {
		if _, ok := columns[field]; ok {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	args := []interface{}{id}
	fragments := make([]string, 0, len(fields))

	for _, field := range fields {
		args = append(args, changes[field])
		fragments = append(fragments, fmt.Sprintf("%s = $%d", columns[field], len(args)))
	}

	return strings.Join(fragments, ", "), args
}
