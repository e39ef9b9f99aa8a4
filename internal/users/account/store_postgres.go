// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account (Postgres) implements the storage layer for player accounts.

# Schema Table Mapping
  - games.account: credential and role rows.
  - games.biodata: loaded per account for the embedded profile.
  - games.history: loaded per account for the embedded play histories.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/gametrack/internal/games/history"
	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/database/schema"
	"github.com/taibuivan/gametrack/internal/platform/dberr"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/users/biodata"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// columnForField maps schema-declared field names to their table columns.
var columnForField = map[string]string{
	"username": schema.GamesAccount.Username,
	"password": schema.GamesAccount.Password,
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the Postgres implementation for accounts.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Write Methods

/*
Create inserts a new account row and returns the stored entity.

Returns:
  - *Account: Hydrated entity with generated ID and timestamps
  - error: 400-mapped constraint violations (duplicate username) or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, entity *Account) (*Account, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s, %s`,
		schema.GamesAccount.Table,
		schema.GamesAccount.Username, schema.GamesAccount.Password, schema.GamesAccount.Role,
		schema.GamesAccount.ID, schema.GamesAccount.CreatedAt, schema.GamesAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		entity.Username,
		entity.Password,
		entity.Role,
	).Scan(&entity.ID, &entity.CreatedAt, &entity.UpdatedAt)

	if err != nil {
		return nil, dberr.Wrap(err, "account_create")
	}

	entity.Histories = []history.History{}
	return entity, nil
}

/*
Update applies a partial change set under a SELECT ... FOR UPDATE row lock.

Description: The read-diff-write sequence runs inside a single transaction so
concurrent updates serialize instead of silently losing writes.
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, apply func(current *Account) (diff.Record, error)) (*Account, error) {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "account_update_begin")
	}
	defer tx.Rollback(context)

	// ── 1. Lock and load the current row ─────────────────────────────
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		FOR UPDATE`,
		schema.GamesAccount.ID, schema.GamesAccount.Username, schema.GamesAccount.Password,
		schema.GamesAccount.Role, schema.GamesAccount.CreatedAt, schema.GamesAccount.UpdatedAt,
		schema.GamesAccount.Table,
		schema.GamesAccount.ID,
	)

	current := &Account{}
	err = tx.QueryRow(context, query, id).Scan(
		&current.ID,
		&current.Username,
		&current.Password,
		&current.Role,
		&current.CreatedAt,
		&current.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("UserGame")
		}
		return nil, dberr.Wrap(err, "account_update_lock")
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
			schema.GamesAccount.Table, setClause, schema.GamesAccount.UpdatedAt, schema.GamesAccount.ID)

		if _, err := tx.Exec(context, update, args...); err != nil {
			return nil, dberr.Wrap(err, "account_update_exec")
		}
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "account_update_commit")
	}

	return current, nil
}

/*
Delete removes an account with its biodata and history rows in one
transaction. The child rows go first to satisfy the foreign keys.
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "account_delete_begin")
	}
	defer tx.Rollback(context)

	deleteBiodata := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.GamesBiodata.Table, schema.GamesBiodata.AccountID)
	if _, err := tx.Exec(context, deleteBiodata, id); err != nil {
		return dberr.Wrap(err, "account_delete_biodata")
	}

	deleteHistories := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.GamesHistory.Table, schema.GamesHistory.AccountID)
	if _, err := tx.Exec(context, deleteHistories, id); err != nil {
		return dberr.Wrap(err, "account_delete_histories")
	}

	deleteAccount := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.GamesAccount.Table, schema.GamesAccount.ID)
	tag, err := tx.Exec(context, deleteAccount, id)
	if err != nil {
		return dberr.Wrap(err, "account_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("UserGame")
	}

	return tx.Commit(context)
}

// # Read Methods

/*
FindByID retrieves an account with its biodata profile and play histories
embedded.
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.GamesAccount.ID, schema.GamesAccount.Username, schema.GamesAccount.Password,
		schema.GamesAccount.Role, schema.GamesAccount.CreatedAt, schema.GamesAccount.UpdatedAt,
		schema.GamesAccount.Table,
		schema.GamesAccount.ID,
	)

	entity := &Account{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&entity.ID,
		&entity.Username,
		&entity.Password,
		&entity.Role,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("UserGame")
		}
		return nil, dberr.Wrap(err, "account_find_by_id")
	}

	if err := repository.loadEmbeds(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

/*
FindAll lists accounts with embeds populated.

Description: Loads the requested accounts, then their biodata and history rows
in two follow-up queries, and assembles them by account ID. Three queries
total, regardless of account count. A zero-value page loads every account.
*/
func (repository *PostgresRepository) FindAll(context context.Context, page pagination.Params) ([]Account, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s`,
		schema.GamesAccount.ID, schema.GamesAccount.Username, schema.GamesAccount.Password,
		schema.GamesAccount.Role, schema.GamesAccount.CreatedAt, schema.GamesAccount.UpdatedAt,
		schema.GamesAccount.Table,
		schema.GamesAccount.ID,
	)
	if page.Enabled() {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, page.Limit, page.Offset())
	}

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "account_find_all")
	}
	defer rows.Close()

	var entities []Account
	byID := map[int64]*Account{}
	for rows.Next() {
		entity := Account{Histories: []history.History{}}
		if err := rows.Scan(
			&entity.ID,
			&entity.Username,
			&entity.Password,
			&entity.Role,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "account_find_all_scan")
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "account_find_all_rows")
	}
	for index := range entities {
		byID[entities[index].ID] = &entities[index]
	}

	if err := repository.attachBiodata(context, byID); err != nil {
		return nil, err
	}
	if err := repository.attachHistories(context, byID); err != nil {
		return nil, err
	}

	return entities, nil
}

/*
FindByUsername retrieves an account by login name, or nil when unknown.
*/
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.GamesAccount.ID, schema.GamesAccount.Username, schema.GamesAccount.Password,
		schema.GamesAccount.Role, schema.GamesAccount.CreatedAt, schema.GamesAccount.UpdatedAt,
		schema.GamesAccount.Table,
		schema.GamesAccount.Username,
	)

	entity := &Account{}
	err := repository.pool.QueryRow(context, query, username).Scan(
		&entity.ID,
		&entity.Username,
		&entity.Password,
		&entity.Role,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown usernames surface as a login field error, not a 404.
			return nil, nil
		}
		return nil, dberr.Wrap(err, "account_find_by_username")
	}

	return entity, nil
}

/*
OwnerID verifies an account exists and echoes its ID for the ownership guard.
*/
func (repository *PostgresRepository) OwnerID(context context.Context, id int64) (int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.GamesAccount.ID, schema.GamesAccount.Table, schema.GamesAccount.ID)

	var ownerID int64
	if err := repository.pool.QueryRow(context, query, id).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("UserGame")
		}
		return 0, dberr.Wrap(err, "account_owner_id")
	}

	return ownerID, nil
}

// # Embed Loading

// loadEmbeds populates the biodata and history embeds of a single account.
func (repository *PostgresRepository) loadEmbeds(context context.Context, entity *Account) error {
	byID := map[int64]*Account{entity.ID: entity}
	entity.Histories = []history.History{}

	if err := repository.attachBiodata(context, byID); err != nil {
		return err
	}
	return repository.attachHistories(context, byID)
}

// attachBiodata loads the biodata rows for the given accounts and attaches
// each to its owner.
func (repository *PostgresRepository) attachBiodata(context context.Context, byID map[int64]*Account) error {
	if len(byID) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)`,
		schema.GamesBiodata.ID, schema.GamesBiodata.AccountID, schema.GamesBiodata.Email,
		schema.GamesBiodata.Firstname, schema.GamesBiodata.Lastname, schema.GamesBiodata.ProfilePicture,
		schema.GamesBiodata.Country, schema.GamesBiodata.Age, schema.GamesBiodata.CreatedAt,
		schema.GamesBiodata.UpdatedAt,
		schema.GamesBiodata.Table,
		schema.GamesBiodata.AccountID,
	)

	rows, err := repository.pool.Query(context, query, accountIDs(byID))
	if err != nil {
		return dberr.Wrap(err, "account_attach_biodata")
	}
	defer rows.Close()

	for rows.Next() {
		profile := biodata.Biodata{}
		if err := rows.Scan(
			&profile.ID,
			&profile.AccountID,
			&profile.Email,
			&profile.Firstname,
			&profile.Lastname,
			&profile.ProfilePicture,
			&profile.Country,
			&profile.Age,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return dberr.Wrap(err, "account_attach_biodata_scan")
		}
		if owner, ok := byID[profile.AccountID]; ok {
			attached := profile
			owner.Biodata = &attached
		}
	}

	return rows.Err()
}

// attachHistories loads the play histories for the given accounts, most
// recently played first.
func (repository *PostgresRepository) attachHistories(context context.Context, byID map[int64]*Account) error {
	if len(byID) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)
		ORDER BY %s DESC`,
		schema.GamesHistory.ID, schema.GamesHistory.AccountID, schema.GamesHistory.Title,
		schema.GamesHistory.Publisher, schema.GamesHistory.Cover, schema.GamesHistory.Score,
		schema.GamesHistory.LastPlayed, schema.GamesHistory.CreatedAt, schema.GamesHistory.UpdatedAt,
		schema.GamesHistory.Table,
		schema.GamesHistory.AccountID,
		schema.GamesHistory.LastPlayed,
	)

	rows, err := repository.pool.Query(context, query, accountIDs(byID))
	if err != nil {
		return dberr.Wrap(err, "account_attach_histories")
	}
	defer rows.Close()

	for rows.Next() {
		played := history.History{}
		if err := rows.Scan(
			&played.ID,
			&played.AccountID,
			&played.Title,
			&played.Publisher,
			&played.Cover,
			&played.Score,
			&played.LastPlayed,
			&played.CreatedAt,
			&played.UpdatedAt,
		); err != nil {
			return dberr.Wrap(err, "account_attach_histories_scan")
		}
		if owner, ok := byID[played.AccountID]; ok {
			owner.Histories = append(owner.Histories, played)
		}
	}

	return rows.Err()
}

// accountIDs collects the map keys for an ANY($1) parameter.
func accountIDs(byID map[int64]*Account) []int64 {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	return ids
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
