// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package history (Postgres) implements the storage layer for play history.

# Schema Table Mapping
  - games.history: per-game play records keyed to games.account.
  - games.account: joined for the embedded owner summary.
*/
package history

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
	"title":      schema.GamesHistory.Title,
	"publisher":  schema.GamesHistory.Publisher,
	"cover":      schema.GamesHistory.Cover,
	"score":      schema.GamesHistory.Score,
	"userGameId": schema.GamesHistory.AccountID,
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the Postgres implementation for play history.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Write Methods

/*
Create inserts a new history row. The lastplayed timestamp defaults to now.

Returns:
  - *History: Hydrated entity with generated ID and timestamps
  - error: 400-mapped constraint violations or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, entity *History) (*History, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s, %s, %s`,
		schema.GamesHistory.Table,
		schema.GamesHistory.AccountID, schema.GamesHistory.Title, schema.GamesHistory.Publisher,
		schema.GamesHistory.Cover, schema.GamesHistory.Score,
		schema.GamesHistory.ID, schema.GamesHistory.LastPlayed, schema.GamesHistory.CreatedAt,
		schema.GamesHistory.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		entity.AccountID,
		entity.Title,
		entity.Publisher,
		entity.Cover,
		entity.Score,
	).Scan(&entity.ID, &entity.LastPlayed, &entity.CreatedAt, &entity.UpdatedAt)

	if err != nil {
		return nil, dberr.Wrap(err, "history_create")
	}

	return entity, nil
}

/*
Update applies a partial change set under a SELECT ... FOR UPDATE row lock.

Description: The read-diff-write sequence runs inside a single transaction so
concurrent updates serialize instead of silently losing writes. An effective
change set also refreshes the lastplayed timestamp.
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, apply func(current *History) (diff.Record, error)) (*History, error) {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "history_update_begin")
	}
	defer tx.Rollback(context)

	// ── 1. Lock and load the current row ─────────────────────────────
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		FOR UPDATE`,
		schema.GamesHistory.ID, schema.GamesHistory.AccountID, schema.GamesHistory.Title,
		schema.GamesHistory.Publisher, schema.GamesHistory.Cover, schema.GamesHistory.Score,
		schema.GamesHistory.LastPlayed, schema.GamesHistory.CreatedAt, schema.GamesHistory.UpdatedAt,
		schema.GamesHistory.Table,
		schema.GamesHistory.ID,
	)

	current := &History{}
	err = tx.QueryRow(context, query, id).Scan(
		&current.ID,
		&current.AccountID,
		&current.Title,
		&current.Publisher,
		&current.Cover,
		&current.Score,
		&current.LastPlayed,
		&current.CreatedAt,
		&current.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("UserGameHistory")
		}
		return nil, dberr.Wrap(err, "history_update_lock")
	}

	// ── 2. Let the caller compute the change set ─────────────────────
	changes, err := apply(current)
	if err != nil {
		return nil, err
	}

	// ── 3. Persist only the changed columns ──────────────────────────
	if len(changes) > 0 {
		setClause, args := buildSet(columnForField, changes, id)
		update := fmt.Sprintf(`UPDATE %s SET %s, %s = NOW(), %s = NOW() WHERE %s = $1`,
			schema.GamesHistory.Table, setClause,
			schema.GamesHistory.LastPlayed, schema.GamesHistory.UpdatedAt,
			schema.GamesHistory.ID)

		if _, err := tx.Exec(context, update, args...); err != nil {
			return nil, dberr.Wrap(err, "history_update_exec")
		}
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "history_update_commit")
	}

	return current, nil
}

/*
Delete removes a history row by ID.
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.GamesHistory.Table, schema.GamesHistory.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "history_delete")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("UserGameHistory")
	}
	return nil
}

// # Read Methods

const historyWithOwnerColumns = `
	h.%s, h.%s, h.%s, h.%s, h.%s, h.%s, h.%s, h.%s, h.%s,
	a.%s, a.%s, a.%s, a.%s, a.%s`

// scanWithOwner reads one joined history+owner row.
func scanWithOwner(row pgx.Row) (*History, error) {
	entity := &History{Owner: &Owner{}}
	err := row.Scan(
		&entity.ID,
		&entity.AccountID,
		&entity.Title,
		&entity.Publisher,
		&entity.Cover,
		&entity.Score,
		&entity.LastPlayed,
		&entity.CreatedAt,
		&entity.UpdatedAt,
		&entity.Owner.ID,
		&entity.Owner.Username,
		&entity.Owner.Role,
		&entity.Owner.CreatedAt,
		&entity.Owner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// joinedQuery renders the history+owner SELECT with an optional WHERE tail.
func joinedQuery(tail string) string {
	columns := fmt.Sprintf(historyWithOwnerColumns,
		schema.GamesHistory.ID, schema.GamesHistory.AccountID, schema.GamesHistory.Title,
		schema.GamesHistory.Publisher, schema.GamesHistory.Cover, schema.GamesHistory.Score,
		schema.GamesHistory.LastPlayed, schema.GamesHistory.CreatedAt, schema.GamesHistory.UpdatedAt,
		schema.GamesAccount.ID, schema.GamesAccount.Username, schema.GamesAccount.Role,
		schema.GamesAccount.CreatedAt, schema.GamesAccount.UpdatedAt,
	)

	return fmt.Sprintf(`SELECT %s FROM %s h JOIN %s a ON a.%s = h.%s %s`,
		columns,
		schema.GamesHistory.Table,
		schema.GamesAccount.Table, schema.GamesAccount.ID, schema.GamesHistory.AccountID,
		tail,
	)
}

/*
FindByID retrieves a history row with its owning account embedded.
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*History, error) {
	query := joinedQuery(fmt.Sprintf(`WHERE h.%s = $1`, schema.GamesHistory.ID))

	entity, err := scanWithOwner(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("UserGameHistory")
		}
		return nil, dberr.Wrap(err, "history_find_by_id")
	}

	return entity, nil
}

/*
FindAll lists history rows with owners embedded. A zero-value page returns
every row.
*/
func (repository *PostgresRepository) FindAll(context context.Context, page pagination.Params) ([]History, error) {
	suffix := fmt.Sprintf(`ORDER BY h.%s`, schema.GamesHistory.ID)
	if page.Enabled() {
		suffix += fmt.Sprintf(` LIMIT %d OFFSET %d`, page.Limit, page.Offset())
	}
	query := joinedQuery(suffix)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "history_find_all")
	}
	defer rows.Close()

	var entities []History
	for rows.Next() {
		entity, scanErr := scanWithOwner(rows)
		if scanErr != nil {
			return nil, dberr.Wrap(scanErr, "history_find_all_scan")
		}
		entities = append(entities, *entity)
	}

	return entities, rows.Err()
}

/*
FindByAccountID lists the history rows belonging to an account, most recently
played first.
*/
func (repository *PostgresRepository) FindByAccountID(context context.Context, accountID int64) ([]History, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		schema.GamesHistory.ID, schema.GamesHistory.AccountID, schema.GamesHistory.Title,
		schema.GamesHistory.Publisher, schema.GamesHistory.Cover, schema.GamesHistory.Score,
		schema.GamesHistory.LastPlayed, schema.GamesHistory.CreatedAt, schema.GamesHistory.UpdatedAt,
		schema.GamesHistory.Table,
		schema.GamesHistory.AccountID,
		schema.GamesHistory.LastPlayed,
	)

	rows, err := repository.pool.Query(context, query, accountID)
	if err != nil {
		return nil, dberr.Wrap(err, "history_find_by_account")
	}
	defer rows.Close()

	var entities []History
	for rows.Next() {
		var entity History
		if err := rows.Scan(
			&entity.ID,
			&entity.AccountID,
			&entity.Title,
			&entity.Publisher,
			&entity.Cover,
			&entity.Score,
			&entity.LastPlayed,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "history_find_by_account_scan")
		}
		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

/*
OwnerID resolves the owning account of a history row for the ownership guard.
*/
func (repository *PostgresRepository) OwnerID(context context.Context, id int64) (int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.GamesHistory.AccountID, schema.GamesHistory.Table, schema.GamesHistory.ID)

	var ownerID int64
	if err := repository.pool.QueryRow(context, query, id).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("UserGameHistory")
		}
		return 0, dberr.Wrap(err, "history_owner_id")
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
