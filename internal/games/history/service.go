// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/gametrack/internal/platform/constants"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	requestutil "github.com/taibuivan/gametrack/internal/platform/request"
	"github.com/taibuivan/gametrack/internal/platform/storage"
	"github.com/taibuivan/gametrack/internal/platform/validate"
	"github.com/taibuivan/gametrack/pkg/pagination"
	"github.com/taibuivan/gametrack/pkg/slice"
	"github.com/taibuivan/gametrack/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for play-history records.
//
// It owns the create/update/delete flows: payload validation, cover art
// storage, diff-driven partial updates, and public URL rewriting.
type Service struct {
	repository Repository
	uploads    storage.Uploads
	baseURL    string
	logger     *slog.Logger
}

// NewService constructs a new history [Service].
func NewService(repository Repository, uploads storage.Uploads, baseURL string, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		uploads:    uploads,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// # Write Operations

/*
Create validates and persists a new play-history record.

Description: A submitted file becomes the cover art under a generated
filename; without one, the default placeholder is assigned. LastPlayed is
set to the moment of creation by storage.

Parameters:
  - context: context.Context
  - submitted: diff.Record (normalized body fields)
  - file: *requestutil.Upload (optional cover art)

Returns:
  - *History: The created record
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, submitted diff.Record, file *requestutil.Upload) (*History, error) {

	// ── 1. Validate the required fields ──────────────────────────────
	title := recordString(submitted, "title")
	publisher := recordString(submitted, "publisher")
	score, hasScore := recordInt(submitted, "score")
	accountID, hasAccount := recordInt(submitted, "userGameId")

	v := &validate.Validator{}
	v.Required("title", title).
		Required("publisher", publisher).
		Custom("score", submitted["score"], !hasScore, "score must be an integer").
		Custom("userGameId", submitted["userGameId"], !hasAccount, "userGameId must be an integer")
	if hasScore {
		v.Range("score", score, 0, 100)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	// ── 2. Store the cover art, or fall back to the default ──────────
	filename := constants.DefaultGameCover
	if file != nil {
		filename = uuid.Compact() + file.Ext()
		if err := service.uploads.Save(context, constants.UploadDirGames, filename, file.Content, file.Size, file.ContentType); err != nil {
			return nil, fmt.Errorf("history_service_store_cover_failed: %w", err)
		}
		defer file.Content.Close()
	}

	// ── 3. Persist the record ────────────────────────────────────────
	created, err := service.repository.Create(context, &History{
		AccountID: int64(accountID),
		Title:     title,
		Publisher: publisher,
		Cover:     filename,
		Score:     score,
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("history_created",
		slog.Int64("history_id", created.ID),
		slog.Int64("account_id", created.AccountID),
	)

	service.rewriteURL(created)
	return created, nil
}

/*
Update applies a partial change set to a play-history record.

Description: An uploaded file joins the submitted fields as the new cover.
The diff engine selects the actually-changed fields against the stored row
(loaded under a row lock); an empty diff skips validation and persistence
entirely. An effective update also refreshes LastPlayed. A replaced
non-default cover is removed from storage best-effort.

Parameters:
  - context: context.Context
  - id: int64
  - submitted: diff.Record (partial body fields)
  - file: *requestutil.Upload (optional replacement cover)

Returns:
  - diff.Result: The {before, after} pair; empty when nothing changed
  - error: apperr.NotFound, validation, or storage failures
*/
func (service *Service) Update(context context.Context, id int64, submitted diff.Record, file *requestutil.Upload) (diff.Result, error) {

	// ── 1. Store a replacement cover before touching the row ─────────
	if file != nil {
		filename := uuid.Compact() + file.Ext()
		if err := service.uploads.Save(context, constants.UploadDirGames, filename, file.Content, file.Size, file.ContentType); err != nil {
			return diff.Result{}, fmt.Errorf("history_service_store_cover_failed: %w", err)
		}
		defer file.Content.Close()
		submitted["cover"] = filename
	}

	var result diff.Result
	var replacedCover string

	// ── 2. Diff, validate, and persist under the row lock ────────────
	_, err := service.repository.Update(context, id, func(current *History) (diff.Record, error) {
		computed, diffErr := diff.Compute(UpdatableFields(), current.Fields(), submitted)
		if diffErr != nil {
			return nil, diffErr
		}
		result = computed

		// Empty diff: succeed without validation or persistence.
		if result.Empty() {
			return nil, nil
		}

		if validateErr := service.validateChanges(result); validateErr != nil {
			return nil, validateErr
		}

		if result.Changed("cover") {
			replacedCover = current.Cover
		}

		return result.After, nil
	})
	if err != nil {
		return diff.Result{}, err
	}

	// ── 3. Remove the replaced cover from storage ────────────────────
	if replacedCover != "" && replacedCover != constants.DefaultGameCover {
		if deleteErr := service.uploads.Delete(context, constants.UploadDirGames, replacedCover); deleteErr != nil {
			service.logger.Warn("history_cover_cleanup_failed",
				slog.String("filename", replacedCover),
				slog.Any("error", deleteErr),
			)
		}
	}

	if !result.Empty() {
		service.logger.Info("history_updated",
			slog.Int64("history_id", id),
			slog.Any("fields", result.Fields()),
		)
	}

	// Cover filenames in the pair surface as public URLs.
	service.rewriteCoverField(result.Before)
	service.rewriteCoverField(result.After)

	return result, nil
}

// validateChanges runs the per-field rules against only the changed fields.
func (service *Service) validateChanges(result diff.Result) error {
	v := &validate.Validator{}

	if result.Changed("title") {
		v.Required("title", recordString(result.After, "title"))
	}
	if result.Changed("publisher") {
		v.Required("publisher", recordString(result.After, "publisher"))
	}
	if result.Changed("score") {
		score, _ := recordInt(result.After, "score")
		v.Range("score", score, 0, 100)
	}

	return v.Err()
}

/*
Delete removes a play-history record and its stored cover.

Returns:
  - *History: The pre-deletion snapshot with its cover URL rewritten
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, id int64) (*History, error) {
	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if current.Cover != constants.DefaultGameCover {
		if deleteErr := service.uploads.Delete(context, constants.UploadDirGames, current.Cover); deleteErr != nil {
			service.logger.Warn("history_cover_cleanup_failed",
				slog.String("filename", current.Cover),
				slog.Any("error", deleteErr),
			)
		}
	}

	if err := service.repository.Delete(context, id); err != nil {
		return nil, err
	}

	service.logger.Info("history_deleted", slog.Int64("history_id", id))

	service.rewriteURL(current)
	return current, nil
}

// # Read Operations

/*
Get retrieves a single history record with its owning account embedded.
*/
func (service *Service) Get(context context.Context, id int64) (*History, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	service.rewriteURL(entity)
	return entity, nil
}

/*
List retrieves history records with owners embedded. A zero-value page returns
the full collection.
*/
func (service *Service) List(context context.Context, page pagination.Params) ([]History, error) {
	entities, err := service.repository.FindAll(context, page)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, service.withPublicCover), nil
}

/*
ListByAccount retrieves the history records belonging to an account.
*/
func (service *Service) ListByAccount(context context.Context, accountID int64) ([]History, error) {
	entities, err := service.repository.FindByAccountID(context, accountID)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, service.withPublicCover), nil
}

/*
OwnerID resolves the owning account of a history row for the ownership guard.
*/
func (service *Service) OwnerID(context context.Context, id int64) (int64, error) {
	return service.repository.OwnerID(context, id)
}

// # Helpers

// rewriteURL maps the stored cover filename to its public URL.
func (service *Service) rewriteURL(entity *History) {
	entity.Cover = storage.PublicURL(service.baseURL, constants.UploadDirGames, entity.Cover)
}

// withPublicCover is the value-level form of rewriteURL for list mapping.
func (service *Service) withPublicCover(entity History) History {
	service.rewriteURL(&entity)
	return entity
}

// rewriteCoverField rewrites the cover entry of a diff record in place.
func (service *Service) rewriteCoverField(record diff.Record) {
	if name, ok := record["cover"].(string); ok {
		record["cover"] = storage.PublicURL(service.baseURL, constants.UploadDirGames, name)
	}
}

// recordString reads a string field from a normalized record.
func recordString(record diff.Record, key string) string {
	value, _ := record[key].(string)
	return value
}

// recordInt reads an int field from a normalized record, reporting presence.
func recordInt(record diff.Record, key string) (int, bool) {
	value, ok := record[key].(int)
	return value, ok
}
