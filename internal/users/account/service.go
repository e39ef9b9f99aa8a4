// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/gametrack/internal/platform/constants"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/platform/sec"
	"github.com/taibuivan/gametrack/internal/platform/storage"
	"github.com/taibuivan/gametrack/internal/platform/validate"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for player accounts.
type Service struct {
	repository Repository
	uploads    storage.Uploads
	baseURL    string
	logger     *slog.Logger
}

// NewService constructs a new account [Service].
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
Create validates credentials and persists a new member account.

Description: The plain password is bcrypt-hashed before storage. New
accounts always start with the member role; promotion is an operator
concern, not an API one.

Parameters:
  - context: context.Context
  - submitted: diff.Record (normalized body fields)

Returns:
  - *Account: The created account, password hash excluded from JSON
  - error: Validation failures or a duplicate username
*/
func (service *Service) Create(context context.Context, submitted diff.Record) (*Account, error) {
	username := recordString(submitted, "username")
	password := recordString(submitted, "password")

	v := &validate.Validator{}
	v.Required("username", username)
	if username != "" {
		v.MinLen("username", username, 3)
	}
	v.Required("password", password)
	if password != "" {
		v.MinLen("password", password, 6)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return nil, err
	}

	created, err := service.repository.Create(context, &Account{
		Username: username,
		Password: hash,
		Role:     string(sec.RoleMember),
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("account_created",
		slog.Int64("account_id", created.ID),
		slog.String("username", created.Username),
	)

	return created, nil
}

/*
Update applies a partial change set to an account.

Description: A submitted password is validated in plain form, then hashed
before the diff so the comparison runs hash against hash. The diff engine
selects the actually-changed fields against the stored row (loaded under a
row lock); an empty diff skips validation and persistence entirely.

Parameters:
  - context: context.Context
  - id: int64
  - submitted: diff.Record (partial body fields)

Returns:
  - diff.Result: The {before, after} pair; password entries hold hashes
  - error: apperr.NotFound, validation, or storage failures
*/
func (service *Service) Update(context context.Context, id int64, submitted diff.Record) (diff.Result, error) {

	// ── 1. Validate and hash a submitted password up front ───────────
	if plain, ok := submitted["password"].(string); ok {
		v := &validate.Validator{}
		v.MinLen("password", plain, 6)
		if err := v.Err(); err != nil {
			return diff.Result{}, err
		}

		hash, err := sec.HashPassword(plain)
		if err != nil {
			return diff.Result{}, err
		}
		submitted["password"] = hash
	}

	var result diff.Result

	// ── 2. Diff, validate, and persist under the row lock ────────────
	_, err := service.repository.Update(context, id, func(current *Account) (diff.Record, error) {
		computed, diffErr := diff.Compute(UpdatableFields(), current.Fields(), submitted)
		if diffErr != nil {
			return nil, diffErr
		}
		result = computed

		// Empty diff: succeed without validation or persistence.
		if result.Empty() {
			return nil, nil
		}

		if result.Changed("username") {
			v := &validate.Validator{}
			v.MinLen("username", recordString(result.After, "username"), 3)
			if validateErr := v.Err(); validateErr != nil {
				return nil, validateErr
			}
		}

		return result.After, nil
	})
	if err != nil {
		return diff.Result{}, err
	}

	if !result.Empty() {
		service.logger.Info("account_updated",
			slog.Int64("account_id", id),
			slog.Any("fields", result.Fields()),
		)
	}

	return result, nil
}

/*
Delete removes an account and everything attached to it.

Description: Uploaded files referenced by the account's biodata profile and
histories are removed from storage first, best-effort, then the rows go in
one cascading transaction.

Returns:
  - *Account: The pre-deletion snapshot with embeds and file URLs rewritten
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, id int64) (*Account, error) {
	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// ── 1. Clean up uploaded files referenced by the embeds ──────────
	if current.Biodata != nil && current.Biodata.ProfilePicture != constants.DefaultProfilePicture {
		if deleteErr := service.uploads.Delete(context, constants.UploadDirProfiles, current.Biodata.ProfilePicture); deleteErr != nil {
			service.logger.Warn("account_picture_cleanup_failed",
				slog.String("filename", current.Biodata.ProfilePicture),
				slog.Any("error", deleteErr),
			)
		}
	}
	for index := range current.Histories {
		cover := current.Histories[index].Cover
		if cover == constants.DefaultGameCover {
			continue
		}
		if deleteErr := service.uploads.Delete(context, constants.UploadDirGames, cover); deleteErr != nil {
			service.logger.Warn("account_cover_cleanup_failed",
				slog.String("filename", cover),
				slog.Any("error", deleteErr),
			)
		}
	}

	// ── 2. Drop the rows in one transaction ──────────────────────────
	if err := service.repository.Delete(context, id); err != nil {
		return nil, err
	}

	service.logger.Info("account_deleted", slog.Int64("account_id", id))

	service.rewriteEmbeds(current)
	return current, nil
}

/*
SetPassword hashes and stores a new password for an account. Used by the
password reset flow; skips the diff since the reset token already proved
intent.
*/
func (service *Service) SetPassword(context context.Context, id int64, plain string) error {
	v := &validate.Validator{}
	v.Required("password", plain)
	if plain != "" {
		v.MinLen("password", plain, 6)
	}
	if err := v.Err(); err != nil {
		return err
	}

	hash, err := sec.HashPassword(plain)
	if err != nil {
		return err
	}

	_, err = service.repository.Update(context, id, func(current *Account) (diff.Record, error) {
		return diff.Record{"password": hash}, nil
	})
	if err != nil {
		return err
	}

	service.logger.Info("account_password_reset", slog.Int64("account_id", id))
	return nil
}

// # Read Operations

/*
Get retrieves a single account with its biodata and histories embedded.
*/
func (service *Service) Get(context context.Context, id int64) (*Account, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	service.rewriteEmbeds(entity)
	return entity, nil
}

/*
List retrieves accounts with embeds populated. A zero-value page returns the
full collection.
*/
func (service *Service) List(context context.Context, page pagination.Params) ([]Account, error) {
	entities, err := service.repository.FindAll(context, page)
	if err != nil {
		return nil, err
	}
	for index := range entities {
		service.rewriteEmbeds(&entities[index])
	}
	return entities, nil
}

/*
GetByUsername retrieves an account by login name, hash included.

Returns nil without error when the username is unknown; the login flow
reports that as a field error, not a 404.
*/
func (service *Service) GetByUsername(context context.Context, username string) (*Account, error) {
	return service.repository.FindByUsername(context, username)
}

/*
OwnerID resolves the owner of an account for the ownership guard. An
account is owned by itself.
*/
func (service *Service) OwnerID(context context.Context, id int64) (int64, error) {
	return service.repository.OwnerID(context, id)
}

// # Helpers

// rewriteEmbeds maps stored filenames in the embedded records to public URLs.
func (service *Service) rewriteEmbeds(entity *Account) {
	if entity.Biodata != nil {
		entity.Biodata.ProfilePicture = storage.PublicURL(service.baseURL, constants.UploadDirProfiles, entity.Biodata.ProfilePicture)
	}
	for index := range entity.Histories {
		entity.Histories[index].Cover = storage.PublicURL(service.baseURL, constants.UploadDirGames, entity.Histories[index].Cover)
	}
}

// recordString reads a string field from a normalized record.
func recordString(record diff.Record, key string) string {
	value, _ := record[key].(string)
	return value
}
