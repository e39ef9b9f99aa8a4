// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package biodata

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
	"github.com/taibuivan/gametrack/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for biodata profiles.
//
// It owns the create/update/delete flows: payload validation, profile
// picture storage, diff-driven partial updates, and public URL rewriting.
type Service struct {
	repository Repository
	uploads    storage.Uploads
	baseURL    string
	logger     *slog.Logger
}

// NewService constructs a new biodata [Service].
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
Create validates and persists a new biodata profile.

Description: A submitted file becomes the profile picture under a generated
filename; without one, the default placeholder is assigned. The stored
filename is rewritten to a public URL in the returned entity.

Parameters:
  - context: context.Context
  - submitted: diff.Record (normalized body fields)
  - file: *requestutil.Upload (optional profile picture)

Returns:
  - *Biodata: The created profile
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, submitted diff.Record, file *requestutil.Upload) (*Biodata, error) {

	// ── 1. Validate the required fields ──────────────────────────────
	email := recordString(submitted, "email")
	firstname := recordString(submitted, "firstname")
	lastname := recordString(submitted, "lastname")
	country := recordString(submitted, "country")
	age, hasAge := recordInt(submitted, "age")
	accountID, hasAccount := recordInt(submitted, "userGameId")

	v := &validate.Validator{}
	v.Required("email", email)
	if email != "" {
		v.Email("email", email)
	}
	v.Required("firstname", firstname).
		Required("lastname", lastname).
		Required("country", country).
		Custom("age", submitted["age"], !hasAge, "age must be an integer").
		Custom("userGameId", submitted["userGameId"], !hasAccount, "userGameId must be an integer")
	if hasAge {
		v.Min("age", age, 0)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	// ── 2. Store the profile picture, or fall back to the default ────
	filename := constants.DefaultProfilePicture
	if file != nil {
		filename = uuid.Compact() + file.Ext()
		if err := service.uploads.Save(context, constants.UploadDirProfiles, filename, file.Content, file.Size, file.ContentType); err != nil {
			return nil, fmt.Errorf("biodata_service_store_picture_failed: %w", err)
		}
		defer file.Content.Close()
	}

	// ── 3. Persist the profile ───────────────────────────────────────
	created, err := service.repository.Create(context, &Biodata{
		AccountID:      int64(accountID),
		Email:          email,
		Firstname:      firstname,
		Lastname:       lastname,
		ProfilePicture: filename,
		Country:        country,
		Age:            age,
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("biodata_created",
		slog.Int64("biodata_id", created.ID),
		slog.Int64("account_id", created.AccountID),
	)

	service.rewriteURL(created)
	return created, nil
}

/*
Update applies a partial change set to a biodata profile.

Description: An uploaded file joins the submitted fields as the new profile
picture. The diff engine selects the actually-changed fields against the
stored row (loaded under a row lock); an empty diff skips validation and
persistence entirely. Only changed fields are validated and written. A
replaced non-default picture is removed from storage best-effort.

Parameters:
  - context: context.Context
  - id: int64
  - submitted: diff.Record (partial body fields)
  - file: *requestutil.Upload (optional replacement picture)

Returns:
  - diff.Result: The {before, after} pair; empty when nothing changed
  - error: apperr.NotFound, validation, or storage failures
*/
func (service *Service) Update(context context.Context, id int64, submitted diff.Record, file *requestutil.Upload) (diff.Result, error) {

	// ── 1. Store a replacement picture before touching the row ───────
	if file != nil {
		filename := uuid.Compact() + file.Ext()
		if err := service.uploads.Save(context, constants.UploadDirProfiles, filename, file.Content, file.Size, file.ContentType); err != nil {
			return diff.Result{}, fmt.Errorf("biodata_service_store_picture_failed: %w", err)
		}
		defer file.Content.Close()
		submitted["profilePicture"] = filename
	}

	var result diff.Result
	var replacedPicture string

	// ── 2. Diff, validate, and persist under the row lock ────────────
	_, err := service.repository.Update(context, id, func(current *Biodata) (diff.Record, error) {
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

		if result.Changed("profilePicture") {
			replacedPicture = current.ProfilePicture
		}

		return result.After, nil
	})
	if err != nil {
		return diff.Result{}, err
	}

	// ── 3. Remove the replaced picture from storage ──────────────────
	if replacedPicture != "" && replacedPicture != constants.DefaultProfilePicture {
		if deleteErr := service.uploads.Delete(context, constants.UploadDirProfiles, replacedPicture); deleteErr != nil {
			service.logger.Warn("biodata_picture_cleanup_failed",
				slog.String("filename", replacedPicture),
				slog.Any("error", deleteErr),
			)
		}
	}

	if !result.Empty() {
		service.logger.Info("biodata_updated",
			slog.Int64("biodata_id", id),
			slog.Any("fields", result.Fields()),
		)
	}

	// Picture filenames in the pair surface as public URLs.
	service.rewritePictureField(result.Before)
	service.rewritePictureField(result.After)

	return result, nil
}

// validateChanges runs the per-field rules against only the changed fields.
func (service *Service) validateChanges(result diff.Result) error {
	v := &validate.Validator{}

	if result.Changed("email") {
		v.Email("email", recordString(result.After, "email"))
	}
	if result.Changed("firstname") {
		v.Required("firstname", recordString(result.After, "firstname"))
	}
	if result.Changed("lastname") {
		v.Required("lastname", recordString(result.After, "lastname"))
	}
	if result.Changed("country") {
		v.Required("country", recordString(result.After, "country"))
	}
	if result.Changed("age") {
		age, _ := recordInt(result.After, "age")
		v.Min("age", age, 0)
	}

	return v.Err()
}

/*
Delete removes a biodata profile and its stored picture.

Returns:
  - *Biodata: The pre-deletion snapshot with its picture URL rewritten
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, id int64) (*Biodata, error) {
	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if current.ProfilePicture != constants.DefaultProfilePicture {
		if deleteErr := service.uploads.Delete(context, constants.UploadDirProfiles, current.ProfilePicture); deleteErr != nil {
			service.logger.Warn("biodata_picture_cleanup_failed",
				slog.String("filename", current.ProfilePicture),
				slog.Any("error", deleteErr),
			)
		}
	}

	if err := service.repository.Delete(context, id); err != nil {
		return nil, err
	}

	service.logger.Info("biodata_deleted", slog.Int64("biodata_id", id))

	service.rewriteURL(current)
	return current, nil
}

// # Read Operations

/*
Get retrieves a single biodata profile with its owning account embedded.
*/
func (service *Service) Get(context context.Context, id int64) (*Biodata, error) {
	entity, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	service.rewriteURL(entity)
	return entity, nil
}

/*
List retrieves biodata profiles with owners embedded. A zero-value page
returns the full collection.
*/
func (service *Service) List(context context.Context, page pagination.Params) ([]Biodata, error) {
	entities, err := service.repository.FindAll(context, page)
	if err != nil {
		return nil, err
	}
	for index := range entities {
		service.rewriteURL(&entities[index])
	}
	return entities, nil
}

/*
GetByAccount retrieves the profile belonging to an account.

Returns nil without error when the account has no profile; the endpoint
reports that as a null data payload, not a 404.
*/
func (service *Service) GetByAccount(context context.Context, accountID int64) (*Biodata, error) {
	entity, err := service.repository.FindByAccountID(context, accountID)
	if err != nil {
		return nil, err
	}
	if entity != nil {
		service.rewriteURL(entity)
	}
	return entity, nil
}

/*
OwnerID resolves the owning account of a biodata row for the ownership guard.
*/
func (service *Service) OwnerID(context context.Context, id int64) (int64, error) {
	return service.repository.OwnerID(context, id)
}

// # Helpers

// rewriteURL maps the stored picture filename to its public URL.
func (service *Service) rewriteURL(entity *Biodata) {
	entity.ProfilePicture = storage.PublicURL(service.baseURL, constants.UploadDirProfiles, entity.ProfilePicture)
}

// rewritePictureField rewrites the picture entry of a diff record in place.
func (service *Service) rewritePictureField(record diff.Record) {
	if name, ok := record["profilePicture"].(string); ok {
		record["profilePicture"] = storage.PublicURL(service.baseURL, constants.UploadDirProfiles, name)
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
