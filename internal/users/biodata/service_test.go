// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package biodata_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/users/biodata"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// fakeRepository is an in-memory [biodata.Repository].
type fakeRepository struct {
	rows   map[int64]*biodata.Biodata
	nextID int64
}

func newFakeRepository(rows ...*biodata.Biodata) *fakeRepository {
	repo := &fakeRepository{rows: map[int64]*biodata.Biodata{}, nextID: 1}
	for _, row := range rows {
		repo.rows[row.ID] = row
		if row.ID >= repo.nextID {
			repo.nextID = row.ID + 1
		}
	}
	return repo
}

func (f *fakeRepository) Create(_ context.Context, entity *biodata.Biodata) (*biodata.Biodata, error) {
	entity.ID = f.nextID
	f.nextID++
	f.rows[entity.ID] = entity
	return entity, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id int64) (*biodata.Biodata, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("UserGameBiodata")
	}
	copied := *row
	return &copied, nil
}

func (f *fakeRepository) FindAll(_ context.Context, _ pagination.Params) ([]biodata.Biodata, error) {
	var out []biodata.Biodata
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeRepository) FindByAccountID(_ context.Context, accountID int64) (*biodata.Biodata, error) {
	for _, row := range f.rows {
		if row.AccountID == accountID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) Update(_ context.Context, id int64, apply func(*biodata.Biodata) (diff.Record, error)) (*biodata.Biodata, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("UserGameBiodata")
	}

	changes, err := apply(row)
	if err != nil {
		return nil, err
	}

	for field, value := range changes {
		switch field {
		case "email":
			row.Email = value.(string)
		case "firstname":
			row.Firstname = value.(string)
		case "lastname":
			row.Lastname = value.(string)
		case "profilePicture":
			row.ProfilePicture = value.(string)
		case "country":
			row.Country = value.(string)
		case "age":
			row.Age = value.(int)
		case "userGameId":
			row.AccountID = int64(value.(int))
		}
	}

	return row, nil
}

func (f *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("UserGameBiodata")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRepository) OwnerID(_ context.Context, id int64) (int64, error) {
	row, ok := f.rows[id]
	if !ok {
		return 0, apperr.NotFound("UserGameBiodata")
	}
	return row.AccountID, nil
}

// fakeUploads records storage interactions.
type fakeUploads struct {
	saved   []string
	deleted []string
}

func (f *fakeUploads) Save(_ context.Context, dir, name string, _ io.Reader, _ int64, _ string) error {
	f.saved = append(f.saved, dir+"/"+name)
	return nil
}

func (f *fakeUploads) Delete(_ context.Context, dir, name string) error {
	f.deleted = append(f.deleted, dir+"/"+name)
	return nil
}

func newService(repo *fakeRepository, uploads *fakeUploads) *biodata.Service {
	return biodata.NewService(repo, uploads, "http://localhost:3000", slog.Default())
}

func storedRow() *biodata.Biodata {
	return &biodata.Biodata{
		ID:             5,
		AccountID:      7,
		Email:          "jane@example.com",
		Firstname:      "Jane",
		Lastname:       "Doe",
		ProfilePicture: "default-profile.png",
		Country:        "Japan",
		Age:            23,
	}
}

/*
TestService_Update_SingleField verifies that only the changed field appears
in the {before, after} pair and that unchanged fields are untouched.
*/
func TestService_Update_SingleField(t *testing.T) {
	repo := newFakeRepository(storedRow())
	service := newService(repo, &fakeUploads{})

	result, err := service.Update(context.Background(), 5, diff.Record{
		"firstname": "John",
		"lastname":  "Doe",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"firstname"}, result.Fields())
	assert.Equal(t, "Jane", result.Before["firstname"])
	assert.Equal(t, "John", result.After["firstname"])
	assert.Equal(t, "John", repo.rows[5].Firstname)
	assert.Equal(t, "Doe", repo.rows[5].Lastname)
}

/*
TestService_Update_NumericString verifies that numeric strings from form
bodies are coerced before comparison, so "23" against a stored 23 is not a
change.
*/
func TestService_Update_NumericString(t *testing.T) {
	repo := newFakeRepository(storedRow())
	service := newService(repo, &fakeUploads{})

	result, err := service.Update(context.Background(), 5, diff.Record{"age": "23"}, nil)

	require.NoError(t, err)
	assert.True(t, result.Empty())
}

/*
TestService_Update_NoChanges verifies the empty-diff short circuit: identical
values succeed without validation or persistence.
*/
func TestService_Update_NoChanges(t *testing.T) {
	repo := newFakeRepository(storedRow())
	service := newService(repo, &fakeUploads{})

	// An invalid stored value would fail validation, but an empty diff must
	// never reach the validators.
	result, err := service.Update(context.Background(), 5, diff.Record{
		"email": "jane@example.com",
	}, nil)

	require.NoError(t, err)
	assert.True(t, result.Empty())
}

/*
TestService_Update_ValidatesChangedFieldsOnly verifies that validation runs
against changed fields and rejects invalid new values.
*/
func TestService_Update_ValidatesChangedFieldsOnly(t *testing.T) {
	repo := newFakeRepository(storedRow())
	service := newService(repo, &fakeUploads{})

	_, err := service.Update(context.Background(), 5, diff.Record{"email": "not-an-email"}, nil)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	require.Len(t, appError.Errors, 1)
	assert.Equal(t, "email", appError.Errors[0].Param)

	// The row must be untouched after a failed validation.
	assert.Equal(t, "jane@example.com", repo.rows[5].Email)
}

/*
TestService_Update_UnparsableNumber verifies that a numeric field submitted
as a non-numeric string is rejected with a structured field error.
*/
func TestService_Update_UnparsableNumber(t *testing.T) {
	repo := newFakeRepository(storedRow())
	service := newService(repo, &fakeUploads{})

	_, err := service.Update(context.Background(), 5, diff.Record{"age": "twenty"}, nil)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	require.Len(t, appError.Errors, 1)
	assert.Equal(t, "age", appError.Errors[0].Param)
	assert.Equal(t, "twenty", appError.Errors[0].Value)
}

/*
TestService_Update_NotFound verifies the 404 outcome for a missing target.
*/
func TestService_Update_NotFound(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, &fakeUploads{})

	_, err := service.Update(context.Background(), 99, diff.Record{"firstname": "John"}, nil)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

/*
TestService_Delete_KeepsDefaultPicture verifies that deleting a profile with
the placeholder picture does not touch the object store.
*/
func TestService_Delete_KeepsDefaultPicture(t *testing.T) {
	repo := newFakeRepository(storedRow())
	uploads := &fakeUploads{}
	service := newService(repo, uploads)

	deleted, err := service.Delete(context.Background(), 5)

	require.NoError(t, err)
	assert.Empty(t, uploads.deleted)
	assert.Equal(t, "http://localhost:3000/uploads/profiles/default-profile.png", deleted.ProfilePicture)
	assert.NotContains(t, repo.rows, int64(5))
}

/*
TestService_Delete_RemovesUploadedPicture verifies that a non-default picture
is removed from storage alongside the row.
*/
func TestService_Delete_RemovesUploadedPicture(t *testing.T) {
	row := storedRow()
	row.ProfilePicture = "abc123.png"
	repo := newFakeRepository(row)
	uploads := &fakeUploads{}
	service := newService(repo, uploads)

	_, err := service.Delete(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"profiles/abc123.png"}, uploads.deleted)
}

/*
TestService_Create_RequiresFields verifies the create-time validators.
*/
func TestService_Create_RequiresFields(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, &fakeUploads{})

	_, err := service.Create(context.Background(), diff.Record{"email": "jane@example.com"}, nil)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)

	params := map[string]bool{}
	for _, fieldError := range appError.Errors {
		params[fieldError.Param] = true
	}
	assert.True(t, params["firstname"])
	assert.True(t, params["lastname"])
	assert.True(t, params["country"])
	assert.True(t, params["age"])
	assert.True(t, params["userGameId"])
}

/*
TestService_Create_DefaultPicture verifies that a create without a file gets
the placeholder picture, rewritten to its public URL.
*/
func TestService_Create_DefaultPicture(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, &fakeUploads{})

	created, err := service.Create(context.Background(), diff.Record{
		"email":      "jane@example.com",
		"firstname":  "Jane",
		"lastname":   "Doe",
		"country":    "Japan",
		"age":        23,
		"userGameId": 7,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.AccountID)
	assert.Equal(t, "http://localhost:3000/uploads/profiles/default-profile.png", created.ProfilePicture)
}
