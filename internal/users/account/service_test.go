// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gametrack/internal/games/history"
	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/platform/sec"
	"github.com/taibuivan/gametrack/internal/users/account"
	"github.com/taibuivan/gametrack/internal/users/biodata"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// fakeRepository is an in-memory [account.Repository].
type fakeRepository struct {
	rows   map[int64]*account.Account
	nextID int64
}

func newFakeRepository(rows ...*account.Account) *fakeRepository {
	repo := &fakeRepository{rows: map[int64]*account.Account{}, nextID: 1}
	for _, row := range rows {
		repo.rows[row.ID] = row
		if row.ID >= repo.nextID {
			repo.nextID = row.ID + 1
		}
	}
	return repo
}

func (f *fakeRepository) Create(_ context.Context, entity *account.Account) (*account.Account, error) {
	entity.ID = f.nextID
	f.nextID++
	f.rows[entity.ID] = entity
	return entity, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id int64) (*account.Account, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("UserGame")
	}
	copied := *row
	return &copied, nil
}

func (f *fakeRepository) FindAll(_ context.Context, _ pagination.Params) ([]account.Account, error) {
	var out []account.Account
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeRepository) FindByUsername(_ context.Context, username string) (*account.Account, error) {
	for _, row := range f.rows {
		if row.Username == username {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) Update(_ context.Context, id int64, apply func(*account.Account) (diff.Record, error)) (*account.Account, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("UserGame")
	}

	changes, err := apply(row)
	if err != nil {
		return nil, err
	}

	for field, value := range changes {
		switch field {
		case "username":
			row.Username = value.(string)
		case "password":
			row.Password = value.(string)
		}
	}

	return row, nil
}

func (f *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("UserGame")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRepository) OwnerID(_ context.Context, id int64) (int64, error) {
	if _, ok := f.rows[id]; !ok {
		return 0, apperr.NotFound("UserGame")
	}
	return id, nil
}

// fakeUploads records storage interactions.
type fakeUploads struct {
	deleted []string
}

func (f *fakeUploads) Save(_ context.Context, _, _ string, _ io.Reader, _ int64, _ string) error {
	return nil
}

func (f *fakeUploads) Delete(_ context.Context, dir, name string) error {
	f.deleted = append(f.deleted, dir+"/"+name)
	return nil
}

func newService(repo *fakeRepository, uploads *fakeUploads) *account.Service {
	return account.NewService(repo, uploads, "http://localhost:3000", slog.Default())
}

/*
TestService_Create verifies that a new account stores a verifiable hash and
the member role, never the plain password.
*/
func TestService_Create(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, &fakeUploads{})

	created, err := service.Create(context.Background(), diff.Record{
		"username": "player_one",
		"password": "hunter22",
	})

	require.NoError(t, err)
	assert.Equal(t, "player_one", created.Username)
	assert.Equal(t, "member", created.Role)
	assert.NotEqual(t, "hunter22", created.Password)
	assert.True(t, sec.CheckPasswordHash("hunter22", created.Password))
}

/*
TestService_Create_Validation verifies the credential length rules.
*/
func TestService_Create_Validation(t *testing.T) {
	service := newService(newFakeRepository(), &fakeUploads{})

	testCases := []struct {
		name     string
		username string
		password string
		param    string
	}{
		{name: "short username", username: "ab", password: "hunter22", param: "username"},
		{name: "short password", username: "player_one", password: "12345", param: "password"},
		{name: "missing username", username: "", password: "hunter22", param: "username"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), diff.Record{
				"username": testCase.username,
				"password": testCase.password,
			})

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, 400, appError.HTTPStatus)
			assert.Equal(t, testCase.param, appError.Errors[0].Param)
		})
	}
}

/*
TestService_Update_PasswordAlwaysChanges verifies that resubmitting the same
plain password still registers as a change, since it is hashed before the
comparison and bcrypt hashes are salted.
*/
func TestService_Update_PasswordAlwaysChanges(t *testing.T) {
	hash, err := sec.HashPassword("hunter22")
	require.NoError(t, err)

	repo := newFakeRepository(&account.Account{ID: 7, Username: "player_one", Password: hash, Role: "member"})
	service := newService(repo, &fakeUploads{})

	result, err := service.Update(context.Background(), 7, diff.Record{"password": "hunter22"})

	require.NoError(t, err)
	assert.Equal(t, []string{"password"}, result.Fields())
	assert.NotEqual(t, hash, repo.rows[7].Password)
	assert.True(t, sec.CheckPasswordHash("hunter22", repo.rows[7].Password))
}

/*
TestService_Update_SameUsername verifies an identical username produces an
empty diff and leaves the row untouched.
*/
func TestService_Update_SameUsername(t *testing.T) {
	repo := newFakeRepository(&account.Account{ID: 7, Username: "player_one", Password: "x", Role: "member"})
	service := newService(repo, &fakeUploads{})

	result, err := service.Update(context.Background(), 7, diff.Record{"username": "player_one"})

	require.NoError(t, err)
	assert.True(t, result.Empty())
}

/*
TestService_Update_ShortUsername verifies changed-field validation rejects a
username below the minimum length without touching the row.
*/
func TestService_Update_ShortUsername(t *testing.T) {
	repo := newFakeRepository(&account.Account{ID: 7, Username: "player_one", Password: "x", Role: "member"})
	service := newService(repo, &fakeUploads{})

	_, err := service.Update(context.Background(), 7, diff.Record{"username": "ab"})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	assert.Equal(t, "username", appError.Errors[0].Param)
	assert.Equal(t, "player_one", repo.rows[7].Username)
}

/*
TestService_Delete_CleansUploadedFiles verifies the cascade removes uploaded
profile pictures and covers but leaves the shared defaults alone.
*/
func TestService_Delete_CleansUploadedFiles(t *testing.T) {
	repo := newFakeRepository(&account.Account{
		ID:       7,
		Username: "player_one",
		Password: "x",
		Role:     "member",
		Biodata:  &biodata.Biodata{ID: 2, AccountID: 7, ProfilePicture: "face01.png"},
		Histories: []history.History{
			{ID: 3, AccountID: 7, Title: "Hades", Cover: "hades.jpg"},
			{ID: 4, AccountID: 7, Title: "Celeste", Cover: "default-cover.jpg"},
		},
	})
	uploads := &fakeUploads{}
	service := newService(repo, uploads)

	deleted, err := service.Delete(context.Background(), 7)

	require.NoError(t, err)
	assert.Empty(t, repo.rows)
	assert.ElementsMatch(t, []string{"profiles/face01.png", "games/hades.jpg"}, uploads.deleted)
	assert.Equal(t, "http://localhost:3000/uploads/profiles/face01.png", deleted.Biodata.ProfilePicture)
}

/*
TestService_Delete_NotFound verifies a missing account surfaces as a 404.
*/
func TestService_Delete_NotFound(t *testing.T) {
	service := newService(newFakeRepository(), &fakeUploads{})

	_, err := service.Delete(context.Background(), 99)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}
