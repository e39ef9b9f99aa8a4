// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package history_test

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
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// fakeRepository is an in-memory [history.Repository].
type fakeRepository struct {
	rows   map[int64]*history.History
	nextID int64
}

func newFakeRepository(rows ...*history.History) *fakeRepository {
	repo := &fakeRepository{rows: map[int64]*history.History{}, nextID: 1}
	for _, row := range rows {
		repo.rows[row.ID] = row
		if row.ID >= repo.nextID {
			repo.nextID = row.ID + 1
		}
	}
	return repo
}

func (f *fakeRepository) Create(_ context.Context, entity *history.History) (*history.History, error) {
	entity.ID = f.nextID
	f.nextID++
	f.rows[entity.ID] = entity
	return entity, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id int64) (*history.History, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("UserGameHistory")
	}
	copied := *row
	return &copied, nil
}

func (f *fakeRepository) FindAll(_ context.Context, _ pagination.Params) ([]history.History, error) {
	var out []history.History
	for _, row := range f.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeRepository) FindByAccountID(_ context.Context, accountID int64) ([]history.History, error) {
	var out []history.History
	for _, row := range f.rows {
		if row.AccountID == accountID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeRepository) Update(_ context.Context, id int64, apply func(*history.History) (diff.Record, error)) (*history.History, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("UserGameHistory")
	}

	changes, err := apply(row)
	if err != nil {
		return nil, err
	}

	for field, value := range changes {
		switch field {
		case "title":
			row.Title = value.(string)
		case "publisher":
			row.Publisher = value.(string)
		case "cover":
			row.Cover = value.(string)
		case "score":
			row.Score = value.(int)
		case "userGameId":
			row.AccountID = int64(value.(int))
		}
	}

	return row, nil
}

func (f *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("UserGameHistory")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRepository) OwnerID(_ context.Context, id int64) (int64, error) {
	row, ok := f.rows[id]
	if !ok {
		return 0, apperr.NotFound("UserGameHistory")
	}
	return row.AccountID, nil
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

func storedRow() *history.History {
	return &history.History{
		ID:        3,
		AccountID: 7,
		Title:     "Hollow Knight",
		Publisher: "Team Cherry",
		Cover:     "default-cover.jpg",
		Score:     92,
	}
}

/*
TestService_Update_ScoreString verifies that a score submitted as a numeric
string diffs correctly against the stored integer.
*/
func TestService_Update_ScoreString(t *testing.T) {
	repo := newFakeRepository(storedRow())
	service := history.NewService(repo, &fakeUploads{}, "http://localhost:3000", slog.Default())

	result, err := service.Update(context.Background(), 3, diff.Record{"score": "95"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"score"}, result.Fields())
	assert.Equal(t, 92, result.Before["score"])
	assert.Equal(t, 95, result.After["score"])
	assert.Equal(t, 95, repo.rows[3].Score)
}

/*
TestService_Update_ScoreOutOfRange verifies that changed-field validation
rejects scores outside [0, 100].
*/
func TestService_Update_ScoreOutOfRange(t *testing.T) {
	repo := newFakeRepository(storedRow())
	service := history.NewService(repo, &fakeUploads{}, "http://localhost:3000", slog.Default())

	_, err := service.Update(context.Background(), 3, diff.Record{"score": 120}, nil)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	assert.Equal(t, "score", appError.Errors[0].Param)
	assert.Equal(t, 92, repo.rows[3].Score)
}

/*
TestService_Update_SameScore verifies an identical submitted score produces
an empty diff.
*/
func TestService_Update_SameScore(t *testing.T) {
	repo := newFakeRepository(storedRow())
	service := history.NewService(repo, &fakeUploads{}, "http://localhost:3000", slog.Default())

	result, err := service.Update(context.Background(), 3, diff.Record{"score": "92"}, nil)

	require.NoError(t, err)
	assert.True(t, result.Empty())
}

/*
TestService_Delete_RemovesUploadedCover verifies cover cleanup on delete,
and that the placeholder cover is never deleted.
*/
func TestService_Delete_RemovesUploadedCover(t *testing.T) {
	withUpload := storedRow()
	withUpload.Cover = "cafe01.jpg"
	withDefault := storedRow()
	withDefault.ID = 4

	repo := newFakeRepository(withUpload, withDefault)
	uploads := &fakeUploads{}
	service := history.NewService(repo, uploads, "http://localhost:3000", slog.Default())

	_, err := service.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"games/cafe01.jpg"}, uploads.deleted)

	_, err = service.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, uploads.deleted, 1)
}

/*
TestService_Create validates required fields and the default cover.
*/
func TestService_Create(t *testing.T) {
	repo := newFakeRepository()
	service := history.NewService(repo, &fakeUploads{}, "http://localhost:3000", slog.Default())

	_, err := service.Create(context.Background(), diff.Record{"title": "Celeste"}, nil)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)

	// Form values arrive as strings; handlers normalize before calling Create.
	submitted, err := diff.Normalize(history.UpdatableFields(), diff.Record{
		"title":      "Celeste",
		"publisher":  "EXOK",
		"score":      "88",
		"userGameId": 7,
	})
	require.NoError(t, err)

	created, err := service.Create(context.Background(), submitted, nil)
	require.NoError(t, err)
	assert.Equal(t, 88, created.Score)
	assert.Equal(t, "http://localhost:3000/uploads/games/default-cover.jpg", created.Cover)
}
