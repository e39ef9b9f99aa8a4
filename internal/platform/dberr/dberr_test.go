// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/dberr"
)

func TestWrap_NoRowsBecomesNotFound(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows, "account_find_by_id")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestWrap_ConstraintViolationsNameTheField(t *testing.T) {
	cases := []struct {
		constraint string
		code       string
		param      string
	}{
		{"account_username_key", "23505", "username"},
		{"biodata_email_key", "23505", "email"},
		{"biodata_one_per_account", "23505", "userGameId"},
		{"history_accountid_fkey", "23503", "userGameId"},
		{"biodata_age_check", "23514", "age"},
		{"history_score_check", "23514", "score"},
	}

	for _, tc := range cases {
		t.Run(tc.constraint, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tc.code, ConstraintName: tc.constraint}

			err := dberr.Wrap(fmt.Errorf("insert: %w", pgErr), "test_insert")

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, 400, appError.HTTPStatus)
			require.Len(t, appError.Errors, 1)
			assert.Equal(t, tc.param, appError.Errors[0].Param)
		})
	}
}

func TestWrap_UnknownErrorsBecomeInternal(t *testing.T) {
	err := dberr.Wrap(errors.New("connection reset"), "account_find_all")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 500, appError.HTTPStatus)
}
