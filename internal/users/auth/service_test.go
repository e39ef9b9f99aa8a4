// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/platform/sec"
	"github.com/taibuivan/gametrack/internal/users/account"
	"github.com/taibuivan/gametrack/internal/users/auth"
)

// fakeAccounts implements [auth.AccountService] over a map keyed by username.
type fakeAccounts struct {
	byUsername map[string]*account.Account
	passwords  map[int64]string
}

func newFakeAccounts(accounts ...*account.Account) *fakeAccounts {
	fake := &fakeAccounts{byUsername: map[string]*account.Account{}, passwords: map[int64]string{}}
	for _, entity := range accounts {
		fake.byUsername[entity.Username] = entity
	}
	return fake
}

func (f *fakeAccounts) Create(_ context.Context, submitted diff.Record) (*account.Account, error) {
	username, _ := submitted["username"].(string)
	entity := &account.Account{ID: int64(len(f.byUsername) + 1), Username: username, Role: "member"}
	f.byUsername[username] = entity
	return entity, nil
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*account.Account, error) {
	return f.byUsername[username], nil
}

func (f *fakeAccounts) SetPassword(_ context.Context, id int64, plain string) error {
	f.passwords[id] = plain
	return nil
}

// fakeDirectory maps emails to account IDs.
type fakeDirectory struct {
	byEmail map[string]int64
}

func (f *fakeDirectory) AccountIDByEmail(_ context.Context, email string) (int64, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return 0, apperr.NotFound("Email")
	}
	return id, nil
}

// fakeResetTokens is an in-memory [auth.ResetTokenRepository].
type fakeResetTokens struct {
	tokens map[string]int64
}

func newFakeResetTokens() *fakeResetTokens {
	return &fakeResetTokens{tokens: map[string]int64{}}
}

func (f *fakeResetTokens) Set(_ context.Context, token string, accountID int64, _ time.Duration) error {
	f.tokens[token] = accountID
	return nil
}

func (f *fakeResetTokens) Get(_ context.Context, token string) (int64, error) {
	id, ok := f.tokens[token]
	if !ok {
		return 0, apperr.NotFound("Reset token")
	}
	return id, nil
}

func (f *fakeResetTokens) Delete(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

// fakeMailer records outbound messages.
type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	f.sent = append(f.sent, to)
	return nil
}

// stubTokens returns a fixed token string.
type stubTokens struct{}

func (stubTokens) GenerateAccessToken(_, _, _ string, _ time.Duration) (string, error) {
	return "signed.jwt.token", nil
}

type fixture struct {
	accounts    *fakeAccounts
	directory   *fakeDirectory
	resetTokens *fakeResetTokens
	mailer      *fakeMailer
	service     *auth.Service
}

func newFixture(t *testing.T, accounts ...*account.Account) *fixture {
	t.Helper()

	f := &fixture{
		accounts:    newFakeAccounts(accounts...),
		directory:   &fakeDirectory{byEmail: map[string]int64{}},
		resetTokens: newFakeResetTokens(),
		mailer:      &fakeMailer{},
	}
	f.service = auth.NewService(
		f.accounts, f.directory, f.resetTokens, stubTokens{}, f.mailer,
		"http://localhost:3000", slog.Default(),
	)
	return f
}

func memberAccount(t *testing.T) *account.Account {
	t.Helper()

	hash, err := sec.HashPassword("hunter22")
	require.NoError(t, err)
	return &account.Account{ID: 7, Username: "player_one", Password: hash, Role: "member"}
}

/*
TestService_Login_UnknownUsername verifies the field error shape for an
unknown username.
*/
func TestService_Login_UnknownUsername(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), "ghost", "hunter22")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	assert.Equal(t, "Username not found", appError.Errors[0].Msg)
	assert.Equal(t, "username", appError.Errors[0].Param)
	assert.Equal(t, "ghost", appError.Errors[0].Value)
}

/*
TestService_Login_WrongPassword verifies the field error for a bad password,
and that the submitted password is not echoed back.
*/
func TestService_Login_WrongPassword(t *testing.T) {
	f := newFixture(t, memberAccount(t))

	_, err := f.service.Login(context.Background(), "player_one", "wrong")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	assert.Equal(t, "Password is incorrect", appError.Errors[0].Msg)
	assert.Equal(t, "password", appError.Errors[0].Param)
	assert.Nil(t, appError.Errors[0].Value)
}

/*
TestService_Login_Success verifies a correct credential pair yields a token.
*/
func TestService_Login_Success(t *testing.T) {
	f := newFixture(t, memberAccount(t))

	token, err := f.service.Login(context.Background(), "player_one", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", token)
}

/*
TestService_RequestPasswordReset_UnknownEmail verifies an unknown email
succeeds silently without storing a token or sending mail.
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.service.RequestPasswordReset(context.Background(), "ghost@example.com")

	require.NoError(t, err)
	assert.Empty(t, f.resetTokens.tokens)
	assert.Empty(t, f.mailer.sent)
}

/*
TestService_RequestPasswordReset_StoresTokenAndMails verifies the happy path
stores a token bound to the account and mails the address once.
*/
func TestService_RequestPasswordReset_StoresTokenAndMails(t *testing.T) {
	f := newFixture(t)
	f.directory.byEmail["jane@example.com"] = 7

	err := f.service.RequestPasswordReset(context.Background(), "jane@example.com")

	require.NoError(t, err)
	require.Len(t, f.resetTokens.tokens, 1)
	for _, accountID := range f.resetTokens.tokens {
		assert.Equal(t, int64(7), accountID)
	}
	assert.Equal(t, []string{"jane@example.com"}, f.mailer.sent)
}

/*
TestService_ResetPassword verifies token verification, password handoff, and
token burning.
*/
func TestService_ResetPassword(t *testing.T) {
	f := newFixture(t)
	f.resetTokens.tokens["good-token"] = 7

	err := f.service.ResetPassword(context.Background(), "bad-token", "newpassword")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)

	err = f.service.ResetPassword(context.Background(), "good-token", "newpassword")
	require.NoError(t, err)
	assert.Equal(t, "newpassword", f.accounts.passwords[7])
	assert.Empty(t, f.resetTokens.tokens)
}
