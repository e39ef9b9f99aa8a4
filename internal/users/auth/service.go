// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity entry points of the API.

It handles registration, credential login with JWT issuance, and the
password recovery flow backed by expiring Redis tokens and outbound mail.

# Architecture

  - Service: Orchestrates business logic (Register, Login, password reset).
  - EmailDirectory: Postgres lookup from contact email to account.
  - ResetTokenRepository: Redis-backed volatile token storage.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/platform/mail"
	"github.com/taibuivan/gametrack/internal/platform/sec"
	"github.com/taibuivan/gametrack/internal/platform/validate"
	"github.com/taibuivan/gametrack/internal/users/account"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given account.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// AccountService is the slice of the account service auth depends on.
type AccountService interface {
	Create(context context.Context, submitted diff.Record) (*account.Account, error)
	GetByUsername(context context.Context, username string) (*account.Account, error)
	SetPassword(context context.Context, id int64, plain string) error
}

// Service implements the authentication use cases.
type Service struct {
	accounts      AccountService
	directory     EmailDirectory
	resetTokens   ResetTokenRepository
	tokenProvider TokenProvider
	mailer        mail.Mailer
	resetBaseURL  string
	logger        *slog.Logger
}

// NewService constructs a new auth [Service] with its dependencies.
func NewService(
	accounts AccountService,
	directory EmailDirectory,
	resetTokens ResetTokenRepository,
	tokenProvider TokenProvider,
	mailer mail.Mailer,
	resetBaseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:      accounts,
		directory:     directory,
		resetTokens:   resetTokens,
		tokenProvider: tokenProvider,
		mailer:        mailer,
		resetBaseURL:  resetBaseURL,
		logger:        logger,
	}
}

// # Registration Flow

/*
Register enrolls a new member account.

Description: Delegates to the account service, which validates the
credential lengths, hashes the password, and assigns the member role.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - *account.Account: The created account
  - error: Validation failures or a duplicate username
*/
func (service *Service) Register(context context.Context, username, password string) (*account.Account, error) {
	created, err := service.accounts.Create(context, diff.Record{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("member_registered", slog.Int64("account_id", created.ID))
	return created, nil
}

// # Authentication Flow

/*
Login validates credentials and issues a signed JWT.

Description: Credential failures surface as 400 field errors naming the
failing field, so a client form can attach the message to the right input.
The password value is never echoed back.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - string: Signed access token, 1 hour TTL
  - error: Field errors for unknown username or wrong password
*/
func (service *Service) Login(context context.Context, username, password string) (string, error) {
	found, err := service.accounts.GetByUsername(context, username)
	if err != nil {
		return "", err
	}
	if found == nil {
		return "", apperr.BadRequest(apperr.FieldError{
			Msg:      "Username not found",
			Param:    FieldUsername,
			Location: validate.LocationBody,
			Value:    username,
		})
	}

	if !sec.CheckPasswordHash(password, found.Password) {
		return "", apperr.BadRequest(apperr.FieldError{
			Msg:      "Password is incorrect",
			Param:    FieldPassword,
			Location: validate.LocationBody,
		})
	}

	token, err := service.tokenProvider.GenerateAccessToken(
		strconv.FormatInt(found.ID, 10), found.Username, found.Role, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.Info("member_logged_in", slog.Int64("account_id", found.ID))
	return token, nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Resolves the account through the biodata email, stores a
secure random token in Redis with a short TTL, and mails the reset link.
An unknown email succeeds silently to prevent account enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Token generation, storage, or mail delivery failures
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	accountID, err := service.directory.AccountIDByEmail(context, email)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
			service.logger.Info("password_reset_unknown_email")
			return nil
		}
		return err
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokens.Set(context, token, accountID, ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below within %d minutes to choose a new password:\n\n"+
			"%s/reset-password?token=%s\n\n"+
			"If you did not request this, you can ignore this message.",
		int(ResetTokenTTL.Minutes()), service.resetBaseURL, token,
	)
	if err := service.mailer.Send(context, email, "Reset your Gametrack password", body); err != nil {
		return fmt.Errorf("auth_service_reset_mail_failed: %w", err)
	}

	service.logger.Info("password_reset_requested", slog.Int64("account_id", accountID))
	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, stores the new password through the
account service (which hashes it), and burns the token.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: apperr.NotFound for an invalid or expired token, or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	accountID, err := service.resetTokens.Get(context, token)
	if err != nil {
		return err
	}

	if err := service.accounts.SetPassword(context, accountID, newPassword); err != nil {
		return err
	}

	// Burn the token so it cannot be replayed.
	_ = service.resetTokens.Delete(context, token)

	return nil
}
