// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Directory Data Access

// EmailDirectory resolves the account behind a contact email. Accounts do
// not carry emails themselves; the address lives on the biodata profile.
type EmailDirectory interface {

	/*
		AccountIDByEmail returns the account owning the profile with this email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - int64: Owning account ID
		  - error: apperr.NotFound when no profile carries the email
	*/
	AccountIDByEmail(context context.Context, email string) (int64, error)
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for storing volatile password
// reset tokens.
type ResetTokenRepository interface {

	/*
		Set stores a reset token associated with an account for a limited duration.

		Parameters:
		  - context: context.Context
		  - token: string
		  - accountID: int64
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, accountID int64, ttl time.Duration) error

	/*
		Get retrieves the account ID associated with a given reset token.

		Returns:
		  - int64: Account ID
		  - error: apperr.NotFound when the token is absent or expired
	*/
	Get(context context.Context, token string) (int64, error)

	/*
		Delete removes a reset token after successful use.
	*/
	Delete(context context.Context, token string) error
}
