// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used exclusively in the service layer — never in handlers or
// storage. It ensures that business logic only operates on semantically valid data.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
)

// LocationBody and LocationParams mirror where a validated value came from.
const (
	LocationBody   = "body"
	LocationParams = "params"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid request payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(param, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(param, value, param+" is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(param, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(param, value, fmt.Sprintf("%s must be at most %d characters long", param, max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(param, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(param, value, fmt.Sprintf("%s must be at least %d characters long", param, min))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(param string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(param, value, fmt.Sprintf("%s must be between %d and %d", param, min, max))
	}
	return v
}

// Min fails if the value is below the minimum (inclusive).
func (v *Validator) Min(param string, value, min int) *Validator {
	if value < min {
		v.add(param, value, fmt.Sprintf("%s must be at least %d", param, min))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(param, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(param, value, param+" must be a valid email address")
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("score", score, score < 0 || score > 100, "score must be between 0 and 100")
func (v *Validator) Custom(param string, value any, failed bool, message string) *Validator {
	if failed {
		v.add(param, value, message)
	}
	return v
}

// Err returns a 400 [apperr.AppError] if any rules failed, or nil if all passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(param string, value any, message string) {
	v.errs = append(v.errs, apperr.FieldError{
		Msg:      message,
		Param:    param,
		Location: LocationBody,
		Value:    value,
	})
}

// FieldErrorAt builds a single field error for a non-body location.
func FieldErrorAt(location, param string, value any, message string) apperr.FieldError {
	return apperr.FieldError{
		Msg:      message,
		Param:    param,
		Location: location,
		Value:    value,
	}
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(param, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Msg:      message,
		Param:    param,
		Location: LocationBody,
	})
}
