// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters.
// Pagination is opt-in: a request without "page" or "limit" parameters yields
// the zero [Params], and list endpoints return the full collection, which is
// the default behavior of this API.
package pagination

import (
	"net/http"

	"github.com/taibuivan/gametrack/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page when only "page" is given.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
//
// The zero value means "no pagination requested".
type Params struct {
	Page  int
	Limit int
}

// Enabled reports whether the request asked for pagination at all.
func (p Params) Enabled() bool {
	return p.Limit > 0
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or negative values are clamped to [DefaultPage] and [DefaultLimit];
// a limit above [MaxLimit] is clamped down to it. When neither parameter is
// present the zero [Params] is returned and the endpoint stays unpaginated.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()
	if query.Get("page") == "" && query.Get("limit") == "" {
		return Params{}
	}

	page := convert.ToIntD(query.Get("page"), DefaultPage)
	limit := convert.ToIntD(query.Get("limit"), DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}
