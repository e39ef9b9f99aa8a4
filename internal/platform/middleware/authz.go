// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/ctxutil"
	"github.com/taibuivan/gametrack/internal/platform/respond"
	"github.com/taibuivan/gametrack/internal/platform/sec"
)

// # Ownership Policy

// OwnerResolver reports the account that owns a given resource instance.
//
// Implementations are the resource stores. Returning a not-found error tells
// the guard the target does not exist at all.
type OwnerResolver interface {
	OwnerID(ctx context.Context, resourceID int64) (int64, error)
}

// RequireOwner guards mutating routes on owned resources.
//
// The checks run in a fixed order so the client always learns the most
// specific applicable failure:
//
//  1. No verified identity          -> 401
//  2. Caller is an admin            -> allow (skips all further checks)
//  3. Malformed {id} route param    -> 400
//  4. Target resource missing       -> 404
//  5. Caller is not the owner       -> 403
//
// The 404-before-403 ordering is deliberate: a missing resource is reported
// as missing even to callers who could never have owned it.
func RequireOwner(resolver OwnerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Reject anonymous callers ──────────────────────────────
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
				return
			}

			// ── 2. Admins bypass ownership entirely ──────────────────────
			if sec.UserRole(claims.Role).IsAdmin() {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Parse the target resource ID ──────────────────────────
			rawID := chi.URLParam(request, "id")
			resourceID, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				respond.Error(writer, request, apperr.BadRequest(apperr.FieldError{
					Msg:      "Id must be an integer",
					Param:    "id",
					Location: "params",
					Value:    rawID,
				}))
				return
			}

			// ── 4. Resolve the owner; a missing target is a 404 ──────────
			ownerID, err := resolver.OwnerID(request.Context(), resourceID)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 5. Non-owners are rejected ───────────────────────────────
			callerID, err := strconv.ParseInt(claims.UserID, 10, 64)
			if err != nil || callerID != ownerID {
				respond.Error(writer, request, apperr.Forbidden("Forbidden"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// AuthorizeActor checks that the caller may act on behalf of the given
// account. Used on creation routes, where there is no route {id} yet and the
// target account comes from the request body.
//
// Admins may act for anyone. Anonymous callers get 401, mismatched callers
// get 403.
func AuthorizeActor(ctx context.Context, accountID int64) error {
	claims := ctxutil.GetAuthUser(ctx)
	if claims == nil {
		return apperr.Unauthorized("Unauthorized")
	}

	if sec.UserRole(claims.Role).IsAdmin() {
		return nil
	}

	callerID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || callerID != accountID {
		return apperr.Forbidden("Forbidden")
	}

	return nil
}
