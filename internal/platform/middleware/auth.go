// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/constants"
	"github.com/taibuivan/gametrack/internal/platform/ctxutil"
	"github.com/taibuivan/gametrack/internal/platform/respond"
	"github.com/taibuivan/gametrack/internal/platform/sec"
)

// # Authentication

// TokenVerifier abstracts the JWT verification capability required by the
// authentication middleware. Satisfied by [sec.TokenService].
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the Bearer token if present.
//
// It does NOT reject unauthenticated requests; it only attaches the verified
// claims to the context. Enforcement is the job of [RequireAuth] and the
// per-resource ownership guards, which keeps public and protected routes on
// the same chain.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Look for the Authorization header
			authHeader := request.Header.Get(constants.HeaderAuthorization)
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Enforce the "Bearer <token>" scheme
			token, found := strings.CutPrefix(authHeader, constants.AuthSchemeBearer+" ")
			if !found {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization header format"))
				return
			}

			// 3. Verify signature and expiry
			claims, err := verifier.VerifyToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// 4. Attach the caller identity to the request context
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no verified identity.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if ctxutil.GetAuthUser(request.Context()) == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
