// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/ctxutil"
	"github.com/taibuivan/gametrack/internal/platform/sec"
)

// stubVerifier accepts exactly one token string.
type stubVerifier struct {
	accepted string
	claims   *sec.AuthClaims
}

func (s *stubVerifier) VerifyToken(tokenString string) (*sec.AuthClaims, error) {
	if tokenString != s.accepted {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	return s.claims, nil
}

// newAuthenticatedServer wires Authenticate in front of a handler that
// reports whether the context carries verified claims.
func newAuthenticatedServer(verifier TokenVerifier) http.Handler {
	return Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := ctxutil.GetAuthUser(r.Context()); claims != nil {
			w.Header().Set("X-Test-User", claims.Username)
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthenticate_NoHeaderPassesAnonymously(t *testing.T) {
	server := newAuthenticatedServer(&stubVerifier{})

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/user_games", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Header().Get("X-Test-User"))
}

func TestAuthenticate_RejectsNonBearerScheme(t *testing.T) {
	server := newAuthenticatedServer(&stubVerifier{})

	request := httptest.NewRequest(http.MethodGet, "/user_games", nil)
	request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthenticate_RejectsInvalidToken(t *testing.T) {
	server := newAuthenticatedServer(&stubVerifier{accepted: "good"})

	request := httptest.NewRequest(http.MethodGet, "/user_games", nil)
	request.Header.Set("Authorization", "Bearer forged")

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthenticate_AttachesClaims(t *testing.T) {
	verifier := &stubVerifier{
		accepted: "signed.jwt.token",
		claims:   &sec.AuthClaims{UserID: "7", Username: "jane", Role: string(sec.RoleMember)},
	}
	server := newAuthenticatedServer(verifier)

	request := httptest.NewRequest(http.MethodGet, "/user_games", nil)
	request.Header.Set("Authorization", "Bearer signed.jwt.token")

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "jane", recorder.Header().Get("X-Test-User"))
}
