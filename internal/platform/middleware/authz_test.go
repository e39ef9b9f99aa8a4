// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/ctxutil"
	"github.com/taibuivan/gametrack/internal/platform/sec"
)

// stubResolver maps resource IDs to owner account IDs.
type stubResolver struct {
	owners map[int64]int64
}

func (s *stubResolver) OwnerID(_ context.Context, resourceID int64) (int64, error) {
	ownerID, ok := s.owners[resourceID]
	if !ok {
		return 0, apperr.NotFound("UserGame")
	}
	return ownerID, nil
}

// newGuardedServer wires RequireOwner in front of a trivial handler,
// optionally injecting the given claims as the authenticated caller.
func newGuardedServer(resolver OwnerResolver, claims *sec.AuthClaims) http.Handler {
	router := chi.NewRouter()

	if claims != nil {
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(ctxutil.WithAuthUser(r.Context(), claims)))
			})
		})
	}

	router.With(RequireOwner(resolver)).Patch("/user_game/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return router
}

func TestRequireOwner_Unauthenticated(t *testing.T) {
	resolver := &stubResolver{owners: map[int64]int64{7: 7}}
	server := newGuardedServer(resolver, nil)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/user_game/7", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "Unauthorized", payload["message"])
}

func TestRequireOwner_AdminBypass(t *testing.T) {
	// Admins pass even when the target does not exist.
	resolver := &stubResolver{owners: map[int64]int64{}}
	claims := &sec.AuthClaims{UserID: "1", Username: "root", Role: string(sec.RoleAdmin)}
	server := newGuardedServer(resolver, claims)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/user_game/999", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireOwner_MalformedID(t *testing.T) {
	resolver := &stubResolver{owners: map[int64]int64{7: 7}}
	claims := &sec.AuthClaims{UserID: "7", Username: "jane", Role: string(sec.RoleMember)}
	server := newGuardedServer(resolver, claims)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/user_game/abc", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var payload struct {
		StatusCode int                 `json:"statusCode"`
		Errors     []apperr.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "id", payload.Errors[0].Param)
	assert.Equal(t, "params", payload.Errors[0].Location)
	assert.Equal(t, "abc", payload.Errors[0].Value)
}

func TestRequireOwner_TargetMissing(t *testing.T) {
	// A missing target is 404 even for a caller who is not its owner.
	resolver := &stubResolver{owners: map[int64]int64{}}
	claims := &sec.AuthClaims{UserID: "7", Username: "jane", Role: string(sec.RoleMember)}
	server := newGuardedServer(resolver, claims)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/user_game/42", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRequireOwner_NonOwner(t *testing.T) {
	resolver := &stubResolver{owners: map[int64]int64{42: 9}}
	claims := &sec.AuthClaims{UserID: "7", Username: "jane", Role: string(sec.RoleMember)}
	server := newGuardedServer(resolver, claims)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/user_game/42", nil))

	assert.Equal(t, http.StatusForbidden, recorder.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "Forbidden", payload["message"])
}

func TestRequireOwner_OwnerAllowed(t *testing.T) {
	resolver := &stubResolver{owners: map[int64]int64{42: 7}}
	claims := &sec.AuthClaims{UserID: "7", Username: "jane", Role: string(sec.RoleMember)}
	server := newGuardedServer(resolver, claims)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodPatch, "/user_game/42", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAuthorizeActor(t *testing.T) {
	testCases := []struct {
		name       string
		claims     *sec.AuthClaims
		accountID  int64
		wantStatus int
	}{
		{
			name:       "anonymous caller",
			claims:     nil,
			accountID:  7,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "admin acts for anyone",
			claims:     &sec.AuthClaims{UserID: "1", Role: string(sec.RoleAdmin)},
			accountID:  7,
			wantStatus: 0,
		},
		{
			name:       "owner acts for self",
			claims:     &sec.AuthClaims{UserID: "7", Role: string(sec.RoleMember)},
			accountID:  7,
			wantStatus: 0,
		},
		{
			name:       "member acts for another account",
			claims:     &sec.AuthClaims{UserID: "7", Role: string(sec.RoleMember)},
			accountID:  9,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ctx := context.Background()
			if testCase.claims != nil {
				ctx = ctxutil.WithAuthUser(ctx, testCase.claims)
			}

			err := AuthorizeActor(ctx, testCase.accountID)

			if testCase.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, testCase.wantStatus, appError.HTTPStatus)
		})
	}
}
