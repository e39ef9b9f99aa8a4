// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account provides the HTTP delivery layer for player accounts.

# Security

Reads and creation are public. PATCH and DELETE run behind the ownership
guard; an account is owned by itself, so only the holder or an admin may
mutate it.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/platform/middleware"
	requestutil "github.com/taibuivan/gametrack/internal/platform/request"
	"github.com/taibuivan/gametrack/internal/platform/respond"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// Handler implements the HTTP layer for accounts.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Register mounts the account endpoints onto the versioned API router.
func (handler *Handler) Register(router chi.Router) {
	guard := middleware.RequireOwner(handler.accountService)

	// Flat registrations: sibling resources share the /user_game and
	// /user_games prefixes, so mounting a subrouter here would shadow them.
	router.Get("/user_games", handler.list)
	router.Post("/user_games", handler.create)

	router.Get("/user_game/{id}", handler.get)
	router.With(guard).Patch("/user_game/{id}", handler.update)
	router.With(guard).Delete("/user_game/{id}", handler.delete)
}

// # Collection Endpoints

/*
GET /api/v1/user_games.

Description: Lists every account with its biodata profile and play
histories embedded.

Response:
  - 200: []Account with count
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	entities, err := handler.accountService.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Collection(writer, "OK", entities, len(entities))
}

/*
POST /api/v1/user_games.

Description: Creates a member account from a username and password.

Response:
  - 201: Account: The created account
  - 400: Validation failure or duplicate username
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var body map[string]any
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	submitted, err := diff.Normalize(UpdatableFields(), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.accountService.Create(request.Context(), submitted)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "UserGame created successfully", created)
}

// # Single Resource Endpoints

/*
GET /api/v1/user_game/{id}.

Response:
  - 200: Account with embeds
  - 404: Account not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.accountService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "OK", entity)
}

/*
PATCH /api/v1/user_game/{id}.

Description: Applies a partial update to the credentials. A submitted
password is hashed before comparison, so resubmitting the same plain
password still counts as a change.

Response:
  - 200: {before, after} pair of changed fields
  - 400: Validation failure on changed fields
  - 401/403/404: Ownership guard outcomes
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body map[string]any
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.accountService.Update(request.Context(), id, body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Empty() {
		respond.OK(writer, "No changes made", result)
		return
	}

	respond.OK(writer, "UserGame updated successfully", result)
}

/*
DELETE /api/v1/user_game/{id}.

Description: Deletes the account, its biodata profile, its play histories,
and every uploaded file they referenced.

Response:
  - 200: The deleted account snapshot
  - 401/403/404: Ownership guard outcomes
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.accountService.Delete(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "UserGame deleted successfully", deleted)
}
