// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package biodata provides the HTTP delivery layer for identity profiles.

# Security

Reads are public. Creation requires the caller to act for the target account;
PATCH and DELETE run behind the ownership guard, which resolves the owning
account through the biodata row itself.
*/
package biodata

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/platform/middleware"
	requestutil "github.com/taibuivan/gametrack/internal/platform/request"
	"github.com/taibuivan/gametrack/internal/platform/respond"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// fileField is the multipart part carrying the profile picture.
const fileField = "profilePicture"

// Handler implements the HTTP layer for biodata profiles.
type Handler struct {
	biodataService *Service
}

// NewHandler constructs a new biodata [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{biodataService: service}
}

// Register mounts the biodata endpoints onto the versioned API router.
func (handler *Handler) Register(router chi.Router) {
	guard := middleware.RequireOwner(handler.biodataService)

	router.Get("/user_games/biodatas", handler.list)
	router.Post("/user_games/biodatas", handler.create)

	router.Get("/user_game/biodata/{id}", handler.get)
	router.With(guard).Patch("/user_game/biodata/{id}", handler.update)
	router.With(guard).Delete("/user_game/biodata/{id}", handler.delete)

	router.Get("/user_game/{id}/biodata", handler.getByAccount)
}

// # Collection Endpoints

/*
GET /api/v1/user_games/biodatas.

Description: Lists every biodata profile with its owning account embedded.

Response:
  - 200: []Biodata with count
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	entities, err := handler.biodataService.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Collection(writer, "OK", entities, len(entities))
}

/*
POST /api/v1/user_games/biodatas.

Description: Creates a biodata profile for an account. Accepts JSON or
multipart (profilePicture file part). The caller must own the target account
or be an admin.

Response:
  - 201: Biodata: The created profile
  - 400: Validation failure
  - 401/403: Ownership failure
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	payload, err := requestutil.ParsePayload(request, fileField)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Numeric form fields arrive as strings; coerce before any comparison.
	submitted, err := diff.Normalize(UpdatableFields(), payload.Fields)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID, _ := recordInt(submitted, "userGameId")
	if err := middleware.AuthorizeActor(request.Context(), int64(accountID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.biodataService.Create(request.Context(), submitted, payload.File)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "UserGameBiodata created successfully", created)
}

// # Single Resource Endpoints

/*
GET /api/v1/user_game/biodata/{id}.

Response:
  - 200: Biodata with embedded owner
  - 404: Profile not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.biodataService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "OK", entity)
}

/*
PATCH /api/v1/user_game/biodata/{id}.

Description: Applies a partial update. Only fields that actually change are
validated and persisted; an update that changes nothing succeeds without
touching storage.

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

	payload, err := requestutil.ParsePayload(request, fileField)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.biodataService.Update(request.Context(), id, payload.Fields, payload.File)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Empty() {
		respond.OK(writer, "No changes made", result)
		return
	}

	respond.OK(writer, "UserGameBiodata updated successfully", result)
}

/*
DELETE /api/v1/user_game/biodata/{id}.

Response:
  - 200: The deleted profile snapshot
  - 401/403/404: Ownership guard outcomes
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.biodataService.Delete(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "UserGameBiodata deleted successfully", deleted)
}

/*
GET /api/v1/user_game/{id}/biodata.

Description: Retrieves the profile belonging to an account. An account with
no profile yields a null data payload, not a 404.

Response:
  - 200: Biodata or null
*/
func (handler *Handler) getByAccount(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.biodataService.GetByAccount(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "OK", entity)
}
