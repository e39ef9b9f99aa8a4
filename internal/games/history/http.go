// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package history provides the HTTP delivery layer for play-history records.

# Security

Reads are public. Creation requires the caller to act for the target account;
PATCH and DELETE run behind the ownership guard, which resolves the owning
account through the history row itself.
*/
package history

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/gametrack/internal/platform/diff"
	"github.com/taibuivan/gametrack/internal/platform/middleware"
	requestutil "github.com/taibuivan/gametrack/internal/platform/request"
	"github.com/taibuivan/gametrack/internal/platform/respond"
	"github.com/taibuivan/gametrack/pkg/pagination"
)

// fileField is the multipart part carrying the cover art.
const fileField = "cover"

// Handler implements the HTTP layer for play-history records.
type Handler struct {
	historyService *Service
}

// NewHandler constructs a new history [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{historyService: service}
}

// Register mounts the history endpoints onto the versioned API router.
func (handler *Handler) Register(router chi.Router) {
	guard := middleware.RequireOwner(handler.historyService)

	router.Get("/user_games/histories", handler.list)
	router.Post("/user_games/histories", handler.create)

	router.Get("/user_game/history/{id}", handler.get)
	router.With(guard).Patch("/user_game/history/{id}", handler.update)
	router.With(guard).Delete("/user_game/history/{id}", handler.delete)

	router.Get("/user_game/{id}/histories", handler.listByAccount)
}

// # Collection Endpoints

/*
GET /api/v1/user_games/histories.

Description: Lists every play-history record with its owning account embedded.

Response:
  - 200: []History with count
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	entities, err := handler.historyService.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Collection(writer, "OK", entities, len(entities))
}

/*
POST /api/v1/user_games/histories.

Description: Logs a game into an account's play history. Accepts JSON or
multipart (cover file part). The caller must own the target account or be an
admin.

Response:
  - 201: History: The created record
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

	created, err := handler.historyService.Create(request.Context(), submitted, payload.File)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "UserGameHistory created successfully", created)
}

// # Single Resource Endpoints

/*
GET /api/v1/user_game/history/{id}.

Response:
  - 200: History with embedded owner
  - 404: Record not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.historyService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "OK", entity)
}

/*
PATCH /api/v1/user_game/history/{id}.

Description: Applies a partial update. Only fields that actually change are
validated and persisted; an effective update refreshes lastPlayed.

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

	result, err := handler.historyService.Update(request.Context(), id, payload.Fields, payload.File)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Empty() {
		respond.OK(writer, "No changes made", result)
		return
	}

	respond.OK(writer, "UserGameHistory updated successfully", result)
}

/*
DELETE /api/v1/user_game/history/{id}.

Response:
  - 200: The deleted record snapshot
  - 401/403/404: Ownership guard outcomes
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	deleted, err := handler.historyService.Delete(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "UserGameHistory deleted successfully", deleted)
}

/*
GET /api/v1/user_game/{id}/histories.

Description: Lists the play-history records belonging to an account, with the
collection count in the envelope.

Response:
  - 200: []History with count
*/
func (handler *Handler) listByAccount(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entities, err := handler.historyService.ListByAccount(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Collection(writer, "OK", entities, len(entities))
}
