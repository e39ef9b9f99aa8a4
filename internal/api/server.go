// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/gametrack/internal/games/history"
	"github.com/taibuivan/gametrack/internal/platform/config"
	"github.com/taibuivan/gametrack/internal/platform/constants"
	"github.com/taibuivan/gametrack/internal/platform/middleware"
	"github.com/taibuivan/gametrack/internal/platform/respond"
	"github.com/taibuivan/gametrack/internal/users/account"
	"github.com/taibuivan/gametrack/internal/users/auth"
	"github.com/taibuivan/gametrack/internal/users/biodata"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles register, login, and the password recovery flow.
	Auth *auth.Handler

	// Account handles the player account resource.
	Account *account.Handler

	// Biodata handles the identity profile resource.
	Biodata *biodata.Handler

	// History handles the play-history resource.
	History *history.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Router Fallbacks
	// Unknown paths and mismatched methods answer in the standard envelope.
	r.NotFound(respond.EndpointNotFound)
	r.MethodNotAllowed(respond.MethodNotAllowed)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain routes registered flat under the versioned prefix; the resources
	// share path prefixes, so each handler registers explicit method routes.
	r.Route(constants.APIPrefix, func(api chi.Router) {
		api.Get("/", versionHandler)

		h.Auth.Register(api)
		h.Account.Register(api)
		h.Biodata.Register(api)
		h.History.Register(api)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// versionHandler answers GET /api/v1 with the service identity.
func versionHandler(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, "OK", map[string]string{
		"name":    constants.AppName,
		"version": constants.AppVersion,
	})
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
