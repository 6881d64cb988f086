// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

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

	"github.com/tnslabs/trustns/internal/core/agents"
	"github.com/tnslabs/trustns/internal/core/auth"
	"github.com/tnslabs/trustns/internal/core/domains"
	"github.com/tnslabs/trustns/internal/core/records"
	"github.com/tnslabs/trustns/internal/core/registration"
	"github.com/tnslabs/trustns/internal/core/sync"
	"github.com/tnslabs/trustns/internal/platform/config"
	"github.com/tnslabs/trustns/internal/platform/constants"
	"github.com/tnslabs/trustns/internal/platform/middleware"
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

	// WalletState, WalletConnect, and WalletDisconnect drive the signer
	// wallet session when the process runs with one attached.
	WalletState      http.HandlerFunc
	WalletConnect    http.HandlerFunc
	WalletDisconnect http.HandlerFunc

	// Auth issues login nonces and verifies wallet signatures.
	Auth *auth.Handler

	// Domains serves lookup, search, availability, and chain info.
	Domains *domains.Handler

	// Registration drives the commit-reveal registration lifecycle.
	Registration *registration.Handler

	// Records manages resolver records and reverse resolution.
	Records *records.Handler

	// Sync mirrors domains and records into the Knowledge-Graph.
	Sync *sync.Handler

	// Agents exposes the AI agent directory.
	Agents *agents.Handler
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

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under the API prefix.
	r.Route("/api", func(api chi.Router) {
		api.Get("/health", h.Liveness)

		h.Domains.RegisterInfoRoutes(api)

		// Registration and records extend the domains subtree; all three
		// handlers share the {name} wildcard so their routes cannot collide.
		api.Route("/domains", func(router chi.Router) {
			h.Domains.RegisterRoutes(router)
			h.Registration.RegisterRoutes(router)
			h.Records.RegisterRoutes(router)
		})

		api.Route("/wallet", func(router chi.Router) {
			router.Get("/session", h.WalletState)
			router.Post("/connect", h.WalletConnect)
			router.Post("/disconnect", h.WalletDisconnect)
		})

		api.Route("/metadata", h.Domains.RegisterMetadataRoutes)
		api.Route("/sync", h.Sync.RegisterRoutes)
		api.Route("/agents", h.Agents.RegisterRoutes)
		api.Route("/auth", h.Auth.RegisterRoutes)
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
