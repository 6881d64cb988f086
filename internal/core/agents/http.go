// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package agents

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tnslabs/trustns/internal/platform/middleware"
	requestutil "github.com/tnslabs/trustns/internal/platform/request"
	"github.com/tnslabs/trustns/internal/platform/respond"
	"github.com/tnslabs/trustns/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the agent directory. Static routes come before
// the {domain} wildcard so chi matches them first.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/discover", handler.discover)
	router.Get("/directory", handler.directory)
	router.Get("/directory/{domain}/records", handler.records)
	router.Get("/{domain}", handler.resolve)

	router.Group(func(authRoute chi.Router) {
		authRoute.Use(middleware.RequireAuth)

		authRoute.Post("/register", handler.register)
		authRoute.Delete("/{domain}", handler.unregister)
	})
}

func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredAddress(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body RegisterParams
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Register(request.Context(), caller, body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, result)
}

func (handler *Handler) discover(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	entries, total, err := handler.service.Discover(
		request.Context(),
		request.URL.Query().Get("category"),
		paginationParams,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) directory(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	entries, total, err := handler.service.Discover(request.Context(), "", paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) resolve(writer http.ResponseWriter, request *http.Request) {
	resolved, err := handler.service.Resolve(request.Context(), requestutil.ID(request, "domain"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, resolved)
}

func (handler *Handler) records(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.service.Records(request.Context(), requestutil.ID(request, "domain"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

func (handler *Handler) unregister(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredAddress(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Unregister(request.Context(), requestutil.ID(request, "domain"), caller); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
