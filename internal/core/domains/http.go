// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package domains

import (
	"net/http"

	"github.com/go-chi/chi/v5"
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

// RegisterRoutes mounts the read-side domain endpoints. Registration and
// record writes are handled by their own packages on the same subtree.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/search/{name}", handler.search)
	router.Get("/token/{tokenID}", handler.getByTokenID)
	router.Get("/owner/{address}", handler.listByOwner)
	router.Get("/{name}", handler.get)
}

// RegisterInfoRoutes mounts the static chain and pricing endpoints at the
// API root.
func (handler *Handler) RegisterInfoRoutes(router chi.Router) {
	router.Get("/network", handler.network)
	router.Get("/pricing", handler.pricing)
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Search(request.Context(), requestutil.ID(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.Get(request.Context(), requestutil.ID(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) getByTokenID(writer http.ResponseWriter, request *http.Request) {
	domain, err := handler.service.GetByTokenID(request.Context(), requestutil.ID(request, "tokenID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{
		"name":     domain.FullName,
		"token_id": domain.TokenID,
	})
}

func (handler *Handler) listByOwner(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	views, total, err := handler.service.ListByOwner(
		request.Context(),
		requestutil.ID(request, "address"),
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, views, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) network(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Network())
}

func (handler *Handler) pricing(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Pricing())
}
