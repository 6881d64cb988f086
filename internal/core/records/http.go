// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package records

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tnslabs/trustns/internal/platform/middleware"
	requestutil "github.com/tnslabs/trustns/internal/platform/request"
	"github.com/tnslabs/trustns/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the record endpoints on the domains subtree. Reads
// are public; writes require an authenticated wallet.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/primary/{address}", handler.primary)
	router.Get("/{name}/records", handler.getAll)

	router.Group(func(authRoute chi.Router) {
		authRoute.Use(middleware.RequireAuth)

		authRoute.Put("/{name}/records", handler.prepareWrite)
		authRoute.Post("/{name}/records/confirm", handler.confirmWrite)
		authRoute.Delete("/{name}/records", handler.prepareClear)
		authRoute.Post("/{name}/records/clear/confirm", handler.confirmClear)
		authRoute.Post("/{name}/primary", handler.preparePrimary)
	})
}

func (handler *Handler) getAll(writer http.ResponseWriter, request *http.Request) {
	set, err := handler.service.GetAll(request.Context(), requestutil.ID(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, set)
}

func (handler *Handler) prepareWrite(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredAddress(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body WriteRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prepared, err := handler.service.PrepareWrite(request.Context(), requestutil.ID(request, "name"), caller, body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prepared)
}

func (handler *Handler) confirmWrite(writer http.ResponseWriter, request *http.Request) {
	var body WriteRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.ConfirmWrite(request.Context(), requestutil.ID(request, "name"), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) prepareClear(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredAddress(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	prepared, err := handler.service.PrepareClear(request.Context(), requestutil.ID(request, "name"), caller)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prepared)
}

func (handler *Handler) confirmClear(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.ConfirmClear(request.Context(), requestutil.ID(request, "name")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) preparePrimary(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredAddress(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	prepared, err := handler.service.PreparePrimary(request.Context(), requestutil.ID(request, "name"), caller)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prepared)
}

func (handler *Handler) primary(writer http.ResponseWriter, request *http.Request) {
	primaryName, err := handler.service.Primary(request.Context(), requestutil.ID(request, "address"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"name": primaryName})
}
