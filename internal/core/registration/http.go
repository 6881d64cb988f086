// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package registration

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	requestutil "github.com/tnslabs/trustns/internal/platform/request"
	"github.com/tnslabs/trustns/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the registration endpoints on the domains subtree.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/commit", handler.commit)
	router.Post("/register/prepare", handler.prepareRegister)
	router.Post("/register", handler.confirmRegister)
	router.Post("/reveal", handler.legacyReveal)
	router.Post("/{name}/renew", handler.renew)
	router.Post("/{name}/burn", handler.burnExpired)
}

func (handler *Handler) commit(writer http.ResponseWriter, request *http.Request) {
	var params Params
	if err := requestutil.DecodeJSON(request, &params); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Commit(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, result)
}

func (handler *Handler) prepareRegister(writer http.ResponseWriter, request *http.Request) {
	var params Params
	if err := requestutil.DecodeJSON(request, &params); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Register(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) confirmRegister(writer http.ResponseWriter, request *http.Request) {
	var params ConfirmParams
	if err := requestutil.DecodeJSON(request, &params); err != nil {
		respond.Error(writer, request, err)
		return
	}

	domain, err := handler.service.Confirm(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{
		"message": "Domain registered successfully",
		"domain":  domain,
	})
}

func (handler *Handler) legacyReveal(writer http.ResponseWriter, request *http.Request) {
	var params LegacyRevealParams
	if err := requestutil.DecodeJSON(request, &params); err != nil {
		respond.Error(writer, request, err)
		return
	}

	domain, err := handler.service.LegacyReveal(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{
		"message": "Domain registered successfully",
		"domain":  domain,
	})
}

type renewRequest struct {
	Duration int64 `json:"duration"`
}

func (handler *Handler) renew(writer http.ResponseWriter, request *http.Request) {
	var body renewRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Renew(request.Context(), requestutil.ID(request, "name"), body.Duration)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) burnExpired(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.BurnExpired(request.Context(), requestutil.ID(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
