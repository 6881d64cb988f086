// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package auth

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

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/nonce", handler.nonce)
	router.Post("/verify", handler.verify)
}

func (handler *Handler) nonce(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Address string `json:"address"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Nonce(request.Context(), body.Address)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	var body VerifyParams
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Verify(request.Context(), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, session)
}
