// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package sync

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

// RegisterRoutes mounts the sync endpoints. Prepare calls are read-only
// plans; confirm and fail only transition local ledger state, so the
// whole surface stays public like the rest of the read paths.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/user/{address}", handler.userStatus)
	router.Get("/status", handler.overview)
	router.Get("/pending", handler.pending)
	router.Get("/check/{domain}", handler.checkDomain)
	router.Get("/records/{domain}", handler.recordChecks)

	router.Post("/prepare", handler.prepareDomain)
	router.Post("/confirm", handler.confirmDomain)
	router.Post("/fail", handler.failDomain)
	router.Post("/record", handler.prepareRecord)
	router.Post("/record/confirm", handler.confirmRecord)
}

func (handler *Handler) userStatus(writer http.ResponseWriter, request *http.Request) {
	overview, err := handler.service.UserSyncStatus(request.Context(), requestutil.ID(request, "address"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, overview)
}

func (handler *Handler) overview(writer http.ResponseWriter, request *http.Request) {
	counters, err := handler.service.Overview(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, counters)
}

func (handler *Handler) pending(writer http.ResponseWriter, request *http.Request) {
	list, err := handler.service.Pending(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, list)
}

func (handler *Handler) checkDomain(writer http.ResponseWriter, request *http.Request) {
	check, err := handler.service.CheckDomain(request.Context(), requestutil.ID(request, "domain"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, check)
}

func (handler *Handler) recordChecks(writer http.ResponseWriter, request *http.Request) {
	checks, err := handler.service.RecordSyncRows(request.Context(), requestutil.ID(request, "domain"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, checks)
}

func (handler *Handler) prepareDomain(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Domain string `json:"domain"`
	}
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prepare, err := handler.service.PrepareDomainSync(request.Context(), body.Domain)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prepare)
}

func (handler *Handler) confirmDomain(writer http.ResponseWriter, request *http.Request) {
	var body ConfirmParams
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := handler.service.ConfirmDomainSync(request.Context(), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, status)
}

func (handler *Handler) failDomain(writer http.ResponseWriter, request *http.Request) {
	var body FailParams
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := handler.service.FailDomainSync(request.Context(), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, status)
}

func (handler *Handler) prepareRecord(writer http.ResponseWriter, request *http.Request) {
	var body RecordParams
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	prepare, err := handler.service.PrepareRecordSync(request.Context(), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prepare)
}

func (handler *Handler) confirmRecord(writer http.ResponseWriter, request *http.Request) {
	var body RecordConfirmParams
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := handler.service.ConfirmRecordSync(request.Context(), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, status)
}
