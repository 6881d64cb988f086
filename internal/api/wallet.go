// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tnslabs/trustns/internal/chain"
	"github.com/tnslabs/trustns/internal/platform/respond"
)

// WalletSession is the slice of [chain.Session] the wallet endpoints drive.
type WalletSession interface {
	Connect(ctx context.Context) (chain.WalletState, error)
	Restore(ctx context.Context) (chain.WalletState, error)
	Disconnect(ctx context.Context) error
}

type walletHandler struct {
	session WalletSession
	logger  *slog.Logger
}

// NewWalletHandlers creates the wallet session http.HandlerFuncs. Restore is
// the read path: it re-establishes a prior connection unless the wallet was
// explicitly disconnected.
func NewWalletHandlers(session WalletSession, logger *slog.Logger) (state, connect, disconnect http.HandlerFunc) {
	handler := &walletHandler{session: session, logger: logger}
	return handler.state, handler.connect, handler.disconnect
}

func (handler *walletHandler) state(writer http.ResponseWriter, request *http.Request) {
	walletState, err := handler.session.Restore(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, walletState)
}

func (handler *walletHandler) connect(writer http.ResponseWriter, request *http.Request) {
	walletState, err := handler.session.Connect(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.logger.Info("wallet_connected", slog.String("address", walletState.Address))
	respond.OK(writer, walletState)
}

func (handler *walletHandler) disconnect(writer http.ResponseWriter, request *http.Request) {
	if err := handler.session.Disconnect(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
