// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package api_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnslabs/trustns/internal/api"
	"github.com/tnslabs/trustns/internal/chain"
)

type fakeSession struct {
	state        chain.WalletState
	connectErr   error
	disconnected bool
	restored     bool
}

func (s *fakeSession) Connect(_ context.Context) (chain.WalletState, error) {
	if s.connectErr != nil {
		return chain.WalletState{}, s.connectErr
	}
	return s.state, nil
}

func (s *fakeSession) Restore(_ context.Context) (chain.WalletState, error) {
	s.restored = true
	if s.disconnected {
		return chain.WalletState{Connected: false}, nil
	}
	return s.Connect(context.Background())
}

func (s *fakeSession) Disconnect(_ context.Context) error {
	s.disconnected = true
	return nil
}

/*
TestWalletHandlers covers the session surface: state restores the prior
connection, connect returns the live snapshot, disconnect persists and
sticks across the next state read.
*/
func TestWalletHandlers(t *testing.T) {
	connected := chain.WalletState{
		Connected:      true,
		Address:        "0x1111111111111111111111111111111111111111",
		Balance:        "1.5",
		ChainID:        "1155",
		CorrectNetwork: true,
	}

	t.Run("state_restores_connection", func(t *testing.T) {
		session := &fakeSession{state: connected}
		state, _, _ := api.NewWalletHandlers(session, slog.New(slog.DiscardHandler))

		recorder := httptest.NewRecorder()
		state(recorder, httptest.NewRequest(http.MethodGet, "/api/wallet/session", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, session.restored)

		var body struct {
			Data chain.WalletState `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, connected, body.Data)
	})

	t.Run("disconnect_sticks_for_next_state_read", func(t *testing.T) {
		session := &fakeSession{state: connected}
		state, _, disconnect := api.NewWalletHandlers(session, slog.New(slog.DiscardHandler))

		recorder := httptest.NewRecorder()
		disconnect(recorder, httptest.NewRequest(http.MethodPost, "/api/wallet/disconnect", nil))
		require.Equal(t, http.StatusNoContent, recorder.Code)

		recorder = httptest.NewRecorder()
		state(recorder, httptest.NewRequest(http.MethodGet, "/api/wallet/session", nil))
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			Data chain.WalletState `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.False(t, body.Data.Connected)
	})

	t.Run("connect_returns_snapshot", func(t *testing.T) {
		session := &fakeSession{state: connected}
		_, connect, _ := api.NewWalletHandlers(session, slog.New(slog.DiscardHandler))

		recorder := httptest.NewRecorder()
		connect(recorder, httptest.NewRequest(http.MethodPost, "/api/wallet/connect", nil))
		require.Equal(t, http.StatusOK, recorder.Code)
	})
}
