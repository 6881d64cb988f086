// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package chain

import (
	"context"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tnslabs/trustns/pkg/wei"
)

// Wallet vendor error codes (EIP-1193 / EIP-3085).
const (
	vendorCodeUserRejected      = 4001
	vendorCodeUnrecognizedChain = 4902
)

// rpcError is the shape go-ethereum gives JSON-RPC errors with a code.
type rpcError interface {
	Error() string
	ErrorCode() int
}

// DisconnectFlagStore persists the manual-disconnect marker across process
// restarts, so an explicitly disconnected wallet is never silently
// reconnected at session restore.
type DisconnectFlagStore interface {
	Get(ctx context.Context) (bool, error)
	Set(ctx context.Context, disconnected bool) error
}

// MemoryFlagStore is an in-process [DisconnectFlagStore] for tests and
// single-run tooling.
type MemoryFlagStore struct {
	mu           sync.Mutex
	disconnected bool
}

func (s *MemoryFlagStore) Get(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnected, nil
}

func (s *MemoryFlagStore) Set(ctx context.Context, disconnected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnected = disconnected
	return nil
}

// Session tracks a wallet connection against the target chain.
//
// It is an explicit, injected object: components that need chain access
// receive a *Session (or the Gateway built on one), never a package-level
// singleton.
type Session struct {
	provider Provider
	target   Metadata
	flags    DisconnectFlagStore
	logger   *slog.Logger

	mu           sync.Mutex
	state        WalletState
	listeners    map[int]func(WalletState)
	nextListener int
}

// NewSession builds a disconnected session for the target chain.
func NewSession(provider Provider, target Metadata, flags DisconnectFlagStore, logger *slog.Logger) *Session {
	return &Session{
		provider:  provider,
		target:    target,
		flags:     flags,
		logger:    logger,
		listeners: make(map[int]func(WalletState)),
	}
}

// Connect requests wallet accounts, ensures the target chain is active,
// and clears the persisted manual-disconnect flag.
func (s *Session) Connect(ctx context.Context) (WalletState, error) {
	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return WalletState{}, classifyWalletError(err)
	}
	if len(accounts) == 0 {
		return WalletState{}, ErrWalletUnavailable
	}
	address := accounts[0]

	if err := s.ensureTargetChain(ctx); err != nil {
		return WalletState{}, err
	}

	// An explicit reconnect is the only action that clears the flag.
	if err := s.flags.Set(ctx, false); err != nil {
		return WalletState{}, err
	}

	state := s.snapshot(ctx, address)
	s.setState(state)
	return state, nil
}

// Restore re-establishes a previous connection unless the user explicitly
// disconnected; in that case it stays silent and returns a disconnected
// state.
func (s *Session) Restore(ctx context.Context) (WalletState, error) {
	disconnected, err := s.flags.Get(ctx)
	if err != nil {
		return WalletState{}, err
	}
	if disconnected {
		return WalletState{Connected: false}, nil
	}
	return s.Connect(ctx)
}

// Disconnect clears the session and persists the manual-disconnect flag.
func (s *Session) Disconnect(ctx context.Context) error {
	if err := s.flags.Set(ctx, true); err != nil {
		return err
	}
	s.setState(WalletState{Connected: false})
	return nil
}

// State returns the current connection snapshot.
func (s *Session) State() WalletState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener for connection-state changes and returns
// an unsubscribe function. Listeners are independent: removing one never
// affects the others.
func (s *Session) Subscribe(listener func(WalletState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// ensureTargetChain switches the wallet to the target chain, falling back
// to an add-chain request when the wallet has never seen it (vendor code
// 4902).
func (s *Session) ensureTargetChain(ctx context.Context) error {
	currentChainID, err := s.provider.ChainID(ctx)
	if err != nil {
		return RPCFailure(err)
	}
	if currentChainID.Cmp(s.target.ChainID) == 0 {
		return nil
	}

	err = s.provider.SwitchChain(ctx, s.target.ChainID)
	if err == nil {
		return nil
	}
	if !isUnrecognizedChain(err) {
		return classifyWalletError(err)
	}

	s.logger.Info("chain_not_registered_adding",
		slog.String("chain", s.target.Name),
	)
	if err := s.provider.AddChain(ctx, s.target); err != nil {
		return classifyWalletError(err)
	}
	if err := s.provider.SwitchChain(ctx, s.target.ChainID); err != nil {
		return classifyWalletError(err)
	}
	return nil
}

// snapshot builds a WalletState for a connected address. Balance lookup is
// best-effort: a failed read leaves the field empty rather than failing
// the whole connect.
func (s *Session) snapshot(ctx context.Context, address common.Address) WalletState {
	state := WalletState{
		Connected: true,
		Address:   address.Hex(),
		ChainID:   s.target.ChainID.String(),
	}

	if chainID, err := s.provider.ChainID(ctx); err == nil {
		state.ChainID = chainID.String()
		state.CorrectNetwork = chainID.Cmp(s.target.ChainID) == 0
	}
	if balance, err := s.provider.BalanceAt(ctx, address); err == nil {
		state.Balance = wei.ToDecimal(balance)
	}

	return state
}

func (s *Session) setState(state WalletState) {
	s.mu.Lock()
	s.state = state
	notify := make([]func(WalletState), 0, len(s.listeners))
	for _, listener := range s.listeners {
		notify = append(notify, listener)
	}
	s.mu.Unlock()

	for _, listener := range notify {
		listener(state)
	}
}

// classifyWalletError maps vendor error codes onto the taxonomy.
func classifyWalletError(err error) error {
	if coded, ok := err.(rpcError); ok {
		switch coded.ErrorCode() {
		case vendorCodeUserRejected:
			return ErrUserRejected
		case vendorCodeUnrecognizedChain:
			return errUnrecognizedChain
		}
	}
	if err == ErrWalletUnavailable {
		return err
	}
	return RPCFailure(err)
}

func isUnrecognizedChain(err error) bool {
	if err == errUnrecognizedChain {
		return true
	}
	coded, ok := err.(rpcError)
	return ok && coded.ErrorCode() == vendorCodeUnrecognizedChain
}

// TargetChainID exposes the configured chain ID for balance and gateway
// checks.
func (s *Session) TargetChainID() *big.Int { return s.target.ChainID }
