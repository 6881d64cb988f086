// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package chain

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vendorError mimics a wallet's coded JSON-RPC error.
type vendorError struct {
	code    int
	message string
}

func (e *vendorError) Error() string  { return e.message }
func (e *vendorError) ErrorCode() int { return e.code }

// fakeProvider is a scriptable [Provider] for session and gateway tests.
type fakeProvider struct {
	accounts        []common.Address
	accountsErr     error
	chainID         *big.Int
	switchErr       error
	switchCalls     int
	addChainCalls   int
	addChainErr     error
	balance         *big.Int
	receipts        []*Receipt
	receiptErrs     []error
	receiptCalls    int
	callResults     [][]byte
	callErr         error
	sentTxs         []TxRequest
	sendErr         error
	afterSwitchToID bool
}

func (p *fakeProvider) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	if p.callErr != nil {
		return nil, p.callErr
	}
	if len(p.callResults) == 0 {
		return nil, errors.New("no scripted result")
	}
	result := p.callResults[0]
	p.callResults = p.callResults[1:]
	return result, nil
}

func (p *fakeProvider) SendTransaction(ctx context.Context, tx TxRequest) (common.Hash, error) {
	if p.sendErr != nil {
		return common.Hash{}, p.sendErr
	}
	p.sentTxs = append(p.sentTxs, tx)
	return common.HexToHash("0x01"), nil
}

func (p *fakeProvider) TransactionReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	p.receiptCalls++
	if len(p.receiptErrs) > 0 {
		err := p.receiptErrs[0]
		p.receiptErrs = p.receiptErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(p.receipts) == 0 {
		return nil, nil
	}
	receipt := p.receipts[0]
	p.receipts = p.receipts[1:]
	return receipt, nil
}

func (p *fakeProvider) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	if p.balance == nil {
		return big.NewInt(0), nil
	}
	return p.balance, nil
}

func (p *fakeProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return p.chainID, nil
}

func (p *fakeProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if p.accountsErr != nil {
		return nil, p.accountsErr
	}
	return p.accounts, nil
}

func (p *fakeProvider) SwitchChain(ctx context.Context, chainID *big.Int) error {
	p.switchCalls++
	if p.switchErr != nil && !(p.afterSwitchToID && p.addChainCalls > 0) {
		return p.switchErr
	}
	p.chainID = chainID
	return nil
}

func (p *fakeProvider) AddChain(ctx context.Context, metadata Metadata) error {
	p.addChainCalls++
	return p.addChainErr
}

func testMetadata() Metadata {
	return Metadata{
		ChainID:        big.NewInt(1155),
		Name:           "Intuition",
		CurrencyName:   "Trust",
		CurrencySymbol: "TRUST",
		RPCURL:         "https://intuition.calderachain.xyz",
		ExplorerURL:    "https://explorer.intuition.systems",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSession_ConnectClearsDisconnectFlag(t *testing.T) {
	ctx := context.Background()
	flags := &MemoryFlagStore{}
	require.NoError(t, flags.Set(ctx, true))

	provider := &fakeProvider{
		accounts: []common.Address{common.HexToAddress("0xAA")},
		chainID:  big.NewInt(1155),
		balance:  big.NewInt(1_500_000_000_000_000_000),
	}
	session := NewSession(provider, testMetadata(), flags, testLogger())

	state, err := session.Connect(ctx)
	require.NoError(t, err)
	assert.True(t, state.Connected)
	assert.True(t, state.CorrectNetwork)
	assert.Equal(t, "1.5", state.Balance)

	disconnected, err := flags.Get(ctx)
	require.NoError(t, err)
	assert.False(t, disconnected)
}

func TestSession_RestoreHonorsManualDisconnect(t *testing.T) {
	ctx := context.Background()
	flags := &MemoryFlagStore{}
	require.NoError(t, flags.Set(ctx, true))

	provider := &fakeProvider{
		accounts: []common.Address{common.HexToAddress("0xAA")},
		chainID:  big.NewInt(1155),
	}
	session := NewSession(provider, testMetadata(), flags, testLogger())

	state, err := session.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, state.Connected, "restore must not silently reconnect after explicit disconnect")
}

func TestSession_DisconnectPersistsFlag(t *testing.T) {
	ctx := context.Background()
	flags := &MemoryFlagStore{}
	provider := &fakeProvider{
		accounts: []common.Address{common.HexToAddress("0xAA")},
		chainID:  big.NewInt(1155),
	}
	session := NewSession(provider, testMetadata(), flags, testLogger())

	_, err := session.Connect(ctx)
	require.NoError(t, err)
	require.NoError(t, session.Disconnect(ctx))

	disconnected, err := flags.Get(ctx)
	require.NoError(t, err)
	assert.True(t, disconnected)
	assert.False(t, session.State().Connected)
}

func TestSession_AddChainFallbackOnUnrecognizedChain(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{
		accounts:        []common.Address{common.HexToAddress("0xAA")},
		chainID:         big.NewInt(1),
		switchErr:       &vendorError{code: 4902, message: "Unrecognized chain ID"},
		afterSwitchToID: true,
	}
	session := NewSession(provider, testMetadata(), &MemoryFlagStore{}, testLogger())

	state, err := session.Connect(ctx)
	require.NoError(t, err)
	assert.True(t, state.Connected)
	assert.Equal(t, 1, provider.addChainCalls)
	assert.Equal(t, 2, provider.switchCalls, "switch is retried after the chain is added")
}

func TestSession_UserRejected(t *testing.T) {
	provider := &fakeProvider{
		accountsErr: &vendorError{code: 4001, message: "User rejected the request"},
	}
	session := NewSession(provider, testMetadata(), &MemoryFlagStore{}, testLogger())

	_, err := session.Connect(context.Background())
	assert.ErrorIs(t, err, ErrUserRejected)
}

func TestSession_ListenersIndependentlyRemovable(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{
		accounts: []common.Address{common.HexToAddress("0xAA")},
		chainID:  big.NewInt(1155),
	}
	session := NewSession(provider, testMetadata(), &MemoryFlagStore{}, testLogger())

	var firstCount, secondCount int
	unsubscribeFirst := session.Subscribe(func(WalletState) { firstCount++ })
	session.Subscribe(func(WalletState) { secondCount++ })

	_, err := session.Connect(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, firstCount)
	assert.Equal(t, 1, secondCount)

	unsubscribeFirst()
	require.NoError(t, session.Disconnect(ctx))
	assert.Equal(t, 1, firstCount, "removed listener must not fire")
	assert.Equal(t, 2, secondCount)
}
