// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

/*
Package chain is the single gateway between the service and the EVM chain.

It owns the JSON-RPC provider abstraction, the wallet session lifecycle,
receipt polling, the typed contract bindings for every deployed contract the
service talks to, and the mapping from raw revert data to the application
error taxonomy.

Architecture:

  - Provider: low-level RPC/wallet dispatch, swappable for test fakes.
  - Session: explicit connection state with a persisted disconnect flag.
  - Gateway: call/send/wait primitives shared by all bindings.
  - Bindings: one typed struct per contract role (Registry, Controller, ...).

No other package issues an RPC call directly.
*/
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TxRequest describes a transaction to be signed and submitted. The backend
// never holds user keys, so mutating flows hand a TxRequest back to the
// caller's wallet instead of submitting directly.
type TxRequest struct {
	To       common.Address `json:"to"`
	Data     []byte         `json:"-"`
	Value    *big.Int       `json:"-"`
	GasLimit uint64         `json:"gasLimit,omitempty"`
}

// TxWire is the JSON shape of a prepared transaction handed back to the
// client wallet. Calldata is 0x-hex, value is an exact decimal wei string.
type TxWire struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"`
	GasLimit uint64 `json:"gas_limit,omitempty"`
}

// Wire converts a TxRequest into its client-facing JSON shape.
func (t TxRequest) Wire() TxWire {
	value := "0"
	if t.Value != nil {
		value = t.Value.String()
	}
	return TxWire{
		To:       t.To.Hex(),
		Data:     hexutil.Encode(t.Data),
		Value:    value,
		GasLimit: t.GasLimit,
	}
}

// Receipt is the minimal transaction receipt the service needs.
type Receipt struct {
	TxHash      common.Hash
	Status      uint64
	BlockNumber *big.Int
}

// Succeeded reports whether the transaction executed without reverting.
func (r *Receipt) Succeeded() bool { return r != nil && r.Status == 1 }

// Metadata describes the target chain, in the shape a wallet's add-chain
// request expects.
type Metadata struct {
	ChainID        *big.Int `json:"-"`
	Name           string   `json:"chainName"`
	CurrencyName   string   `json:"currencyName"`
	CurrencySymbol string   `json:"currencySymbol"`
	RPCURL         string   `json:"rpcUrl"`
	ExplorerURL    string   `json:"explorerUrl"`
}

// WalletState is a snapshot of the session's connection status.
type WalletState struct {
	Connected      bool   `json:"connected"`
	Address        string `json:"address,omitempty"`
	Balance        string `json:"balance,omitempty"`
	ChainID        string `json:"chainId,omitempty"`
	CorrectNetwork bool   `json:"correctNetwork"`
}

// Provider is the low-level dispatch surface for chain access.
//
// The production implementation speaks JSON-RPC; tests substitute fakes.
// Wallet-shaped methods (RequestAccounts, SwitchChain, AddChain) fail with
// [ErrWalletUnavailable] on providers that have no signer attached.
type Provider interface {
	// CallContract executes a read-only eth_call against a contract.
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)

	// SendTransaction submits a signed transaction and returns its hash.
	SendTransaction(ctx context.Context, tx TxRequest) (common.Hash, error)

	// TransactionReceipt returns the receipt for a mined transaction, or
	// nil when the transaction is still pending.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error)

	// BalanceAt returns the native-token balance of an address in wei.
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)

	// ChainID returns the chain the provider is connected to.
	ChainID(ctx context.Context) (*big.Int, error)

	// RequestAccounts prompts the wallet for account access.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// SwitchChain asks the wallet to switch to the given chain.
	SwitchChain(ctx context.Context, chainID *big.Int) error

	// AddChain asks the wallet to register a chain it does not know yet.
	AddChain(ctx context.Context, metadata Metadata) error
}
