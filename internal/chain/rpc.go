// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPCProvider implements [Provider] over a JSON-RPC endpoint.
//
// It is read-and-relay only: the server holds no signing keys, so the
// wallet-shaped methods fail with [ErrWalletUnavailable]. Mutations are
// prepared as [TxRequest] values and signed by the caller's wallet.
type RPCProvider struct {
	client *rpc.Client
}

// NewRPCProvider dials a JSON-RPC endpoint.
func NewRPCProvider(ctx context.Context, rawURL string) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("chain: failed to dial RPC endpoint: %w", err)
	}
	return &RPCProvider{client: client}, nil
}

// Close releases the underlying RPC connection.
func (p *RPCProvider) Close() { p.client.Close() }

// CallContract executes a read-only eth_call at the latest block.
func (p *RPCProvider) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	var result hexutil.Bytes
	callArgs := map[string]interface{}{
		"to":   to,
		"data": hexutil.Bytes(data),
	}
	if err := p.client.CallContext(ctx, &result, "eth_call", callArgs, "latest"); err != nil {
		return nil, err
	}
	return result, nil
}

// SendTransaction submits a transaction via the node's managed accounts.
// Only usable against nodes that hold an unlocked account; the public API
// surface never reaches this path.
func (p *RPCProvider) SendTransaction(ctx context.Context, tx TxRequest) (common.Hash, error) {
	sendArgs := map[string]interface{}{
		"to":   tx.To,
		"data": hexutil.Bytes(tx.Data),
	}
	if tx.Value != nil {
		sendArgs["value"] = hexutil.EncodeBig(tx.Value)
	}
	if tx.GasLimit > 0 {
		sendArgs["gas"] = hexutil.EncodeUint64(tx.GasLimit)
	}

	var txHash common.Hash
	if err := p.client.CallContext(ctx, &txHash, "eth_sendTransaction", sendArgs); err != nil {
		return common.Hash{}, err
	}
	return txHash, nil
}

// rpcReceipt is the wire shape of eth_getTransactionReceipt.
type rpcReceipt struct {
	TransactionHash common.Hash     `json:"transactionHash"`
	Status          *hexutil.Uint64 `json:"status"`
	BlockNumber     *hexutil.Big    `json:"blockNumber"`
}

// TransactionReceipt returns nil (no error) while a transaction is pending.
func (p *RPCProvider) TransactionReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	var raw *rpcReceipt
	if err := p.client.CallContext(ctx, &raw, "eth_getTransactionReceipt", txHash); err != nil {
		return nil, err
	}
	if raw == nil || raw.Status == nil {
		return nil, nil
	}

	receipt := &Receipt{
		TxHash: raw.TransactionHash,
		Status: uint64(*raw.Status),
	}
	if raw.BlockNumber != nil {
		receipt.BlockNumber = raw.BlockNumber.ToInt()
	}
	return receipt, nil
}

// BalanceAt returns the wei balance of an address at the latest block.
func (p *RPCProvider) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	var balance hexutil.Big
	if err := p.client.CallContext(ctx, &balance, "eth_getBalance", address, "latest"); err != nil {
		return nil, err
	}
	return balance.ToInt(), nil
}

// ChainID returns the connected chain's identifier.
func (p *RPCProvider) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID hexutil.Big
	if err := p.client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return nil, err
	}
	return chainID.ToInt(), nil
}

// RequestAccounts fails: a bare RPC endpoint has no wallet.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return nil, ErrWalletUnavailable
}

// SwitchChain fails: a bare RPC endpoint has no wallet.
func (p *RPCProvider) SwitchChain(ctx context.Context, chainID *big.Int) error {
	return ErrWalletUnavailable
}

// AddChain fails: a bare RPC endpoint has no wallet.
func (p *RPCProvider) AddChain(ctx context.Context, metadata Metadata) error {
	return ErrWalletUnavailable
}
