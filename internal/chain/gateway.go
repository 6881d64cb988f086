// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package chain

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Receipt polling defaults. The inter-poll delay must stay non-zero to
// keep pressure off the RPC endpoint; a tight spin would trip rate limits.
const (
	DefaultPollInterval = 2 * time.Second
	DefaultPollAttempts = 60
)

// Gateway bundles a [Provider] with the call, send, and wait primitives
// every contract binding is built on.
type Gateway struct {
	provider     Provider
	logger       *slog.Logger
	pollInterval time.Duration
	pollAttempts int
}

// NewGateway wraps a provider. Zero polling options fall back to the
// package defaults.
func NewGateway(provider Provider, logger *slog.Logger, pollInterval time.Duration, pollAttempts int) *Gateway {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if pollAttempts <= 0 {
		pollAttempts = DefaultPollAttempts
	}
	return &Gateway{
		provider:     provider,
		logger:       logger,
		pollInterval: pollInterval,
		pollAttempts: pollAttempts,
	}
}

// Call executes a read-only contract call.
func (g *Gateway) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return g.provider.CallContract(ctx, to, data)
}

// SendRaw submits a value-bearing transaction. The value is always an
// exact wei integer; no float conversion exists on this path.
func (g *Gateway) SendRaw(ctx context.Context, to common.Address, valueWei *big.Int, data []byte, gasLimit uint64) (common.Hash, error) {
	txHash, err := g.provider.SendTransaction(ctx, TxRequest{
		To:       to,
		Data:     data,
		Value:    valueWei,
		GasLimit: gasLimit,
	})
	if err != nil {
		return common.Hash{}, classifyWalletError(err)
	}

	g.logger.Info("transaction_submitted",
		slog.String("tx_hash", txHash.Hex()),
		slog.String("to", to.Hex()),
	)
	return txHash, nil
}

// WaitForReceipt polls until the transaction is mined.
//
// It returns [TransactionReverted] for a mined failure and
// [TransactionTimeout] once attempts are exhausted. A timeout is not a
// revert: the transaction may still confirm after the caller gives up.
func (g *Gateway) WaitForReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < g.pollAttempts; attempt++ {
		receipt, err := g.provider.TransactionReceipt(ctx, txHash)
		if err != nil {
			// A failed poll consumes an attempt; the receipt may still
			// show up on the next one.
			g.logger.Debug("receipt_poll_failed",
				slog.String("tx_hash", txHash.Hex()),
				slog.Int("attempt", attempt+1),
				slog.Any("error", err),
			)
		} else if receipt != nil {
			if !receipt.Succeeded() {
				g.logger.Warn("transaction_reverted", slog.String("tx_hash", txHash.Hex()))
				return receipt, TransactionReverted(nil)
			}
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	g.logger.Warn("transaction_confirmation_timeout",
		slog.String("tx_hash", txHash.Hex()),
		slog.Int("attempts", g.pollAttempts),
	)
	return nil, TransactionTimeout(g.pollAttempts)
}

// BalanceAt proxies a balance read through the provider.
func (g *Gateway) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := g.provider.BalanceAt(ctx, address)
	if err != nil {
		return nil, RPCFailure(err)
	}
	return balance, nil
}

// ChainID proxies the connected chain ID through the provider.
func (g *Gateway) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := g.provider.ChainID(ctx)
	if err != nil {
		return nil, RPCFailure(err)
	}
	return chainID, nil
}
