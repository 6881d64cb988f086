// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnslabs/trustns/internal/platform/apperr"
)

func testGateway(provider Provider) *Gateway {
	return NewGateway(provider, testLogger(), time.Millisecond, 3)
}

func TestGateway_WaitForReceipt_Success(t *testing.T) {
	minedReceipt := &Receipt{
		TxHash:      common.HexToHash("0x01"),
		Status:      1,
		BlockNumber: big.NewInt(42),
	}
	// First poll sees a pending transaction, second sees it mined.
	provider := &fakeProvider{receipts: []*Receipt{nil, minedReceipt}}

	receipt, err := testGateway(provider).WaitForReceipt(context.Background(), minedReceipt.TxHash)
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())
	assert.GreaterOrEqual(t, provider.receiptCalls, 2)
}

func TestGateway_WaitForReceipt_TransientPollErrorKeepsPolling(t *testing.T) {
	minedReceipt := &Receipt{
		TxHash:      common.HexToHash("0x05"),
		Status:      1,
		BlockNumber: big.NewInt(43),
	}
	// First poll fails at the provider, second sees the mined receipt. A
	// flaky poll must consume an attempt, not abort the wait.
	provider := &fakeProvider{
		receiptErrs: []error{errors.New("connection reset by peer")},
		receipts:    []*Receipt{minedReceipt},
	}

	receipt, err := testGateway(provider).WaitForReceipt(context.Background(), minedReceipt.TxHash)
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded())
	assert.Equal(t, 2, provider.receiptCalls)
}

func TestGateway_WaitForReceipt_Reverted(t *testing.T) {
	provider := &fakeProvider{receipts: []*Receipt{{
		TxHash: common.HexToHash("0x02"),
		Status: 0,
	}}}

	_, err := testGateway(provider).WaitForReceipt(context.Background(), common.HexToHash("0x02"))
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, CodeTransactionReverted, appError.Code)
}

func TestGateway_WaitForReceipt_Timeout(t *testing.T) {
	// Never returns a receipt: polling must give up after the configured
	// attempts, and the caller must not read the timeout as a revert.
	provider := &fakeProvider{}

	_, err := testGateway(provider).WaitForReceipt(context.Background(), common.HexToHash("0x03"))
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, CodeTransactionTimeout, appError.Code)
	assert.Equal(t, 3, provider.receiptCalls)
}

func TestGateway_WaitForReceipt_ContextCancelled(t *testing.T) {
	provider := &fakeProvider{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testGateway(provider).WaitForReceipt(ctx, common.HexToHash("0x04"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGateway_SendRaw_ExactWei(t *testing.T) {
	provider := &fakeProvider{}
	gateway := testGateway(provider)

	// 0.05 tokens expressed as an exact integer, the kind of value a float
	// path would mangle.
	value, ok := new(big.Int).SetString("50000000000000000", 10)
	require.True(t, ok)

	_, err := gateway.SendRaw(context.Background(), common.HexToAddress("0xBB"), value, []byte{0x01}, 100_000)
	require.NoError(t, err)
	require.Len(t, provider.sentTxs, 1)
	assert.Zero(t, value.Cmp(provider.sentTxs[0].Value))
	assert.Equal(t, uint64(100_000), provider.sentTxs[0].GasLimit)
}
