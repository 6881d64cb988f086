// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package chain

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/tnslabs/trustns/internal/platform/apperr"
)

// # Error Taxonomy
//
// Every chain-level failure mode is represented as an [apperr.AppError]
// with a stable machine code, so handlers never branch on raw provider
// error strings.

const (
	CodeWalletUnavailable   = "WALLET_UNAVAILABLE"
	CodeUserRejected        = "USER_REJECTED"
	CodeWrongNetwork        = "WRONG_NETWORK"
	CodeTransactionReverted = "TRANSACTION_REVERTED"
	CodeTransactionTimeout  = "TRANSACTION_TIMEOUT"
	CodeDomainUnavailable   = "DOMAIN_UNAVAILABLE"
	CodeCommitmentNotFound  = "COMMITMENT_NOT_FOUND"
	CodeCommitmentTooNew    = "COMMITMENT_TOO_NEW"
	CodeCommitmentTooOld    = "COMMITMENT_TOO_OLD"
	CodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	CodeRegistrationTooSoon = "REGISTRATION_TOO_SOON"
	CodeDomainNotExpired    = "DOMAIN_NOT_EXPIRED"
	CodeContractRejected    = "CONTRACT_REJECTED"
	CodeRPCFailure          = "RPC_FAILURE"
)

// ErrWalletUnavailable is returned by providers that have no signer or
// injected wallet attached.
var ErrWalletUnavailable = &apperr.AppError{
	Code:       CodeWalletUnavailable,
	Message:    "No wallet provider is available",
	HTTPStatus: http.StatusServiceUnavailable,
}

// ErrUserRejected signals that the user declined a wallet prompt. It is a
// resumable non-error: callers treat it as a silent cancel, never a fault.
var ErrUserRejected = &apperr.AppError{
	Code:       CodeUserRejected,
	Message:    "Request was rejected in the wallet",
	HTTPStatus: http.StatusBadRequest,
}

// ErrWrongNetwork signals the session is connected to the wrong chain.
var ErrWrongNetwork = &apperr.AppError{
	Code:       CodeWrongNetwork,
	Message:    "Wallet is connected to the wrong network",
	HTTPStatus: http.StatusBadRequest,
}

// errUnrecognizedChain is the vendor error (EIP-3085 code 4902) a wallet
// returns when asked to switch to a chain it has never seen. It triggers
// the add-chain fallback and never escapes this package.
var errUnrecognizedChain = errors.New("chain: unrecognized chain")

// TransactionReverted builds the error for a mined-but-failed transaction.
func TransactionReverted(cause error) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeTransactionReverted,
		Message:    "Transaction was reverted on-chain",
		HTTPStatus: http.StatusBadRequest,
		Cause:      cause,
	}
}

// TransactionTimeout builds the error for exhausted receipt polling.
//
// A timeout does not imply failure: the transaction may still confirm
// later, and callers must not treat this as a terminal revert.
func TransactionTimeout(attempts int) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeTransactionTimeout,
		Message:    "Transaction was not confirmed in time",
		HTTPStatus: http.StatusGatewayTimeout,
		Details: []apperr.FieldError{
			{Field: "attempts", Message: "polling attempts exhausted"},
		},
	}
}

// RPCFailure wraps an unexpected provider-level error.
func RPCFailure(cause error) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeRPCFailure,
		Message:    "Blockchain RPC request failed",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// DomainUnavailable builds the error for a name that is already taken.
func DomainUnavailable(label string) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeDomainUnavailable,
		Message:    "Domain is not available",
		HTTPStatus: http.StatusConflict,
		Details:    []apperr.FieldError{{Field: "name", Message: label}},
	}
}

// CommitmentNotFound builds the error for a reveal whose commitment never
// landed on-chain (or was dropped/replaced).
func CommitmentNotFound(commitment string) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeCommitmentNotFound,
		Message:    "No matching commitment was found on-chain",
		HTTPStatus: http.StatusNotFound,
		Details:    []apperr.FieldError{{Field: "commitment", Message: commitment}},
	}
}

// CommitmentTooNew builds the error for a reveal attempted before the
// minimum commitment age. The wait is reported so clients can retry.
func CommitmentTooNew(waitSeconds int64) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeCommitmentTooNew,
		Message:    "Commitment is too new; wait for the minimum commitment age",
		HTTPStatus: http.StatusConflict,
		Details:    []apperr.FieldError{{Field: "retry_after_seconds", Message: strconv.FormatInt(waitSeconds, 10)}},
	}
}

// CommitmentTooOld builds the error for a commitment past the maximum age.
func CommitmentTooOld(commitment string) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeCommitmentTooOld,
		Message:    "Commitment has expired; start the registration again",
		HTTPStatus: http.StatusConflict,
		Details:    []apperr.FieldError{{Field: "commitment", Message: commitment}},
	}
}

// DomainNotExpired builds the error for a burn attempted before expiry
// plus grace.
func DomainNotExpired(fullName string, burnableAtUnix int64) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeDomainNotExpired,
		Message:    "Domain has not passed its grace period yet",
		HTTPStatus: http.StatusConflict,
		Details: []apperr.FieldError{
			{Field: "name", Message: fullName},
			{Field: "burnable_at", Message: strconv.FormatInt(burnableAtUnix, 10)},
		},
	}
}

// # Revert Classification
//
// The controller and registrar revert with named custom errors. The
// classification below is data-driven so it can be tested in isolation and
// extended alongside the ABI definitions, instead of scattering
// substring checks through call sites.

// revertRule maps a revert-reason fragment to a taxonomy entry.
type revertRule struct {
	fragment string
	code     string
	message  string
	status   int
}

var revertRules = []revertRule{
	{"CommitmentTooNew", CodeCommitmentTooNew, "Commitment is too new; wait for the minimum commitment age", http.StatusConflict},
	{"CommitmentTooOld", CodeCommitmentTooOld, "Commitment has expired; start the registration again", http.StatusConflict},
	{"CommitmentNotFound", CodeCommitmentNotFound, "No matching commitment was found on-chain", http.StatusNotFound},
	{"UnexpiredCommitmentExists", CodeRegistrationTooSoon, "A registration for this name was attempted too recently", http.StatusConflict},
	{"NameNotAvailable", CodeDomainUnavailable, "Domain is not available", http.StatusConflict},
	{"Domain not available", CodeDomainUnavailable, "Domain is not available", http.StatusConflict},
	{"InsufficientValue", CodeInsufficientFunds, "Payment does not cover the registration price", http.StatusBadRequest},
	{"insufficient funds", CodeInsufficientFunds, "Account balance does not cover the transaction", http.StatusBadRequest},
	{"NameNotExpired", CodeDomainNotExpired, "Domain has not passed its grace period yet", http.StatusConflict},
}

// ClassifyRevert maps raw revert output (a decoded reason string or an
// error message from the provider) onto the taxonomy. Unmatched reverts
// fall back to a bounded CONTRACT_REJECTED with the raw reason attached
// for diagnostics.
func ClassifyRevert(reason string, cause error) *apperr.AppError {
	for _, rule := range revertRules {
		if strings.Contains(reason, rule.fragment) {
			return &apperr.AppError{
				Code:       rule.code,
				Message:    rule.message,
				HTTPStatus: rule.status,
				Cause:      cause,
			}
		}
	}
	return &apperr.AppError{
		Code:       CodeContractRejected,
		Message:    "Contract rejected the transaction",
		HTTPStatus: http.StatusBadRequest,
		Cause:      cause,
		Details:    []apperr.FieldError{{Field: "reason", Message: reason}},
	}
}

// IsAtomLookupMiss reports whether an eth_call error is the expected
// empty-return shape produced by looking up a nonexistent MultiVault atom.
//
// The MultiVault returns empty data ("0x") for unknown hashes, which the
// RPC layer surfaces as a call exception. That outcome is an expected
// miss, not a fault, and must never be logged at error severity.
func IsAtomLookupMiss(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "execution reverted") ||
		strings.Contains(message, "could not decode result data") ||
		strings.Contains(message, "empty output")
}
