// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tnslabs/trustns/internal/platform/apperr"
	"github.com/tnslabs/trustns/internal/platform/constants"
	"github.com/tnslabs/trustns/internal/platform/validate"
)

// TokenMinter issues session tokens for a verified wallet address.
type TokenMinter interface {
	GenerateAccessToken(address string, timeToLive time.Duration) (string, error)
}

type Service struct {
	nonces NonceStore
	tokens TokenMinter
	logger *slog.Logger

	now func() time.Time
}

func NewService(nonces NonceStore, tokens TokenMinter, logger *slog.Logger) *Service {
	return &Service{
		nonces: nonces,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Nonce issues a fresh login challenge for the address. A new call
// replaces any outstanding nonce.
func (service *Service) Nonce(ctx context.Context, address string) (*NonceResult, error) {
	validator := &validate.Validator{}
	validator.Required(FieldAddress, address)
	validator.Custom(FieldAddress, address != "" && !common.IsHexAddress(address), "must be a hex Ethereum address")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	nonce, err := newNonce()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	checksummed := common.HexToAddress(address).Hex()
	if err := service.nonces.Set(ctx, checksummed, nonce); err != nil {
		return nil, err
	}

	return &NonceResult{
		Address:   checksummed,
		Nonce:     nonce,
		Message:   LoginMessage(checksummed, nonce),
		ExpiresIn: int64(constants.AuthNonceTTL / time.Second),
	}, nil
}

// Verify checks the personal_sign signature over the outstanding nonce
// and mints a session token. Nonces are single-use: success or a failed
// signature both consume nothing, but a successful login deletes it.
func (service *Service) Verify(ctx context.Context, p VerifyParams) (*Session, error) {
	validator := &validate.Validator{}
	validator.Required(FieldAddress, p.Address)
	validator.Custom(FieldAddress, p.Address != "" && !common.IsHexAddress(p.Address), "must be a hex Ethereum address")
	validator.Required(FieldSignature, p.Signature)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	checksummed := common.HexToAddress(p.Address).Hex()

	nonce, err := service.nonces.Get(ctx, checksummed)
	if err != nil {
		return nil, err
	}
	if nonce == "" {
		return nil, apperr.Unauthorized("No login nonce outstanding; request a new one")
	}

	recovered, err := recoverSigner(LoginMessage(checksummed, nonce), p.Signature)
	if err != nil {
		return nil, apperr.Unauthorized("Malformed signature")
	}
	if recovered != common.HexToAddress(p.Address) {
		return nil, apperr.Unauthorized("Signature does not match address")
	}

	if err := service.nonces.Delete(ctx, checksummed); err != nil {
		service.logger.Warn("nonce_delete_failed", "address", checksummed, "error", err)
	}

	token, err := service.tokens.GenerateAccessToken(checksummed, constants.AuthTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.Info("wallet_authenticated", "address", checksummed)
	return &Session{
		Address:   checksummed,
		Token:     token,
		ExpiresAt: service.now().Add(constants.AuthTokenTTL),
	}, nil
}

// recoverSigner applies the EIP-191 personal_sign envelope and recovers
// the signing address. Wallets emit V as 27/28; go-ethereum expects 0/1.
func recoverSigner(message, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, err
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, hexutil.ErrSyntax
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

func newNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
