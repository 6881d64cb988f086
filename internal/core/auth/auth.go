// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

/*
Package auth implements wallet-signature login.

The flow is challenge-response: the client requests a nonce for its
address, signs the login message with personal_sign (EIP-191), and
exchanges the signature for a JWT session token. Nonces are single-use
and expire from Redis on their own.
*/
package auth

import (
	"fmt"
	"time"
)

// NonceResult is the login challenge handed to the wallet.
type NonceResult struct {
	Address   string `json:"address"`
	Nonce     string `json:"nonce"`
	Message   string `json:"message"`
	ExpiresIn int64  `json:"expires_in_seconds"`
}

// Session is a minted JWT session.
type Session struct {
	Address   string    `json:"address"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyParams carries the signed challenge back from the wallet.
type VerifyParams struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

// LoginMessage is the exact text the wallet signs. Both sides must
// produce it byte for byte.
func LoginMessage(address, nonce string) string {
	return fmt.Sprintf(
		"Sign this message to authenticate with Trust Name Service.\n\nAddress: %s\nNonce: %s",
		address, nonce,
	)
}

// Field name constants for validation errors.
const (
	FieldAddress   = "address"
	FieldSignature = "signature"
)
