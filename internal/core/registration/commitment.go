// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

/*
Package registration drives the commit-reveal lifecycle for new names.

The flow is a two-transaction state machine: a hashed commitment is
submitted first, then after the minimum commitment age the full parameters
are revealed in the register call. The backend never signs anything; every
mutating operation returns prepared calldata for the client wallet and the
mirror store records what the chain later confirms.
*/
package registration

import "time"

// Commitment mirrors one off-chain record of a submitted commitment. The
// raw secret is never stored, only its digest for the legacy reveal check.
type Commitment struct {
	ID              string     `json:"id"`
	CommitmentHash  string     `json:"commitment"`
	Label           string     `json:"label"`
	Owner           string     `json:"owner"`
	DurationSeconds int64      `json:"duration_seconds"`
	SecretDigest    string     `json:"-"`
	Resolver        string     `json:"resolver,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	RevealedAt      *time.Time `json:"revealed_at,omitempty"`
}

// Revealed reports whether the commitment already completed a reveal.
func (c *Commitment) Revealed() bool { return c.RevealedAt != nil }

// Global field names for validation
const (
	FieldName     = "name"
	FieldOwner    = "owner"
	FieldDuration = "duration"
	FieldSecret   = "secret"
	FieldResolver = "resolver"
	FieldTxHash   = "tx_hash"
)
