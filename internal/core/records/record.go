// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

/*
Package records manages resolver records for registered names.

Every operation computes the ENS node from the full name first and
addresses the resolver by node, never by label. Reads aggregate the
on-chain resolver state; writes are validated locally and returned as
prepared transactions for the owner's wallet.
*/
package records

import "time"

// Record mirrors one confirmed resolver record.
type Record struct {
	DomainLabel string    `json:"domain"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Record kinds accepted by the write path.
const (
	KindAddress     = "address"
	KindText        = "text"
	KindContentHash = "contenthash"
)

// Reserved keys for the non-text record slots in the mirror table.
const (
	KeyAddress     = "address"
	KeyContentHash = "contenthash"
)

// WriteRequest is the body of a prepared record write.
type WriteRequest struct {
	Kind  string `json:"kind"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// Global field names for validation
const (
	FieldKind  = "kind"
	FieldKey   = "key"
	FieldValue = "value"
)
