// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

/*
Package sync mirrors domains and records into the Knowledge-Graph.

Every domain becomes an atom, every record becomes a (domain, predicate,
value) triple. The backend never signs anything: it derives deterministic
atom URIs, checks which atoms already exist on chain, and prepares the
createAtoms / createTriple transactions for the wallet. Local sync rows
track saga progress so a restart resumes where the wallet left off.
*/
package sync

import "time"

// Sync states for a tracked atom or triple.
const (
	StatePending = "pending"
	StateSynced  = "synced"
	StateFailed  = "failed"
)

// StateUnsynced is reported for domains with no stored sync row. It is
// never persisted.
const StateUnsynced = "unsynced"

// Status is one row of the sync ledger. A row with an empty RecordKey
// tracks the domain atom itself; otherwise it tracks a record triple.
type Status struct {
	ID           string    `json:"id"`
	DomainLabel  string    `json:"domain"`
	RecordKey    string    `json:"recordKey,omitempty"`
	RecordValue  string    `json:"recordValue,omitempty"`
	AtomURI      string    `json:"atomUri"`
	AtomID       string    `json:"atomId,omitempty"`
	State        string    `json:"status"`
	AtomsCreated bool      `json:"atomsCreated"`
	TxHash       string    `json:"txHash,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Counters aggregates the ledger by state.
type Counters struct {
	Synced  int `json:"synced"`
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

// RecordPredicateKeys lists the record keys checked for triple coverage.
// They match the record keys the resolver UI writes.
var RecordPredicateKeys = []string{
	"email", "url", "avatar", "description",
	"com.twitter", "com.github", "com.discord", "org.telegram",
}

// DomainAtomURI returns the deterministic atom URI for a domain label.
func DomainAtomURI(label string) string {
	return "tns:domain:" + label
}

// PredicateAtomURI returns the atom URI for a record key predicate.
func PredicateAtomURI(key string) string {
	return "tns:predicate:" + key
}

// ValueAtomURI returns the atom URI for a record value under a key.
func ValueAtomURI(key, value string) string {
	return "tns:value:" + key + ":" + value
}

// Field name constants for validation errors.
const (
	FieldDomain      = "domain"
	FieldAddress     = "address"
	FieldRecordKey   = "recordKey"
	FieldRecordValue = "recordValue"
	FieldTxHash      = "txHash"
	FieldStage       = "stage"
)
