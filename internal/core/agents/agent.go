// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

/*
Package agents is the directory of AI agents published under .trust
domains. An agent claims a domain the caller owns, advertises a
category, description and service endpoint, and becomes discoverable
through the directory. Agent detail records live as "agent."-prefixed
text records on the domain itself.
*/
package agents

import "time"

// Agent is one directory entry, keyed by the domain label.
type Agent struct {
	DomainLabel  string    `json:"domain"`
	Owner        string    `json:"owner"`
	Category     string    `json:"category"`
	Description  string    `json:"description,omitempty"`
	Endpoint     string    `json:"endpoint,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AtomURI returns the deterministic Knowledge-Graph URI for an agent
// identity.
func AtomURI(label string) string {
	return "tns:agent:" + label
}

// RecordPrefix marks the text records that belong to the agent profile.
const RecordPrefix = "agent."

// Field name constants for validation errors.
const (
	FieldDomain      = "domain"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldEndpoint    = "endpoint"
)
