// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package agents

import "context"

// Repository is the persistence contract for the agent directory.
type Repository interface {
	GetByLabel(context context.Context, label string) (*Agent, error)
	Upsert(context context.Context, agent *Agent) error
	Delete(context context.Context, label string) error

	// List returns a page of agents, newest first. An empty category
	// matches everything.
	List(context context.Context, category string, limit, offset int) ([]*Agent, int, error)
}
