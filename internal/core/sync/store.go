// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package sync

import "context"

// Repository is the persistence contract for the sync ledger. Rows are
// keyed by (domain label, record key); the domain atom row uses an empty
// record key.
type Repository interface {
	Get(context context.Context, label, recordKey string) (*Status, error)
	Upsert(context context.Context, status *Status) error
	ListByDomain(context context.Context, label string) ([]*Status, error)
	ListPending(context context.Context) ([]*Status, error)
	Counters(context context.Context) (Counters, error)
}
