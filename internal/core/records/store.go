// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package records

import "context"

type Repository interface {
	ListByDomain(context context.Context, label string) ([]*Record, error)
	Upsert(context context.Context, record *Record) error
	Delete(context context.Context, label, key string) error
	DeleteAll(context context.Context, label string) error
}
