// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package domains

import "context"

type Repository interface {
	GetByLabel(context context.Context, label string) (*Domain, error)
	GetByTokenID(context context.Context, tokenID string) (*Domain, error)
	ListByOwner(context context.Context, owner string, limit, offset int) ([]*Domain, int, error)
	Upsert(context context.Context, domain *Domain) error
	Delete(context context.Context, label string) error
	RecordsFor(context context.Context, label string) (map[string]string, error)
}
