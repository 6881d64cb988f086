// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package registration

import "context"

type Repository interface {
	GetByHash(context context.Context, commitmentHash string) (*Commitment, error)
	Create(context context.Context, commitment *Commitment) error
	MarkRevealed(context context.Context, commitmentHash string) error
}
