// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package registration

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tnslabs/trustns/internal/platform/database/schema"
	"github.com/tnslabs/trustns/internal/platform/dberr"
	"github.com/tnslabs/trustns/pkg/uuidv7"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) GetByHash(context context.Context, commitmentHash string) (*Commitment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1
	`,
		strings.Join(schema.Commitment.Columns(), ", "), schema.Commitment.Table, schema.Commitment.CommitmentHash,
	)
	c := &Commitment{}

	err := repository.db.QueryRow(context, query, commitmentHash).Scan(
		&c.ID, &c.CommitmentHash, &c.Label, &c.Owner, &c.DurationSeconds,
		&c.SecretDigest, &c.Resolver, &c.CreatedAt, &c.RevealedAt,
	)

	return c, dberr.Wrap(err, "get_commitment")
}

func (repository *PostgresRepository) Create(context context.Context, commitment *Commitment) error {
	commitment.ID = uuidv7.New()

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING %s
	`,
		schema.Commitment.Table,
		schema.Commitment.ID, schema.Commitment.CommitmentHash, schema.Commitment.Label,
		schema.Commitment.Owner, schema.Commitment.DurationSeconds, schema.Commitment.SecretDigest,
		schema.Commitment.Resolver, schema.Commitment.CreatedAt,
		schema.Commitment.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		commitment.ID, commitment.CommitmentHash, commitment.Label, commitment.Owner,
		commitment.DurationSeconds, commitment.SecretDigest, commitment.Resolver,
	).Scan(&commitment.CreatedAt)
	return dberr.Wrap(err, "create_commitment")
}

func (repository *PostgresRepository) MarkRevealed(context context.Context, commitmentHash string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL
	`,
		schema.Commitment.Table, schema.Commitment.RevealedAt,
		schema.Commitment.CommitmentHash, schema.Commitment.RevealedAt,
	)

	cmd, err := repository.db.Exec(context, query, commitmentHash)
	if err != nil {
		return dberr.Wrap(err, "reveal_commitment")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
