// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package domains

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tnslabs/trustns/internal/platform/database/schema"
	"github.com/tnslabs/trustns/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) GetByLabel(context context.Context, label string) (*Domain, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1
	`,
		strings.Join(schema.Domain.Columns(), ", "), schema.Domain.Table, schema.Domain.Label,
	)
	d := &Domain{}

	err := repository.db.QueryRow(context, query, label).Scan(
		&d.Label, &d.FullName, &d.TokenID, &d.Owner, &d.ExpiresAt, &d.RegisteredAt, &d.UpdatedAt,
	)

	return d, dberr.Wrap(err, "get_domain")
}

func (repository *PostgresRepository) GetByTokenID(context context.Context, tokenID string) (*Domain, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1
	`,
		strings.Join(schema.Domain.Columns(), ", "), schema.Domain.Table, schema.Domain.TokenID,
	)
	d := &Domain{}

	err := repository.db.QueryRow(context, query, tokenID).Scan(
		&d.Label, &d.FullName, &d.TokenID, &d.Owner, &d.ExpiresAt, &d.RegisteredAt, &d.UpdatedAt,
	)

	return d, dberr.Wrap(err, "get_domain_by_token")
}

func (repository *PostgresRepository) ListByOwner(context context.Context, owner string, limit, offset int) ([]*Domain, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE lower(%s) = lower($1)`,
		schema.Domain.Table, schema.Domain.Owner,
	)

	var total int
	if err := repository.db.QueryRow(context, countQuery, owner).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_domains")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE lower(%s) = lower($1)
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`,
		strings.Join(schema.Domain.Columns(), ", "), schema.Domain.Table,
		schema.Domain.Owner, schema.Domain.Label,
	)

	rows, err := repository.db.Query(context, query, owner, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_domains")
	}
	defer rows.Close()

	var list []*Domain
	for rows.Next() {
		d := &Domain{}
		if err := rows.Scan(&d.Label, &d.FullName, &d.TokenID, &d.Owner, &d.ExpiresAt, &d.RegisteredAt, &d.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_domain")
		}
		list = append(list, d)
	}

	return list, total, nil
}

// Upsert writes a mirror row keyed by label. Writes are idempotent so
// concurrent read-repair paths never need coordination.
func (repository *PostgresRepository) Upsert(context context.Context, domain *Domain) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
		RETURNING %s, %s
	`,
		schema.Domain.Table,
		schema.Domain.Label, schema.Domain.FullName, schema.Domain.TokenID, schema.Domain.Owner,
		schema.Domain.ExpiresAt, schema.Domain.RegisteredAt, schema.Domain.UpdatedAt,
		schema.Domain.Label,
		schema.Domain.TokenID, schema.Domain.TokenID,
		schema.Domain.Owner, schema.Domain.Owner,
		schema.Domain.ExpiresAt, schema.Domain.ExpiresAt,
		schema.Domain.UpdatedAt,
		schema.Domain.RegisteredAt, schema.Domain.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		domain.Label, domain.FullName, domain.TokenID, domain.Owner, domain.ExpiresAt,
	).Scan(&domain.RegisteredAt, &domain.UpdatedAt)
	return dberr.Wrap(err, "upsert_domain")
}

func (repository *PostgresRepository) Delete(context context.Context, label string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Domain.Table, schema.Domain.Label)

	cmd, err := repository.db.Exec(context, query, label)
	if err != nil {
		return dberr.Wrap(err, "delete_domain")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) RecordsFor(context context.Context, label string) (map[string]string, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s FROM %s WHERE %s = $1
	`,
		schema.DomainRecord.RecordKey, schema.DomainRecord.RecordValue,
		schema.DomainRecord.Table, schema.DomainRecord.DomainLabel,
	)

	rows, err := repository.db.Query(context, query, label)
	if err != nil {
		return nil, dberr.Wrap(err, "list_domain_records")
	}
	defer rows.Close()

	records := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, dberr.Wrap(err, "scan_domain_record")
		}
		records[key] = value
	}

	return records, nil
}
