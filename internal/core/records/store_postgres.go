// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package records

import (
	"context"
	"fmt"

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

func (repository *PostgresRepository) ListByDomain(context context.Context, label string) ([]*Record, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.DomainRecord.DomainLabel, schema.DomainRecord.RecordKey,
		schema.DomainRecord.RecordValue, schema.DomainRecord.UpdatedAt,
		schema.DomainRecord.Table, schema.DomainRecord.DomainLabel,
		schema.DomainRecord.RecordKey,
	)

	rows, err := repository.db.Query(context, query, label)
	if err != nil {
		return nil, dberr.Wrap(err, "list_records")
	}
	defer rows.Close()

	var list []*Record
	for rows.Next() {
		r := &Record{}
		if err := rows.Scan(&r.DomainLabel, &r.Key, &r.Value, &r.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_record")
		}
		list = append(list, r)
	}

	return list, nil
}

func (repository *PostgresRepository) Upsert(context context.Context, record *Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = NOW()
		RETURNING %s
	`,
		schema.DomainRecord.Table,
		schema.DomainRecord.DomainLabel, schema.DomainRecord.RecordKey,
		schema.DomainRecord.RecordValue, schema.DomainRecord.UpdatedAt,
		schema.DomainRecord.DomainLabel, schema.DomainRecord.RecordKey,
		schema.DomainRecord.RecordValue, schema.DomainRecord.RecordValue,
		schema.DomainRecord.UpdatedAt,
		schema.DomainRecord.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		record.DomainLabel, record.Key, record.Value,
	).Scan(&record.UpdatedAt)
	return dberr.Wrap(err, "upsert_record")
}

func (repository *PostgresRepository) Delete(context context.Context, label, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.DomainRecord.Table, schema.DomainRecord.DomainLabel, schema.DomainRecord.RecordKey,
	)

	cmd, err := repository.db.Exec(context, query, label, key)
	if err != nil {
		return dberr.Wrap(err, "delete_record")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteAll(context context.Context, label string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.DomainRecord.Table, schema.DomainRecord.DomainLabel,
	)

	_, err := repository.db.Exec(context, query, label)
	return dberr.Wrap(err, "delete_records")
}
