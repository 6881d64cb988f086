// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package sync

import (
	"context"
	"fmt"

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

// selectColumns covers every Status field. AtomID is NUMERIC in the
// table, so it is read back as text; nullable columns collapse to "".
func selectColumns() string {
	return fmt.Sprintf(
		`%s, %s, %s, %s, %s, COALESCE(%s::text, ''), %s, %s, COALESCE(%s, ''), COALESCE(%s, ''), %s`,
		schema.SyncStatus.ID, schema.SyncStatus.DomainLabel, schema.SyncStatus.RecordKey,
		schema.SyncStatus.RecordValue, schema.SyncStatus.AtomURI, schema.SyncStatus.AtomID,
		schema.SyncStatus.Status, schema.SyncStatus.AtomsCreated, schema.SyncStatus.TxHash,
		schema.SyncStatus.LastError, schema.SyncStatus.UpdatedAt,
	)
}

func scanStatus(row interface{ Scan(...any) error }) (*Status, error) {
	status := &Status{}
	err := row.Scan(
		&status.ID, &status.DomainLabel, &status.RecordKey,
		&status.RecordValue, &status.AtomURI, &status.AtomID,
		&status.State, &status.AtomsCreated, &status.TxHash,
		&status.LastError, &status.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (repository *PostgresRepository) Get(context context.Context, label, recordKey string) (*Status, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		selectColumns(), schema.SyncStatus.Table,
		schema.SyncStatus.DomainLabel, schema.SyncStatus.RecordKey,
	)

	status, err := scanStatus(repository.db.QueryRow(context, query, label, recordKey))
	if err != nil {
		return nil, dberr.Wrap(err, "get_sync_status")
	}
	return status, nil
}

func (repository *PostgresRepository) Upsert(context context.Context, status *Status) error {
	if status.ID == "" {
		status.ID = uuidv7.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::numeric, $7, $8, NULLIF($9, ''), NULLIF($10, ''), NOW())
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
		RETURNING %s, %s
	`,
		schema.SyncStatus.Table,
		schema.SyncStatus.ID, schema.SyncStatus.DomainLabel, schema.SyncStatus.RecordKey,
		schema.SyncStatus.RecordValue, schema.SyncStatus.AtomURI, schema.SyncStatus.AtomID,
		schema.SyncStatus.Status, schema.SyncStatus.AtomsCreated, schema.SyncStatus.TxHash,
		schema.SyncStatus.LastError, schema.SyncStatus.UpdatedAt,
		schema.SyncStatus.DomainLabel, schema.SyncStatus.RecordKey,
		schema.SyncStatus.RecordValue, schema.SyncStatus.RecordValue,
		schema.SyncStatus.AtomURI, schema.SyncStatus.AtomURI,
		schema.SyncStatus.AtomID, schema.SyncStatus.AtomID,
		schema.SyncStatus.Status, schema.SyncStatus.Status,
		schema.SyncStatus.AtomsCreated, schema.SyncStatus.AtomsCreated,
		schema.SyncStatus.TxHash, schema.SyncStatus.TxHash,
		schema.SyncStatus.LastError, schema.SyncStatus.LastError,
		schema.SyncStatus.UpdatedAt,
		schema.SyncStatus.ID, schema.SyncStatus.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		status.ID, status.DomainLabel, status.RecordKey,
		status.RecordValue, status.AtomURI, status.AtomID,
		status.State, status.AtomsCreated, status.TxHash,
		status.LastError,
	).Scan(&status.ID, &status.UpdatedAt)
	return dberr.Wrap(err, "upsert_sync_status")
}

func (repository *PostgresRepository) ListByDomain(context context.Context, label string) ([]*Status, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		selectColumns(), schema.SyncStatus.Table,
		schema.SyncStatus.DomainLabel, schema.SyncStatus.RecordKey,
	)
	return repository.list(context, query, label)
}

func (repository *PostgresRepository) ListPending(context context.Context) ([]*Status, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		selectColumns(), schema.SyncStatus.Table,
		schema.SyncStatus.Status, schema.SyncStatus.UpdatedAt,
	)
	return repository.list(context, query, StatePending)
}

func (repository *PostgresRepository) list(context context.Context, query string, args ...any) ([]*Status, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_sync_status")
	}
	defer rows.Close()

	var list []*Status
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_sync_status")
		}
		list = append(list, status)
	}
	return list, nil
}

func (repository *PostgresRepository) Counters(context context.Context) (Counters, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE %s = $1),
			COUNT(*) FILTER (WHERE %s = $2),
			COUNT(*) FILTER (WHERE %s = $3),
			COUNT(*)
		FROM %s
	`,
		schema.SyncStatus.Status, schema.SyncStatus.Status, schema.SyncStatus.Status,
		schema.SyncStatus.Table,
	)

	var counters Counters
	err := repository.db.QueryRow(context, query, StateSynced, StatePending, StateFailed).
		Scan(&counters.Synced, &counters.Pending, &counters.Failed, &counters.Total)
	if err != nil {
		return Counters{}, dberr.Wrap(err, "count_sync_status")
	}
	return counters, nil
}
