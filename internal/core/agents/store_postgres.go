// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

package agents

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

func (repository *PostgresRepository) GetByLabel(context context.Context, label string) (*Agent, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Agent.DomainLabel, schema.Agent.Owner, schema.Agent.Category,
		schema.Agent.Description, schema.Agent.Endpoint,
		schema.Agent.RegisteredAt, schema.Agent.UpdatedAt,
		schema.Agent.Table, schema.Agent.DomainLabel,
	)

	agent := &Agent{}
	err := repository.db.QueryRow(context, query, label).Scan(
		&agent.DomainLabel, &agent.Owner, &agent.Category,
		&agent.Description, &agent.Endpoint,
		&agent.RegisteredAt, &agent.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_agent")
	}
	return agent, nil
}

func (repository *PostgresRepository) Upsert(context context.Context, agent *Agent) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
		RETURNING %s, %s
	`,
		schema.Agent.Table,
		schema.Agent.DomainLabel, schema.Agent.Owner, schema.Agent.Category,
		schema.Agent.Description, schema.Agent.Endpoint,
		schema.Agent.RegisteredAt, schema.Agent.UpdatedAt,
		schema.Agent.DomainLabel,
		schema.Agent.Owner, schema.Agent.Owner,
		schema.Agent.Category, schema.Agent.Category,
		schema.Agent.Description, schema.Agent.Description,
		schema.Agent.Endpoint, schema.Agent.Endpoint,
		schema.Agent.UpdatedAt,
		schema.Agent.RegisteredAt, schema.Agent.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		agent.DomainLabel, agent.Owner, agent.Category,
		agent.Description, agent.Endpoint,
	).Scan(&agent.RegisteredAt, &agent.UpdatedAt)
	return dberr.Wrap(err, "upsert_agent")
}

func (repository *PostgresRepository) Delete(context context.Context, label string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Agent.Table, schema.Agent.DomainLabel,
	)

	cmd, err := repository.db.Exec(context, query, label)
	if err != nil {
		return dberr.Wrap(err, "delete_agent")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) List(context context.Context, category string, limit, offset int) ([]*Agent, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE ($1 = '' OR %s = $1)
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.Agent.DomainLabel, schema.Agent.Owner, schema.Agent.Category,
		schema.Agent.Description, schema.Agent.Endpoint,
		schema.Agent.RegisteredAt, schema.Agent.UpdatedAt,
		schema.Agent.Table, schema.Agent.Category,
		schema.Agent.RegisteredAt,
	)

	rows, err := repository.db.Query(context, query, category, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_agents")
	}
	defer rows.Close()

	var list []*Agent
	for rows.Next() {
		agent := &Agent{}
		if err := rows.Scan(
			&agent.DomainLabel, &agent.Owner, &agent.Category,
			&agent.Description, &agent.Endpoint,
			&agent.RegisteredAt, &agent.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_agent")
		}
		list = append(list, agent)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ($1 = '' OR %s = $1)`,
		schema.Agent.Table, schema.Agent.Category,
	)

	var total int
	if err := repository.db.QueryRow(context, countQuery, category).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_agents")
	}
	return list, total, nil
}
