package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type PostgresKV struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresKV(logger zerolog.Logger, pgPool *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{
		logger: logger,
		pgPool: pgPool,
	}
}

// EnsureSchema creates the snapshot table if it is missing.
func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	const createTableQuery = `
CREATE TABLE IF NOT EXISTS kv_snapshots (
    name       TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)
`
	_, err := p.pgPool.Exec(ctx, createTableQuery)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to create kv_snapshots table")
		return err
	}
	return nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const selectValueQuery = `
SELECT value
FROM kv_snapshots
WHERE name = $1
`
	var value []byte
	err := p.pgPool.QueryRow(ctx, selectValueQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
			p.logger.Warn().
				Str("key", key).
				Msg("kv_snapshots table does not exist")
			return nil, false, nil
		}

		p.logger.Error().
			Err(err).
			Str("key", key).
			Msg("failed to select snapshot value")
		return nil, false, err
	}
	return value, true, nil
}

func (p *PostgresKV) Put(ctx context.Context, key string, value []byte) error {
	const upsertValueQuery = `
INSERT INTO kv_snapshots (name, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	_, err := p.pgPool.Exec(ctx, upsertValueQuery, key, string(value), time.Now())
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("key", key).
			Msg("failed to upsert snapshot value")
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}
	return nil
}
