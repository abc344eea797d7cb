package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

type dialect struct {
	createTable string
	selectValue string
	upsertValue string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		createTable: `
CREATE TABLE IF NOT EXISTS kv_snapshots (
    name       TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL
)`,
		selectValue: `SELECT value FROM kv_snapshots WHERE name = ?`,
		upsertValue: `
INSERT INTO kv_snapshots (name, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE
SET value = excluded.value,
    updated_at = excluded.updated_at`,
	},
	DriverMySQL: {
		createTable: `
CREATE TABLE IF NOT EXISTS kv_snapshots (
    name       VARCHAR(191) PRIMARY KEY,
    value      LONGTEXT NOT NULL,
    updated_at DATETIME NOT NULL
)`,
		selectValue: `SELECT value FROM kv_snapshots WHERE name = ?`,
		upsertValue: `
INSERT INTO kv_snapshots (name, value, updated_at)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
    value = VALUES(value),
    updated_at = VALUES(updated_at)`,
	},
}

// SQLKV is a KV over database/sql for the sqlite and mysql drivers.
type SQLKV struct {
	logger  zerolog.Logger
	db      *sql.DB
	dialect dialect
}

// OpenSQL opens the database, checks the connection and creates the
// snapshot table.
func OpenSQL(ctx context.Context, logger zerolog.Logger, driver, dsn string) (*SQLKV, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Writes are serialized by the board store anyway.
		db.SetMaxOpenConns(1)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	_, err = db.ExecContext(ctx, d.createTable)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create kv_snapshots table: %w", err)
	}

	logger.Info().
		Str("driver", driver).
		Msg("opened snapshot database")
	return &SQLKV{
		logger:  logger,
		db:      db,
		dialect: d,
	}, nil
}

func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.selectValue, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		s.logger.Error().
			Err(err).
			Str("key", key).
			Msg("failed to select snapshot value")
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *SQLKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsertValue, key, string(value), time.Now().UTC())
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("key", key).
			Msg("failed to upsert snapshot value")
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLKV) Close() error {
	return s.db.Close()
}
