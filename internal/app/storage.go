package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/scrum-ai-master/internal/config"
	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/persistence"
)

var (
	globalPostgresPool *pgxpool.Pool
	globalSQLKV        *persistence.SQLKV
	globalSnapshotter  *persistence.Snapshotter
)

// MustOpenStorage connects the configured storage backend and prepares the
// snapshotter over it.
func MustOpenStorage() {
	cfg := config.Global()

	var kv persistence.KV
	switch cfg.Storage.Driver {
	case persistence.DriverMemory:
		kv = persistence.NewMemoryKV()

	case persistence.DriverPostgres:
		mustConnectPostgres()

		postgresKV := persistence.NewPostgresKV(globalLogger, globalPostgresPool)
		err := postgresKV.EnsureSchema(context.Background())
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("failed to prepare postgres schema")
			panic(err)
		}
		kv = postgresKV

	case persistence.DriverSQLite, persistence.DriverMySQL:
		var err error
		globalSQLKV, err = persistence.OpenSQL(context.Background(), globalLogger, cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			globalLogger.Error().
				Err(err).
				Str("driver", cfg.Storage.Driver).
				Msg("failed to open sql storage")
			panic(err)
		}
		kv = globalSQLKV

	default:
		err := fmt.Errorf("%w: %s", persistence.ErrUnknownDriver, cfg.Storage.Driver)
		globalLogger.Error().
			Err(err).
			Msg("failed to open storage")
		panic(err)
	}

	globalSnapshotter = persistence.NewSnapshotter(globalLogger, kv, mustLoadSeed())
	globalLogger.Info().
		Str("driver", cfg.Storage.Driver).
		Msg("opened storage")
}

func CloseStorage() {
	if globalSQLKV != nil {
		err := globalSQLKV.Close()
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("failed to close sql storage")
		}
	}
	if globalPostgresPool != nil {
		globalPostgresPool.Close()
		globalLogger.Info().Msg("disconnected from postgres")
	}
	globalLogger.Info().Msg("closed storage")
}

func mustLoadSeed() models.Snapshot {
	path := config.Global().Board.SeedFile
	if path == "" {
		return persistence.DefaultSeed()
	}

	seed, err := persistence.LoadSeedFile(path)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to load seed file")
		panic(err)
	}
	globalLogger.Info().
		Str("path", path).
		Int("tasks", len(seed.Tasks)).
		Int("members", len(seed.Members)).
		Msg("loaded seed file")
	return seed
}

func mustConnectPostgres() {
	cfg := config.Global().Postgres
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	globalPostgresPool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = globalPostgresPool.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")
}
