package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-roster/internal/config"
)

const connectTimeout = 5 * time.Second

// NewPostgresPool connects the roster's PostgreSQL store. The kv_store table
// must already exist (see cmd/migrate); a database without it is rejected
// here rather than on the first save.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	// The roster is one row; a handful of connections is plenty.
	poolCfg.MaxConns = cfg.MaxDBConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres roster store: %w", err)
	}

	var table *string
	if err := pool.QueryRow(pingCtx, `SELECT to_regclass('kv_store')::text`).Scan(&table); err != nil {
		pool.Close()
		return nil, fmt.Errorf("check kv_store table: %w", err)
	}
	if table == nil {
		pool.Close()
		return nil, errors.New("postgres roster store: kv_store table missing, run migrate up first")
	}

	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Str("key", cfg.StoreKey).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("PostgreSQL roster store connected")

	return pool, nil
}
