package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-roster/internal/config"
	"github.com/stemsi/student-roster/internal/repository"
)

// OpenRosterRepository connects the store selected by cfg.StoreDriver and
// wraps it in a RosterRepository. The returned close func releases the
// underlying connection and is never nil.
func OpenRosterRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repository.RosterRepository, func(), error) {
	store, closeFn, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, func() {}, err
	}

	log.Info().
		Str("driver", cfg.StoreDriver).
		Str("key", cfg.StoreKey).
		Msg("Roster store ready")

	return repository.NewRosterRepository(store, cfg.StoreKey), closeFn, nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.BlobStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return repository.NewMemoryStore(), func() {}, nil

	case config.StoreFile:
		fs, err := repository.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil

	case config.StoreSQLite:
		db, err := NewSQLiteDB(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		st, err := repository.NewSQLiteStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return st, func() { db.Close() }, nil

	case config.StoreRedis:
		rdb, err := NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStore(rdb, cfg.RedisKeyPrefix), func() { rdb.Close() }, nil

	case config.StorePostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
