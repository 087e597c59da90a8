package app

import (
	"context"
	"fmt"

	"github.com/adanyl0v/go-todo-agent/internal/config"
	"github.com/adanyl0v/go-todo-agent/internal/storage"
	"github.com/adanyl0v/go-todo-agent/internal/storage/postgres"
	"github.com/adanyl0v/go-todo-agent/internal/storage/sqlite"
)

// Store is a task store that can also manage its own schema.
type Store interface {
	storage.Store
	Migrate(ctx context.Context) error
}

func MustOpenStore(ctx context.Context, cfg *config.Config) Store {
	var (
		store Store
		err   error
	)
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		store, err = postgres.Open(ctx, cfg.Postgres, componentLogger("postgres"))
	case config.StoreDriverSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLite.Path, componentLogger("sqlite"))
	default:
		err = fmt.Errorf("%w: %q", config.ErrInvalidStoreDriver, cfg.Store.Driver)
	}
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.Store.Driver).
			Msg("failed to open store")
		panic(err)
	}
	return store
}

func MustMigrate(ctx context.Context, store Store) {
	err := store.Migrate(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to migrate store")
		panic(err)
	}
}

func CloseStore(store Store) {
	err := store.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close store")
		return
	}
	globalLogger.Info().Msg("closed store")
}
