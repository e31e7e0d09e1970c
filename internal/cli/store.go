package cli

import (
	"context"
	"fmt"

	"fixmycity/internal/config"
	"fixmycity/internal/database"
	"fixmycity/internal/logging"
	fmredis "fixmycity/internal/redis"
	"fixmycity/internal/storage"
)

// newSessionStore opens the configured backend. The returned func closes any
// connection it holds.
func newSessionStore(ctx context.Context, cfg *config.Config, profile string) (storage.SessionStore, func() error, error) {
	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("store", cfg.SessionStore).
		Str("profile", profile).
		Msg("opening session store")

	switch cfg.SessionStore {
	case config.StoreFile, "":
		return storage.NewFileStore(cfg.SessionFile), func() error { return nil }, nil

	case config.StoreRedis:
		client, err := fmredis.NewClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("%w: %w", storage.ErrStoreUnavailable, err)
		}
		return storage.NewRedisStore(client.Client, profile), client.Close, nil

	case config.StorePostgres:
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", storage.ErrStoreUnavailable, err)
		}
		store := storage.NewPostgresStore(db, profile)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q (want file, redis or postgres)", cfg.SessionStore)
	}
}
