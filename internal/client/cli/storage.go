package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tavernauth/internal/client/client"
	"github.com/dmitrijs2005/tavernauth/internal/client/config"
	"github.com/dmitrijs2005/tavernauth/internal/client/repositories/metadata"

	_ "modernc.org/sqlite"
)

// openStorage opens the token store backend named in cfg. The returned
// close function releases it and is never nil on success.
func openStorage(ctx context.Context, cfg *config.Config) (metadata.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.BackendSQLite:
		db, err := client.InitDatabase(ctx, cfg.StorageDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store %q: %w", cfg.StorageDSN, err)
		}
		return metadata.NewSQLiteRepository(db), db.Close, nil

	case config.BackendFile:
		return metadata.NewFileRepository(cfg.StorageDSN), noop, nil

	case config.BackendRedis:
		repo, err := metadata.OpenRedis(ctx, cfg.StorageDSN, metadata.DefaultRedisKey)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return repo, repo.Close, nil

	case config.BackendMemory:
		return metadata.NewMemoryRepository(), noop, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", metadata.ErrUnsupportedBackend, cfg.StorageBackend)
	}
}
