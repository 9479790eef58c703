// Package infrastructure wires the record-store backend chosen by
// configuration and hands the rest of the program plain repository
// interfaces.
package infrastructure

import (
	"context"
	"fmt"

	"github.com/eaclient/user-api/config"
	"github.com/eaclient/user-api/internal/health"
	"github.com/eaclient/user-api/internal/infrastructure/memory"
	"github.com/eaclient/user-api/internal/infrastructure/postgres"
	"github.com/eaclient/user-api/internal/infrastructure/sqlite"
	"github.com/eaclient/user-api/internal/repository"
)

// Stores bundles everything a backend provides. Memory is non-nil only for
// the memory backend, where the caller may schedule snapshot flushes.
type Stores struct {
	Users     repository.UserRepository
	AuthUsers repository.AuthUserRepository
	Backend   string
	Pinger    health.Pinger
	Memory    *memory.DB

	closeFn func() error
}

func (s *Stores) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// Open builds the backend named by cfg.StoreBackend. For the memory backend
// an existing snapshot file, if any, is restored first.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreBackend {
	case "memory":
		db := memory.NewDB()
		if cfg.SnapshotPath != "" {
			if err := db.LoadSnapshot(cfg.SnapshotPath); err != nil {
				return nil, fmt.Errorf("restore snapshot: %w", err)
			}
		}
		return &Stores{
			Users:     db.Users(),
			AuthUsers: db.AuthUsers(),
			Backend:   "memory",
			Pinger:    db,
			Memory:    db,
		}, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &Stores{
			Users:     db.Users(),
			AuthUsers: db.AuthUsers(),
			Backend:   "sqlite",
			Pinger:    db,
			closeFn:   db.Close,
		}, nil

	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			Users:     postgres.NewUserRepository(pool),
			AuthUsers: postgres.NewAuthUserRepository(pool),
			Backend:   "postgres",
			Pinger:    pool,
			closeFn: func() error {
				pool.Close()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
