// Package seed inserts the demo data the original system shipped with: one
// admin account and two sample users. Both inserts are skipped when records
// already exist, so re-running is safe.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
)

func Demo(ctx context.Context, users repository.UserRepository, authUsers repository.AuthUserRepository, logger *slog.Logger) error {
	n, err := authUsers.Count(ctx, repository.Predicate{"username": adminUsername})
	if err != nil {
		return fmt.Errorf("count admin accounts: %w", err)
	}
	if n == 0 {
		if _, err := authUsers.Create(ctx, domain.NewAuthUser{
			Username: adminUsername,
			Email:    adminEmail,
			Password: adminPassword,
		}); err != nil {
			return fmt.Errorf("create admin account: %w", err)
		}
		logger.Info("default admin account created", "username", adminUsername)
	}

	n, err = users.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n == 0 {
		for _, nu := range []domain.NewUser{
			{Name: "Alice", Email: "alice@example.com", Age: ptr(int64(28)), City: ptr("Beijing")},
			{Name: "Bob", Email: "bob@example.com", Age: ptr(int64(32)), City: ptr("Shanghai")},
		} {
			if _, err := users.Create(ctx, nu); err != nil {
				return fmt.Errorf("create sample user %s: %w", nu.Name, err)
			}
		}
		logger.Info("sample users created")
	}

	return nil
}

func ptr[T any](v T) *T { return &v }
