package repository

import (
	"context"

	"github.com/eaclient/user-api/internal/domain"
)

// UserRepository is the record-store contract for the "users" collection.
// Every backend (memory, sqlite, postgres) implements the same operations so
// the HTTP layer never cares which one was configured at startup.
//
// Guarantees common to all backends:
//   - FindAll and FindMany return records ordered by id descending.
//   - Create assigns id, created_at and updated_at; caller values are ignored.
//   - Create and Update surface unique-email collisions as domain.ErrEmailTaken.
//   - Update refreshes updated_at even when no other field changes.
//   - Delete reports false, not an error, for an id that never existed.
type UserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindOne(ctx context.Context, p Predicate) (*domain.User, error)
	FindMany(ctx context.Context, p Predicate) ([]domain.User, error)
	Create(ctx context.Context, nu domain.NewUser) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context, p Predicate) (int64, error)
}
