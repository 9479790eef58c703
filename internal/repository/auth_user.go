package repository

import (
	"context"

	"github.com/eaclient/user-api/internal/domain"
)

// AuthUserRepository is the record store for login accounts. Same contract
// shape as UserRepository; the unique-key field set here is {username, email},
// and collisions on either surface as domain.ErrCredentialsTaken.
type AuthUserRepository interface {
	FindAll(ctx context.Context) ([]domain.AuthUser, error)
	FindOne(ctx context.Context, p Predicate) (*domain.AuthUser, error)
	FindMany(ctx context.Context, p Predicate) ([]domain.AuthUser, error)
	Create(ctx context.Context, na domain.NewAuthUser) (*domain.AuthUser, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context, p Predicate) (int64, error)
}
