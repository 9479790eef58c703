package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
	"github.com/eaclient/user-api/internal/token"
)

type AuthUsecase struct {
	repo repository.AuthUserRepository
}

func NewAuthUsecase(repo repository.AuthUserRepository) *AuthUsecase {
	return &AuthUsecase{repo: repo}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an account and issues its first token. Username and email
// are checked jointly: a collision on either rejects the whole registration.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (string, *domain.AuthUser, error) {
	for _, p := range []repository.Predicate{
		{"username": input.Username},
		{"email": input.Email},
	} {
		_, err := u.repo.FindOne(ctx, p)
		switch {
		case err == nil:
			return "", nil, domain.ErrCredentialsTaken
		case !errors.Is(err, domain.ErrAuthUserNotFound):
			return "", nil, fmt.Errorf("check credentials: %w", err)
		}
	}

	user, err := u.repo.Create(ctx, domain.NewAuthUser{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return "", nil, err
	}
	return token.Issue(user.ID), user, nil
}

// Login compares the stored password byte for byte; the accounts hold
// whatever was submitted at registration, unhashed. Unknown username and
// wrong password are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, username, password string) (string, *domain.AuthUser, error) {
	user, err := u.repo.FindOne(ctx, repository.Predicate{"username": username})
	if err != nil {
		if errors.Is(err, domain.ErrAuthUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find account: %w", err)
	}

	if user.Password != password {
		return "", nil, domain.ErrInvalidCredentials
	}
	return token.Issue(user.ID), user, nil
}

// Authenticate resolves a bearer token to the account it was issued for.
func (u *AuthUsecase) Authenticate(ctx context.Context, rawToken string) (*domain.AuthUser, error) {
	id, err := token.Resolve(rawToken)
	if err != nil {
		return nil, err
	}

	user, err := u.repo.FindOne(ctx, repository.Predicate{"id": id})
	if err != nil {
		if errors.Is(err, domain.ErrAuthUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return user, nil
}
