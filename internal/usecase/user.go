package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
)

type UserUsecase struct {
	repo repository.UserRepository
}

func NewUserUsecase(repo repository.UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

type CreateUserInput struct {
	Name  string
	Email string
	Age   *int64
	City  *string
}

func (u *UserUsecase) List(ctx context.Context) ([]domain.User, error) {
	users, err := u.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (u *UserUsecase) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.repo.FindOne(ctx, repository.Predicate{"id": id})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create rejects a taken email before inserting. The store enforces the
// same invariant, so the pre-check only exists to give the caller the
// specific "email in use" answer instead of a bare constraint failure.
func (u *UserUsecase) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	_, err := u.repo.FindOne(ctx, repository.Predicate{"email": input.Email})
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	user, err := u.repo.Create(ctx, domain.NewUser{
		Name:  input.Name,
		Email: input.Email,
		Age:   input.Age,
		City:  input.City,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial update. A changed email is re-checked against
// every other record first; updated_at refreshes even for a no-op patch.
func (u *UserUsecase) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	current, err := u.repo.FindOne(ctx, repository.Predicate{"id": id})
	if err != nil {
		return nil, err
	}

	if patch.Email.Set && patch.Email.Valid && patch.Email.Value != current.Email {
		_, err := u.repo.FindOne(ctx, repository.Predicate{"email": patch.Email.Value})
		switch {
		case err == nil:
			return nil, domain.ErrEmailTaken
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	user, err := u.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the record and returns it, so callers can name what was
// deleted in their confirmation payload.
func (u *UserUsecase) Delete(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.repo.FindOne(ctx, repository.Predicate{"id": id})
	if err != nil {
		return nil, err
	}

	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
