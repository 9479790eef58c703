package memory

import (
	"context"
	"sort"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
)

type AuthUserRepository struct {
	db *DB
}

func (r *AuthUserRepository) FindAll(_ context.Context) ([]domain.AuthUser, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]domain.AuthUser, 0, len(r.db.authUsers))
	for _, a := range r.db.authUsers {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *AuthUserRepository) FindOne(_ context.Context, p repository.Predicate) (*domain.AuthUser, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ids := make([]int64, 0, len(r.db.authUsers))
	for id := range r.db.authUsers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	for _, id := range ids {
		a := r.db.authUsers[id]
		ok, err := authUserMatches(a, p)
		if err != nil {
			return nil, err
		}
		if ok {
			return &a, nil
		}
	}
	return nil, domain.ErrAuthUserNotFound
}

func (r *AuthUserRepository) FindMany(_ context.Context, p repository.Predicate) ([]domain.AuthUser, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]domain.AuthUser, 0)
	for _, a := range r.db.authUsers {
		ok, err := authUserMatches(a, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *AuthUserRepository) Create(_ context.Context, na domain.NewAuthUser) (*domain.AuthUser, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, a := range r.db.authUsers {
		if a.Username == na.Username || a.Email == na.Email {
			return nil, domain.ErrCredentialsTaken
		}
	}

	now := r.db.now()
	r.db.authSeq++
	a := domain.AuthUser{
		ID:        r.db.authSeq,
		Username:  na.Username,
		Email:     na.Email,
		Password:  na.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.db.authUsers[a.ID] = a
	return &a, nil
}

func (r *AuthUserRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.authUsers[id]; !ok {
		return false, nil
	}
	delete(r.db.authUsers, id)
	return true, nil
}

func (r *AuthUserRepository) Count(_ context.Context, p repository.Predicate) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, a := range r.db.authUsers {
		ok, err := authUserMatches(a, p)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func authUserMatches(a domain.AuthUser, p repository.Predicate) (bool, error) {
	for field, v := range p {
		switch field {
		case "id":
			if !eqInt64(v, a.ID) {
				return false, nil
			}
		case "username":
			if !eqString(v, a.Username) {
				return false, nil
			}
		case "email":
			if !eqString(v, a.Email) {
				return false, nil
			}
		default:
			return false, unknownField(field)
		}
	}
	return true, nil
}
