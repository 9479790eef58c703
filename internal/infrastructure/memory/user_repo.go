package memory

import (
	"context"
	"sort"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
)

type UserRepository struct {
	db *DB
}

func (r *UserRepository) FindAll(_ context.Context) ([]domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]domain.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sortUsersByIDDesc(out)
	return out, nil
}

func (r *UserRepository) FindOne(_ context.Context, p repository.Predicate) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.findOneLocked(p)
}

func (r *UserRepository) FindMany(_ context.Context, p repository.Predicate) ([]domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]domain.User, 0)
	for _, u := range r.db.users {
		ok, err := userMatches(u, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, u)
		}
	}
	sortUsersByIDDesc(out)
	return out, nil
}

func (r *UserRepository) Create(_ context.Context, nu domain.NewUser) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == nu.Email {
			return nil, domain.ErrEmailTaken
		}
	}

	now := r.db.now()
	r.db.userSeq++
	u := domain.User{
		ID:        r.db.userSeq,
		Name:      nu.Name,
		Email:     nu.Email,
		Age:       nu.Age,
		City:      nu.City,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.db.users[u.ID] = u
	return &u, nil
}

func (r *UserRepository) Update(_ context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	if patch.Email.Set && patch.Email.Valid && patch.Email.Value != u.Email {
		for _, other := range r.db.users {
			if other.ID != id && other.Email == patch.Email.Value {
				return nil, domain.ErrEmailTaken
			}
		}
	}

	if patch.Name.Set && patch.Name.Valid {
		u.Name = patch.Name.Value
	}
	if patch.Email.Set && patch.Email.Valid {
		u.Email = patch.Email.Value
	}
	if patch.Age.Set {
		if patch.Age.Valid {
			v := patch.Age.Value
			u.Age = &v
		} else {
			u.Age = nil
		}
	}
	if patch.City.Set {
		if patch.City.Valid {
			v := patch.City.Value
			u.City = &v
		} else {
			u.City = nil
		}
	}
	u.UpdatedAt = r.db.now()

	r.db.users[id] = u
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[id]; !ok {
		return false, nil
	}
	delete(r.db.users, id)
	return true, nil
}

func (r *UserRepository) Count(_ context.Context, p repository.Predicate) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, u := range r.db.users {
		ok, err := userMatches(u, p)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) findOneLocked(p repository.Predicate) (*domain.User, error) {
	// Scan in id-descending order so FindOne is deterministic when several
	// records match.
	ids := make([]int64, 0, len(r.db.users))
	for id := range r.db.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	for _, id := range ids {
		u := r.db.users[id]
		ok, err := userMatches(u, p)
		if err != nil {
			return nil, err
		}
		if ok {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func userMatches(u domain.User, p repository.Predicate) (bool, error) {
	for field, v := range p {
		switch field {
		case "id":
			if !eqInt64(v, u.ID) {
				return false, nil
			}
		case "name":
			if !eqString(v, u.Name) {
				return false, nil
			}
		case "email":
			if !eqString(v, u.Email) {
				return false, nil
			}
		case "age":
			if u.Age == nil || !eqInt64(v, *u.Age) {
				return false, nil
			}
		case "city":
			if u.City == nil || !eqString(v, *u.City) {
				return false, nil
			}
		default:
			return false, unknownField(field)
		}
	}
	return true, nil
}

func sortUsersByIDDesc(users []domain.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
}
