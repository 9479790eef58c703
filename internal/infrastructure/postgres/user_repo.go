package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = "id, name, email, age, city, created_at, updated_at"

var userPredicateColumns = map[string]string{
	"id":    "id",
	"name":  "name",
	"email": "email",
	"age":   "age",
	"city":  "city",
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, "", nil)
}

func (r *UserRepository) FindOne(ctx context.Context, p repository.Predicate) (*domain.User, error) {
	where, args, err := buildWhere(p, userPredicateColumns)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY id DESC LIMIT 1`, args...)
	return scanUser(row)
}

func (r *UserRepository) FindMany(ctx context.Context, p repository.Predicate) ([]domain.User, error) {
	where, args, err := buildWhere(p, userPredicateColumns)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, where, args)
}

func (r *UserRepository) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	now := time.Now().UTC()

	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, age, city, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		nu.Name, nu.Email, nu.Age, nu.City, now, now,
	)
	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name.Set && patch.Name.Valid {
		add("name", patch.Name.Value)
	}
	if patch.Email.Set && patch.Email.Valid {
		add("email", patch.Email.Value)
	}
	if patch.Age.Set {
		if patch.Age.Valid {
			add("age", patch.Age.Value)
		} else {
			add("age", nil)
		}
	}
	if patch.City.Set {
		if patch.City.Valid {
			add("city", patch.City.Value)
		} else {
			add("city", nil)
		}
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+
			fmt.Sprintf(` WHERE id = $%d RETURNING `, len(args))+userColumns,
		args...,
	)
	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) Count(ctx context.Context, p repository.Predicate) (int64, error) {
	where, args, err := buildWhere(p, userPredicateColumns)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) query(ctx context.Context, where string, args []any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.City, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
