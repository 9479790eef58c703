package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const authUserColumns = "id, username, email, password, created_at, updated_at"

var authUserPredicateColumns = map[string]string{
	"id":       "id",
	"username": "username",
	"email":    "email",
}

type AuthUserRepository struct {
	pool *pgxpool.Pool
}

func NewAuthUserRepository(pool *pgxpool.Pool) *AuthUserRepository {
	return &AuthUserRepository{pool: pool}
}

func (r *AuthUserRepository) FindAll(ctx context.Context) ([]domain.AuthUser, error) {
	return r.query(ctx, "", nil)
}

func (r *AuthUserRepository) FindOne(ctx context.Context, p repository.Predicate) (*domain.AuthUser, error) {
	where, args, err := buildWhere(p, authUserPredicateColumns)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+authUserColumns+` FROM auth_users`+where+` ORDER BY id DESC LIMIT 1`, args...)
	return scanAuthUser(row)
}

func (r *AuthUserRepository) FindMany(ctx context.Context, p repository.Predicate) ([]domain.AuthUser, error) {
	where, args, err := buildWhere(p, authUserPredicateColumns)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, where, args)
}

func (r *AuthUserRepository) Create(ctx context.Context, na domain.NewAuthUser) (*domain.AuthUser, error) {
	now := time.Now().UTC()

	row := r.pool.QueryRow(ctx,
		`INSERT INTO auth_users (username, email, password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+authUserColumns,
		na.Username, na.Email, na.Password, now, now,
	)
	a, err := scanAuthUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrCredentialsTaken
		}
		return nil, fmt.Errorf("insert auth user: %w", err)
	}
	return a, nil
}

func (r *AuthUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM auth_users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete auth user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AuthUserRepository) Count(ctx context.Context, p repository.Predicate) (int64, error) {
	where, args, err := buildWhere(p, authUserPredicateColumns)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM auth_users`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count auth users: %w", err)
	}
	return n, nil
}

func (r *AuthUserRepository) query(ctx context.Context, where string, args []any) ([]domain.AuthUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+authUserColumns+` FROM auth_users`+where+` ORDER BY id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query auth users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.AuthUser, 0)
	for rows.Next() {
		a, err := scanAuthUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate auth users: %w", err)
	}
	return out, nil
}

func scanAuthUser(row pgx.Row) (*domain.AuthUser, error) {
	var a domain.AuthUser
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Password, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuthUserNotFound
		}
		return nil, err
	}
	return &a, nil
}
