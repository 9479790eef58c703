package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
)

const authUserColumns = "id, username, email, password, created_at, updated_at"

var authUserPredicateColumns = map[string]string{
	"id":       "id",
	"username": "username",
	"email":    "email",
}

type AuthUserRepository struct {
	db *sql.DB
}

func (r *AuthUserRepository) FindAll(ctx context.Context) ([]domain.AuthUser, error) {
	return r.query(ctx, "", nil)
}

func (r *AuthUserRepository) FindOne(ctx context.Context, p repository.Predicate) (*domain.AuthUser, error) {
	where, args, err := buildWhere(p, authUserPredicateColumns)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx,
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

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_users (username, email, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		na.Username, na.Email, na.Password, now, now,
	)
	if err != nil {
		if isUniqueViolation(err, "auth_users") {
			return nil, domain.ErrCredentialsTaken
		}
		return nil, fmt.Errorf("insert auth user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.FindOne(ctx, repository.Predicate{"id": id})
}

func (r *AuthUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM auth_users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete auth user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *AuthUserRepository) Count(ctx context.Context, p repository.Predicate) (int64, error) {
	where, args, err := buildWhere(p, authUserPredicateColumns)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM auth_users`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count auth users: %w", err)
	}
	return n, nil
}

func (r *AuthUserRepository) query(ctx context.Context, where string, args []any) ([]domain.AuthUser, error) {
	rows, err := r.db.QueryContext(ctx,
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

func scanAuthUser(row rowScanner) (*domain.AuthUser, error) {
	var a domain.AuthUser
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Password, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAuthUserNotFound
		}
		return nil, fmt.Errorf("scan auth user: %w", err)
	}
	return &a, nil
}
