package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
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
	db *sql.DB
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, "", nil)
}

func (r *UserRepository) FindOne(ctx context.Context, p repository.Predicate) (*domain.User, error) {
	where, args, err := buildWhere(p, userPredicateColumns)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY id DESC LIMIT 1`, args...)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	return u, nil
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

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, age, city, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nu.Name, nu.Email, nullInt(nu.Age), nullString(nu.City), now, now,
	)
	if err != nil {
		if isUniqueViolation(err, "users") {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.FindOne(ctx, repository.Predicate{"id": id})
}

func (r *UserRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if patch.Name.Set && patch.Name.Valid {
		sets = append(sets, "name = ?")
		args = append(args, patch.Name.Value)
	}
	if patch.Email.Set && patch.Email.Valid {
		sets = append(sets, "email = ?")
		args = append(args, patch.Email.Value)
	}
	if patch.Age.Set {
		sets = append(sets, "age = ?")
		if patch.Age.Valid {
			args = append(args, patch.Age.Value)
		} else {
			args = append(args, nil)
		}
	}
	if patch.City.Set {
		sets = append(sets, "city = ?")
		if patch.City.Valid {
			args = append(args, patch.City.Value)
		} else {
			args = append(args, nil)
		}
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isUniqueViolation(err, "users") {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindOne(ctx, repository.Predicate{"id": id})
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *UserRepository) Count(ctx context.Context, p repository.Predicate) (int64, error) {
	where, args, err := buildWhere(p, userPredicateColumns)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) query(ctx context.Context, where string, args []any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u    domain.User
		age  sql.NullInt64
		city sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &age, &city, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if age.Valid {
		u.Age = &age.Int64
	}
	if city.Valid {
		u.City = &city.String
	}
	return &u, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
