package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAuthUserNotFound   = errors.New("auth user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrCredentialsTaken   = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenInvalid       = errors.New("token is invalid")
)

// User is a plain "users" resource record. Email is unique across all users.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int64    `json:"age"`
	City      *string   `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser carries the caller-supplied fields of a user to create.
// ID and timestamps are always store-assigned.
type NewUser struct {
	Name  string
	Email string
	Age   *int64
	City  *string
}

// UserPatch is a partial update. A field that was not submitted leaves the
// stored value unchanged; an explicit null clears Age or City.
type UserPatch struct {
	Name  Optional[string] `json:"name"`
	Email Optional[string] `json:"email"`
	Age   Optional[int64]  `json:"age"`
	City  Optional[string] `json:"city"`
}

// IsZero reports whether the patch touches no fields at all.
func (p UserPatch) IsZero() bool {
	return !p.Name.Set && !p.Email.Set && !p.Age.Set && !p.City.Set
}
