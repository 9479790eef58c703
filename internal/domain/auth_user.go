package domain

import "time"

// AuthUser is a login account. Username and email are each unique across all
// accounts. The password is stored exactly as submitted, matching the demo
// system being reimplemented, and never serializes to JSON.
type AuthUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAuthUser carries the caller-supplied fields of an account to create.
type NewAuthUser struct {
	Username string
	Email    string
	Password string
}
