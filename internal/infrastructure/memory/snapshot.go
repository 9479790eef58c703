package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eaclient/user-api/internal/domain"
)

// snapshot is the on-disk form of the whole database. Passwords are included
// verbatim; the store keeps whatever it was given.
type snapshot struct {
	Users     []domain.User `json:"users"`
	AuthUsers []authRecord  `json:"auth_users"`
	UserSeq   int64         `json:"user_seq"`
	AuthSeq   int64         `json:"auth_seq"`
}

// authRecord exists because domain.AuthUser hides Password from JSON, and the
// snapshot must round-trip it.
type authRecord struct {
	domain.AuthUser
	Password string `json:"password"`
}

// SaveSnapshot writes the full database state to path atomically
// (temp file + rename). Intended to be called from a periodic flush job;
// request handlers never wait on it.
func (db *DB) SaveSnapshot(path string) error {
	db.mu.RLock()
	snap := snapshot{
		Users:     make([]domain.User, 0, len(db.users)),
		AuthUsers: make([]authRecord, 0, len(db.authUsers)),
		UserSeq:   db.userSeq,
		AuthSeq:   db.authSeq,
	}
	for _, u := range db.users {
		snap.Users = append(snap.Users, u)
	}
	for _, a := range db.authUsers {
		snap.AuthUsers = append(snap.AuthUsers, authRecord{AuthUser: a, Password: a.Password})
	}
	db.mu.RUnlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores state from an earlier SaveSnapshot. A missing file is
// not an error; the database simply starts empty.
func (db *DB) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.users = make(map[int64]domain.User, len(snap.Users))
	for _, u := range snap.Users {
		db.users[u.ID] = u
	}
	db.authUsers = make(map[int64]domain.AuthUser, len(snap.AuthUsers))
	for _, rec := range snap.AuthUsers {
		a := rec.AuthUser
		a.Password = rec.Password
		db.authUsers[a.ID] = a
	}
	db.userSeq = snap.UserSeq
	db.authSeq = snap.AuthSeq
	return nil
}

// Ping satisfies the health checker; the in-memory backend is always up.
func (db *DB) Ping(_ context.Context) error { return nil }
