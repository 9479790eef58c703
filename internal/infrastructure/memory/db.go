// Package memory is the in-process record store backend. All state lives in
// maps guarded by one mutex, so every operation runs to completion before the
// next; the check-then-insert uniqueness race the SQL backends tolerate does
// not exist here. Contents are lost on exit unless snapshots are enabled.
package memory

import (
	"sync"
	"time"

	"github.com/eaclient/user-api/internal/domain"
)

type DB struct {
	mu sync.RWMutex

	users     map[int64]domain.User
	authUsers map[int64]domain.AuthUser

	userSeq int64
	authSeq int64

	now func() time.Time
}

func NewDB() *DB {
	return &DB{
		users:     make(map[int64]domain.User),
		authUsers: make(map[int64]domain.AuthUser),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (db *DB) Users() *UserRepository         { return &UserRepository{db: db} }
func (db *DB) AuthUsers() *AuthUserRepository { return &AuthUserRepository{db: db} }
