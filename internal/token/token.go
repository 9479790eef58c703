// Package token issues the opaque bearer tokens the demo auth flow uses.
//
// A token is "token_<issued-at-millis>_<user-id>". It carries no signature
// and no expiry: validity means nothing more than "parses back to the id of
// an account that still exists". That is the documented behavior of the
// system this one reimplements. Do not harden it here without changing the
// clients too.
package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eaclient/user-api/internal/domain"
)

const prefix = "token"

// Issue returns a fresh token for the given account id.
func Issue(userID int64) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixMilli(), userID)
}

// Resolve parses a token back to the account id it was issued for.
// Returns domain.ErrTokenInvalid for anything that does not look like an
// issued token.
func Resolve(tok string) (int64, error) {
	parts := strings.Split(tok, "_")
	if len(parts) != 3 || parts[0] != prefix {
		return 0, domain.ErrTokenInvalid
	}
	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return 0, domain.ErrTokenInvalid
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrTokenInvalid
	}
	return id, nil
}
