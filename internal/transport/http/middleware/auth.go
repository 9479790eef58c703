package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized, please log in"

// AuthUserKey is the gin context key under which Auth stores the
// authenticated account.
const AuthUserKey = "authUser"

// Authenticator resolves a raw bearer token to the account it belongs to.
// Implemented by usecase.AuthUsecase; defined here so tests can inject a fake.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.AuthUser, error)
}

// Auth requires a valid Authorization: Bearer <token> header and stores the
// resolved account in the gin context. Tokens carry no signature or expiry,
// so "valid" only means the token parses to an account that still exists.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		user, err := auth.Authenticate(c.Request.Context(), rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// AuthUserFromContext returns the account stored by Auth, or nil when the
// middleware did not run.
func AuthUserFromContext(c *gin.Context) *domain.AuthUser {
	v, ok := c.Get(AuthUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.AuthUser)
	return user
}
