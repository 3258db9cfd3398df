// Package auth provides JWT-based authentication for chatdb-engine.
// It validates bearer tokens issued by the external identity provider
// using JWKS endpoints.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ankita1800/chatdb-engine/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserKey is the context key for storing the authenticated user.
	UserKey contextKey = "user"
)

// Claims represents the JWT claims structure issued by the identity provider.
// It embeds RegisteredClaims for standard JWT fields (sub, aud, exp, etc.)
// and adds the custom claims this service reads.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"` // User email address
	Role  string `json:"role,omitempty"`  // Provider role, e.g. "authenticated"
}

// User converts verified claims into an AuthUser.
func (c *Claims) User() *models.AuthUser {
	role := c.Role
	if role == "" {
		role = "authenticated"
	}
	return &models.AuthUser{
		ID:    c.Subject,
		Email: c.Email,
		Role:  role,
	}
}

// GetUser retrieves the authenticated user from the request context.
// Returns nil and false if no user is present.
func GetUser(ctx context.Context) (*models.AuthUser, bool) {
	user, ok := ctx.Value(UserKey).(*models.AuthUser)
	return user, ok
}

// SetUser stores the authenticated user in the context. Exposed for tests
// that exercise handlers below the middleware.
func SetUser(ctx context.Context, user *models.AuthUser) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
