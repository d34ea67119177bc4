package model

import (
	"context"

	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const authContextKey contextKey = "authContext"

// AuthContext contains authentication information extracted from a
// validated access token, preserved across async boundaries
type AuthContext struct {
	UserID types.UserID `json:"user_id,omitempty"`
	Roles  []string     `json:"roles,omitempty"`
}

// WithAuthContext adds AuthContext to the context
func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	if authCtx == nil {
		return ctx
	}
	return context.WithValue(ctx, authContextKey, authCtx)
}

// GetAuthContext retrieves AuthContext from the context
func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	authCtx, ok := ctx.Value(authContextKey).(*AuthContext)
	return authCtx, ok
}

// HasRole checks whether the authenticated user holds the given role
func (a *AuthContext) HasRole(role string) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Clone creates a copy of the AuthContext
func (a *AuthContext) Clone() *AuthContext {
	if a == nil {
		return nil
	}
	roles := make([]string, len(a.Roles))
	copy(roles, a.Roles)
	return &AuthContext{
		UserID: a.UserID,
		Roles:  roles,
	}
}
