// ABOUTME: Authenticated-user context for tracking identity through handlers
// ABOUTME: Provides WithUser/UserFromContext for propagating auth info

package auth

import (
	"context"
)

// User holds the authenticated identity extracted from a request. It is
// populated by the middleware and can be retrieved from context in handlers.
type User struct {
	Name  string // username from the Authorization header
	Realm string // display name of the realm that admitted the user
}

// userContextKey is the key type for storing a User in context.Context.
type userContextKey struct{}

// WithUser returns a new context with the User attached.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the User from the context, returning nil if not
// present.
func UserFromContext(ctx context.Context) *User {
	val := ctx.Value(userContextKey{})
	if val == nil {
		return nil
	}
	user, ok := val.(*User)
	if !ok {
		return nil
	}
	return user
}
