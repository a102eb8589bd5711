// ABOUTME: HTTP middleware enforcing Basic auth on protected URL prefixes
// ABOUTME: Emits the realm challenge on deny and stores the user in context

package auth

import (
	"net/http"
)

// Middleware wraps handlers with a Basic auth check for one realm. Denied
// requests receive a 401 carrying the realm challenge and no further detail;
// allowed requests carry the authenticated user in their context.
func (c *Checker) Middleware(realmName, passwordFile string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := c.Verify(r.Context(), r.Header.Get("Authorization"), passwordFile)
			if !ok {
				w.Header().Set("WWW-Authenticate", Challenge(realmName))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user := &User{Name: username, Realm: realmName}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
