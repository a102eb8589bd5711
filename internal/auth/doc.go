// Package auth provides HTTP Basic Authentication for realmgate.
//
// # Model
//
// Each protected URL prefix belongs to a realm, identified by the path of
// its password file. Password files are ordered `username = password`
// records read through internal/conf and cached per path by
// internal/realm's Store, so a check does not re-read the file on every
// request.
//
// # Request flow
//
// The middleware reads the raw Authorization value and hands it to
// Checker.Verify, which strips the exact "Basic " prefix, Base64-decodes
// the remainder, bounds its size, splits at the first colon and compares
// the supplied password against the cached index. Any failure, from a
// missing header to a wrong password, collapses to one deny: a 401 with
//
//	WWW-Authenticate: Basic realm="<realm>"
//
// and nothing else, so responses cannot be used to enumerate usernames.
//
// # Handlers
//
// Admitted requests carry the identity in their context:
//
//	user := auth.UserFromContext(r.Context())
package auth
