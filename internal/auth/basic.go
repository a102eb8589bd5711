// ABOUTME: HTTP Basic Authentication checker backed by realm password files
// ABOUTME: Parses Authorization headers and produces WWW-Authenticate challenges

package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/realmgate/internal/conf"
	"github.com/2389/realmgate/internal/realm"
)

// basicPrefix is the exact scheme prefix. The match is case-sensitive.
const basicPrefix = "Basic "

// Checker decides allow/deny for Basic Authorization headers against a realm
// password file. Every failure mode collapses to a single deny so a client
// cannot distinguish an unknown user from a wrong password; the individual
// reasons are logged at debug level for operators only.
type Checker struct {
	store  *realm.Store
	logger *slog.Logger
}

// NewChecker creates a Checker over the given realm password store.
func NewChecker(store *realm.Store, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		store:  store,
		logger: logger.With("component", "auth"),
	}
}

// Verify checks header, the raw Authorization value (empty when the header
// is absent), against the credentials in passwordFile. It returns the
// authenticated username and whether the request is allowed.
func (c *Checker) Verify(ctx context.Context, header, passwordFile string) (string, bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		c.logger.Debug("authorization header absent or not Basic")
		return "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(basicPrefix):])
	if err != nil {
		c.logger.Debug("credential payload is not valid base64", "error", err)
		return "", false
	}
	// The decoded buffer holds the cleartext password; scrub it on every
	// exit path.
	defer realm.WipeBytes(decoded)

	if len(decoded) >= conf.MaxLineLen {
		c.logger.Debug("credential payload exceeds line bound", "len", len(decoded))
		return "", false
	}

	colon := bytes.IndexByte(decoded, ':')
	if colon < 0 {
		c.logger.Debug("credential payload has no colon separator")
		return "", false
	}
	username := string(decoded[:colon])
	password := decoded[colon+1:]

	entry, err := c.store.Acquire(ctx, passwordFile)
	if err != nil {
		c.logger.Debug("realm password file unavailable", "file", passwordFile, "error", err)
		return "", false
	}
	defer entry.Release()

	stored, ok := entry.Credentials().Password(username)
	if !ok {
		c.logger.Debug("unknown username", "file", passwordFile)
		return "", false
	}

	// Plain byte comparison, matching the original design. A constant-time
	// compare would be a behavioral change; see DESIGN.md.
	if !bytes.Equal(password, stored) {
		c.logger.Debug("password mismatch", "file", passwordFile)
		return "", false
	}

	return username, true
}

// Challenge returns the WWW-Authenticate value prompting credentials for the
// named realm.
func Challenge(realmName string) string {
	return fmt.Sprintf("Basic realm=%q", realmName)
}
