// ABOUTME: In-memory credential index parsed from one realm password file
// ABOUTME: Passwords stay wipeable byte slices so teardown can scrub them

package realm

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/2389/realmgate/internal/conf"
)

// Credentials maps usernames to passwords for a single load of one realm
// password file. The index is read-only after construction; teardown
// overwrites every stored byte with the wipe sentinel before the index is
// dropped.
//
// Passwords are held in plain text, mirroring the on-disk format. That is a
// known weakness of this design, kept deliberately; see DESIGN.md.
type Credentials struct {
	users map[string]*credential
}

type credential struct {
	name     []byte
	password []byte
}

// Password returns the stored password for name.
func (c *Credentials) Password(name string) ([]byte, bool) {
	cred, ok := c.users[name]
	if !ok {
		return nil, false
	}
	return cred.password, true
}

// Len returns the number of stored users.
func (c *Credentials) Len() int {
	return len(c.users)
}

// wipe overwrites every stored username and password byte and drops the
// index. It also runs on partially built indexes when a load fails.
func (c *Credentials) wipe() {
	for _, cred := range c.users {
		WipeBytes(cred.name)
		WipeBytes(cred.password)
	}
	c.users = nil
}

// loadCredentials reads a `username = password` file into a fresh index.
// A duplicate username is a warning and keeps the first value; a malformed
// record aborts the load, wiping whatever was already built.
func loadCredentials(path string, logger *slog.Logger) (*Credentials, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening password file: %w", err)
	}
	defer f.Close()

	creds := &Credentials{users: make(map[string]*credential)}

	r := conf.NewReader(f)
	for {
		line, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			creds.wipe()
			return nil, fmt.Errorf("password file %s: %w", path, err)
		}

		if _, exists := creds.users[line.Key]; exists {
			logger.Warn("username entry already exists, ignoring",
				"file", path, "user", line.Key, "line", line.Num)
			continue
		}

		creds.users[line.Key] = &credential{
			name:     []byte(line.Key),
			password: []byte(line.Value),
		}
	}

	return creds, nil
}
